package oauth

// ExternalIdentity es el perfil normalizado que retorna un proveedor después
// de un fetch exitoso. Inmutable una vez construido; lo produce el Fetcher y
// lo consume el linker. Los campos opcionales quedan vacíos cuando el
// proveedor no los entrega: nunca se inventan defaults acá, la política de
// qué hacer con un email ausente vive río abajo.
type ExternalIdentity struct {
	Provider      string
	ExternalID    string
	Email         string
	FirstName     string
	LastName      string
	DisplayName   string
	EmailVerified bool
}

// HasEmail reporta si el proveedor entregó un email.
func (id ExternalIdentity) HasEmail() bool { return id.Email != "" }
