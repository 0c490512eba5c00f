// Package social contiene los servicios del flujo de login social:
// connect (arranque), callback (retorno del proveedor) y finalize
// (resolución de cuenta y login).
package social

// Services agrupa los servicios del dominio social.
type Services struct {
	Connect  ConnectService
	Callback CallbackService
	Finalize FinalizeService
}
