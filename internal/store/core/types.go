// Package core define los tipos y contratos de persistencia del
// conector social. Las cuentas viven por website y los vínculos con
// proveedores externos son únicos por (social_id, type, website_id).
package core

import "time"

// Account es una cuenta de cliente dentro de un website.
type Account struct {
	ID        string
	WebsiteID int64
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// NewAccount son los datos mínimos para crear una cuenta.
type NewAccount struct {
	WebsiteID    int64
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}

// IdentityLink vincula una identidad externa con una cuenta local.
type IdentityLink struct {
	ID         string
	SocialID   string // id del usuario en el proveedor
	CustomerID string
	Type       string // facebook | google
	WebsiteID  int64
	CreatedAt  time.Time
}

// NotificationVariant distingue el correo de bienvenida según la cuenta
// haya quedado con credencial propia o generada.
type NotificationVariant string

const (
	NotifyRegistered           NotificationVariant = "registered"
	NotifyRegisteredNoPassword NotificationVariant = "registered_no_password"
)
