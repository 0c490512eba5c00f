package core

import "context"

// AccountStore es el contrato de persistencia de cuentas y vínculos.
// Las implementaciones devuelven ErrNotFound cuando no hay fila y
// ErrAlreadyExists ante violaciones de unicidad.
type AccountStore interface {
	// FindLink busca el vínculo por identidad externa dentro del website.
	FindLink(ctx context.Context, socialID, typ string, websiteID int64) (*IdentityLink, error)
	CreateLink(ctx context.Context, socialID, customerID, typ string, websiteID int64) (*IdentityLink, error)

	FindAccountByEmail(ctx context.Context, email string, websiteID int64) (*Account, error)
	FindAccountByID(ctx context.Context, id string) (*Account, error)
	CreateAccount(ctx context.Context, na NewAccount) (*Account, error)
	// DeleteAccount elimina la cuenta y, en cascada, sus vínculos.
	DeleteAccount(ctx context.Context, id string) error

	Ping(ctx context.Context) error
	Close()
}
