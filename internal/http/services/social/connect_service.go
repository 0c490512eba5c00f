package social

import (
	"context"
	"errors"
)

// ConnectService arma la URL de autorización del proveedor y deja el
// token de estado emitido en la sesión.
type ConnectService interface {
	Begin(ctx context.Context, req ConnectRequest) (*ConnectResult, error)
}

// ConnectRequest son los parámetros para iniciar el flujo.
type ConnectRequest struct {
	Provider  string
	SessionID string
	WebsiteID int64 // scope del sitio; 0 usa el default
}

// ConnectResult es la URL a la que hay que mandar al usuario.
type ConnectResult struct {
	RedirectURL string
}

var (
	ErrProviderUnknown  = errors.New("unknown provider")
	ErrProviderDisabled = errors.New("provider not enabled")
	ErrBeginFailed      = errors.New("failed to begin social login")
)
