package social

import (
	"context"
	"errors"
)

// CallbackService valida el retorno del proveedor: estado anti-CSRF,
// intercambio de código, verificación opcional y perfil. Si todo sale
// bien deja la identidad pendiente en la sesión.
type CallbackService interface {
	Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error)
}

type CallbackRequest struct {
	Provider  string
	SessionID string
	State     string
	Code      string
}

type CallbackResult struct {
	Provider string
	Email    string // puede venir vacío si el proveedor no lo entrega
}

var (
	// ErrStateMismatch es terminal: no se intenta el intercambio.
	ErrStateMismatch      = errors.New("state mismatch")
	ErrExchangeFailed     = errors.New("code exchange failed")
	ErrVerificationFailed = errors.New("token verification failed")
	ErrProfileUnavailable = errors.New("profile unavailable")
)
