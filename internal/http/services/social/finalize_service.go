package social

import (
	"context"
	"errors"
)

// FinalizeService resuelve la identidad pendiente contra las cuentas
// locales y deja al usuario logueado. La identidad pendiente se consume:
// una segunda llamada devuelve ErrNoPendingIdentity.
type FinalizeService interface {
	Finalize(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error)
}

type FinalizeRequest struct {
	SessionID string
}

type FinalizeResult struct {
	// NewSessionID es el id rotado tras el login; reemplaza la cookie.
	NewSessionID string
	AccountID    string
	Email        string
}

var (
	ErrNoPendingIdentity = errors.New("no pending identity")
	ErrNeedsEmail        = errors.New("email required")
	ErrAccountConflict   = errors.New("account conflict")
)
