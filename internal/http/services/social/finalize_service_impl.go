package social

import (
	"context"
	"errors"
	"fmt"

	"github.com/dropDatabas3/socialgate/internal/linker"
	"github.com/dropDatabas3/socialgate/internal/metrics"
	"github.com/dropDatabas3/socialgate/internal/oauth"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/session"
	"github.com/dropDatabas3/socialgate/internal/store/core"
)

// AccountResolver es la vista del linker que usa este servicio.
// Implementado por linker.Linker; las pruebas usan un fake.
type AccountResolver interface {
	Resolve(ctx context.Context, id oauth.ExternalIdentity, plainPassword string, websiteID int64) (*core.Account, error)
}

// FinalizeDeps contiene las dependencias del finalize service.
type FinalizeDeps struct {
	Sessions session.Store
	Linker   AccountResolver
}

type finalizeService struct {
	sessions session.Store
	linker   AccountResolver
}

func NewFinalizeService(d FinalizeDeps) FinalizeService {
	return &finalizeService{
		sessions: d.Sessions,
		linker:   d.Linker,
	}
}

func (s *finalizeService) Finalize(ctx context.Context, req FinalizeRequest) (*FinalizeResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.finalize"))

	pending, ok, err := session.TakePending(ctx, s.sessions, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("reading pending identity: %w", err)
	}
	if !ok {
		return nil, ErrNoPendingIdentity
	}

	providerKey := pending.Identity.Provider

	acct, err := s.linker.Resolve(ctx, pending.Identity, pending.Password, pending.WebsiteID)
	if err != nil {
		switch {
		case errors.Is(err, linker.ErrNeedsEmail):
			metrics.LoginOutcomes.WithLabelValues(providerKey, metrics.OutcomeNeedsEmail).Inc()
			return nil, ErrNeedsEmail
		case errors.Is(err, linker.ErrAccountConflict):
			metrics.LoginOutcomes.WithLabelValues(providerKey, metrics.OutcomeConflict).Inc()
			return nil, ErrAccountConflict
		default:
			metrics.LoginOutcomes.WithLabelValues(providerKey, metrics.OutcomeError).Inc()
			return nil, fmt.Errorf("resolving account: %w", err)
		}
	}

	if err := s.sessions.Set(ctx, req.SessionID, session.KeyCustomerID, acct.ID); err != nil {
		return nil, fmt.Errorf("storing login: %w", err)
	}

	// Rotación del id de sesión al cambiar de privilegio.
	newSID, err := s.sessions.RegenerateID(ctx, req.SessionID)
	if err != nil {
		return nil, fmt.Errorf("rotating session: %w", err)
	}

	metrics.LoginOutcomes.WithLabelValues(providerKey, metrics.OutcomeSuccess).Inc()
	log.Info("social login completed",
		logger.Provider(providerKey),
		logger.AccountID(acct.ID),
		logger.WebsiteID(pending.WebsiteID),
	)

	return &FinalizeResult{
		NewSessionID: newSID,
		AccountID:    acct.ID,
		Email:        acct.Email,
	}, nil
}
