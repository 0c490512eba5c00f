package social

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dropDatabas3/socialgate/internal/metrics"
	"github.com/dropDatabas3/socialgate/internal/oauth"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/provider"
	"github.com/dropDatabas3/socialgate/internal/session"
)

// Exchanger intercambia el código por un access token y lo verifica.
// Implementado por oauth.Client.
type Exchanger interface {
	Exchange(ctx context.Context, p *provider.Provider, code string) (string, error)
	Verify(ctx context.Context, p *provider.Provider, accessToken string) error
}

// ProfileFetcher trae el perfil del proveedor. Implementado por oauth.Fetcher.
type ProfileFetcher interface {
	Fetch(ctx context.Context, p *provider.Provider, accessToken string) (oauth.ExternalIdentity, error)
}

// CallbackDeps contiene las dependencias del callback service.
type CallbackDeps struct {
	Registry *provider.Registry
	Sessions session.Store
	States   *session.StateIssuer
	Exchange Exchanger
	Profiles ProfileFetcher
}

type callbackService struct {
	registry *provider.Registry
	sessions session.Store
	states   *session.StateIssuer
	exchange Exchanger
	profiles ProfileFetcher
}

func NewCallbackService(d CallbackDeps) CallbackService {
	return &callbackService{
		registry: d.Registry,
		sessions: d.Sessions,
		states:   d.States,
		exchange: d.Exchange,
		profiles: d.Profiles,
	}
}

func (s *callbackService) Callback(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.callback"))

	p, err := s.registry.Get(req.Provider)
	if err != nil {
		if errors.Is(err, provider.ErrDisabled) {
			return nil, ErrProviderDisabled
		}
		return nil, ErrProviderUnknown
	}

	// El estado se consume antes de tocar la red. Si no coincide no hay
	// intercambio: el intento se descarta entero.
	ok, err := s.states.Consume(ctx, req.SessionID, p.Key, req.State)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateMismatch, err)
	}
	if !ok {
		metrics.LoginOutcomes.WithLabelValues(p.Key, metrics.OutcomeStateMismatch).Inc()
		log.Warn("state mismatch", logger.Provider(p.Key))
		return nil, ErrStateMismatch
	}

	start := time.Now()
	accessToken, err := s.exchange.Exchange(ctx, p, req.Code)
	metrics.ExchangeLatency.WithLabelValues(p.Key).Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.LoginOutcomes.WithLabelValues(p.Key, metrics.OutcomeExchangeFail).Inc()
		log.Warn("exchange failed", logger.Provider(p.Key), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	if p.RequiresVerify() {
		if err := s.exchange.Verify(ctx, p, accessToken); err != nil {
			metrics.LoginOutcomes.WithLabelValues(p.Key, metrics.OutcomeVerifyFail).Inc()
			log.Warn("token verification failed", logger.Provider(p.Key), logger.Err(err))
			return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
		}
	}

	identity, err := s.profiles.Fetch(ctx, p, accessToken)
	if err != nil {
		metrics.LoginOutcomes.WithLabelValues(p.Key, metrics.OutcomeProfileFail).Inc()
		log.Warn("profile fetch failed", logger.Provider(p.Key), logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}

	websiteID := s.websiteID(ctx, req.SessionID)
	if err := session.PutPending(ctx, s.sessions, req.SessionID, session.PendingData{
		Identity:  identity,
		WebsiteID: websiteID,
	}); err != nil {
		log.Error("failed to store pending identity", logger.Err(err))
		return nil, fmt.Errorf("storing pending identity: %w", err)
	}

	log.Info("social callback accepted",
		logger.Provider(p.Key),
		logger.WebsiteID(websiteID),
		logger.Bool("has_email", identity.HasEmail()),
	)

	return &CallbackResult{Provider: p.Key, Email: identity.Email}, nil
}

// websiteID recupera el scope dejado por connect, o el default.
func (s *callbackService) websiteID(ctx context.Context, sid string) int64 {
	raw, ok, err := s.sessions.Get(ctx, sid, session.KeyWebsiteID)
	if err != nil || !ok {
		return defaultWebsiteID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return defaultWebsiteID
	}
	return id
}
