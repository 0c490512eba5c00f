package social

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/provider"
	"github.com/dropDatabas3/socialgate/internal/session"
)

// defaultWebsiteID aplica cuando el request no trae scope explícito.
const defaultWebsiteID = 1

// ConnectDeps contiene las dependencias del connect service.
type ConnectDeps struct {
	Registry *provider.Registry
	Sessions session.Store
	States   *session.StateIssuer
}

type connectService struct {
	registry *provider.Registry
	sessions session.Store
	states   *session.StateIssuer
}

func NewConnectService(d ConnectDeps) ConnectService {
	return &connectService{
		registry: d.Registry,
		sessions: d.Sessions,
		states:   d.States,
	}
}

func (s *connectService) Begin(ctx context.Context, req ConnectRequest) (*ConnectResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.connect"))

	p, err := s.registry.Get(req.Provider)
	if err != nil {
		if errors.Is(err, provider.ErrDisabled) {
			return nil, ErrProviderDisabled
		}
		return nil, ErrProviderUnknown
	}

	websiteID := req.WebsiteID
	if websiteID <= 0 {
		websiteID = defaultWebsiteID
	}
	// El scope viaja en sesión hasta que la identidad quede pendiente.
	if err := s.sessions.Set(ctx, req.SessionID, session.KeyWebsiteID, strconv.FormatInt(websiteID, 10)); err != nil {
		log.Error("failed to persist website scope", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrBeginFailed, err)
	}

	state, err := s.states.Issue(ctx, req.SessionID, p.Key)
	if err != nil {
		log.Error("failed to issue state", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrBeginFailed, err)
	}

	q := url.Values{}
	q.Set("client_id", p.ClientID)
	q.Set("redirect_uri", p.RedirectURL)
	q.Set("state", state)
	if len(p.Scopes) > 0 {
		q.Set("scope", strings.Join(p.Scopes, " "))
	}
	for k, v := range p.AuthParams {
		q.Set(k, v)
	}

	log.Info("social login started",
		logger.Provider(p.Key),
		logger.WebsiteID(websiteID),
	)

	return &ConnectResult{RedirectURL: p.AuthURL + "?" + q.Encode()}, nil
}
