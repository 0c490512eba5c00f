package social

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/socialgate/internal/http/errors"
	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
)

// ConnectController handles GET /connect/{provider}
type ConnectController struct {
	service svc.ConnectService
}

func NewConnectController(service svc.ConnectService) *ConnectController {
	return &ConnectController{service: service}
}

func (c *ConnectController) Connect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("ConnectController.Connect"))

	if !ensureGet(w, r) {
		return
	}

	provider := strings.TrimSpace(chi.URLParam(r, "provider"))
	if provider == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing provider"))
		return
	}

	sid := middlewares.GetSessionID(ctx)
	if sid == "" {
		log.Error("no session for connect")
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	var websiteID int64
	if raw := strings.TrimSpace(r.URL.Query().Get("scope")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("invalid scope"))
			return
		}
		websiteID = id
	}

	result, err := c.service.Begin(ctx, svc.ConnectRequest{
		Provider:  provider,
		SessionID: sid,
		WebsiteID: websiteID,
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrProviderUnknown), errors.Is(err, svc.ErrProviderDisabled):
			httperrors.WriteError(w, httperrors.ErrProviderNotFound)
		default:
			log.Error("connect failed", logger.Provider(provider), logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	http.Redirect(w, r, result.RedirectURL, http.StatusFound)
}
