package social

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/dropDatabas3/socialgate/internal/http/errors"
	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/session"
)

// Mensajes que ve el usuario al volver del proveedor.
const (
	msgStateMismatch = "Warning! State mismatch. Authentication attempt may have been compromised."
	msgOAuthFailed   = "Unspecified OAuth error occurred."
)

// popupCloseHTML cierra el popup y manda al opener a finalizar el login.
const popupCloseHTML = `<!DOCTYPE html><html><head><title>Login</title></head><body>
<script>
if (window.opener) {
  window.opener.location.href = "/login/finalize";
  window.close();
} else {
  window.location.href = "/login/finalize";
}
</script>
</body></html>`

// CallbackController handles GET /callback/{provider}
type CallbackController struct {
	service  svc.CallbackService
	sessions session.Store
	paths    Paths
}

func NewCallbackController(service svc.CallbackService, sessions session.Store, paths Paths) *CallbackController {
	return &CallbackController{service: service, sessions: sessions, paths: paths}
}

func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	if !ensureGet(w, r) {
		return
	}

	provider := strings.TrimSpace(chi.URLParam(r, "provider"))
	if provider == "" {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("missing provider"))
		return
	}

	sid := middlewares.GetSessionID(ctx)
	q := r.URL.Query()

	// Error reportado por el proveedor (usuario canceló, app mal
	// configurada, etc). No hay nada que intercambiar.
	if idpError := strings.TrimSpace(q.Get("error")); idpError != "" {
		log.Warn("idp error",
			logger.Provider(provider),
			logger.String("error", idpError),
			logger.String("description", strings.TrimSpace(q.Get("error_description"))),
		)
		c.fail(w, r, sid, msgOAuthFailed)
		return
	}

	state := strings.TrimSpace(q.Get("state"))
	code := strings.TrimSpace(q.Get("code"))
	if state == "" || code == "" {
		c.fail(w, r, sid, msgStateMismatch)
		return
	}

	_, err := c.service.Callback(ctx, svc.CallbackRequest{
		Provider:  provider,
		SessionID: sid,
		State:     state,
		Code:      code,
	})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrStateMismatch):
			c.fail(w, r, sid, msgStateMismatch)
		case errors.Is(err, svc.ErrProviderUnknown), errors.Is(err, svc.ErrProviderDisabled):
			httperrors.WriteError(w, httperrors.ErrProviderNotFound)
		case errors.Is(err, svc.ErrExchangeFailed),
			errors.Is(err, svc.ErrVerificationFailed),
			errors.Is(err, svc.ErrProfileUnavailable):
			c.fail(w, r, sid, msgOAuthFailed)
		default:
			log.Error("callback failed", logger.Provider(provider), logger.Err(err))
			c.fail(w, r, sid, msgOAuthFailed)
		}
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	// Desktop llega en un popup que hay que cerrar; mobile navega en la
	// misma ventana.
	if isMobile(r.UserAgent()) {
		http.Redirect(w, r, "/login/finalize", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(popupCloseHTML))
}

// fail responde según el tipo de cliente: mobile recibe un flash y
// vuelve al login, el popup de escritorio muestra el mensaje en el body
// para que el usuario lo vea antes de cerrar la ventana.
func (c *CallbackController) fail(w http.ResponseWriter, r *http.Request, sid, msg string) {
	if isMobile(r.UserAgent()) {
		setFlash(r.Context(), c.sessions, sid, msg)
		http.Redirect(w, r, c.paths.Login, http.StatusFound)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(msg))
}
