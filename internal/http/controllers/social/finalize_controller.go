package social

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/session"
)

// Mensajes de la resolución de cuenta.
const (
	msgEmailRequired = "Email is Null, Please enter email in your profile"
	msgEmailConflict = "A customer with the same email already exists in an associated website."
)

// FinalizeController handles GET /login/finalize
type FinalizeController struct {
	service  svc.FinalizeService
	sessions session.Store
	cookies  middlewares.CookieOptions
	paths    Paths
}

func NewFinalizeController(service svc.FinalizeService, sessions session.Store, cookies middlewares.CookieOptions, paths Paths) *FinalizeController {
	return &FinalizeController{service: service, sessions: sessions, cookies: cookies, paths: paths}
}

func (c *FinalizeController) Finalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("FinalizeController.Finalize"))

	if !ensureGet(w, r) {
		return
	}

	sid := middlewares.GetSessionID(ctx)
	if sid == "" {
		http.Redirect(w, r, c.paths.Login, http.StatusFound)
		return
	}

	result, err := c.service.Finalize(ctx, svc.FinalizeRequest{SessionID: sid})
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrNoPendingIdentity):
			// Refresh o doble click: no hay nada que finalizar, al home.
			http.Redirect(w, r, c.paths.Home, http.StatusFound)
		case errors.Is(err, svc.ErrNeedsEmail):
			c.fail(w, r, sid, msgEmailRequired)
		case errors.Is(err, svc.ErrAccountConflict):
			c.fail(w, r, sid, msgEmailConflict)
		default:
			log.Error("finalize failed", logger.Err(err))
			c.fail(w, r, sid, msgOAuthFailed)
		}
		return
	}

	// La cookie pasa a apuntar al id rotado.
	middlewares.SetSessionCookie(w, c.cookies, result.NewSessionID)
	http.Redirect(w, r, c.paths.Home, http.StatusFound)
}

func (c *FinalizeController) fail(w http.ResponseWriter, r *http.Request, sid, msg string) {
	setFlash(r.Context(), c.sessions, sid, msg)
	http.Redirect(w, r, c.paths.Login, http.StatusFound)
}
