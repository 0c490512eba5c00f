// Package router arma el árbol de rutas HTTP del conector.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/socialgate/internal/cache"
	ctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/social"
	httperrors "github.com/dropDatabas3/socialgate/internal/http/errors"
	mw "github.com/dropDatabas3/socialgate/internal/http/middlewares"
	"github.com/dropDatabas3/socialgate/internal/metrics"
	"github.com/dropDatabas3/socialgate/internal/rate"
	"github.com/dropDatabas3/socialgate/internal/session"
	"github.com/dropDatabas3/socialgate/internal/store/core"
)

// Deps contiene todo lo que el router necesita para armar los handlers.
type Deps struct {
	Controllers *ctrl.Controllers
	Sessions    session.Store
	Cookies     mw.CookieOptions

	ConnectLimiter  rate.Limiter // opcional
	CallbackLimiter rate.Limiter // opcional

	Store core.AccountStore // para /healthz
	Cache cache.Client      // para /healthz
}

// New construye el router con todas las rutas del flujo social.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	base := []mw.Middleware{
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithSecurityHeaders(),
		mw.WithSession(d.Sessions, d.Cookies),
		mw.WithLogging(),
	}

	social := func(limiter rate.Limiter, h http.HandlerFunc) http.Handler {
		chain := append([]mw.Middleware{}, base...)
		chain = append(chain, mw.WithNoStore())
		if limiter != nil {
			chain = append(chain, mw.WithRateLimit(limiter))
		}
		return mw.ChainFunc(h, chain...)
	}

	c := d.Controllers
	r.Method(http.MethodGet, "/connect/{provider}", social(d.ConnectLimiter, c.Connect.Connect))
	r.Method(http.MethodGet, "/callback/{provider}", social(d.CallbackLimiter, c.Callback.Callback))
	r.Method(http.MethodGet, "/login/finalize", social(nil, c.Finalize.Finalize))

	r.Get("/healthz", healthz(d))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("route not found"))
	})

	return r
}

// healthz reporta el estado de las dependencias duras.
func healthz(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := "ok"
		code := http.StatusOK

		deps := map[string]string{}
		if d.Store != nil {
			if err := d.Store.Ping(ctx); err != nil {
				deps["postgres"] = err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else {
				deps["postgres"] = "ok"
			}
		}
		if d.Cache != nil {
			if err := d.Cache.Ping(ctx); err != nil {
				deps["cache"] = err.Error()
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else {
				deps["cache"] = "ok"
			}
		}

		httperrors.WriteJSON(w, code, map[string]any{
			"status": status,
			"deps":   deps,
		})
	}
}
