package middlewares

import (
	"context"
	"net/http"

	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/session"
)

type ctxKeySessionID struct{}

// GetSessionID devuelve el id de sesión del contexto, "" si no hay.
func GetSessionID(ctx context.Context) string {
	sid, _ := ctx.Value(ctxKeySessionID{}).(string)
	return sid
}

// CookieOptions controla cómo viaja el id de sesión en la cookie.
type CookieOptions struct {
	Name     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int // segundos
}

// SetSessionCookie escribe la cookie de sesión. Los controllers la usan
// también al rotar el id tras un login.
func SetSessionCookie(w http.ResponseWriter, opts CookieOptions, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     opts.Name,
		Value:    sid,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   opts.MaxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// WithSession asegura que el request tenga una sesión: lee la cookie o
// arranca una sesión nueva, y deja el sid en el contexto.
func WithSession(store session.Store, opts CookieOptions) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			var sid string
			if c, err := r.Cookie(opts.Name); err == nil && c.Value != "" {
				sid = c.Value
			}
			if sid == "" {
				newSID, err := store.Start(ctx)
				if err != nil {
					logger.From(ctx).Error("session_start_failed", logger.Err(err))
					next.ServeHTTP(w, r)
					return
				}
				sid = newSID
				SetSessionCookie(w, opts, sid)
			}

			ctx = context.WithValue(ctx, ctxKeySessionID{}, sid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
