// Package social contains controllers for social login endpoints.
package social

import (
	"context"
	"net/http"
	"strings"

	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/observability/logger"
	"github.com/dropDatabas3/socialgate/internal/session"
)

// Paths son los destinos de redirección tras el flujo.
type Paths struct {
	Home  string // destino tras login exitoso
	Login string // destino ante fallas (con flash en sesión)
}

// Controllers agrupa todos los controllers del dominio social.
type Controllers struct {
	Connect  *ConnectController
	Callback *CallbackController
	Finalize *FinalizeController
}

// NewControllers creates the social controllers aggregator.
func NewControllers(s svc.Services, sessions session.Store, cookies middlewares.CookieOptions, paths Paths) *Controllers {
	if paths.Home == "" {
		paths.Home = "/"
	}
	if paths.Login == "" {
		paths.Login = "/login"
	}
	return &Controllers{
		Connect:  NewConnectController(s.Connect),
		Callback: NewCallbackController(s.Callback, sessions, paths),
		Finalize: NewFinalizeController(s.Finalize, sessions, cookies, paths),
	}
}

// setFlash deja un mensaje para la próxima vista. Un fallo acá no corta
// el flujo.
func setFlash(ctx context.Context, s session.Store, sid, msg string) {
	if sid == "" {
		return
	}
	if err := s.Set(ctx, sid, session.KeyFlash, msg); err != nil {
		logger.From(ctx).Warn("flash_set_failed", logger.Err(err))
	}
}

// isMobile detecta clientes móviles por User-Agent para decidir entre
// cerrar el popup o redirigir directo.
func isMobile(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	for _, token := range []string{"mobile", "android", "iphone", "ipad", "ipod", "opera mini", "iemobile"} {
		if strings.Contains(ua, token) {
			return true
		}
	}
	return false
}

// ensureGet corta métodos que no sean GET.
func ensureGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return false
	}
	return true
}
