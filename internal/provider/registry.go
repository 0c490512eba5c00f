// Package provider contiene el catálogo estático de proveedores sociales
// soportados: endpoints, método de intercambio y forma de autenticación del
// profile endpoint. Las credenciales vienen de config; los endpoints viven
// acá porque son parte del protocolo de cada proveedor, no del deployment.
package provider

import (
	"errors"
	"fmt"

	"github.com/dropDatabas3/socialgate/internal/config"
)

const (
	Facebook = "facebook"
	Google   = "google"
)

// TokenMethod indica cómo se envía el authorization code al token endpoint.
type TokenMethod string

const (
	// TokenMethodPost es el POST form-encoded estándar (Google).
	TokenMethodPost TokenMethod = "post"
	// TokenMethodGet manda los parámetros por query string (Facebook Graph).
	TokenMethodGet TokenMethod = "get"
)

// ProfileAuth indica cómo se presenta el access token al profile endpoint.
type ProfileAuth string

const (
	ProfileAuthBearer ProfileAuth = "bearer"
	ProfileAuthQuery  ProfileAuth = "query"
)

var (
	ErrUnknown  = errors.New("provider: unknown provider")
	ErrDisabled = errors.New("provider: provider disabled")
)

// Provider agrupa los settings inmutables de un proveedor: endpoints del
// protocolo + credenciales del deployment. Nunca se muta después de New.
type Provider struct {
	Key          string
	AuthURL      string
	TokenURL     string
	TokenMethod  TokenMethod
	VerifyURL    string // vacío => el proveedor no exige verificación secundaria
	ProfileURL   string
	ProfileAuth  ProfileAuth
	ProfileField string // valor del parámetro fields del profile endpoint

	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string

	// AuthParams son parámetros fijos extra del authorization URL
	// (response_type, access_type) que no todos los proveedores requieren.
	AuthParams map[string]string
}

// RequiresVerify reporta si el flujo debe hacer la llamada de verificación
// del access token antes de confiar en él.
func (p *Provider) RequiresVerify() bool { return p.VerifyURL != "" }

// Registry es el catálogo de proveedores habilitados. Inmutable después de
// construido: seguro para acceso concurrente sin locks.
type Registry struct {
	providers map[string]*Provider
}

// New arma el registry desde la configuración. Solo los proveedores con
// enabled=true quedan disponibles.
func New(cfg *config.Config) *Registry {
	r := &Registry{providers: make(map[string]*Provider)}

	if fb := cfg.Providers.Facebook; fb.Enabled {
		r.providers[Facebook] = &Provider{
			Key:          Facebook,
			AuthURL:      "https://www.facebook.com/v16.0/dialog/oauth",
			TokenURL:     "https://graph.facebook.com/v16.0/oauth/access_token",
			TokenMethod:  TokenMethodGet,
			VerifyURL:    "https://graph.facebook.com/me",
			ProfileURL:   "https://graph.facebook.com/v16.0/me",
			ProfileAuth:  ProfileAuthQuery,
			ProfileField: "id,first_name,last_name,email",
			ClientID:     fb.ClientID,
			ClientSecret: fb.ClientSecret,
			RedirectURL:  fb.RedirectURL,
			Scopes:       fb.Scopes,
		}
	}

	if g := cfg.Providers.Google; g.Enabled {
		r.providers[Google] = &Provider{
			Key:          Google,
			AuthURL:      "https://accounts.google.com/o/oauth2/v2/auth",
			TokenURL:     "https://www.googleapis.com/oauth2/v4/token",
			TokenMethod:  TokenMethodPost,
			ProfileURL:   "https://www.googleapis.com/oauth2/v2/userinfo",
			ProfileAuth:  ProfileAuthBearer,
			ProfileField: "name,email,id,verified_email",
			ClientID:     g.ClientID,
			ClientSecret: g.ClientSecret,
			RedirectURL:  g.RedirectURL,
			Scopes:       g.Scopes,
			AuthParams: map[string]string{
				"response_type": "code",
				"access_type":   "online",
			},
		}
	}

	return r
}

// Get retorna el proveedor habilitado para key.
// ErrUnknown si no está en el catálogo, ErrDisabled si existe pero no está
// habilitado en config.
func (r *Registry) Get(key string) (*Provider, error) {
	if p, ok := r.providers[key]; ok {
		return p, nil
	}
	switch key {
	case Facebook, Google:
		return nil, fmt.Errorf("%w: %s", ErrDisabled, key)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, key)
	}
}

// Keys lista los proveedores habilitados (orden no garantizado).
func (r *Registry) Keys() []string {
	out := make([]string, 0, len(r.providers))
	for k := range r.providers {
		out = append(out, k)
	}
	return out
}
