package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dropDatabas3/socialgate/internal/provider"
)

const profileTimeout = 60 * time.Second

// Fetcher recupera el perfil del usuario autenticado desde el resource
// endpoint del proveedor y lo normaliza a ExternalIdentity.
type Fetcher struct {
	http Doer
}

// NewFetcher crea el fetcher de perfiles. Con httpc nil usa un *http.Client
// con el timeout del contrato.
func NewFetcher(httpc Doer) *Fetcher {
	if httpc == nil {
		httpc = &http.Client{Timeout: profileTimeout}
	}
	return &Fetcher{http: httpc}
}

// profilePayload cubre los nombres de campo de Facebook (first_name,
// last_name) y Google userinfo (name, given_name, family_name).
type profilePayload struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	VerifiedEmail bool   `json:"verified_email"`
}

// Fetch pide el field set fijo (id, nombre, email) al profile endpoint.
// El access token va como Bearer header o query param según el provider
// config. Los campos opcionales ausentes quedan vacíos en la identidad: la
// política sobre emails faltantes la decide el caller.
func (f *Fetcher) Fetch(ctx context.Context, p *provider.Provider, accessToken string) (ExternalIdentity, error) {
	var zero ExternalIdentity

	u, err := url.Parse(p.ProfileURL)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrProfileInvalid, err)
	}
	q := u.Query()
	if p.ProfileField != "" {
		q.Set("fields", p.ProfileField)
	}
	if p.ProfileAuth == provider.ProfileAuthQuery {
		q.Set("access_token", accessToken)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	if p.ProfileAuth == provider.ProfileAuthBearer {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return zero, fmt.Errorf("%w: status %d", ErrProfileUnavailable, resp.StatusCode)
	}

	var pp profilePayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&pp); err != nil {
		return zero, fmt.Errorf("%w: %v", ErrProfileInvalid, err)
	}
	if pp.ID == "" {
		return zero, fmt.Errorf("%w: missing id", ErrProfileInvalid)
	}

	first := pp.FirstName
	if first == "" {
		first = pp.GivenName
	}
	last := pp.LastName
	if last == "" {
		last = pp.FamilyName
	}

	return ExternalIdentity{
		Provider:      p.Key,
		ExternalID:    pp.ID,
		Email:         pp.Email,
		FirstName:     first,
		LastName:      last,
		DisplayName:   pp.Name,
		EmailVerified: pp.VerifiedEmail,
	}, nil
}
