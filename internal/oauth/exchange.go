package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/socialgate/internal/provider"
)

// exchangeTimeout acota cada llamada al proveedor. El contrato del flujo es
// de 60 segundos por request; pasado eso el error es de red, no del proveedor.
const exchangeTimeout = 60 * time.Second

// Doer es el colaborador HTTP inyectable (en prod un *http.Client con
// timeout; en tests un stub).
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client ejecuta el intercambio code → access token y, para los proveedores
// que lo exigen, la verificación secundaria del token.
type Client struct {
	http Doer
}

// NewClient crea el cliente de intercambio. Con httpc nil usa un
// *http.Client con el timeout del contrato.
func NewClient(httpc Doer) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: exchangeTimeout}
	}
	return &Client{http: httpc}
}

// tokenResponse cubre las dos formas de error que devuelven los proveedores:
// Google manda {"error": "...", "error_description": "..."}, Facebook manda
// {"error": {"message": "..."}}.
type tokenResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	Error       json.RawMessage `json:"error,omitempty"`
	ErrorDesc   string          `json:"error_description,omitempty"`
}

func (t *tokenResponse) errorMessage() string {
	if len(t.Error) == 0 {
		return t.ErrorDesc
	}
	var s string
	if json.Unmarshal(t.Error, &s) == nil && s != "" {
		if t.ErrorDesc != "" {
			return s + ": " + t.ErrorDesc
		}
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(t.Error, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return t.ErrorDesc
}

// Exchange canjea el authorization code por un access token contra el token
// endpoint del proveedor. El método (POST form vs GET query) lo declara el
// provider config.
func (c *Client) Exchange(ctx context.Context, p *provider.Provider, code string) (string, error) {
	params := url.Values{}
	params.Set("client_id", p.ClientID)
	params.Set("client_secret", p.ClientSecret)
	params.Set("redirect_uri", p.RedirectURL)
	params.Set("code", code)

	var req *http.Request
	var err error
	switch p.TokenMethod {
	case provider.TokenMethodGet:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, p.TokenURL+"?"+params.Encode(), nil)
	default:
		params.Set("grant_type", "authorization_code")
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, p.TokenURL, strings.NewReader(params.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	var tr tokenResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&tr)

	if resp.StatusCode/100 != 2 {
		msg := ""
		if decodeErr == nil {
			msg = tr.errorMessage()
		}
		if msg == "" {
			msg = genericOAuthError + " Please check client id and secret."
		}
		return "", fmt.Errorf("%w: %s", ErrExchangeFailed, msg)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: %s", ErrExchangeFailed, genericOAuthError)
	}
	if msg := tr.errorMessage(); msg != "" {
		return "", fmt.Errorf("%w: %s", ErrExchangeFailed, msg)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: %s", ErrExchangeFailed, genericOAuthError)
	}
	return tr.AccessToken, nil
}

// Verify hace la llamada de verificación secundaria del access token para
// los proveedores que la declaran (Facebook: GET /me). Un status non-2xx o
// un flag de fallo explícito en el body abortan el flujo.
func (c *Client) Verify(ctx context.Context, p *provider.Provider, accessToken string) error {
	if !p.RequiresVerify() {
		return nil
	}

	u := p.VerifyURL + "?" + url.Values{"access_token": {accessToken}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: %s", ErrVerifyFailed, genericOAuthError)
	}

	var body struct {
		Success *bool           `json:"success,omitempty"`
		Error   json.RawMessage `json:"error,omitempty"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return fmt.Errorf("%w: %s", ErrVerifyFailed, genericOAuthError)
	}
	if len(body.Error) > 0 {
		return fmt.Errorf("%w: %s", ErrVerifyFailed, genericOAuthError)
	}
	if body.Success != nil && !*body.Success {
		return fmt.Errorf("%w: %s", ErrVerifyFailed, genericOAuthError)
	}
	return nil
}
