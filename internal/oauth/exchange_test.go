package oauth_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dropDatabas3/socialgate/internal/oauth"
	"github.com/dropDatabas3/socialgate/internal/provider"
)

func googleProvider(tokenURL string) *provider.Provider {
	return &provider.Provider{
		Key:          provider.Google,
		TokenURL:     tokenURL,
		TokenMethod:  provider.TokenMethodPost,
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "https://shop.example/callback/google",
	}
}

func facebookProvider(tokenURL, verifyURL string) *provider.Provider {
	return &provider.Provider{
		Key:          provider.Facebook,
		TokenURL:     tokenURL,
		TokenMethod:  provider.TokenMethodGet,
		VerifyURL:    verifyURL,
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURL:  "https://shop.example/callback/facebook",
	}
}

func TestExchangePostForm(t *testing.T) {
	var gotMethod, gotContentType, gotGrant, gotCode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		_ = r.ParseForm()
		gotGrant = r.PostFormValue("grant_type")
		gotCode = r.PostFormValue("code")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"Bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	tok, err := c.Exchange(context.Background(), googleProvider(srv.URL), "auth-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if tok != "tok-1" {
		t.Fatalf("token: %q", tok)
	}
	if gotMethod != http.MethodPost || gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("expected POST form, got %s %s", gotMethod, gotContentType)
	}
	if gotGrant != "authorization_code" || gotCode != "auth-code" {
		t.Fatalf("bad form: grant=%q code=%q", gotGrant, gotCode)
	}
}

func TestExchangeGetQuery(t *testing.T) {
	var gotMethod string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-fb"}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	tok, err := c.Exchange(context.Background(), facebookProvider(srv.URL, ""), "fb-code")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if tok != "tok-fb" {
		t.Fatalf("token: %q", tok)
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("expected GET, got %s", gotMethod)
	}
	if gotQuery["code"][0] != "fb-code" || gotQuery["client_secret"][0] != "secret" {
		t.Fatalf("bad query: %v", gotQuery)
	}
	if _, ok := gotQuery["grant_type"]; ok {
		t.Fatal("GET exchange carries no grant_type")
	}
}

func TestExchangeProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Code was already redeemed."}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	_, err := c.Exchange(context.Background(), googleProvider(srv.URL), "stale")
	if !errors.Is(err, oauth.ErrExchangeFailed) {
		t.Fatalf("expected ErrExchangeFailed, got %v", err)
	}
}

func TestExchangeFacebookErrorShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid verification code format.","type":"OAuthException"}}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	_, err := c.Exchange(context.Background(), facebookProvider(srv.URL, ""), "bad")
	if !errors.Is(err, oauth.ErrExchangeFailed) {
		t.Fatalf("expected ErrExchangeFailed, got %v", err)
	}
}

func TestExchangeMissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	_, err := c.Exchange(context.Background(), googleProvider(srv.URL), "code")
	if !errors.Is(err, oauth.ErrExchangeFailed) {
		t.Fatalf("expected ErrExchangeFailed, got %v", err)
	}
}

func TestExchangeNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // conexión rechazada

	c := oauth.NewClient(nil)
	_, err := c.Exchange(context.Background(), googleProvider(srv.URL), "code")
	if !errors.Is(err, oauth.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure, got %v", err)
	}
}

func TestVerifyOK(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("access_token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"123","name":"Ana"}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	if err := c.Verify(context.Background(), facebookProvider("", srv.URL), "tok-1"); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if gotToken != "tok-1" {
		t.Fatalf("token not sent: %q", gotToken)
	}
}

func TestVerifyRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token."}}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	err := c.Verify(context.Background(), facebookProvider("", srv.URL), "bad")
	if !errors.Is(err, oauth.ErrVerifyFailed) {
		t.Fatalf("expected ErrVerifyFailed, got %v", err)
	}
}

func TestVerifySuccessFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false}`))
	}))
	defer srv.Close()

	c := oauth.NewClient(srv.Client())
	err := c.Verify(context.Background(), facebookProvider("", srv.URL), "tok")
	if !errors.Is(err, oauth.ErrVerifyFailed) {
		t.Fatalf("expected ErrVerifyFailed, got %v", err)
	}
}

func TestVerifySkippedWhenNotRequired(t *testing.T) {
	c := oauth.NewClient(nil)
	// Sin VerifyURL no hay llamada de red.
	if err := c.Verify(context.Background(), googleProvider("http://unused"), "tok"); err != nil {
		t.Fatalf("verify should be a no-op: %v", err)
	}
}
