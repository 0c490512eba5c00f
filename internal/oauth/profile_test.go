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

func TestFetchFacebookProfile(t *testing.T) {
	var gotFields, gotToken, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFields = r.URL.Query().Get("fields")
		gotToken = r.URL.Query().Get("access_token")
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"fb-9","first_name":"Ana","last_name":"Gomez","email":"ana@example.com"}`))
	}))
	defer srv.Close()

	p := &provider.Provider{
		Key:          provider.Facebook,
		ProfileURL:   srv.URL,
		ProfileAuth:  provider.ProfileAuthQuery,
		ProfileField: "id,first_name,last_name,email",
	}
	f := oauth.NewFetcher(srv.Client())
	id, err := f.Fetch(context.Background(), p, "tok-1")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotFields != "id,first_name,last_name,email" {
		t.Fatalf("fields: %q", gotFields)
	}
	if gotToken != "tok-1" || gotAuth != "" {
		t.Fatalf("facebook auth must be query param: token=%q auth=%q", gotToken, gotAuth)
	}
	if id.ExternalID != "fb-9" || id.FirstName != "Ana" || id.LastName != "Gomez" || id.Email != "ana@example.com" {
		t.Fatalf("identity: %+v", id)
	}
	if id.Provider != provider.Facebook {
		t.Fatalf("provider: %q", id.Provider)
	}
}

func TestFetchGoogleProfile(t *testing.T) {
	var gotAuth, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotToken = r.URL.Query().Get("access_token")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-7","name":"Ana Gomez","given_name":"Ana","family_name":"Gomez","email":"ana@example.com","verified_email":true}`))
	}))
	defer srv.Close()

	p := &provider.Provider{
		Key:          provider.Google,
		ProfileURL:   srv.URL,
		ProfileAuth:  provider.ProfileAuthBearer,
		ProfileField: "name,email,id,verified_email",
	}
	f := oauth.NewFetcher(srv.Client())
	id, err := f.Fetch(context.Background(), p, "tok-g")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if gotAuth != "Bearer tok-g" || gotToken != "" {
		t.Fatalf("google auth must be bearer: auth=%q token=%q", gotAuth, gotToken)
	}
	if id.FirstName != "Ana" || id.LastName != "Gomez" || id.DisplayName != "Ana Gomez" {
		t.Fatalf("name mapping: %+v", id)
	}
	if !id.EmailVerified {
		t.Fatal("verified_email should propagate")
	}
}

func TestFetchProfileUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := oauth.NewFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), &provider.Provider{Key: "google", ProfileURL: srv.URL}, "tok")
	if !errors.Is(err, oauth.ErrProfileUnavailable) {
		t.Fatalf("expected ErrProfileUnavailable, got %v", err)
	}
}

func TestFetchProfileMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"ana@example.com"}`))
	}))
	defer srv.Close()

	f := oauth.NewFetcher(srv.Client())
	_, err := f.Fetch(context.Background(), &provider.Provider{Key: "google", ProfileURL: srv.URL}, "tok")
	if !errors.Is(err, oauth.ErrProfileInvalid) {
		t.Fatalf("expected ErrProfileInvalid, got %v", err)
	}
}

func TestFetchProfileWithoutEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"fb-1","first_name":"Ana"}`))
	}))
	defer srv.Close()

	f := oauth.NewFetcher(srv.Client())
	id, err := f.Fetch(context.Background(), &provider.Provider{Key: "facebook", ProfileURL: srv.URL}, "tok")
	if err != nil {
		t.Fatalf("missing email is not an error at this layer: %v", err)
	}
	if id.HasEmail() {
		t.Fatal("email should be empty")
	}
}
