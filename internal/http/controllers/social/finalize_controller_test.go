package social_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialgate/internal/cache"
	ctrl "github.com/dropDatabas3/socialgate/internal/http/controllers/social"
	"github.com/dropDatabas3/socialgate/internal/http/middlewares"
	svc "github.com/dropDatabas3/socialgate/internal/http/services/social"
	"github.com/dropDatabas3/socialgate/internal/session"
)

const (
	flashEmailRequired = "Email is Null, Please enter email in your profile"
	flashEmailConflict = "A customer with the same email already exists in an associated website."
)

type fakeFinalizeService struct {
	res  *svc.FinalizeResult
	err  error
	hits int
}

func (f *fakeFinalizeService) Finalize(context.Context, svc.FinalizeRequest) (*svc.FinalizeResult, error) {
	f.hits++
	if f.err != nil {
		return nil, f.err
	}
	return f.res, nil
}

type finalizeFixture struct {
	router   http.Handler
	service  *fakeFinalizeService
	sessions session.Store
	sid      string
	cookies  middlewares.CookieOptions
}

func newFinalizeFixture(t *testing.T) *finalizeFixture {
	t.Helper()
	c := cache.NewMemory("", time.Minute)
	sessions := session.NewStore(c, time.Minute)
	sid, err := sessions.Start(context.Background())
	require.NoError(t, err)

	service := &fakeFinalizeService{res: &svc.FinalizeResult{
		NewSessionID: "rotated-sid",
		AccountID:    "acct-1",
		Email:        "ana@example.com",
	}}
	cookies := middlewares.CookieOptions{Name: "sgsid"}
	controller := ctrl.NewFinalizeController(service, sessions, cookies, ctrl.Paths{Home: "/cuenta", Login: "/login"})

	r := chi.NewRouter()
	r.Get("/login/finalize", middlewares.ChainFunc(
		controller.Finalize,
		middlewares.WithSession(sessions, cookies),
	).ServeHTTP)

	return &finalizeFixture{router: r, service: service, sessions: sessions, sid: sid, cookies: cookies}
}

func (f *finalizeFixture) get(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/login/finalize", nil)
	req.AddCookie(&http.Cookie{Name: f.cookies.Name, Value: f.sid})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestFinalizeSuccessSetsRotatedCookie(t *testing.T) {
	f := newFinalizeFixture(t)

	w := f.get(t)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/cuenta", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	require.Equal(t, "sgsid", cookies[0].Name)
	require.Equal(t, "rotated-sid", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
}

func TestFinalizeNoPendingRedirectsHome(t *testing.T) {
	f := newFinalizeFixture(t)
	f.service.err = svc.ErrNoPendingIdentity

	// Refresh o doble finalize: no es un fallo de login, va al home.
	w := f.get(t)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/cuenta", w.Header().Get("Location"))

	// Y no deja flash: no es un error del usuario.
	_, ok, err := f.sessions.Get(context.Background(), f.sid, session.KeyFlash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFinalizeErrorFlashes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		msg  string
	}{
		{"needs email", svc.ErrNeedsEmail, flashEmailRequired},
		{"account conflict", svc.ErrAccountConflict, flashEmailConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFinalizeFixture(t)
			f.service.err = tc.err

			w := f.get(t)
			require.Equal(t, http.StatusFound, w.Code)
			require.Equal(t, "/login", w.Header().Get("Location"))

			msg, ok, err := f.sessions.Consume(context.Background(), f.sid, session.KeyFlash)
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tc.msg, msg)
		})
	}
}
