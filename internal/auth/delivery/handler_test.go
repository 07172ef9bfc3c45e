package delivery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authdomain "inboxcal-backend/internal/auth/domain"
	"inboxcal-backend/pkg/apperror"
	"inboxcal-backend/pkg/logger"
)

type fakeAuth struct {
	callbackErr error
	storeCalls  int
}

func (f *fakeAuth) GoogleAuthURL(state string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (f *fakeAuth) HandleGoogleCallback(context.Context, string) (*authdomain.User, string, error) {
	f.storeCalls++
	if f.callbackErr != nil {
		return nil, "", f.callbackErr
	}
	return &authdomain.User{ID: "u1", Email: "jane@example.com"}, "signed-token", nil
}

func (f *fakeAuth) ValidateSession(token string) (*authdomain.Session, error) {
	if token != "good" {
		return nil, apperror.New(apperror.ErrUnauthenticated, "session.verify")
	}
	return &authdomain.Session{UserID: "u1", Email: "jane@example.com"}, nil
}

func (f *fakeAuth) GetUser(_ context.Context, userID string) (*authdomain.User, error) {
	f.storeCalls++
	if userID == "u1" {
		return &authdomain.User{ID: "u1", Email: "jane@example.com"}, nil
	}
	return nil, nil
}

func (f *fakeAuth) RefreshTokenFor(context.Context, string) (string, error) {
	f.storeCalls++
	return "rt", nil
}

func newRouter(auth *fakeAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(auth, "http://app.test", CookieOptions{MaxAge: 3600}, logger.Discard())
	r.GET("/api/auth/google", h.GoogleLogin)
	r.GET("/api/auth/callback/google", h.GoogleCallback)
	r.GET("/api/user", AuthMiddleware(auth), h.Me)
	return r
}

func TestAuthMiddleware_RejectsWithoutTouchingStore(t *testing.T) {
	auth := &fakeAuth{}
	r := newRouter(auth)

	for _, setup := range []func(*http.Request){
		func(*http.Request) {},
		func(req *http.Request) { req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "forged"}) },
		func(req *http.Request) { req.Header.Set("Authorization", "Bearer forged") },
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
		setup(req)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	}
	assert.Equal(t, 0, auth.storeCalls)
}

func TestMe_WithSessionCookie(t *testing.T) {
	r := newRouter(&fakeAuth{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "good"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"jane@example.com"`)
	assert.NotContains(t, w.Body.String(), "refresh")
}

func TestGoogleLogin_SetsStateCookie(t *testing.T) {
	r := newRouter(&fakeAuth{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	var state *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == StateCookie {
			state = ck
		}
	}
	require.NotNil(t, state)
	assert.True(t, state.HttpOnly)
	assert.Contains(t, w.Header().Get("Location"), "state="+state.Value)
}

func callback(r *gin.Engine, query, stateCookie string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/callback/google"+query, nil)
	if stateCookie != "" {
		req.AddCookie(&http.Cookie{Name: StateCookie, Value: stateCookie})
	}
	r.ServeHTTP(w, req)
	return w
}

func TestGoogleCallback_ErrorRedirects(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		cookie string
		err    error
		want   string
	}{
		{"denied", "?error=access_denied", "s", nil, "http://app.test/?error=oauth_denied"},
		{"no code", "?state=s", "s", nil, "http://app.test/?error=no_code"},
		{"state mismatch", "?code=c&state=other", "s", nil, "http://app.test/?error=invalid_state"},
		{"missing state cookie", "?code=c&state=s", "", nil, "http://app.test/?error=invalid_state"},
		{"no refresh token", "?code=c&state=s", "s", apperror.New(apperror.ErrNoRefreshToken, "auth"), "http://app.test/?error=no_refresh_token"},
		{"exchange failed", "?code=c&state=s", "s", apperror.Wrap(apperror.ErrAuth, "exchange", errors.New("invalid_grant")), "http://app.test/?error=callback_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := callback(newRouter(&fakeAuth{callbackErr: tt.err}), tt.query, tt.cookie)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Location"))
		})
	}
}

func TestGoogleCallback_SuccessSetsSession(t *testing.T) {
	w := callback(newRouter(&fakeAuth{}), "?code=c&state=s", "s")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://app.test/dashboard", w.Header().Get("Location"))

	var session *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookie {
			session = ck
		}
	}
	require.NotNil(t, session)
	assert.Equal(t, "signed-token", session.Value)
	assert.True(t, session.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, session.SameSite)
	assert.Equal(t, 3600, session.MaxAge)
}
