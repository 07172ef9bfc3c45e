package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	authdomain "inboxcal-backend/internal/auth/domain"
	calendardomain "inboxcal-backend/internal/calendar/domain"
	emaildomain "inboxcal-backend/internal/email/domain"
	syncdomain "inboxcal-backend/internal/sync/domain"
	"inboxcal-backend/pkg/apperror"
	"inboxcal-backend/pkg/config"
	"inboxcal-backend/pkg/logger"
)

// store counts every call that would reach persistence.
type store struct{ calls int }

type fakeAuth struct{ s *store }

func (f fakeAuth) GoogleAuthURL(string) string { return "https://accounts.example.com" }
func (f fakeAuth) HandleGoogleCallback(context.Context, string) (*authdomain.User, string, error) {
	f.s.calls++
	return nil, "", errors.New("unused")
}
func (f fakeAuth) ValidateSession(token string) (*authdomain.Session, error) {
	if token != "valid" {
		return nil, apperror.New(apperror.ErrUnauthenticated, "session.verify")
	}
	return &authdomain.Session{UserID: "u1", Email: "jane@example.com"}, nil
}
func (f fakeAuth) GetUser(context.Context, string) (*authdomain.User, error) {
	f.s.calls++
	return &authdomain.User{ID: "u1"}, nil
}
func (f fakeAuth) RefreshTokenFor(context.Context, string) (string, error) {
	f.s.calls++
	return "rt", nil
}

type fakeMail struct {
	s         *store
	detailErr error
}

func (f fakeMail) ListMail(context.Context, string, emaildomain.MailFilter) ([]*emaildomain.MailItem, error) {
	f.s.calls++
	return nil, nil
}
func (f fakeMail) GetMailDetail(context.Context, string, string) (*emaildomain.MailDetail, error) {
	f.s.calls++
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return &emaildomain.MailDetail{Subject: "hi", Date: time.Now()}, nil
}

type fakeCalendar struct{ s *store }

func (f fakeCalendar) ListUpcoming(context.Context, string, string) ([]*calendardomain.CalendarItem, error) {
	f.s.calls++
	return nil, nil
}

type fakeSync struct {
	s          *store
	inProgress bool
	err        error
}

func (f fakeSync) Sync(_ context.Context, _ string, r syncdomain.Resource) (*syncdomain.SyncResult, error) {
	f.s.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &syncdomain.SyncResult{Resource: r, Count: 7, InProgress: f.inProgress}, nil
}
func (f fakeSync) Status(context.Context, string) ([]*syncdomain.SyncState, error) {
	f.s.calls++
	return nil, nil
}

func newTestRouter(s *store, mail fakeMail, sync fakeSync) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{AppURL: "http://app.test", SessionExpiry: time.Hour}
	h := NewHandler(fakeAuth{s}, mail, fakeCalendar{s}, sync, cfg, logger.Discard())
	return h.Router()
}

func do(r *gin.Engine, method, path, session string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "session", Value: session})
	}
	r.ServeHTTP(w, req)
	return w
}

var protected = []struct{ method, path string }{
	{http.MethodGet, "/api/emails"},
	{http.MethodGet, "/api/emails/abc"},
	{http.MethodGet, "/api/events"},
	{http.MethodGet, "/api/user"},
	{http.MethodGet, "/api/sync/status"},
	{http.MethodPost, "/api/sync/gmail"},
	{http.MethodPost, "/api/sync/calendar"},
}

func TestProtectedRoutes_UnauthenticatedNeverReachStore(t *testing.T) {
	s := &store{}
	r := newTestRouter(s, fakeMail{s: s}, fakeSync{s: s})

	for _, rt := range protected {
		for _, session := range []string{"", "tampered"} {
			w := do(r, rt.method, rt.path, session)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
		}
	}
	assert.Equal(t, 0, s.calls)
}

func TestProtectedRoutes_WithSession(t *testing.T) {
	s := &store{}
	r := newTestRouter(s, fakeMail{s: s}, fakeSync{s: s})

	for _, rt := range protected {
		w := do(r, rt.method, rt.path, "valid")
		assert.Equal(t, http.StatusOK, w.Code, "%s %s", rt.method, rt.path)
	}
	assert.Equal(t, len(protected), s.calls)

	assert.JSONEq(t, `{"emails":[]}`, do(r, http.MethodGet, "/api/emails", "valid").Body.String())
	assert.JSONEq(t, `{"events":[]}`, do(r, http.MethodGet, "/api/events", "valid").Body.String())
	assert.JSONEq(t, `{"success":true,"count":7}`, do(r, http.MethodPost, "/api/sync/gmail", "valid").Body.String())
}

func TestSync_InProgressAndErrors(t *testing.T) {
	s := &store{}
	r := newTestRouter(s, fakeMail{s: s}, fakeSync{s: s, inProgress: true})
	w := do(r, http.MethodPost, "/api/sync/calendar", "valid")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Sync already in progress"}`, w.Body.String())

	r = newTestRouter(s, fakeMail{s: s}, fakeSync{s: s, err: apperror.New(apperror.ErrNotFound, "credential")})
	w = do(r, http.MethodPost, "/api/sync/gmail", "valid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No refresh token"}`, w.Body.String())

	r = newTestRouter(s, fakeMail{s: s}, fakeSync{s: s, err: apperror.Wrap(apperror.ErrFetch, "gmail.list", errors.New("upstream said 503"))})
	w = do(r, http.MethodPost, "/api/sync/gmail", "valid")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "503")
}

func TestGetEmail_DetailFailure(t *testing.T) {
	s := &store{}
	mail := fakeMail{s: s, detailErr: apperror.Wrap(apperror.ErrItemFetch, "gmail.get", errors.New("boom"))}
	r := newTestRouter(s, mail, fakeSync{s: s})

	w := do(r, http.MethodGet, "/api/emails/abc", "valid")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch email"}`, w.Body.String())
}

func TestHealthAndCORS(t *testing.T) {
	s := &store{}
	r := newTestRouter(s, fakeMail{s: s}, fakeSync{s: s})

	w := do(r, http.MethodGet, "/api/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	req := httptest.NewRequest(http.MethodOptions, "/api/emails", nil)
	req.Header.Set("Origin", "http://app.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/emails", nil)
	req.Header.Set("Origin", "https://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
