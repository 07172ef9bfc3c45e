package delivery

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	authdto "inboxcal-backend/internal/auth/dto"
	"inboxcal-backend/internal/auth/usecase"
	"inboxcal-backend/pkg/apperror"
)

const stateTTL = 10 * time.Minute

// CookieOptions controls how session cookies are issued.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	appURL      string
	cookies     CookieOptions
	log         *logrus.Logger
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, appURL string, cookies CookieOptions, log *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		appURL:      appURL,
		cookies:     cookies,
		log:         log,
	}
}

// GoogleLogin redirects to the consent screen with a fresh state nonce.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	h.setCookie(c, StateCookie, state, stateTTL)
	c.Redirect(http.StatusFound, h.authUsecase.GoogleAuthURL(state))
}

// GoogleCallback finishes sign-in. Every failure ends in a redirect to the
// landing page carrying an error code.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var req authdto.GoogleCallbackRequest
	_ = c.ShouldBindQuery(&req)

	if req.Error != "" {
		h.log.WithField("oauth_error", req.Error).Warn("google sign-in denied")
		h.redirectError(c, "oauth_denied")
		return
	}
	if req.Code == "" {
		h.redirectError(c, "no_code")
		return
	}

	expected, _ := c.Cookie(StateCookie)
	h.setCookie(c, StateCookie, "", -1)
	if expected == "" || expected != req.State {
		h.log.Warn("oauth state mismatch")
		h.redirectError(c, "invalid_state")
		return
	}

	user, token, err := h.authUsecase.HandleGoogleCallback(c.Request.Context(), req.Code)
	if err != nil {
		if errors.Is(err, apperror.ErrNoRefreshToken) {
			h.log.Warn("google sign-in granted no refresh token")
			h.redirectError(c, "no_refresh_token")
			return
		}
		h.log.WithError(err).Error("oauth callback failed")
		h.redirectError(c, "callback_failed")
		return
	}

	h.setCookie(c, SessionCookie, token, h.cookies.MaxAge)
	h.log.WithField("user_id", user.ID).Info("user signed in")
	c.Redirect(http.StatusFound, h.appURL+"/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setCookie(c, SessionCookie, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the signed-in user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUsecase.GetUser(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.log.WithError(err).Error("failed to fetch user")
		c.JSON(http.StatusInternalServerError, authdto.ErrorResponse{Error: "Failed to fetch user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, authdto.ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, authdto.UserResponse{User: user})
}

func (h *AuthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusFound, h.appURL+"/?error="+url.QueryEscape(code))
}

// setCookie issues an HttpOnly, SameSite=Lax cookie. A negative ttl deletes it.
func (h *AuthHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookies.Secure, true)
}
