package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authDelivery "inboxcal-backend/internal/auth/delivery"
	authUsecase "inboxcal-backend/internal/auth/usecase"
	calendarDelivery "inboxcal-backend/internal/calendar/delivery"
	calendarUsecase "inboxcal-backend/internal/calendar/usecase"
	emailDelivery "inboxcal-backend/internal/email/delivery"
	emailUsecase "inboxcal-backend/internal/email/usecase"
	syncDelivery "inboxcal-backend/internal/sync/delivery"
	syncUsecase "inboxcal-backend/internal/sync/usecase"
	"inboxcal-backend/pkg/config"
	"inboxcal-backend/pkg/logger"
)

type Handler struct {
	authUsecase     authUsecase.AuthUsecase
	authHandler     *authDelivery.AuthHandler
	emailHandler    *emailDelivery.EmailHandler
	calendarHandler *calendarDelivery.CalendarHandler
	syncHandler     *syncDelivery.SyncHandler
	allowedOrigin   string
	log             *logrus.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, mailUc emailUsecase.MailUsecase, calendarUc calendarUsecase.CalendarUsecase, syncUc syncUsecase.SyncUsecase, cfg *config.Config, log *logrus.Logger) *Handler {
	cookies := authDelivery.CookieOptions{
		Secure: cfg.IsProduction(),
		MaxAge: cfg.SessionExpiry,
	}
	return &Handler{
		authUsecase:     authUc,
		authHandler:     authDelivery.NewAuthHandler(authUc, cfg.AppURL, cookies, log),
		emailHandler:    emailDelivery.NewEmailHandler(mailUc, log),
		calendarHandler: calendarDelivery.NewCalendarHandler(calendarUc, log),
		syncHandler:     syncDelivery.NewSyncHandler(syncUc, log),
		allowedOrigin:   cfg.AppURL,
		log:             log,
	}
}

// Router builds the engine with middleware and routes.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(h.log))

	// CORS middleware. Sessions ride on cookies, so only the dashboard's own
	// origin is echoed back.
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && origin == h.allowedOrigin {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h)
	return r
}

func (h *Handler) Start(addr string) error {
	gin.SetMode(gin.ReleaseMode)
	return h.Router().Run(addr)
}
