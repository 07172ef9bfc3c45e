package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	calendardomain "inboxcal-backend/internal/calendar/domain"
	calendardto "inboxcal-backend/internal/calendar/dto"
	"inboxcal-backend/internal/calendar/usecase"
	"inboxcal-backend/pkg/apperror"
)

type CalendarHandler struct {
	calendarUsecase usecase.CalendarUsecase
	log             *logrus.Logger
}

func NewCalendarHandler(calendarUsecase usecase.CalendarUsecase, log *logrus.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarUsecase: calendarUsecase,
		log:             log,
	}
}

func (h *CalendarHandler) ListEvents(c *gin.Context) {
	var req calendardto.ListEventsRequest
	_ = c.ShouldBindQuery(&req)

	events, err := h.calendarUsecase.ListUpcoming(c.Request.Context(), c.GetString("userID"), req.Search)
	if err != nil {
		h.log.WithError(err).Error("failed to list events")
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err, "Failed to fetch events")})
		return
	}
	if events == nil {
		events = []*calendardomain.CalendarItem{}
	}

	c.JSON(http.StatusOK, calendardto.EventsResponse{Events: events})
}
