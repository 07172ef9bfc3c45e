package delivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	syncdomain "inboxcal-backend/internal/sync/domain"
	syncdto "inboxcal-backend/internal/sync/dto"
	"inboxcal-backend/internal/sync/usecase"
	"inboxcal-backend/pkg/apperror"
)

type SyncHandler struct {
	syncUsecase usecase.SyncUsecase
	log         *logrus.Logger
}

func NewSyncHandler(syncUsecase usecase.SyncUsecase, log *logrus.Logger) *SyncHandler {
	return &SyncHandler{
		syncUsecase: syncUsecase,
		log:         log,
	}
}

func (h *SyncHandler) SyncGmail(c *gin.Context) {
	h.run(c, syncdomain.ResourceMail)
}

func (h *SyncHandler) SyncCalendar(c *gin.Context) {
	h.run(c, syncdomain.ResourceCalendar)
}

// run holds the request open for the whole cycle. A client that disconnects
// does not abort the cycle.
func (h *SyncHandler) run(c *gin.Context, resource syncdomain.Resource) {
	ctx := context.WithoutCancel(c.Request.Context())
	res, err := h.syncUsecase.Sync(ctx, c.GetString("userID"), resource)
	if err != nil {
		h.log.WithError(err).WithField("resource", resource).Error("sync request failed")
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err, "Sync failed")})
		return
	}
	if res.InProgress {
		c.JSON(http.StatusOK, syncdto.InProgressResponse{Message: "Sync already in progress"})
		return
	}

	c.JSON(http.StatusOK, syncdto.SyncResponse{Success: true, Count: res.Count})
}

func (h *SyncHandler) Status(c *gin.Context) {
	states, err := h.syncUsecase.Status(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		h.log.WithError(err).Error("failed to load sync status")
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err, "Failed to fetch sync status")})
		return
	}
	if states == nil {
		states = []*syncdomain.SyncState{}
	}

	c.JSON(http.StatusOK, syncdto.StatusResponse{States: states})
}
