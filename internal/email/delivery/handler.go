package delivery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	emaildomain "inboxcal-backend/internal/email/domain"
	emaildto "inboxcal-backend/internal/email/dto"
	"inboxcal-backend/internal/email/usecase"
	"inboxcal-backend/pkg/apperror"
)

type EmailHandler struct {
	mailUsecase usecase.MailUsecase
	log         *logrus.Logger
}

func NewEmailHandler(mailUsecase usecase.MailUsecase, log *logrus.Logger) *EmailHandler {
	return &EmailHandler{
		mailUsecase: mailUsecase,
		log:         log,
	}
}

// ListEmails serves the mirrored mailbox. filter defaults to inbox; an
// unknown filter lists everything.
func (h *EmailHandler) ListEmails(c *gin.Context) {
	var req emaildto.ListEmailsRequest
	_ = c.ShouldBindQuery(&req)

	emails, err := h.mailUsecase.ListMail(c.Request.Context(), c.GetString("userID"), emaildomain.MailFilter{
		Folder: emaildomain.Folder(req.Filter),
		Search: req.Search,
	})
	if err != nil {
		h.log.WithError(err).Error("failed to list emails")
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err, "Failed to fetch emails")})
		return
	}
	if emails == nil {
		emails = []*emaildomain.MailItem{}
	}

	c.JSON(http.StatusOK, emaildto.EmailsResponse{Emails: emails})
}

// GetEmail fetches one message live and returns its sanitized body.
func (h *EmailHandler) GetEmail(c *gin.Context) {
	messageID := c.Param("messageId")

	detail, err := h.mailUsecase.GetMailDetail(c.Request.Context(), c.GetString("userID"), messageID)
	if err != nil {
		h.log.WithError(err).WithField("message_id", messageID).Error("failed to fetch email detail")
		c.JSON(apperror.HTTPStatus(err), gin.H{"error": apperror.PublicMessage(err, "Failed to fetch email")})
		return
	}

	c.JSON(http.StatusOK, emaildto.EmailDetailResponse{Email: detail})
}
