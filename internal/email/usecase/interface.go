package usecase

import (
	"context"

	"google.golang.org/api/gmail/v1"

	emaildomain "inboxcal-backend/internal/email/domain"
)

// MailFetcher is the remote side of a mail sync.
type MailFetcher interface {
	ListMessageIDs(ctx context.Context, userID, accessToken string, max int64) ([]string, error)
	GetMessage(ctx context.Context, userID, accessToken, id string) (*gmail.Message, error)
}

// MailUsecase defines the interface for reading the mirrored mailbox
type MailUsecase interface {
	ListMail(ctx context.Context, userID string, filter emaildomain.MailFilter) ([]*emaildomain.MailItem, error)
	// GetMailDetail fetches one message live and returns its normalized body.
	GetMailDetail(ctx context.Context, userID, messageID string) (*emaildomain.MailDetail, error)
}
