package repository

import (
	"context"

	emaildomain "inboxcal-backend/internal/email/domain"
)

// MailRepository defines the interface for the mirrored mailbox
type MailRepository interface {
	// UpsertBatch inserts new messages and overwrites existing ones keyed by
	// (user_id, message_id).
	UpsertBatch(ctx context.Context, items []*emaildomain.MailItem) error
	// List returns a user's messages matching the filter, newest first.
	List(ctx context.Context, userID string, filter emaildomain.MailFilter) ([]*emaildomain.MailItem, error)
}
