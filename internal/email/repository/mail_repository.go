package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	emaildomain "inboxcal-backend/internal/email/domain"
	"inboxcal-backend/pkg/apperror"
)

const (
	// DefaultListLimit caps a mailbox listing.
	DefaultListLimit = 1000
	upsertBatchSize  = 100
)

var folderLabels = map[emaildomain.Folder]string{
	emaildomain.FolderInbox:      emaildomain.LabelInbox,
	emaildomain.FolderSent:       emaildomain.LabelSent,
	emaildomain.FolderSocial:     emaildomain.LabelSocial,
	emaildomain.FolderPromotions: emaildomain.LabelPromotions,
}

// mailRepository implements MailRepository interface
type mailRepository struct {
	db *gorm.DB
}

// NewMailRepository creates a new instance of mailRepository
func NewMailRepository(db *gorm.DB) MailRepository {
	return &mailRepository{db: db}
}

func (r *mailRepository) UpsertBatch(ctx context.Context, items []*emaildomain.MailItem) error {
	items = dedupeMail(items)
	if len(items) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"thread_id", "subject", "sender_name", "sender_email", "snippet", "labels",
			"received_at", "is_read", "is_starred", "has_attachments", "updated_at",
		}),
	}).CreateInBatches(items, upsertBatchSize).Error
	return apperror.Wrap(apperror.ErrStore, "mail.upsert", err)
}

func (r *mailRepository) List(ctx context.Context, userID string, filter emaildomain.MailFilter) ([]*emaildomain.MailItem, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	folder := filter.Folder
	if folder == "" {
		folder = emaildomain.FolderInbox
	}
	switch folder {
	case emaildomain.FolderStarred:
		query = query.Where("is_starred = ?", true)
	case emaildomain.FolderUnread:
		query = query.Where("is_read = ?", false)
	default:
		if label, ok := folderLabels[folder]; ok {
			query = query.Where(`labels LIKE ? ESCAPE '\'`, "%"+escapeLike(`"`+label+`"`)+"%")
		}
	}

	if term := strings.TrimSpace(filter.Search); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		query = query.Where(
			`(LOWER(subject) LIKE ? ESCAPE '\' OR LOWER(sender_name) LIKE ? ESCAPE '\' OR LOWER(sender_email) LIKE ? ESCAPE '\' OR LOWER(snippet) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern, pattern,
		)
	}

	limit := filter.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	var items []*emaildomain.MailItem
	err := query.Order("received_at DESC").Limit(limit).Find(&items).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrStore, "mail.list", err)
	}
	return items, nil
}

// dedupeMail keeps the last occurrence of each key; a single upsert
// statement may not touch the same row twice.
func dedupeMail(items []*emaildomain.MailItem) []*emaildomain.MailItem {
	seen := make(map[string]int, len(items))
	out := make([]*emaildomain.MailItem, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		key := it.UserID + "\x00" + it.MessageID
		if i, ok := seen[key]; ok {
			out[i] = it
			continue
		}
		seen[key] = len(out)
		out = append(out, it)
	}
	return out
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
