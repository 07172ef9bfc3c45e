package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	emaildomain "inboxcal-backend/internal/email/domain"
	"inboxcal-backend/internal/email/repository"
	syncdomain "inboxcal-backend/internal/sync/domain"
	"inboxcal-backend/pkg/apperror"
	pkggmail "inboxcal-backend/pkg/gmail"
)

// mailSyncer mirrors the most recent messages of a mailbox. Message details
// are fetched one at a time; a failed detail is logged and skipped.
type mailSyncer struct {
	fetcher MailFetcher
	repo    repository.MailRepository
	limit   int64
	log     *logrus.Logger
}

// NewMailSyncer creates the mail stage of the sync coordinator.
func NewMailSyncer(fetcher MailFetcher, repo repository.MailRepository, limit int64, log *logrus.Logger) syncdomain.Syncer {
	return &mailSyncer{
		fetcher: fetcher,
		repo:    repo,
		limit:   limit,
		log:     log,
	}
}

func (s *mailSyncer) Resource() syncdomain.Resource {
	return syncdomain.ResourceMail
}

func (s *mailSyncer) Sync(ctx context.Context, userID, accessToken string) (int, error) {
	ids, err := s.fetcher.ListMessageIDs(ctx, userID, accessToken, s.limit)
	if err != nil {
		return 0, err
	}
	if int64(len(ids)) > s.limit {
		ids = ids[:s.limit]
	}

	items := make([]*emaildomain.MailItem, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		// The coordinator detaches the cycle from its caller; only the cycle
		// deadline ends it here.
		if err := ctx.Err(); err != nil {
			return 0, apperror.Wrap(apperror.ErrFetch, "gmail.sync", err)
		}
		msg, err := s.fetcher.GetMessage(ctx, userID, accessToken, id)
		if err != nil {
			skipped++
			s.log.WithFields(logrus.Fields{
				"user_id":    userID,
				"message_id": id,
			}).WithError(err).Warn("skipping message")
			continue
		}
		items = append(items, pkggmail.ToMailItem(userID, msg))
	}

	if err := s.repo.UpsertBatch(ctx, items); err != nil {
		return 0, err
	}

	s.log.WithFields(logrus.Fields{
		"user_id": userID,
		"listed":  len(ids),
		"stored":  len(items),
		"skipped": skipped,
	}).Debug("mail batch stored")
	return len(items), nil
}
