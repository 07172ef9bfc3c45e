package usecase

import (
	"context"

	emaildomain "inboxcal-backend/internal/email/domain"
	"inboxcal-backend/internal/email/repository"
	syncdomain "inboxcal-backend/internal/sync/domain"
	pkggmail "inboxcal-backend/pkg/gmail"
)

// mailUsecase implements MailUsecase interface
type mailUsecase struct {
	repo        repository.MailRepository
	fetcher     MailFetcher
	credentials syncdomain.CredentialSource
	tokens      syncdomain.AccessTokenSource
}

// NewMailUsecase creates a new instance of mailUsecase
func NewMailUsecase(repo repository.MailRepository, fetcher MailFetcher, credentials syncdomain.CredentialSource, tokens syncdomain.AccessTokenSource) MailUsecase {
	return &mailUsecase{
		repo:        repo,
		fetcher:     fetcher,
		credentials: credentials,
		tokens:      tokens,
	}
}

func (u *mailUsecase) ListMail(ctx context.Context, userID string, filter emaildomain.MailFilter) ([]*emaildomain.MailItem, error) {
	return u.repo.List(ctx, userID, filter)
}

func (u *mailUsecase) GetMailDetail(ctx context.Context, userID, messageID string) (*emaildomain.MailDetail, error) {
	refreshToken, err := u.credentials.RefreshTokenFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	accessToken, err := u.tokens.AccessToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	msg, err := u.fetcher.GetMessage(ctx, userID, accessToken, messageID)
	if err != nil {
		return nil, err
	}
	return pkggmail.ToMailDetail(msg), nil
}
