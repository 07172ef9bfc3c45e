package usecase

import (
	"context"

	authdomain "inboxcal-backend/internal/auth/domain"
	"inboxcal-backend/pkg/google"
)

// OAuthProvider is the identity provider side of sign-in.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*google.Token, error)
	UserInfo(ctx context.Context, accessToken string) (*google.UserInfo, error)
}

// AuthUsecase defines the interface for sign-in and sessions
type AuthUsecase interface {
	GoogleAuthURL(state string) string
	// HandleGoogleCallback completes sign-in and returns the user with a
	// signed session token.
	HandleGoogleCallback(ctx context.Context, code string) (*authdomain.User, string, error)
	// ValidateSession verifies a session token without touching the store.
	ValidateSession(token string) (*authdomain.Session, error)
	// GetUser returns nil, nil when the user no longer exists.
	GetUser(ctx context.Context, userID string) (*authdomain.User, error)
	// RefreshTokenFor returns the user's unsealed Google refresh token.
	RefreshTokenFor(ctx context.Context, userID string) (string, error)
}
