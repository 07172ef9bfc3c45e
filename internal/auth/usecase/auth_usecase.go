package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authdomain "inboxcal-backend/internal/auth/domain"
	"inboxcal-backend/internal/auth/repository"
	"inboxcal-backend/pkg/apperror"
	"inboxcal-backend/pkg/vault"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo      repository.UserRepository
	provider      OAuthProvider
	vault         *vault.Vault
	jwtSecret     []byte
	sessionExpiry time.Duration
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, provider OAuthProvider, v *vault.Vault, jwtSecret string, sessionExpiry time.Duration) AuthUsecase {
	return &authUsecase{
		userRepo:      userRepo,
		provider:      provider,
		vault:         v,
		jwtSecret:     []byte(jwtSecret),
		sessionExpiry: sessionExpiry,
	}
}

func (u *authUsecase) GoogleAuthURL(state string) string {
	return u.provider.AuthCodeURL(state)
}

func (u *authUsecase) HandleGoogleCallback(ctx context.Context, code string) (*authdomain.User, string, error) {
	tokens, err := u.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", err
	}
	// Without offline access no sync can ever run for this user.
	if tokens.RefreshToken == "" {
		return nil, "", apperror.New(apperror.ErrNoRefreshToken, "auth.callback")
	}

	info, err := u.provider.UserInfo(ctx, tokens.AccessToken)
	if err != nil {
		return nil, "", err
	}
	if info.Email == "" {
		return nil, "", apperror.Wrap(apperror.ErrAuth, "auth.callback", errors.New("profile has no email"))
	}

	sealed, err := u.vault.Seal(tokens.RefreshToken)
	if err != nil {
		return nil, "", err
	}

	user, err := u.userRepo.UpsertByEmail(ctx, &authdomain.User{
		Email:              info.Email,
		Name:               info.Name,
		AvatarURL:          info.Picture,
		GoogleID:           info.ID,
		GoogleRefreshToken: sealed,
	})
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", apperror.New(apperror.ErrStore, "auth.callback")
	}

	token, err := u.issueSession(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (u *authUsecase) issueSession(user *authdomain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID,
		"email":  user.Email,
		"exp":    now.Add(u.sessionExpiry).Unix(),
		"iat":    now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.jwtSecret)
}

func (u *authUsecase) ValidateSession(tokenString string) (*authdomain.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return u.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	if err != nil {
		return nil, apperror.Wrap(apperror.ErrUnauthenticated, "session.verify", err)
	}
	if !token.Valid {
		return nil, apperror.New(apperror.ErrUnauthenticated, "session.verify")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperror.New(apperror.ErrUnauthenticated, "session.claims")
	}

	userID, _ := claims["userId"].(string)
	email, _ := claims["email"].(string)
	if userID == "" || email == "" {
		return nil, apperror.New(apperror.ErrUnauthenticated, "session.claims")
	}

	session := &authdomain.Session{UserID: userID, Email: email}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}
	return session, nil
}

func (u *authUsecase) GetUser(ctx context.Context, userID string) (*authdomain.User, error) {
	return u.userRepo.FindByID(ctx, userID)
}

func (u *authUsecase) RefreshTokenFor(ctx context.Context, userID string) (string, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if user == nil || user.GoogleRefreshToken == "" {
		return "", apperror.New(apperror.ErrNotFound, "credential")
	}

	refreshToken, err := u.vault.Open(user.GoogleRefreshToken)
	if err != nil {
		// Unreadable under the current key; the user must sign in again.
		return "", apperror.Wrap(apperror.ErrNotFound, "credential", err)
	}
	return refreshToken, nil
}
