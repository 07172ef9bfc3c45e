package google

import (
	"context"
	"time"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"inboxcal-backend/pkg/apperror"
)

// Scopes requested at sign-in. Mail and calendar access are read-only.
var Scopes = []string{
	"openid",
	"email",
	"profile",
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar.readonly",
}

// Token is the result of a code exchange or refresh.
// RefreshToken is empty when the provider did not grant offline access.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// UserInfo is the signed-in user's Google profile.
type UserInfo struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// TokenProvider talks to Google's OAuth endpoints.
type TokenProvider struct {
	config       *oauth2.Config
	userInfoOpts []option.ClientOption
}

// NewTokenProvider builds a provider for the Google endpoint.
func NewTokenProvider(clientID, clientSecret, redirectURL string) *TokenProvider {
	return NewTokenProviderWithEndpoint(clientID, clientSecret, redirectURL, googleoauth.Endpoint)
}

// NewTokenProviderWithEndpoint allows pointing at a different token server.
func NewTokenProviderWithEndpoint(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userInfoOpts ...option.ClientOption) *TokenProvider {
	return &TokenProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       Scopes,
			Endpoint:     endpoint,
		},
		userInfoOpts: userInfoOpts,
	}
}

// AuthCodeURL returns the consent URL. Offline access and a forced consent
// prompt make Google return a refresh token on every sign-in.
func (p *TokenProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades an authorization code for tokens.
func (p *TokenProvider) Exchange(ctx context.Context, code string) (*Token, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrAuth, "google.exchange", err)
	}
	return toToken(tok), nil
}

// Refresh obtains a new access token. The result is meant for a single sync
// cycle and is not cached.
func (p *TokenProvider) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	src := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrAuth, "google.refresh", err)
	}
	return toToken(tok), nil
}

// AccessToken satisfies the sync coordinator's token source.
func (p *TokenProvider) AccessToken(ctx context.Context, refreshToken string) (string, error) {
	tok, err := p.Refresh(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// UserInfo fetches the profile behind an access token.
func (p *TokenProvider) UserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	opts := append([]option.ClientOption{
		option.WithTokenSource(StaticTokenSource(accessToken)),
	}, p.userInfoOpts...)

	srv, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrAuth, "google.userinfo", err)
	}
	info, err := srv.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, apperror.Wrap(apperror.ErrAuth, "google.userinfo", WrapError(err))
	}
	return &UserInfo{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// StaticTokenSource wraps an access token for a single cycle's API clients.
func StaticTokenSource(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
}

func toToken(tok *oauth2.Token) *Token {
	var expiresIn int64
	if !tok.Expiry.IsZero() {
		expiresIn = int64(time.Until(tok.Expiry).Seconds())
	}
	return &Token{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresIn:    expiresIn,
	}
}
