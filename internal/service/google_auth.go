package service

import (
	"context"
	"errors"
	"fmt"

	"easycare-booking-api/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// GoogleUser is the subset of verified ID-token claims the auth flow needs.
type GoogleUser struct {
	Sub       string
	Email     string
	GivenName string
	Picture   string
}

// GoogleAuthService verifies Google identity assertions. Two entry points
// exist: VerifyCredential for the One Tap POST flow, and the
// AuthCodeURL/Exchange pair for the classic redirect flow.
type GoogleAuthService struct {
	clientID  string
	oauthConf *oauth2.Config
}

func NewGoogleAuthService(cfg config.GoogleConfig) *GoogleAuthService {
	return &GoogleAuthService{
		clientID: cfg.ClientID,
		oauthConf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     google.Endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
	}
}

// VerifyCredential validates a Google ID token against the provider's
// public keys and the configured client id as audience.
func (s *GoogleAuthService) VerifyCredential(ctx context.Context, credential string) (*GoogleUser, error) {
	payload, err := idtoken.Validate(ctx, credential, s.clientID)
	if err != nil {
		return nil, fmt.Errorf("id token validation failed: %w", err)
	}
	return userFromClaims(payload.Claims)
}

// AuthCodeURL builds the redirect URL for the classic OAuth flow.
func (s *GoogleAuthService) AuthCodeURL(state string) string {
	return s.oauthConf.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange swaps an authorization code for tokens and verifies the bundled
// ID token the same way as the One Tap path.
func (s *GoogleAuthService) Exchange(ctx context.Context, code string) (*GoogleUser, error) {
	token, err := s.oauthConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("token response carries no id_token")
	}
	return s.VerifyCredential(ctx, rawIDToken)
}

func userFromClaims(claims map[string]interface{}) (*GoogleUser, error) {
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, errors.New("id token carries no email claim")
	}
	sub, _ := claims["sub"].(string)
	givenName, _ := claims["given_name"].(string)
	if givenName == "" {
		// Some accounts only expose the full name
		givenName, _ = claims["name"].(string)
	}
	picture, _ := claims["picture"].(string)

	return &GoogleUser{
		Sub:       sub,
		Email:     email,
		GivenName: givenName,
		Picture:   picture,
	}, nil
}
