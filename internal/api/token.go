package api

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// TokenGetter reads the stored bearer token. storage.TokenStore satisfies
// it.
type TokenGetter interface {
	Get(ctx context.Context) (string, error)
}

// storeTokenSource adapts a TokenGetter to oauth2.TokenSource. It reads the
// store on every call so a cleared token is never reused.
type storeTokenSource struct {
	ctx    context.Context
	tokens TokenGetter
}

// TokenSource returns an oauth2.TokenSource over tokens bound to ctx.
func TokenSource(ctx context.Context, tokens TokenGetter) oauth2.TokenSource {
	return &storeTokenSource{ctx: ctx, tokens: tokens}
}

func (s *storeTokenSource) Token() (*oauth2.Token, error) {
	raw, err := s.tokens.Get(s.ctx)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{
		AccessToken: raw,
		TokenType:   "Bearer",
		Expiry:      Expiry(raw),
	}
	if !tok.Valid() {
		return nil, common.ErrTokenExpired
	}
	return tok, nil
}

// Expiry reads the exp claim of a JWT access token without verifying its
// signature; only the server can do that. Opaque tokens and tokens without
// exp report the zero time, meaning no known expiry.
func Expiry(raw string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
