package utils

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingSubject = errors.New("token has no subject")

// Identity is a verified caller. Subject is the Auth0 "sub" claim and is the
// owner key stored on trips.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

type Claims struct {
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) identity() (*Identity, error) {
	if c.Subject == "" {
		return nil, ErrMissingSubject
	}
	return &Identity{Subject: c.Subject, Email: c.Email, Name: c.Name}, nil
}

// Auth0Verifier checks RS256 access tokens against the tenant's JWKS.
type Auth0Verifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	audience string
}

func NewAuth0Verifier(ctx context.Context, domain, audience string) (*Auth0Verifier, error) {
	domain = strings.TrimSuffix(strings.TrimPrefix(domain, "https://"), "/")
	if domain == "" {
		return nil, errors.New("auth0 domain is required")
	}
	issuer := "https://" + domain + "/"

	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{issuer + ".well-known/jwks.json"})
	if err != nil {
		return nil, fmt.Errorf("failed to load auth0 JWKS: %w", err)
	}

	return &Auth0Verifier{jwks: jwks, issuer: issuer, audience: audience}, nil
}

func (v *Auth0Verifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(v.issuer),
		jwt.WithExpirationRequired(),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims.identity()
}

// HMACVerifier accepts HS256 tokens signed with a shared secret. Used for
// local development and tests.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

func (v *HMACVerifier) Verify(_ context.Context, tokenString string) (*Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims.identity()
}

// CreateToken signs an HS256 token for subject, valid for ttl.
func CreateToken(secret, subject string, ttl time.Duration) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
