package identity_fx

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"tripbuddy/internal/infra"
	"tripbuddy/pkg/utils"
)

var ErrNoVerifier = errors.New("AUTH_REQUIRED is set but neither AUTH0_DOMAIN nor JWT_SECRET is configured")

var Module = fx.Provide(provideVerifier)

// provideVerifier prefers Auth0 over a shared secret. It returns a nil
// verifier when neither is configured, which turns token checks off.
func provideVerifier(cfg *infra.Config) (utils.IdentityVerifier, error) {
	switch {
	case cfg.Auth0Domain != "":
		verifier, err := utils.NewAuth0Verifier(context.Background(), cfg.Auth0Domain, cfg.Auth0Audience)
		if err != nil {
			return nil, err
		}
		logrus.WithField("domain", cfg.Auth0Domain).Info("Auth0 token verification enabled")
		return verifier, nil
	case cfg.JWTSecret != "":
		logrus.Info("HS256 token verification enabled")
		return utils.NewHMACVerifier(cfg.JWTSecret), nil
	case cfg.AuthRequired:
		return nil, ErrNoVerifier
	default:
		logrus.Warn("No identity provider configured, trusting client-supplied auth0Id")
		return nil, nil
	}
}
