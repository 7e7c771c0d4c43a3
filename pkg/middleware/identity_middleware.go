package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"tripbuddy/pkg/utils"
)

const (
	Auth0IDKey  = "auth0_id"
	IdentityKey = "identity"

	verifiedOnlyKey = "identity_verified_only"
)

// IdentityMiddleware resolves the caller from a bearer token. With a nil
// verifier nothing is checked and handlers fall back to the auth0Id the
// client sends.
func IdentityMiddleware(verifier utils.IdentityVerifier, required bool) gin.HandlerFunc {

	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}
		c.Set(verifiedOnlyKey, true)

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			if required {
				utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
				return
			}
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		identity, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(Auth0IDKey, identity.Subject)
		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// Auth0ID returns the caller's identity. fallback is a client-supplied value
// and is only honoured when no verifier is configured.
func Auth0ID(c *gin.Context, fallback string) string {
	if id := c.GetString(Auth0IDKey); id != "" {
		return id
	}
	if c.GetBool(verifiedOnlyKey) {
		return ""
	}
	return fallback
}

// VerificationEnabled reports whether a verifier is configured, so handlers
// can tell an anonymous caller apart from a deployment without identities.
func VerificationEnabled(c *gin.Context) bool {
	return c.GetBool(verifiedOnlyKey)
}
