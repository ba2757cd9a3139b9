package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"newsroom-backend/internal/domains/access"
	"newsroom-backend/pkg/jwt"
)

const (
	// ContextPrincipal là key lưu *access.Principal trong gin context
	ContextPrincipal   = "principal"
	ContextCredentials = "api_credentials"

	HeaderAPIKey    = "X-API-Key"
	HeaderFetchCode = "X-Fetch-Code"
)

// Session parses an optional bearer token. No header means no session; a
// header that does not verify is rejected so a broken client never silently
// falls back to the public projection.
func Session(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Không có Authorization header → anonymous, tiếp tục
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		// 3. Verify access token
		claims, err := manager.ValidateAccessToken(parts[1])
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("session token rejected")
			abortUnauthorized(c, "invalid token")
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			abortUnauthorized(c, "invalid user ID in token")
			return
		}

		// 4. Set principal vào gin context + request context
		p := access.NewUserPrincipal(userID, claims.Email, claims.Roles)
		c.Set(ContextPrincipal, p)
		c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), p))

		c.Next()
	}
}

// APICredentials copies the frontend reader credentials into the context.
// Validation happens in the access policy, never here.
func APICredentials() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextCredentials, access.Credentials{
			APIKey:    strings.TrimSpace(c.GetHeader(HeaderAPIKey)),
			FetchCode: strings.TrimSpace(c.GetHeader(HeaderFetchCode)),
		})
		c.Next()
	}
}

// RequireSession rejects requests without a logged-in user
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !GetPrincipal(c).HasSession() {
			abortUnauthorized(c, "authentication required")
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the session principal, or nil
func GetPrincipal(c *gin.Context) *access.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*access.Principal)
	return p
}

// GetCredentials returns the API credentials sent with the request
func GetCredentials(c *gin.Context) access.Credentials {
	v, _ := c.Get(ContextCredentials)
	creds, _ := v.(access.Credentials)
	return creds
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "AUTH_001",
			"message": message,
		},
	})
}
