package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextUserClaims is the key used to store user claims in the Gin context.
	ContextUserClaims = "userClaims"

	userIDClaim = "userID"
)

// Authorize rejects requests without a valid bearer token and stores the
// token claims in the context.
func Authorize(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if id, _ := claims[userIDClaim].(string); id == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextUserClaims, claims)
		c.Next()
	}
}

// UserID returns the authenticated user's ID, or "" outside Authorize.
func UserID(c *gin.Context) string {
	value, ok := c.Get(ContextUserClaims)
	if !ok {
		return ""
	}
	claims, ok := value.(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := claims[userIDClaim].(string)
	return id
}

// bearerToken reads the token from the Authorization header. Browsers cannot
// set headers on websocket upgrades, so the access_token query parameter is
// accepted as well.
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		token := c.Query("access_token")
		return token, token != ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
