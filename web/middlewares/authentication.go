package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staffhub.io/staffhub/security"
	"staffhub.io/staffhub/web/common"
)

const IdentityKey = "identity"

// token reads a bearer header first and falls back to the session cookie.
func token(c *gin.Context, cookieName string) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			return "", false
		}
		return cookie, true
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// Authentication accepts a bearer token or the session cookie and stores the
// caller's identity in the context.
func Authentication(secret []byte, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := token(c, cookieName)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Please login to continue"))
			return
		}

		identity, err := security.ParseIdentityToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse(security.ErrInvalidToken.Error()))
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Authentication, or nil.
func CurrentIdentity(c *gin.Context) *security.Identity {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*security.Identity)
	return identity
}

func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := CurrentIdentity(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, common.NewErrorResponse("Please login to continue"))
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, common.NewErrorResponse("You don't have access to this resource"))
	}
}
