package middlewares

import "github.com/gin-gonic/gin"

// SecurityHeaders sets conservative browser headers. The camera stays
// available to the app itself for face attendance.
func SecurityHeaders(contentSecurityPolicy string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Permissions-Policy", "camera=(self), microphone=(), geolocation=()")
		if contentSecurityPolicy != "" {
			h.Set("Content-Security-Policy", contentSecurityPolicy)
		}
		c.Next()
	}
}
