package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"service-review-server/services"
)

const sessionAdminKey = "is_admin"

// TokenAuthMiddleware gates the JSON admin API with the static bearer token.
// Stateless: every request carries the credential, no session is consulted.
func TokenAuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Authorization header required",
				"message": "Please provide a valid token",
			})
			c.Abort()
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader || !auth.CheckToken(token) {
			log.Printf("❌ API token rejected for %s %s", c.Request.Method, c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "Invalid token",
				"message": "Token is invalid",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SessionAuthMiddleware gates the browser admin panel. Page requests without
// an admin session are redirected to the login form; mutation requests get a
// plain 401.
func SessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		isAdmin, _ := session.Get(sessionAdminKey).(bool)
		if !isAdmin {
			if c.Request.Method == http.MethodGet {
				c.Redirect(http.StatusFound, "/admin/login")
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error":   "Unauthorized",
					"message": "Admin login required",
				})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// SetAdminSession flags the current session as admin after a successful login.
func SetAdminSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Set(sessionAdminKey, true)
	return session.Save()
}

// ClearAdminSession drops the admin flag on logout.
func ClearAdminSession(c *gin.Context) error {
	session := sessions.Default(c)
	session.Delete(sessionAdminKey)
	return session.Save()
}
