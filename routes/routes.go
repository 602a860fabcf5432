package routes

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"service-review-server/config"
	"service-review-server/middleware"
	"service-review-server/services"
)

var (
	catalog *services.CatalogService
	auth    *services.AuthService
)

// SetupRouter assembles the full HTTP surface: public pages, the token-gated
// JSON API under /api/v1 and the session-gated browser admin panel.
func SetupRouter(cfg *config.Config, db *gorm.DB, templateGlob string) *gin.Engine {
	catalog = services.NewCatalogService(db)
	auth = services.NewAuthService(cfg.Admin)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())

	store := cookie.NewStore([]byte(cfg.Admin.SessionSecret))
	router.Use(sessions.Sessions("admin_session", store))

	router.LoadHTMLGlob(templateGlob)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Service Review Server is running",
			"time":    time.Now().UTC(),
		})
	})

	RegisterPublicRoutes(router)

	api := router.Group("/api/v1")
	api.Use(middleware.CORSMiddleware())
	RegisterAPIRoutes(api)

	RegisterAdminPanelRoutes(router)

	return router
}

// parseID reads a numeric :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parseMinRating reads the optional min_rating query parameter. Malformed
// input is treated as absent, not as an error.
func parseMinRating(c *gin.Context) *float64 {
	raw := c.Query("min_rating")
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// urlEscape encodes a message for use in a redirect query parameter.
func urlEscape(s string) string {
	return url.QueryEscape(s)
}

// respondAPIError maps service-layer errors onto the API status codes.
func respondAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case services.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
