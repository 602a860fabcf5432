package routes

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"service-review-server/middleware"
	"service-review-server/models"
)

// RegisterAPIRoutes registers the JSON API: public reads plus the token-gated
// admin mutations
func RegisterAPIRoutes(api *gin.RouterGroup) {
	api.GET("/services", apiListServices)
	api.GET("/services/top", apiTopServices)
	api.GET("/services/:id", apiGetService)

	admin := api.Group("/admin")
	admin.Use(middleware.TokenAuthMiddleware(auth))
	{
		admin.POST("/services", apiCreateService)
		admin.PUT("/services/:id", apiUpdateService)
		admin.DELETE("/services/:id", apiDeleteService)

		admin.GET("/feedback", apiListFeedback)
		admin.GET("/feedback/stats", apiFeedbackStats)
		admin.DELETE("/feedback/:id", apiDeleteFeedback)
	}
}

// apiListServices returns all services with their rating aggregates. Supports
// the same q / min_rating filters as the HTML listing.
func apiListServices(c *gin.Context) {
	rows, err := catalog.SearchServices(c.Query("q"), parseMinRating(c))
	if err != nil {
		log.Printf("❌ Failed to fetch services: %v", err)
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// apiTopServices returns the best-rated services that have at least one review
func apiTopServices(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if err != nil || limit < 1 {
		limit = 5
	}

	rows, err := catalog.TopServices(limit)
	if err != nil {
		log.Printf("❌ Failed to fetch top services: %v", err)
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// apiGetService returns a single service with its feedback list
func apiGetService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	detail, err := catalog.GetServiceWithFeedback(id)
	if err != nil {
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
	})
}

// apiCreateService creates a new service
func apiCreateService(c *gin.Context) {
	var req models.ServiceCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	service, err := catalog.CreateService(req)
	if err != nil {
		respondAPIError(c, err)
		return
	}

	log.Printf("✅ Service created: %s (ID: %d)", service.Name, service.ID)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Service created successfully",
		"data":    service,
	})
}

// apiUpdateService applies a partial update to an existing service
func apiUpdateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var req models.ServiceUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	service, err := catalog.UpdateService(id, req)
	if err != nil {
		respondAPIError(c, err)
		return
	}

	log.Printf("✅ Service updated: %s (ID: %d)", service.Name, service.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service updated successfully",
		"data":    service,
	})
}

// apiDeleteService deletes a service and all of its feedback
func apiDeleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	if err := catalog.DeleteService(id); err != nil {
		respondAPIError(c, err)
		return
	}

	log.Printf("✅ Service deleted (ID: %d)", id)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service deleted successfully",
		"data":    gin.H{"id": id},
	})
}

// apiListFeedback returns all feedback for moderation, newest first
func apiListFeedback(c *gin.Context) {
	rows, err := catalog.ListFeedback()
	if err != nil {
		log.Printf("❌ Failed to fetch feedback: %v", err)
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
	})
}

// apiFeedbackStats returns feedback statistics for the admin dashboard
func apiFeedbackStats(c *gin.Context) {
	stats, err := catalog.FeedbackStats()
	if err != nil {
		log.Printf("❌ Failed to compute feedback stats: %v", err)
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// apiDeleteFeedback deletes a feedback entry; a missing id is a no-op
func apiDeleteFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid feedback ID"})
		return
	}

	if err := catalog.DeleteFeedback(id); err != nil {
		log.Printf("❌ Failed to delete feedback: %v", err)
		respondAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Feedback deleted successfully",
	})
}
