package routes

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-review-server/models"
	"service-review-server/services"
)

// RegisterPublicRoutes registers the visitor-facing HTML pages
func RegisterPublicRoutes(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/services")
	})
	router.GET("/services", listServicesPage)
	router.GET("/services/:id", serviceDetailPage)
	router.POST("/feedback", submitFeedback)
}

// listServicesPage renders the service listing, optionally filtered by a name
// substring (q) and a minimum average rating (min_rating)
func listServicesPage(c *gin.Context) {
	namePattern := c.Query("q")
	minRating := parseMinRating(c)

	rows, err := catalog.SearchServices(namePattern, minRating)
	if err != nil {
		log.Printf("❌ Failed to fetch services: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"Message": "Failed to load services",
		})
		return
	}

	c.HTML(http.StatusOK, "services.html", gin.H{
		"Services":  rows,
		"Query":     namePattern,
		"MinRating": c.Query("min_rating"),
	})
}

// serviceDetailPage renders one service with its feedback, newest first
func serviceDetailPage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
		return
	}

	detail, err := catalog.GetServiceWithFeedback(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
			return
		}
		log.Printf("❌ Failed to fetch service %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load service"})
		return
	}

	c.HTML(http.StatusOK, "service_detail.html", gin.H{
		"Service":  detail.Service,
		"Feedback": detail.Feedback,
	})
}

// submitFeedback handles the visitor review form. On success the browser is
// sent back to the service detail page; validation failures re-render the
// page with the message.
func submitFeedback(c *gin.Context) {
	var req models.FeedbackCreate
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Message": "Invalid form submission"})
		return
	}

	if _, err := catalog.SubmitFeedback(req); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
			return
		}
		if services.IsValidationError(err) {
			detail, derr := catalog.GetServiceWithFeedback(req.ServiceID)
			if derr != nil {
				c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
				return
			}
			c.HTML(http.StatusBadRequest, "service_detail.html", gin.H{
				"Service":  detail.Service,
				"Feedback": detail.Feedback,
				"Error":    err.Error(),
			})
			return
		}
		log.Printf("❌ Failed to submit feedback: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to submit feedback"})
		return
	}

	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/services/%d", req.ServiceID))
}
