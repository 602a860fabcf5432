package routes

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"service-review-server/middleware"
	"service-review-server/models"
	"service-review-server/services"
)

// RegisterAdminPanelRoutes registers the browser admin panel: the login
// exchange plus the session-gated CRUD and moderation forms
func RegisterAdminPanelRoutes(router *gin.Engine) {
	router.GET("/admin/login", adminLoginPage)
	router.POST("/admin/login", adminLogin)

	panel := router.Group("/admin")
	panel.Use(middleware.SessionAuthMiddleware())
	{
		panel.POST("/logout", adminLogout)

		panel.GET("/services", adminServicesPage)
		panel.POST("/services", adminCreateService)
		panel.POST("/services/:id/update", adminUpdateService)
		panel.POST("/services/:id/delete", adminDeleteService)

		panel.GET("/feedback", adminFeedbackPage)
		panel.POST("/feedback/:id/delete", adminDeleteFeedback)
	}
}

func adminLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "admin_login.html", gin.H{})
}

// adminLogin exchanges the admin password for a session marker
func adminLogin(c *gin.Context) {
	password := c.PostForm("password")
	if !auth.CheckPassword(password) {
		log.Printf("❌ Admin login failed")
		c.HTML(http.StatusUnauthorized, "admin_login.html", gin.H{
			"Error": "Invalid password",
		})
		return
	}

	if err := middleware.SetAdminSession(c); err != nil {
		log.Printf("❌ Failed to save admin session: %v", err)
		c.HTML(http.StatusInternalServerError, "admin_login.html", gin.H{
			"Error": "Failed to start session",
		})
		return
	}

	log.Printf("✅ Admin logged in")
	c.Redirect(http.StatusSeeOther, "/admin/services")
}

// adminLogout clears the session marker
func adminLogout(c *gin.Context) {
	if err := middleware.ClearAdminSession(c); err != nil {
		log.Printf("❌ Failed to clear admin session: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

// adminServicesPage renders the service management list with the create form
func adminServicesPage(c *gin.Context) {
	rows, err := catalog.ListServicesWithRatings()
	if err != nil {
		log.Printf("❌ Failed to fetch services: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load services"})
		return
	}

	c.HTML(http.StatusOK, "admin_services.html", gin.H{
		"Services": rows,
		"Error":    c.Query("error"),
	})
}

func adminCreateService(c *gin.Context) {
	var req models.ServiceCreate
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/admin/services?error=Invalid+form+submission")
		return
	}

	service, err := catalog.CreateService(req)
	if err != nil {
		if services.IsValidationError(err) {
			c.Redirect(http.StatusSeeOther, "/admin/services?error="+urlEscape(err.Error()))
			return
		}
		log.Printf("❌ Failed to create service: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to create service"})
		return
	}

	log.Printf("✅ Service created: %s (ID: %d)", service.Name, service.ID)
	c.Redirect(http.StatusSeeOther, "/admin/services")
}

func adminUpdateService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
		return
	}

	var req models.ServiceUpdate
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusSeeOther, "/admin/services?error=Invalid+form+submission")
		return
	}

	service, err := catalog.UpdateService(id, req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
			return
		}
		if services.IsValidationError(err) {
			c.Redirect(http.StatusSeeOther, "/admin/services?error="+urlEscape(err.Error()))
			return
		}
		log.Printf("❌ Failed to update service %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to update service"})
		return
	}

	log.Printf("✅ Service updated: %s (ID: %d)", service.Name, service.ID)
	c.Redirect(http.StatusSeeOther, "/admin/services")
}

func adminDeleteService(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
		return
	}

	if err := catalog.DeleteService(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Service not found"})
			return
		}
		log.Printf("❌ Failed to delete service %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to delete service"})
		return
	}

	log.Printf("✅ Service deleted (ID: %d)", id)
	c.Redirect(http.StatusSeeOther, "/admin/services")
}

// adminFeedbackPage renders the moderation list with the dashboard stats
func adminFeedbackPage(c *gin.Context) {
	rows, err := catalog.ListFeedback()
	if err != nil {
		log.Printf("❌ Failed to fetch feedback: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load feedback"})
		return
	}

	stats, err := catalog.FeedbackStats()
	if err != nil {
		log.Printf("❌ Failed to compute feedback stats: %v", err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to load feedback"})
		return
	}

	c.HTML(http.StatusOK, "admin_feedback.html", gin.H{
		"Feedback": rows,
		"Stats":    stats,
	})
}

func adminDeleteFeedback(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.HTML(http.StatusNotFound, "error.html", gin.H{"Message": "Feedback not found"})
		return
	}

	if err := catalog.DeleteFeedback(id); err != nil {
		log.Printf("❌ Failed to delete feedback %d: %v", id, err)
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Message": "Failed to delete feedback"})
		return
	}

	c.Redirect(http.StatusSeeOther, "/admin/feedback")
}
