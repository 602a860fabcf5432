package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"service-review-server/config"
	"service-review-server/models"
	"service-review-server/services"
)

const (
	testPassword = "test-admin-password"
	testToken    = "test-api-token"
)

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Service{}, &models.Feedback{}))

	cfg := &config.Config{
		Admin: config.AdminConfig{
			Password:      testPassword,
			APIToken:      testToken,
			SessionSecret: "test-session-secret",
		},
	}

	return SetupRouter(cfg, db, "../templates/*.html"), db
}

func seedService(t *testing.T, db *gorm.DB, name string) *models.Service {
	service, err := services.NewCatalogService(db).CreateService(models.ServiceCreate{Name: name})
	require.NoError(t, err)
	return service
}

func doRequest(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServicesPage(t *testing.T) {
	router, db := setupTestServer(t)
	seedService(t, db, "Car Wash")

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/services", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Car Wash")
}

func TestServiceDetailNotFound(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/services/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitFeedbackFormRedirects(t *testing.T) {
	router, db := setupTestServer(t)
	service := seedService(t, db, "Car Wash")

	form := url.Values{
		"service_id": {"1"},
		"content":    {"very clean"},
		"rating":     {"4"},
	}
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := doRequest(router, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/services/1", w.Header().Get("Location"))

	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Where("service_id = ?", service.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSubmitFeedbackInvalidRating(t *testing.T) {
	router, db := setupTestServer(t)
	seedService(t, db, "Car Wash")

	form := url.Values{
		"service_id": {"1"},
		"content":    {"bad rating"},
		"rating":     {"9"},
	}
	req := httptest.NewRequest(http.MethodPost, "/feedback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := doRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMalformedMinRatingIsIgnored(t *testing.T) {
	router, db := setupTestServer(t)
	seedService(t, db, "Car Wash")

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/services?min_rating=notanumber", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Car Wash")
}

func TestAPIListServices(t *testing.T) {
	router, db := setupTestServer(t)
	seedService(t, db, "Car Wash")

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/services", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool                       `json:"success"`
		Data    []models.ServiceWithRating `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, 0.0, resp.Data[0].AvgRating)
}

func TestTokenGateRejectsMissingToken(t *testing.T) {
	router, db := setupTestServer(t)
	service := seedService(t, db, "Car Wash")

	w := doRequest(router, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/services/1", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/services/1", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	w = doRequest(router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// service must still be present
	var count int64
	require.NoError(t, db.Model(&models.Service{}).Where("id = ?", service.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestTokenGateAllowsCRUD(t *testing.T) {
	router, db := setupTestServer(t)

	req := jsonRequest(http.MethodPost, "/api/v1/admin/services", gin.H{
		"name":        "Car Wash",
		"description": "shiny",
	})
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := doRequest(router, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = jsonRequest(http.MethodPut, "/api/v1/admin/services/1", gin.H{"name": "Premium Car Wash"})
	req.Header.Set("Authorization", "Bearer "+testToken)
	w = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var service models.Service
	require.NoError(t, db.First(&service, 1).Error)
	assert.Equal(t, "Premium Car Wash", service.Name)
	assert.Equal(t, "shiny", service.Description)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/services/1", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Service{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestTokenGateValidationError(t *testing.T) {
	router, _ := setupTestServer(t)

	req := jsonRequest(http.MethodPost, "/api/v1/admin/services", gin.H{"name": "x"})
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := doRequest(router, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenGateDeleteMissingServiceIs404(t *testing.T) {
	router, _ := setupTestServer(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/services/999", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := doRequest(router, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionGateRedirectsToLogin(t *testing.T) {
	router, _ := setupTestServer(t)

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/admin/services", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))
}

func TestSessionGateRejectsMutationWithout401(t *testing.T) {
	router, _ := setupTestServer(t)

	form := url.Values{"name": {"Car Wash"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/services", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := doRequest(router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func adminLoginSession(t *testing.T, router *gin.Engine) []*http.Cookie {
	form := url.Values{"password": {testPassword}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := doRequest(router, req)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/admin/services", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func TestSessionLoginWrongPassword(t *testing.T) {
	router, _ := setupTestServer(t)

	form := url.Values{"password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := doRequest(router, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionLoginGrantsAccess(t *testing.T) {
	router, db := setupTestServer(t)
	seedService(t, db, "Car Wash")

	cookies := adminLoginSession(t, router)

	req := httptest.NewRequest(http.MethodGet, "/admin/services", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := doRequest(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Car Wash")
}

func TestSessionLogoutClearsAccess(t *testing.T) {
	router, _ := setupTestServer(t)
	cookies := adminLoginSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := doRequest(router, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	// the logout response rewrites the session cookie
	cleared := w.Result().Cookies()
	req = httptest.NewRequest(http.MethodGet, "/admin/services", nil)
	for _, cookie := range cleared {
		req.AddCookie(cookie)
	}
	w = doRequest(router, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestSessionPanelCreateAndDeleteService(t *testing.T) {
	router, db := setupTestServer(t)
	cookies := adminLoginSession(t, router)

	form := url.Values{"name": {"Car Wash"}, "description": {"shiny"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/services", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := doRequest(router, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Service{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	req = httptest.NewRequest(http.MethodPost, "/admin/services/1/delete", nil)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w = doRequest(router, req)
	require.Equal(t, http.StatusSeeOther, w.Code)

	require.NoError(t, db.Model(&models.Service{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestTokenDoesNotSatisfySessionGate(t *testing.T) {
	router, _ := setupTestServer(t)

	// a valid API token is meaningless to the browser panel
	req := httptest.NewRequest(http.MethodGet, "/admin/services", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := doRequest(router, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestAPITopServices(t *testing.T) {
	router, db := setupTestServer(t)
	svc := services.NewCatalogService(db)
	service := seedService(t, db, "Car Wash")
	seedService(t, db, "Unreviewed")
	_, err := svc.SubmitFeedback(models.FeedbackCreate{ServiceID: service.ID, Content: "good", Rating: 5})
	require.NoError(t, err)

	w := doRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/services/top", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []models.ServiceWithRating `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Car Wash", resp.Data[0].Name)
}

func TestAPIFeedbackModeration(t *testing.T) {
	router, db := setupTestServer(t)
	svc := services.NewCatalogService(db)
	service := seedService(t, db, "Car Wash")
	feedback, err := svc.SubmitFeedback(models.FeedbackCreate{ServiceID: service.ID, Content: "spam", Rating: 1})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/feedback", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "spam")

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/feedback/1", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w = doRequest(router, req)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Feedback{}).Where("id = ?", feedback.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// deleting again is still a success; the operation is a no-op
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/admin/feedback/1", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	w = doRequest(router, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
