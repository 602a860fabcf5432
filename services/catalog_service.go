package services

import (
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"service-review-server/models"
)

// CatalogService owns all reads and writes against the services and feedback
// tables. Rating aggregates are always recomputed from current rows, never
// stored; write volume is low and the averages must reflect every submission
// immediately.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

const ratingColumns = "services.id, services.name, services.description, " +
	"services.created_at, services.updated_at, " +
	"COALESCE(AVG(feedback.rating), 0) AS avg_rating, " +
	"COUNT(feedback.id) AS review_count"

// ratingQuery builds the service/feedback join grouped per service.
func (s *CatalogService) ratingQuery() *gorm.DB {
	return s.db.Model(&models.Service{}).
		Select(ratingColumns).
		Joins("LEFT JOIN feedback ON feedback.service_id = services.id").
		Group("services.id").
		Order("avg_rating DESC, review_count DESC")
}

// ListServices returns all services without aggregates, ordered by name.
func (s *CatalogService) ListServices() ([]models.Service, error) {
	var services []models.Service
	if err := s.db.Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// ListServicesWithRatings returns every service with its average rating and
// review count. Services without feedback get avg_rating 0, not NULL.
func (s *CatalogService) ListServicesWithRatings() ([]models.ServiceWithRating, error) {
	var rows []models.ServiceWithRating
	if err := s.ratingQuery().Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TopServices returns up to limit services that have at least one review,
// best-rated first. Zero-review services are never "top".
func (s *CatalogService) TopServices(limit int) ([]models.ServiceWithRating, error) {
	var rows []models.ServiceWithRating
	if err := s.ratingQuery().
		Having("COUNT(feedback.id) > 0").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchServices filters the rated listing. namePattern is a case-insensitive
// substring match on the service name; minRating is applied against the
// aggregated average, so it filters after grouping. With neither filter the
// result matches ListServicesWithRatings.
func (s *CatalogService) SearchServices(namePattern string, minRating *float64) ([]models.ServiceWithRating, error) {
	query := s.ratingQuery()
	if namePattern != "" {
		query = query.Where("LOWER(services.name) LIKE ?", "%"+strings.ToLower(namePattern)+"%")
	}
	if minRating != nil {
		query = query.Having("COALESCE(AVG(feedback.rating), 0) >= ?", *minRating)
	}

	var rows []models.ServiceWithRating
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// GetServiceWithFeedback returns one service and its feedback, newest first.
// A missing id yields ErrNotFound, distinct from a service with no feedback.
func (s *CatalogService) GetServiceWithFeedback(id uint) (*models.ServiceDetail, error) {
	var service models.Service
	if err := s.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var feedback []models.Feedback
	if err := s.db.Where("service_id = ?", id).Order("id DESC").Find(&feedback).Error; err != nil {
		return nil, err
	}

	return &models.ServiceDetail{Service: service, Feedback: feedback}, nil
}

// CreateService validates and inserts a new service.
func (s *CatalogService) CreateService(in models.ServiceCreate) (*models.Service, error) {
	name := strings.TrimSpace(in.Name)
	if err := validateServiceName(name); err != nil {
		return nil, err
	}

	service := models.Service{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
	}
	if err := s.db.Create(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// UpdateService applies a partial update; omitted fields keep their stored
// value. UpdatedAt is refreshed on every successful update.
func (s *CatalogService) UpdateService(id uint, in models.ServiceUpdate) (*models.Service, error) {
	var service models.Service
	if err := s.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateServiceName(name); err != nil {
			return nil, err
		}
		service.Name = name
	}
	if in.Description != nil {
		service.Description = strings.TrimSpace(*in.Description)
	}

	if err := s.db.Save(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// DeleteService removes a service and, via the cascade, all of its feedback.
func (s *CatalogService) DeleteService(id uint) error {
	var service models.Service
	if err := s.db.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Delete(&service).Error
}

// SubmitFeedback validates and inserts a visitor review. A blank author
// becomes "Anonymous". The service must exist; the store-level foreign key
// backs this check against a concurrent delete.
func (s *CatalogService) SubmitFeedback(in models.FeedbackCreate) (*models.Feedback, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, newValidationError("content must not be empty")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, newValidationError("rating must be between 1 and 5")
	}

	var count int64
	if err := s.db.Model(&models.Service{}).Where("id = ?", in.ServiceID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = "Anonymous"
	}

	feedback := models.Feedback{
		ServiceID: in.ServiceID,
		Author:    author,
		Content:   content,
		Rating:    in.Rating,
	}
	if err := s.db.Create(&feedback).Error; err != nil {
		// Lost the race against a service delete; the FK rejected the insert.
		return nil, ErrNotFound
	}
	return &feedback, nil
}

// DeleteFeedback removes a feedback row by id. Deleting a missing id is a
// no-op, not an error.
func (s *CatalogService) DeleteFeedback(id uint) error {
	return s.db.Delete(&models.Feedback{}, id).Error
}

// ListFeedback returns all feedback joined with service names, newest first,
// for the moderation views.
func (s *CatalogService) ListFeedback() ([]models.FeedbackWithService, error) {
	var rows []models.FeedbackWithService
	if err := s.db.Model(&models.Feedback{}).
		Select("feedback.id, feedback.service_id, services.name AS service_name, feedback.author, feedback.content, feedback.rating, feedback.created_at").
		Joins("JOIN services ON services.id = feedback.service_id").
		Order("feedback.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FeedbackStats computes the admin dashboard numbers across all feedback.
func (s *CatalogService) FeedbackStats() (*models.FeedbackStats, error) {
	var stats models.FeedbackStats

	if err := s.db.Model(&models.Feedback{}).Count(&stats.TotalFeedback).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&models.Feedback{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AverageRating).Error; err != nil {
		return nil, err
	}

	for i := 1; i <= 5; i++ {
		var count int64
		if err := s.db.Model(&models.Feedback{}).Where("rating = ?", i).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.RatingDistribution[i-1] = int(count)
	}

	return &stats, nil
}

func validateServiceName(name string) error {
	if n := utf8.RuneCountInString(name); n < 2 || n > 200 {
		return newValidationError("name must be between 2 and 200 characters")
	}
	return nil
}
