package models

import (
	"time"
)

// Feedback represents a single rated review submitted against a service
type Feedback struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ServiceID uint      `json:"service_id" gorm:"not null;index"`
	Author    string    `json:"author" gorm:"type:varchar(100)"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	Rating    int       `json:"rating" gorm:"type:int;not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedbackCreate represents a visitor feedback submission
type FeedbackCreate struct {
	ServiceID uint   `json:"service_id" form:"service_id"`
	Author    string `json:"author" form:"author"`
	Content   string `json:"content" form:"content"`
	Rating    int    `json:"rating" form:"rating"`
}

// FeedbackWithService is a feedback row joined with its service name, used by
// the moderation views
type FeedbackWithService struct {
	ID          uint      `json:"id"`
	ServiceID   uint      `json:"service_id"`
	ServiceName string    `json:"service_name"`
	Author      string    `json:"author"`
	Content     string    `json:"content"`
	Rating      int       `json:"rating"`
	CreatedAt   time.Time `json:"created_at"`
}

// FeedbackStats summarizes all feedback for the admin dashboard
type FeedbackStats struct {
	TotalFeedback      int64   `json:"total_feedback"`
	AverageRating      float64 `json:"average_rating"`
	RatingDistribution [5]int  `json:"rating_distribution"`
}

// TableName sets custom table name
func (Feedback) TableName() string { return "feedback" }
