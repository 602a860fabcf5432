package models

import (
	"time"
)

// Service represents a reviewable listed service
type Service struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"type:varchar(200);not null"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Feedbacks   []Feedback `json:"-" gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE"`
}

// ServiceCreate represents the request structure for creating a service
type ServiceCreate struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

// ServiceUpdate represents a partial update; nil fields keep their stored value
type ServiceUpdate struct {
	Name        *string `json:"name" form:"name"`
	Description *string `json:"description" form:"description"`
}

// ServiceWithRating is a service row joined with its feedback aggregates
type ServiceWithRating struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	AvgRating   float64   `json:"avg_rating"`
	ReviewCount int64     `json:"review_count"`
}

// ServiceDetail bundles a service with its feedback list, newest first
type ServiceDetail struct {
	Service  Service    `json:"service"`
	Feedback []Feedback `json:"feedback"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
