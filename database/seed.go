package database

import (
	"log"

	"service-review-server/models"
)

// SeedServices inserts a starter catalog when the services table is empty so a
// fresh install has something to browse.
func SeedServices() error {
	var count int64
	if err := DB.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("ℹ️ Services table already has %d rows, skipping seed", count)
		return nil
	}

	services := []models.Service{
		{
			Name:        "Car Wash",
			Description: "Exterior and interior cleaning, wax and polish.",
		},
		{
			Name:        "Home Cleaning",
			Description: "Regular and deep cleaning for apartments and houses.",
		},
		{
			Name:        "Plumbing Repair",
			Description: "Leak fixes, pipe replacement and fixture installation.",
		},
	}

	if err := DB.Create(&services).Error; err != nil {
		return err
	}

	log.Printf("✅ Seeded %d services", len(services))
	return nil
}
