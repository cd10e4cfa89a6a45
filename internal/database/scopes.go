package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ForUser returns a GORM scope that filters rows by owning user.
func ForUser(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

// OnDate filters by log date (calendar day).
func OnDate(date time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date_logged = ?", date)
	}
}

// InDateRange filters by log date within [start, end] inclusive.
func InDateRange(start, end time.Time) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("date_logged >= ? AND date_logged <= ?", start, end)
	}
}
