package models

import (
	"time"

	"github.com/google/uuid"
)

// WaterIntake is one water-logging event in milliliters.
type WaterIntake struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	AmountML   int       `gorm:"not null" json:"amount_ml"`
	DateLogged time.Time `gorm:"type:date;not null;index" json:"date_logged"`
	TimeLogged time.Time `gorm:"not null" json:"time_logged"`
}

func (WaterIntake) TableName() string {
	return "water_intakes"
}
