package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Default daily nutrition goals applied to every new account.
const (
	DefaultCalorieGoal = 2000
	DefaultProteinGoal = 150
	DefaultCarbsGoal   = 200
	DefaultFatGoal     = 65
	DefaultFiberGoal   = 30
	DefaultWaterGoal   = 2500
)

// User holds the account plus its daily nutrition goals. Goals are mutable at
// any time and aggregates always read the current value at query time.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username string    `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email    string    `gorm:"size:120;not null;uniqueIndex" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	IsAdmin   bool       `gorm:"default:false" json:"is_admin"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`

	CalorieGoal int `gorm:"default:2000" json:"calorie_goal"`
	ProteinGoal int `gorm:"default:150" json:"protein_goal"`
	CarbsGoal   int `gorm:"default:200" json:"carbs_goal"`
	FatGoal     int `gorm:"default:65" json:"fat_goal"`
	FiberGoal   int `gorm:"default:30" json:"fiber_goal"`
	WaterGoal   int `gorm:"default:2500" json:"water_goal"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
