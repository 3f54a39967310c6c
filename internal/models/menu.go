package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MealOption is one entry on a daily menu. Stored as JSONB on the Menu row.
type MealOption struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Menu holds the meal options for one calendar date. At most one row per
// date; admin re-submits overwrite in place.
type Menu struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date      string         `gorm:"size:10;not null;uniqueIndex" json:"date"`
	Meals     datatypes.JSON `gorm:"type:jsonb;not null" json:"meals"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
