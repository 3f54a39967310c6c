package models

import (
	"time"

	"github.com/google/uuid"
)

// Selection is a worker's chosen meal for one date. The (user_id, date)
// unique index is the invariant the store's conditional upsert relies on.
// MealName is denormalized at write time so historical reports survive
// later menu edits.
type Selection struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_selections_user_date" json:"user_id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_selections_user_date;index" json:"date"`
	MealID    string    `gorm:"size:64;not null" json:"meal_id"`
	MealName  string    `gorm:"size:200;not null" json:"meal_name"`
	Collected bool      `gorm:"default:false" json:"collected"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FoodStatus records that the kitchen marked a date's food ready for
// collection. One row per date.
type FoodStatus struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Date      string    `gorm:"size:10;not null;uniqueIndex" json:"date"`
	Ready     bool      `gorm:"default:false" json:"ready"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
