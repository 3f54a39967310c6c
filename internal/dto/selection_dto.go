package dto

import "github.com/ramothapp/canteen-backend/internal/models"

// GeoReadingRequest mirrors the browser geolocation payload.
type GeoReadingRequest struct {
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	AccuracyM   float64 `json:"accuracy_m"`
	SampleAgeMs int64   `json:"sample_age_ms"`
}

type SelectMealRequest struct {
	DayOffset int                `json:"day_offset"`
	MealID    string             `json:"meal_id"`
	Location  *GeoReadingRequest `json:"location,omitempty"`
}

type DeselectMealRequest struct {
	DayOffset int `json:"day_offset"`
}

type DeselectResponse struct {
	Removed bool `json:"removed"`
}

type CollectRequest struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`
}

type UpsertMenuRequest struct {
	Date  string              `json:"date"`
	Meals []models.MealOption `json:"meals"`
}

type CreateUserRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Password   string `json:"password"`
}

type UpdateUserRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Department *string `json:"department"`
	IsActive   *bool   `json:"is_active"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
