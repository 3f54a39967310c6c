package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrStoreUnavailable wraps infrastructure failures from the selection
// store so callers can tell them apart from business rejections.
var ErrStoreUnavailable = errors.New("selection store unavailable")

var ErrSelectionNotFound = errors.New("selection not found")

// SelectionStore is the persistence contract for selections and the
// per-date food status. All mutations are atomic with respect to the
// (user_id, date) key.
type SelectionStore interface {
	// Upsert inserts or replaces the meal for (userID, date) in a single
	// conditional write. It never produces a second row for the key.
	Upsert(userID uuid.UUID, date, mealID, mealName string, at time.Time) (*models.Selection, error)

	// Delete removes the selection for the key, reporting whether a row
	// existed.
	Delete(userID uuid.UUID, date string) (bool, error)

	// MarkCollected flips collected to true. Idempotent; collecting an
	// already-collected row is a no-op success.
	MarkCollected(userID uuid.UUID, date string) (*models.Selection, error)

	ListForDate(date string) ([]models.Selection, error)
	ListForUser(userID uuid.UUID) ([]models.Selection, error)

	// SetFoodReady upserts the date's food status to ready.
	SetFoodReady(date string) (*models.FoodStatus, error)
	FoodStatus(date string) (*models.FoodStatus, error)
}

// GormSelectionStore implements SelectionStore on Postgres. The unique
// index on (user_id, date) plus ON CONFLICT upserts keep concurrent
// double-submits from ever creating duplicate rows.
type GormSelectionStore struct {
	db *gorm.DB
}

func NewGormSelectionStore(db *gorm.DB) *GormSelectionStore {
	return &GormSelectionStore{db: db}
}

func (s *GormSelectionStore) Upsert(userID uuid.UUID, date, mealID, mealName string, at time.Time) (*models.Selection, error) {
	sel := models.Selection{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		MealID:    mealID,
		MealName:  mealName,
		CreatedAt: at,
		UpdatedAt: at,
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"meal_id":    mealID,
			"meal_name":  mealName,
			"updated_at": at,
		}),
	}).Create(&sel).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Re-read the row: on conflict the insert candidate's ID and collected
	// flag do not reflect the surviving row.
	var persisted models.Selection
	if err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&persisted).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &persisted, nil
}

func (s *GormSelectionStore) Delete(userID uuid.UUID, date string) (bool, error) {
	result := s.db.Where("user_id = ? AND date = ?", userID, date).Delete(&models.Selection{})
	if result.Error != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormSelectionStore) MarkCollected(userID uuid.UUID, date string) (*models.Selection, error) {
	result := s.db.Model(&models.Selection{}).
		Where("user_id = ? AND date = ?", userID, date).
		Update("collected", true)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Error)
	}

	var sel models.Selection
	if err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&sel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSelectionNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &sel, nil
}

func (s *GormSelectionStore) ListForDate(date string) ([]models.Selection, error) {
	var selections []models.Selection
	if err := s.db.Where("date = ?", date).Order("created_at ASC").Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return selections, nil
}

func (s *GormSelectionStore) ListForUser(userID uuid.UUID) ([]models.Selection, error) {
	var selections []models.Selection
	if err := s.db.Where("user_id = ?", userID).Order("date DESC").Find(&selections).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return selections, nil
}

func (s *GormSelectionStore) SetFoodReady(date string) (*models.FoodStatus, error) {
	status := models.FoodStatus{
		ID:    uuid.New(),
		Date:  date,
		Ready: true,
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"ready": true}),
	}).Create(&status).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var persisted models.FoodStatus
	if err := s.db.Where("date = ?", date).First(&persisted).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &persisted, nil
}

func (s *GormSelectionStore) FoodStatus(date string) (*models.FoodStatus, error) {
	var status models.FoodStatus
	if err := s.db.Where("date = ?", date).First(&status).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.FoodStatus{Date: date, Ready: false}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &status, nil
}
