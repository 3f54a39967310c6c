package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrMenuNotFound  = errors.New("no menu configured for that date")
	ErrMealNotOnMenu = errors.New("meal is not on that date's menu")
	ErrTooFewMeals   = errors.New("a menu needs at least 2 meal options")
)

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

// Upsert creates or replaces the menu for a date. A date has at most one
// menu; re-submitting overwrites the meal list in place.
func (s *MenuService) Upsert(date string, meals []models.MealOption) (*models.Menu, error) {
	if len(meals) < 2 {
		return nil, ErrTooFewMeals
	}

	for i := range meals {
		if meals[i].ID == "" {
			meals[i].ID = uuid.NewString()
		}
	}

	payload, err := json.Marshal(meals)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meals: %w", err)
	}

	menu := models.Menu{
		ID:    uuid.New(),
		Date:  date,
		Meals: datatypes.JSON(payload),
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"meals": datatypes.JSON(payload)}),
	}).Create(&menu).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	var persisted models.Menu
	if err := s.db.Where("date = ?", date).First(&persisted).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &persisted, nil
}

func (s *MenuService) ForDate(date string) (*models.Menu, error) {
	var menu models.Menu
	if err := s.db.Where("date = ?", date).First(&menu).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMenuNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return &menu, nil
}

// Week returns menus for the inclusive date range [from, until], ordered by date.
func (s *MenuService) Week(from, until string) ([]models.Menu, error) {
	var menus []models.Menu
	if err := s.db.Where("date >= ? AND date <= ?", from, until).Order("date ASC").Find(&menus).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return menus, nil
}

func (s *MenuService) Delete(date string) (bool, error) {
	result := s.db.Where("date = ?", date).Delete(&models.Menu{})
	if result.Error != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreUnavailable, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MealOn resolves a meal on the date's menu, for denormalizing the meal
// name onto the selection at write time.
func (s *MenuService) MealOn(date, mealID string) (*models.MealOption, error) {
	menu, err := s.ForDate(date)
	if err != nil {
		return nil, err
	}

	meals, err := DecodeMeals(menu)
	if err != nil {
		return nil, err
	}
	for i := range meals {
		if meals[i].ID == mealID {
			return &meals[i], nil
		}
	}
	return nil, ErrMealNotOnMenu
}

func DecodeMeals(menu *models.Menu) ([]models.MealOption, error) {
	var meals []models.MealOption
	if err := json.Unmarshal(menu.Meals, &meals); err != nil {
		return nil, fmt.Errorf("corrupt meal list for %s: %w", menu.Date, err)
	}
	return meals, nil
}
