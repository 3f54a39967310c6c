package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/models"
)

// mockSelectionStore keeps selections in a map keyed by (userID, date),
// mirroring the unique index the real store relies on.
type mockSelectionStore struct {
	selections map[string]*models.Selection
	statuses   map[string]*models.FoodStatus
	failing    bool
}

func newMockSelectionStore() *mockSelectionStore {
	return &mockSelectionStore{
		selections: make(map[string]*models.Selection),
		statuses:   make(map[string]*models.FoodStatus),
	}
}

func key(userID uuid.UUID, date string) string {
	return userID.String() + "|" + date
}

func (m *mockSelectionStore) Upsert(userID uuid.UUID, date, mealID, mealName string, at time.Time) (*models.Selection, error) {
	if m.failing {
		return nil, errors.Join(ErrStoreUnavailable, errors.New("mock store down"))
	}

	k := key(userID, date)
	if existing, ok := m.selections[k]; ok {
		existing.MealID = mealID
		existing.MealName = mealName
		existing.UpdatedAt = at
		copied := *existing
		return &copied, nil
	}

	sel := &models.Selection{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      date,
		MealID:    mealID,
		MealName:  mealName,
		CreatedAt: at,
		UpdatedAt: at,
	}
	m.selections[k] = sel
	copied := *sel
	return &copied, nil
}

func (m *mockSelectionStore) Delete(userID uuid.UUID, date string) (bool, error) {
	if m.failing {
		return false, errors.Join(ErrStoreUnavailable, errors.New("mock store down"))
	}
	k := key(userID, date)
	if _, ok := m.selections[k]; !ok {
		return false, nil
	}
	delete(m.selections, k)
	return true, nil
}

func (m *mockSelectionStore) MarkCollected(userID uuid.UUID, date string) (*models.Selection, error) {
	if m.failing {
		return nil, errors.Join(ErrStoreUnavailable, errors.New("mock store down"))
	}
	sel, ok := m.selections[key(userID, date)]
	if !ok {
		return nil, ErrSelectionNotFound
	}
	sel.Collected = true
	copied := *sel
	return &copied, nil
}

func (m *mockSelectionStore) ListForDate(date string) ([]models.Selection, error) {
	if m.failing {
		return nil, errors.Join(ErrStoreUnavailable, errors.New("mock store down"))
	}
	var out []models.Selection
	for _, sel := range m.selections {
		if sel.Date == date {
			out = append(out, *sel)
		}
	}
	return out, nil
}

func (m *mockSelectionStore) ListForUser(userID uuid.UUID) ([]models.Selection, error) {
	if m.failing {
		return nil, errors.Join(ErrStoreUnavailable, errors.New("mock store down"))
	}
	var out []models.Selection
	for _, sel := range m.selections {
		if sel.UserID == userID {
			out = append(out, *sel)
		}
	}
	return out, nil
}

func (m *mockSelectionStore) SetFoodReady(date string) (*models.FoodStatus, error) {
	if m.failing {
		return nil, errors.Join(ErrStoreUnavailable, errors.New("mock store down"))
	}
	status, ok := m.statuses[date]
	if !ok {
		status = &models.FoodStatus{ID: uuid.New(), Date: date}
		m.statuses[date] = status
	}
	status.Ready = true
	copied := *status
	return &copied, nil
}

func (m *mockSelectionStore) FoodStatus(date string) (*models.FoodStatus, error) {
	if m.failing {
		return nil, errors.Join(ErrStoreUnavailable, errors.New("mock store down"))
	}
	if status, ok := m.statuses[date]; ok {
		copied := *status
		return &copied, nil
	}
	return &models.FoodStatus{Date: date, Ready: false}, nil
}

// mockMealFinder serves menus from a map of date to meal options.
type mockMealFinder struct {
	menus map[string][]models.MealOption
}

func (m *mockMealFinder) MealOn(date, mealID string) (*models.MealOption, error) {
	meals, ok := m.menus[date]
	if !ok {
		return nil, ErrMenuNotFound
	}
	for i := range meals {
		if meals[i].ID == mealID {
			return &meals[i], nil
		}
	}
	return nil, ErrMealNotOnMenu
}

// recordingNotifier captures published events for assertions.
type recordingNotifier struct {
	topics []string
	events []any
}

func (r *recordingNotifier) Publish(topic string, event any) {
	r.topics = append(r.topics, topic)
	r.events = append(r.events, event)
}

func (r *recordingNotifier) Close() {}
