package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/deadline"
	"github.com/ramothapp/canteen-backend/internal/geo"
	"github.com/ramothapp/canteen-backend/internal/models"
	"github.com/ramothapp/canteen-backend/internal/notify"
)

var (
	ErrDeadlinePassed   = errors.New("selection deadline has passed")
	ErrStaleLocation    = errors.New("location fix is stale, re-acquire and retry")
	ErrLowAccuracy      = errors.New("location fix is too imprecise, re-acquire and retry")
	ErrLocationRequired = errors.New("a location reading is required for same-day selection")
)

// OutOfRangeError rejects a same-day selection made away from the site.
// The measured distance is included so the caller can show guidance.
type OutOfRangeError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("out of range: %.0fm from site (limit %.0fm)", e.DistanceMeters, e.RadiusMeters)
}

// MealFinder resolves a meal on a date's menu. Satisfied by MenuService.
type MealFinder interface {
	MealOn(date, mealID string) (*models.MealOption, error)
}

// SelectionService is the engine behind every pick: it runs the deadline
// gate, then the geofence gate for same-day worker picks, then hands the
// write to the store. The gates are pure, so a rejected request leaves no
// partial state behind.
type SelectionService struct {
	store      SelectionStore
	menus      MealFinder
	clock      *deadline.Clock
	geo        *geo.Validator
	geoEnabled bool
	radius     float64
	notifier   notify.Notifier
}

func NewSelectionService(store SelectionStore, menus MealFinder, clock *deadline.Clock, validator *geo.Validator, geoEnabled bool, radiusMeters float64, notifier notify.Notifier) *SelectionService {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	return &SelectionService{
		store:      store,
		menus:      menus,
		clock:      clock,
		geo:        validator,
		geoEnabled: geoEnabled,
		radius:     radiusMeters,
		notifier:   notifier,
	}
}

// Select records the user's meal for now+dayOffset. The deadline is
// re-evaluated against now on every call; reading may be nil unless the
// geofence gate applies.
func (s *SelectionService) Select(user *models.User, dayOffset int, mealID string, now time.Time, reading *geo.Reading) (*models.Selection, error) {
	if !s.clock.SelectionAllowed(user.Role, dayOffset, now) {
		return nil, ErrDeadlinePassed
	}

	if err := s.checkGeofence(user.Role, dayOffset, reading); err != nil {
		return nil, err
	}

	date := s.clock.TargetDate(dayOffset, now)
	meal, err := s.menus.MealOn(date, mealID)
	if err != nil {
		return nil, err
	}

	sel, err := s.store.Upsert(user.ID, date, meal.ID, meal.Name, now)
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(notify.SelectionsTopic, notify.SelectionEvent{
		EventType:  notify.EventSelectionConfirmed,
		OccurredAt: now,
		UserID:     user.ID.String(),
		UserName:   user.Name(),
		Department: user.Department,
		Date:       date,
		MealID:     meal.ID,
		MealName:   meal.Name,
	})
	slog.Info("meal selected", "user_id", user.ID, "date", date, "meal", meal.Name)

	return sel, nil
}

// Deselect removes the user's pick for now+dayOffset. Deselecting a key
// with no row is a no-op success, reported through the bool.
func (s *SelectionService) Deselect(user *models.User, dayOffset int, now time.Time) (bool, error) {
	if !s.clock.SelectionAllowed(user.Role, dayOffset, now) {
		return false, ErrDeadlinePassed
	}

	date := s.clock.TargetDate(dayOffset, now)
	removed, err := s.store.Delete(user.ID, date)
	if err != nil {
		return false, err
	}

	if removed {
		s.notifier.Publish(notify.SelectionsTopic, notify.SelectionEvent{
			EventType:  notify.EventSelectionCancelled,
			OccurredAt: now,
			UserID:     user.ID.String(),
			UserName:   user.Name(),
			Department: user.Department,
			Date:       date,
		})
		slog.Info("meal deselected", "user_id", user.ID, "date", date)
	}
	return removed, nil
}

// MarkCollected records that the worker physically received the meal.
// Distributor workflow; never deadline-gated, and idempotent.
func (s *SelectionService) MarkCollected(userID uuid.UUID, date string) (*models.Selection, error) {
	sel, err := s.store.MarkCollected(userID, date)
	if err != nil {
		return nil, err
	}
	slog.Info("meal collected", "user_id", userID, "date", date)
	return sel, nil
}

// SetFoodReady marks the date's food ready for collection and announces it.
func (s *SelectionService) SetFoodReady(date string, now time.Time) (*models.FoodStatus, error) {
	status, err := s.store.SetFoodReady(date)
	if err != nil {
		return nil, err
	}
	s.notifier.Publish(notify.KitchenTopic, notify.KitchenEvent{
		EventType:  notify.EventFoodReady,
		OccurredAt: now,
		Date:       date,
	})
	return status, nil
}

// FoodStatus reports whether the date's food has been marked ready.
func (s *SelectionService) FoodStatus(date string) (*models.FoodStatus, error) {
	return s.store.FoodStatus(date)
}

// SendReminder publishes the pick-your-meal nudge for tomorrow. Invoked by
// an external scheduler; fire-and-forget.
func (s *SelectionService) SendReminder(now time.Time) {
	s.notifier.Publish(notify.RemindersTopic, notify.ReminderEvent{
		EventType:  notify.EventSelectionReminder,
		OccurredAt: now,
		TargetDate: s.clock.TargetDate(deadline.OffsetTomorrow, now),
		CutoffHour: s.clock.TomorrowCutoffHour(),
	})
}

func (s *SelectionService) checkGeofence(role string, dayOffset int, reading *geo.Reading) error {
	if !s.geoEnabled || dayOffset != deadline.OffsetToday || role != models.RoleWorker {
		return nil
	}
	if reading == nil {
		return ErrLocationRequired
	}

	res := s.geo.Check(*reading)
	if res.OK {
		return nil
	}
	switch res.Reason {
	case geo.ReasonStaleLocation:
		return ErrStaleLocation
	case geo.ReasonLowAccuracy:
		return ErrLowAccuracy
	default:
		return &OutOfRangeError{DistanceMeters: res.DistanceMeters, RadiusMeters: s.radius}
	}
}

// SelectionsForDate exposes the raw rows for dashboards.
func (s *SelectionService) SelectionsForDate(date string) ([]models.Selection, error) {
	return s.store.ListForDate(date)
}

// SelectionsForUser returns the user's selection history, newest first.
func (s *SelectionService) SelectionsForUser(user *models.User) ([]models.Selection, error) {
	return s.store.ListForUser(user.ID)
}
