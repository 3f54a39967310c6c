package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ramothapp/canteen-backend/internal/deadline"
	"github.com/ramothapp/canteen-backend/internal/geo"
	"github.com/ramothapp/canteen-backend/internal/models"
	"github.com/ramothapp/canteen-backend/internal/notify"
)

const (
	siteLat = 5.6037
	siteLon = -0.1870
)

func testWorker() *models.User {
	return &models.User{
		ID:         uuid.New(),
		StaffID:    "kmensah1234",
		FirstName:  "Kwame",
		LastName:   "Mensah",
		Department: "IT",
		Role:       models.RoleWorker,
		IsActive:   true,
	}
}

func testClockTime(t *testing.T, day, hhmmss string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04:05", day+" "+hhmmss)
	if err != nil {
		t.Fatalf("bad test time: %v", err)
	}
	return parsed
}

type engineFixture struct {
	service  *SelectionService
	store    *mockSelectionStore
	notifier *recordingNotifier
}

func newEngine(t *testing.T, geoEnabled bool) *engineFixture {
	t.Helper()
	store := newMockSelectionStore()
	notifier := &recordingNotifier{}
	menus := &mockMealFinder{menus: map[string][]models.MealOption{
		"2026-03-02": {
			{ID: "m1", Name: "Jollof Rice"},
			{ID: "m2", Name: "Banku with Tilapia"},
		},
		"2026-03-03": {
			{ID: "m1", Name: "Jollof Rice"},
			{ID: "m3", Name: "Waakye"},
		},
	}}
	clock := deadline.NewClock(8, 20, time.UTC)
	validator := geo.NewValidator(siteLat, siteLon, 250, 100, 30*time.Second)
	service := NewSelectionService(store, menus, clock, validator, geoEnabled, 250, notifier)
	return &engineFixture{service: service, store: store, notifier: notifier}
}

func TestSelectAfterDeadlineLeavesStoreUntouched(t *testing.T) {
	fx := newEngine(t, false)
	now := testClockTime(t, "2026-03-02", "08:05:00")

	_, err := fx.service.Select(testWorker(), deadline.OffsetToday, "m2", now, nil)
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("Select() error = %v, want ErrDeadlinePassed", err)
	}
	if len(fx.store.selections) != 0 {
		t.Errorf("store has %d rows after rejected select, want 0", len(fx.store.selections))
	}
	if len(fx.notifier.events) != 0 {
		t.Error("rejected select must not publish events")
	}
}

func TestSelectThenReselectKeepsOneRow(t *testing.T) {
	fx := newEngine(t, false)
	worker := testWorker()
	now := testClockTime(t, "2026-03-02", "10:00:00")

	first, err := fx.service.Select(worker, deadline.OffsetTomorrow, "m1", now, nil)
	if err != nil {
		t.Fatalf("first Select() error = %v", err)
	}
	second, err := fx.service.Select(worker, deadline.OffsetTomorrow, "m3", now.Add(time.Minute), nil)
	if err != nil {
		t.Fatalf("second Select() error = %v", err)
	}

	if len(fx.store.selections) != 1 {
		t.Fatalf("store has %d rows, want 1", len(fx.store.selections))
	}
	if second.MealID != "m3" || second.MealName != "Waakye" {
		t.Errorf("final row = %s/%s, want m3/Waakye", second.MealID, second.MealName)
	}
	if second.ID != first.ID {
		t.Error("reselect must update the row in place, not create a new one")
	}
	if second.Date != "2026-03-03" {
		t.Errorf("target date = %s, want tomorrow", second.Date)
	}
}

func TestSelectUniquenessAcrossSelectDeselectSequence(t *testing.T) {
	fx := newEngine(t, false)
	worker := testWorker()
	now := testClockTime(t, "2026-03-02", "09:00:00")

	steps := []struct {
		op     string
		mealID string
	}{
		{"select", "m1"},
		{"deselect", ""},
		{"select", "m3"},
		{"select", "m1"},
	}
	for _, step := range steps {
		var err error
		if step.op == "select" {
			_, err = fx.service.Select(worker, deadline.OffsetTomorrow, step.mealID, now, nil)
		} else {
			_, err = fx.service.Deselect(worker, deadline.OffsetTomorrow, now)
		}
		if err != nil {
			t.Fatalf("%s(%s) error = %v", step.op, step.mealID, err)
		}
	}

	if len(fx.store.selections) != 1 {
		t.Fatalf("store has %d rows, want 1", len(fx.store.selections))
	}
	for _, sel := range fx.store.selections {
		if sel.MealID != "m1" {
			t.Errorf("surviving meal = %s, want the last successful select (m1)", sel.MealID)
		}
	}
}

func TestSelectMenuAndMealValidation(t *testing.T) {
	fx := newEngine(t, false)
	worker := testWorker()

	// No menu configured three days out.
	farOut := testClockTime(t, "2026-03-05", "09:00:00")
	if _, err := fx.service.Select(worker, deadline.OffsetTomorrow, "m1", farOut, nil); !errors.Is(err, ErrMenuNotFound) {
		t.Errorf("Select() with no menu = %v, want ErrMenuNotFound", err)
	}

	// Meal not on the target date's menu.
	now := testClockTime(t, "2026-03-02", "09:00:00")
	if _, err := fx.service.Select(worker, deadline.OffsetTomorrow, "m2", now, nil); !errors.Is(err, ErrMealNotOnMenu) {
		t.Errorf("Select() with wrong meal = %v, want ErrMealNotOnMenu", err)
	}
}

func TestSelectGeofenceGate(t *testing.T) {
	now := func(t *testing.T) time.Time { return testClockTime(t, "2026-03-02", "07:00:00") }

	onSite := &geo.Reading{Lat: siteLat, Lon: siteLon, AccuracyMeters: 10, SampleAge: time.Second}
	offSite := &geo.Reading{Lat: siteLat + 1, Lon: siteLon, AccuracyMeters: 10, SampleAge: time.Second}
	stale := &geo.Reading{Lat: siteLat, Lon: siteLon, AccuracyMeters: 10, SampleAge: time.Minute}
	imprecise := &geo.Reading{Lat: siteLat, Lon: siteLon, AccuracyMeters: 500, SampleAge: time.Second}

	t.Run("onSiteAllowed", func(t *testing.T) {
		fx := newEngine(t, true)
		if _, err := fx.service.Select(testWorker(), deadline.OffsetToday, "m1", now(t), onSite); err != nil {
			t.Errorf("Select() on site = %v, want success", err)
		}
	})

	t.Run("missingReadingRejected", func(t *testing.T) {
		fx := newEngine(t, true)
		if _, err := fx.service.Select(testWorker(), deadline.OffsetToday, "m1", now(t), nil); !errors.Is(err, ErrLocationRequired) {
			t.Errorf("Select() without reading = %v, want ErrLocationRequired", err)
		}
	})

	t.Run("offSiteCarriesDistance", func(t *testing.T) {
		fx := newEngine(t, true)
		_, err := fx.service.Select(testWorker(), deadline.OffsetToday, "m1", now(t), offSite)
		var oor *OutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("Select() off site = %v, want OutOfRangeError", err)
		}
		if oor.DistanceMeters < 100_000 {
			t.Errorf("DistanceMeters = %.0f, expected ~111km", oor.DistanceMeters)
		}
	})

	t.Run("staleAndImpreciseAreRetryable", func(t *testing.T) {
		fx := newEngine(t, true)
		if _, err := fx.service.Select(testWorker(), deadline.OffsetToday, "m1", now(t), stale); !errors.Is(err, ErrStaleLocation) {
			t.Errorf("stale reading = %v, want ErrStaleLocation", err)
		}
		if _, err := fx.service.Select(testWorker(), deadline.OffsetToday, "m1", now(t), imprecise); !errors.Is(err, ErrLowAccuracy) {
			t.Errorf("imprecise reading = %v, want ErrLowAccuracy", err)
		}
	})

	t.Run("tomorrowSelectionBypassesGeofence", func(t *testing.T) {
		fx := newEngine(t, true)
		if _, err := fx.service.Select(testWorker(), deadline.OffsetTomorrow, "m1", now(t), nil); err != nil {
			t.Errorf("tomorrow select without reading = %v, want success", err)
		}
	})

	t.Run("adminBypassesGeofence", func(t *testing.T) {
		fx := newEngine(t, true)
		admin := testWorker()
		admin.Role = models.RoleAdmin
		if _, err := fx.service.Select(admin, deadline.OffsetToday, "m1", now(t), nil); err != nil {
			t.Errorf("admin select without reading = %v, want success", err)
		}
	})
}

func TestDeselectMissingRowIsNoop(t *testing.T) {
	fx := newEngine(t, false)
	now := testClockTime(t, "2026-03-02", "09:00:00")

	removed, err := fx.service.Deselect(testWorker(), deadline.OffsetTomorrow, now)
	if err != nil {
		t.Fatalf("Deselect() error = %v, want nil", err)
	}
	if removed {
		t.Error("Deselect() on empty key reported a removal")
	}
	if len(fx.notifier.events) != 0 {
		t.Error("no-op deselect must not publish events")
	}
}

func TestDeselectAfterDeadlineRejected(t *testing.T) {
	fx := newEngine(t, false)
	worker := testWorker()

	if _, err := fx.service.Select(worker, deadline.OffsetTomorrow, "m1", testClockTime(t, "2026-03-02", "09:00:00"), nil); err != nil {
		t.Fatalf("setup Select() error = %v", err)
	}

	_, err := fx.service.Deselect(worker, deadline.OffsetTomorrow, testClockTime(t, "2026-03-02", "20:00:00"))
	if !errors.Is(err, ErrDeadlinePassed) {
		t.Fatalf("Deselect() after cutoff = %v, want ErrDeadlinePassed", err)
	}
	if len(fx.store.selections) != 1 {
		t.Error("rejected deselect must leave the row in place")
	}
}

func TestMarkCollectedIsIdempotent(t *testing.T) {
	fx := newEngine(t, false)
	worker := testWorker()
	now := testClockTime(t, "2026-03-02", "09:00:00")

	if _, err := fx.service.Select(worker, deadline.OffsetTomorrow, "m1", now, nil); err != nil {
		t.Fatalf("setup Select() error = %v", err)
	}

	first, err := fx.service.MarkCollected(worker.ID, "2026-03-03")
	if err != nil {
		t.Fatalf("first MarkCollected() error = %v", err)
	}
	second, err := fx.service.MarkCollected(worker.ID, "2026-03-03")
	if err != nil {
		t.Fatalf("second MarkCollected() error = %v", err)
	}

	if !first.Collected || !second.Collected {
		t.Error("collected flag must be true after either call")
	}
	if first.ID != second.ID {
		t.Error("MarkCollected must not create rows")
	}
}

func TestMarkCollectedWithoutSelection(t *testing.T) {
	fx := newEngine(t, false)
	_, err := fx.service.MarkCollected(uuid.New(), "2026-03-03")
	if !errors.Is(err, ErrSelectionNotFound) {
		t.Errorf("MarkCollected() = %v, want ErrSelectionNotFound", err)
	}
}

func TestStoreFailureSurfacesAsStoreUnavailable(t *testing.T) {
	fx := newEngine(t, false)
	fx.store.failing = true
	now := testClockTime(t, "2026-03-02", "09:00:00")

	_, err := fx.service.Select(testWorker(), deadline.OffsetTomorrow, "m1", now, nil)
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Select() with failing store = %v, want ErrStoreUnavailable", err)
	}
}

func TestSelectPublishesConfirmation(t *testing.T) {
	fx := newEngine(t, false)
	worker := testWorker()
	now := testClockTime(t, "2026-03-02", "09:00:00")

	if _, err := fx.service.Select(worker, deadline.OffsetTomorrow, "m1", now, nil); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	if len(fx.notifier.events) != 1 {
		t.Fatalf("published %d events, want 1", len(fx.notifier.events))
	}
	event, ok := fx.notifier.events[0].(notify.SelectionEvent)
	if !ok {
		t.Fatalf("event type = %T, want SelectionEvent", fx.notifier.events[0])
	}
	if event.EventType != notify.EventSelectionConfirmed {
		t.Errorf("event type = %s, want %s", event.EventType, notify.EventSelectionConfirmed)
	}
	if event.MealName != "Jollof Rice" || event.Department != "IT" {
		t.Errorf("event not denormalized: %+v", event)
	}
}

func TestSetFoodReadyPublishesAndPersists(t *testing.T) {
	fx := newEngine(t, false)
	now := testClockTime(t, "2026-03-02", "11:00:00")

	status, err := fx.service.SetFoodReady("2026-03-02", now)
	if err != nil {
		t.Fatalf("SetFoodReady() error = %v", err)
	}
	if !status.Ready {
		t.Error("status not marked ready")
	}

	again, err := fx.service.SetFoodReady("2026-03-02", now)
	if err != nil {
		t.Fatalf("second SetFoodReady() error = %v", err)
	}
	if again.ID != status.ID {
		t.Error("SetFoodReady must upsert, not duplicate")
	}

	if len(fx.notifier.topics) != 2 || fx.notifier.topics[0] != notify.KitchenTopic {
		t.Errorf("expected kitchen events, got %v", fx.notifier.topics)
	}
}
