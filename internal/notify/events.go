package notify

import "time"

const (
	SelectionsTopic = "canteen.selections"
	KitchenTopic    = "canteen.kitchen"
	RemindersTopic  = "canteen.reminders"

	EventSelectionConfirmed = "selection.confirmed"
	EventSelectionCancelled = "selection.cancelled"
	EventFoodReady          = "food.ready"
	EventSelectionReminder  = "selection.reminder"
)

// SelectionEvent is published when a worker confirms or cancels a meal
// pick. Worker fields are denormalized so subscribers (kitchen display,
// push relay) need no roster lookup.
type SelectionEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	UserID     string    `json:"user_id"`
	UserName   string    `json:"user_name,omitempty"`
	Department string    `json:"department,omitempty"`
	Date       string    `json:"date"`
	MealID     string    `json:"meal_id,omitempty"`
	MealName   string    `json:"meal_name,omitempty"`
}

// KitchenEvent signals distribution state for a date.
type KitchenEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	Date       string    `json:"date"`
}

// ReminderEvent prompts workers who have not yet picked for the target
// date. Delivery (push, SMS) is the subscriber's concern.
type ReminderEvent struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	TargetDate string    `json:"target_date"`
	CutoffHour int       `json:"cutoff_hour"`
}
