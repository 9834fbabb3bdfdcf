package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the lifecycle state of a posted errand.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusActive    TaskStatus = "active"
	StatusAccepted  TaskStatus = "accepted"
	StatusCompleted TaskStatus = "completed"
	StatusWithdrawn TaskStatus = "withdrawn"
)

// Hidden reports whether a task in this state is excluded from runner
// visibility scans.
func (s TaskStatus) Hidden() bool {
	switch s {
	case StatusAccepted, StatusCompleted, StatusWithdrawn:
		return true
	}
	return false
}

// Valid reports whether the status is one of the known lifecycle states.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusAccepted, StatusCompleted, StatusWithdrawn:
		return true
	}
	return false
}

// UserSummary is the poster identity carried on a task record.
type UserSummary struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfilePhoto string `json:"profile_photo"`
}

// AnonymousUser is the placeholder identity used when a producer supplies no
// poster information.
func AnonymousUser() UserSummary {
	return UserSummary{FirstName: "Anonymous", LastName: "Tasker"}
}

// Category groups tasks for browsing. Derived from TaskType when a producer
// does not supply it independently.
type Category struct {
	Name string `json:"name"`
}

// Task is the canonical, runner-visible record shared between contexts.
// Timestamps are opaque strings: values supplied by a producer pass through
// unmodified, while synthesized values are RFC 3339.
type Task struct {
	ID          string      `json:"id" validate:"required,excludesall=/\\"`
	ErrandID    string      `json:"errand_id" validate:"required,eqfield=ID"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Location    string      `json:"location,omitempty"`
	Deadline    string      `json:"deadline,omitempty"`
	PriceMin    float64     `json:"price_min"`
	PriceMax    float64     `json:"price_max"`
	TaskType    string      `json:"task_type" validate:"required"`
	Status      TaskStatus  `json:"status" validate:"required,oneof=pending active accepted completed withdrawn"`
	CreatedAt   string      `json:"created_at"`
	User        UserSummary `json:"user"`
	Category    Category    `json:"category"`
	IsMock      bool        `json:"is_mock"`
	LastUpdated string      `json:"last_updated,omitempty"`
}

// LastPostedTask is the per-user memory record: the most recent task a user
// posted, stamped with the owning identity.
type LastPostedTask struct {
	Task
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// Now returns the current wall-clock time in the canonical timestamp format.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		// Safeguard for tests running in isolation.
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}

// NewTask creates a task with defaults filled in. The id comes from the
// caller; this layer never generates identifiers.
func NewTask(id, title string) *Task {
	now := Now()
	return &Task{
		ID:          id,
		ErrandID:    id,
		Title:       title,
		TaskType:    "General",
		Status:      StatusPending,
		CreatedAt:   now,
		User:        AnonymousUser(),
		Category:    Category{Name: "General"},
		LastUpdated: now,
	}
}
