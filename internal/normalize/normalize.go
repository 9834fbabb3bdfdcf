// Package normalize reconciles the two task record shapes produced by the
// tasker and runner sides of the marketplace into the single canonical shape
// every reader can rely on. Records never leave this package in an ambiguous
// shape: the union of producer formats stops at the boundary.
package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/errandhq/errandsync/models"
)

// ErrMissingID rejects a record that cannot be keyed. It is the only
// rejection the normalizer produces.
var ErrMissingID = errors.New("task record has no id")

// mockPrefixes mark synthetic demo records so consumers can treat them
// specially.
var mockPrefixes = []string{"mock-", "demo-", "sample-", "test-"}

// source is the superset of fields either producer may emit. The tasker-side
// form posts a flat record with a single price and loosely-named category
// fields; the runner-side form is already canonical.
type source struct {
	ID          string              `json:"id"`
	ErrandID    string              `json:"errand_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Location    string              `json:"location"`
	Deadline    string              `json:"deadline"`
	Price       *float64            `json:"price"`
	PriceMin    *float64            `json:"price_min"`
	PriceMax    *float64            `json:"price_max"`
	TaskType    string              `json:"task_type"`
	Type        string              `json:"type"`
	Category    json.RawMessage     `json:"category"`
	Status      string              `json:"status"`
	CreatedAt   string              `json:"created_at"`
	User        *models.UserSummary `json:"user"`
	PostedBy    *models.UserSummary `json:"posted_by"`
	IsMock      *bool               `json:"is_mock"`
	LastUpdated string              `json:"last_updated"`
}

// Normalize converts a raw task record from either producer into the
// canonical runner-visible shape. Already-canonical input (it exposes
// price_min, task_type, and user) passes through unchanged, so
// Normalize(Normalize(x)) == Normalize(x). The only rejection is a record
// without an id. Pure apart from clock reads for defaulted timestamps.
func Normalize(raw []byte) (models.Task, error) {
	var src source
	if err := json.Unmarshal(raw, &src); err != nil {
		return models.Task{}, fmt.Errorf("decode task record: %w", err)
	}

	if src.PriceMin != nil && src.TaskType != "" && src.User != nil {
		// Already canonical. Decode as-is rather than re-deriving fields.
		var task models.Task
		if err := json.Unmarshal(raw, &task); err != nil {
			return models.Task{}, fmt.Errorf("decode canonical task: %w", err)
		}
		if task.ID == "" {
			return models.Task{}, ErrMissingID
		}
		return task, nil
	}

	id := src.ID
	if id == "" {
		id = src.ErrandID
	}
	if id == "" {
		return models.Task{}, ErrMissingID
	}

	task := models.Task{
		ID:          id,
		ErrandID:    id,
		Title:       src.Title,
		Description: src.Description,
		Location:    src.Location,
		Deadline:    src.Deadline,
		TaskType:    taskType(src),
		Status:      status(src.Status),
		CreatedAt:   src.CreatedAt,
		IsMock:      IsMockID(id),
		LastUpdated: src.LastUpdated,
	}

	// A single price collapses both bounds to that value.
	switch {
	case src.PriceMin != nil:
		task.PriceMin = *src.PriceMin
		task.PriceMax = task.PriceMin
		if src.PriceMax != nil {
			task.PriceMax = *src.PriceMax
		}
	case src.Price != nil:
		task.PriceMin = *src.Price
		task.PriceMax = *src.Price
	}

	if task.CreatedAt == "" {
		task.CreatedAt = models.Now()
	}

	switch {
	case src.User != nil:
		task.User = *src.User
	case src.PostedBy != nil:
		task.User = *src.PostedBy
	default:
		task.User = models.AnonymousUser()
	}

	task.Category = models.Category{Name: categoryName(src.Category, task.TaskType)}

	if src.IsMock != nil && *src.IsMock {
		task.IsMock = true
	}

	return task, nil
}

// NormalizeTask is Normalize for callers that already hold a typed record.
func NormalizeTask(task models.Task) (models.Task, error) {
	raw, err := json.Marshal(task)
	if err != nil {
		return models.Task{}, fmt.Errorf("encode task record: %w", err)
	}
	return Normalize(raw)
}

// IsMockID reports whether an id carries one of the known placeholder
// prefixes used for synthetic demo data.
func IsMockID(id string) bool {
	if id == "" {
		return true
	}
	for _, prefix := range mockPrefixes {
		if strings.HasPrefix(id, prefix) {
			return true
		}
	}
	return false
}

// taskType resolves the category label through the producer fallback chain.
func taskType(src source) string {
	if src.TaskType != "" {
		return src.TaskType
	}
	if src.Type != "" {
		return src.Type
	}
	if name := categoryName(src.Category, ""); name != "" {
		return name
	}
	return "General"
}

// categoryName accepts either a bare string or a {name} object; producers
// disagree on which they send.
func categoryName(raw json.RawMessage, fallback string) string {
	if len(raw) > 0 {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
		var c models.Category
		if err := json.Unmarshal(raw, &c); err == nil && c.Name != "" {
			return c.Name
		}
	}
	return fallback
}

// status applies the canonical default for producers that omit it. The two
// observed producers disagreed between pending and active; pending is the
// documented default.
func status(s string) models.TaskStatus {
	if s == "" {
		return models.StatusPending
	}
	return models.TaskStatus(s)
}
