package normalize

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/errandhq/errandsync/models"
)

func TestNormalize_DefaultCompletion(t *testing.T) {
	task, err := Normalize([]byte(`{"id": "x", "price": 50}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if task.PriceMin != 50 || task.PriceMax != 50 {
		t.Errorf("Single price should collapse both bounds, got %v-%v", task.PriceMin, task.PriceMax)
	}
	if task.TaskType != "General" {
		t.Errorf("TaskType = %q, want General", task.TaskType)
	}
	if task.Status != models.StatusPending {
		t.Errorf("Status = %q, want pending", task.Status)
	}
	if task.User != models.AnonymousUser() {
		t.Errorf("User = %+v, want anonymous placeholder", task.User)
	}
	if task.Category.Name != "General" {
		t.Errorf("Category = %q, want General", task.Category.Name)
	}
	if task.ErrandID != "x" {
		t.Errorf("ErrandID = %q, want x", task.ErrandID)
	}
	if task.CreatedAt == "" {
		t.Error("CreatedAt should be synthesized when absent")
	}
	if task.IsMock {
		t.Error("Plain id should not be flagged as mock")
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	first, err := Normalize([]byte(`{"id": "t1", "title": "Buy groceries", "price": 2000, "location": "Lagos"}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	raw, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	second, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Second Normalize failed: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize is not idempotent:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalize_RejectsMissingID(t *testing.T) {
	_, err := Normalize([]byte(`{"title": "No id here", "price": 10}`))
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("err = %v, want ErrMissingID", err)
	}
}

func TestNormalize_FieldMapping(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want func(t *testing.T, task models.Task)
	}{
		{
			name: "errand_id fallback",
			raw:  `{"errand_id": "e9"}`,
			want: func(t *testing.T, task models.Task) {
				if task.ID != "e9" || task.ErrandID != "e9" {
					t.Errorf("id fallback failed: %+v", task)
				}
			},
		},
		{
			name: "type field fallback",
			raw:  `{"id": "a", "type": "Delivery"}`,
			want: func(t *testing.T, task models.Task) {
				if task.TaskType != "Delivery" || task.Category.Name != "Delivery" {
					t.Errorf("type fallback failed: %+v", task)
				}
			},
		},
		{
			name: "category string fallback",
			raw:  `{"id": "a", "category": "Errands"}`,
			want: func(t *testing.T, task models.Task) {
				if task.TaskType != "Errands" {
					t.Errorf("category string fallback failed: %q", task.TaskType)
				}
			},
		},
		{
			name: "category object fallback",
			raw:  `{"id": "a", "category": {"name": "Shopping"}}`,
			want: func(t *testing.T, task models.Task) {
				if task.TaskType != "Shopping" {
					t.Errorf("category object fallback failed: %q", task.TaskType)
				}
			},
		},
		{
			name: "price range preserved",
			raw:  `{"id": "a", "price_min": 100, "price_max": 300}`,
			want: func(t *testing.T, task models.Task) {
				if task.PriceMin != 100 || task.PriceMax != 300 {
					t.Errorf("price range mangled: %v-%v", task.PriceMin, task.PriceMax)
				}
			},
		},
		{
			name: "posted_by identity",
			raw:  `{"id": "a", "posted_by": {"first_name": "Ada", "last_name": "O"}}`,
			want: func(t *testing.T, task models.Task) {
				if task.User.FirstName != "Ada" {
					t.Errorf("posted_by not mapped: %+v", task.User)
				}
			},
		},
		{
			name: "created_at passes through",
			raw:  `{"id": "a", "created_at": "2025-06-01T10:00:00Z"}`,
			want: func(t *testing.T, task models.Task) {
				if task.CreatedAt != "2025-06-01T10:00:00Z" {
					t.Errorf("created_at should pass through, got %q", task.CreatedAt)
				}
			},
		},
		{
			name: "explicit status preserved",
			raw:  `{"id": "a", "status": "active"}`,
			want: func(t *testing.T, task models.Task) {
				if task.Status != models.StatusActive {
					t.Errorf("Status = %q, want active", task.Status)
				}
			},
		},
		{
			name: "mock prefix flags record",
			raw:  `{"id": "mock-123", "title": "Demo"}`,
			want: func(t *testing.T, task models.Task) {
				if !task.IsMock {
					t.Error("mock- prefix should flag the record")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := Normalize([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			tt.want(t, task)
		})
	}
}

func TestNormalize_CanonicalPassThrough(t *testing.T) {
	canonical := models.Task{
		ID:        "t1",
		ErrandID:  "t1",
		Title:     "Pick up parcel",
		PriceMin:  500,
		PriceMax:  1500,
		TaskType:  "Delivery",
		Status:    models.StatusActive,
		CreatedAt: "2025-06-01T10:00:00Z",
		User:      models.UserSummary{FirstName: "Ada"},
		Category:  models.Category{Name: "Delivery"},
	}
	raw, _ := json.Marshal(canonical)

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if !reflect.DeepEqual(canonical, got) {
		t.Errorf("Canonical record should pass through unchanged:\nin:  %+v\nout: %+v", canonical, got)
	}
}

func TestIsMockID(t *testing.T) {
	for id, want := range map[string]bool{
		"":           true,
		"mock-1":     true,
		"demo-x":     true,
		"sample-9":   true,
		"test-3":     true,
		"t1":         false,
		"mocking":    false,
		"production": false,
	} {
		if got := IsMockID(id); got != want {
			t.Errorf("IsMockID(%q) = %v, want %v", id, got, want)
		}
	}
}
