package archive

import (
	"testing"

	"github.com/errandhq/errandsync/models"
)

func setupArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func sampleTask(id string, status models.TaskStatus) models.Task {
	task := models.NewTask(id, "Pick up groceries")
	task.Status = status
	task.PriceMin = 1500
	task.PriceMax = 1500
	task.Location = "Yaba"
	return *task
}

func TestArchive_RoundTrip(t *testing.T) {
	a := setupArchive(t)

	original := sampleTask("t1", models.StatusCompleted)
	if err := a.ArchiveTask(original); err != nil {
		t.Fatalf("ArchiveTask: %v", err)
	}

	tasks, err := a.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("got %d tasks, want 1", len(tasks))
	}

	got := tasks[0]
	if got.ID != "t1" || got.Title != "Pick up groceries" || got.Status != models.StatusCompleted {
		t.Errorf("archived task mismatch: %+v", got)
	}
	if got.PriceMin != 1500 || got.Location != "Yaba" {
		t.Errorf("payload fields lost in round trip: %+v", got)
	}
}

func TestArchive_RequiresID(t *testing.T) {
	a := setupArchive(t)
	if err := a.ArchiveTask(models.Task{Title: "no id"}); err == nil {
		t.Error("expected error for task without id")
	}
}

func TestArchive_ReArchiveReplaces(t *testing.T) {
	a := setupArchive(t)

	task := sampleTask("t1", models.StatusAccepted)
	if err := a.ArchiveTask(task); err != nil {
		t.Fatalf("ArchiveTask: %v", err)
	}

	task.Status = models.StatusCompleted
	if err := a.ArchiveTask(task); err != nil {
		t.Fatalf("re-archive: %v", err)
	}

	tasks, err := a.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("re-archiving created a duplicate: %d rows", len(tasks))
	}
	if tasks[0].Status != models.StatusCompleted {
		t.Errorf("snapshot not replaced, status = %s", tasks[0].Status)
	}
}

func TestArchive_ListByStatus(t *testing.T) {
	a := setupArchive(t)

	for _, task := range []models.Task{
		sampleTask("t1", models.StatusCompleted),
		sampleTask("t2", models.StatusWithdrawn),
		sampleTask("t3", models.StatusCompleted),
	} {
		if err := a.ArchiveTask(task); err != nil {
			t.Fatalf("ArchiveTask %s: %v", task.ID, err)
		}
	}

	completed, err := a.ListByStatus(models.StatusCompleted)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(completed) != 2 {
		t.Fatalf("got %d completed tasks, want 2", len(completed))
	}
	for _, task := range completed {
		if task.Status != models.StatusCompleted {
			t.Errorf("unexpected status %s for %s", task.Status, task.ID)
		}
	}

	withdrawn, err := a.ListByStatus(models.StatusWithdrawn)
	if err != nil {
		t.Fatalf("ListByStatus: %v", err)
	}
	if len(withdrawn) != 1 || withdrawn[0].ID != "t2" {
		t.Errorf("withdrawn list mismatch: %+v", withdrawn)
	}
}
