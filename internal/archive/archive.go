// Package archive keeps a durable record of tasks that left the runner feed.
// The shared namespace holds live state only; once a task is accepted or
// completed it can be copied here so history survives namespace cleanup.
// Archiving is always an explicit action, never a side effect of a lifecycle
// transition.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/errandhq/errandsync/models"
)

// Archive is a SQLite-backed store of archived task records.
type Archive struct {
	db *sql.DB
}

// Open opens (creating if needed) the archive database. Pass ":memory:" for
// an ephemeral archive in tests.
func Open(path string) (*Archive, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive database: %w", err)
	}

	a := &Archive{db: db}
	if err := a.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init archive schema: %w", err)
	}
	return a, nil
}

func (a *Archive) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS archived_tasks (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		location TEXT,
		price_min REAL,
		price_max REAL,
		task_type TEXT,
		status TEXT NOT NULL,
		created_at TEXT,
		archived_at TEXT NOT NULL,
		payload TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_archived_tasks_status ON archived_tasks(status);
	`
	_, err := a.db.Exec(schema)
	return err
}

// ArchiveTask stores a snapshot of the task. Re-archiving the same id
// replaces the previous snapshot.
func (a *Archive) ArchiveTask(t models.Task) error {
	if t.ID == "" {
		return fmt.Errorf("task has no id")
	}
	payload, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("serialize task %s: %w", t.ID, err)
	}

	_, err = a.db.Exec(`
		INSERT OR REPLACE INTO archived_tasks (
			id, title, location, price_min, price_max, task_type, status,
			created_at, archived_at, payload
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.ID, t.Title, t.Location, t.PriceMin, t.PriceMax, t.TaskType,
		string(t.Status), t.CreatedAt, models.Now(), string(payload))
	if err != nil {
		return fmt.Errorf("archive task %s: %w", t.ID, err)
	}
	return nil
}

// List returns every archived task, newest archive first.
func (a *Archive) List() ([]models.Task, error) {
	return a.query(`SELECT payload FROM archived_tasks ORDER BY archived_at DESC, id`)
}

// ListByStatus returns archived tasks in the given lifecycle state.
func (a *Archive) ListByStatus(status models.TaskStatus) ([]models.Task, error) {
	return a.query(`SELECT payload FROM archived_tasks WHERE status = ? ORDER BY archived_at DESC, id`, string(status))
}

func (a *Archive) query(q string, args ...any) ([]models.Task, error) {
	rows, err := a.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []models.Task
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		var t models.Task
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			// Skip rows whose payload no longer decodes.
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// Close releases the underlying database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}
