package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/errandhq/errandsync/models"
)

// TaskKeyPrefix namespaces the runner-visible task entries.
const TaskKeyPrefix = "available_task_"

// ErrNotFound is returned by lifecycle transitions on a task that is not in
// the store.
var ErrNotFound = errors.New("task not found")

// TaskStore is the shared task distribution layer: one canonical record per
// task id, visible to every context of the profile. Exactly one record
// exists per id at any time; overwrites are last-write-wins.
type TaskStore struct {
	ns *Namespace
}

func NewTaskStore(ns *Namespace) *TaskStore {
	return &TaskStore{ns: ns}
}

// TaskKey returns the namespace key a task id is stored under.
func TaskKey(id string) string {
	return TaskKeyPrefix + id
}

// Put writes the canonical record for task.ID, refreshing last_updated and
// the errand_id mirror. It fails without touching the store when the id is
// empty or the record does not validate.
func (s *TaskStore) Put(task models.Task) error {
	if task.ID == "" {
		return fmt.Errorf("task has no id")
	}
	task.ErrandID = task.ID
	task.LastUpdated = models.Now()
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	if err := models.ValidateStruct(task); err != nil {
		return fmt.Errorf("invalid task %s: %w", task.ID, err)
	}

	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("serialize task %s: %w", task.ID, err)
	}
	return s.ns.Put(TaskKey(task.ID), data)
}

// Get performs a direct lookup, including records in hidden states.
func (s *TaskStore) Get(id string) (models.Task, bool, error) {
	data, ok, err := s.ns.Get(TaskKey(id))
	if err != nil || !ok {
		return models.Task{}, false, err
	}
	var task models.Task
	if err := json.Unmarshal(data, &task); err != nil {
		return models.Task{}, false, fmt.Errorf("decode task %s: %w", id, err)
	}
	return task, true, nil
}

// ScanVisible enumerates every stored task a runner may still pick up.
// Entries that fail to decode are skipped, not fatal: a corrupt record from
// one writer must not hide every other task. Order is unspecified.
func (s *TaskStore) ScanVisible() ([]models.Task, error) {
	keys, err := s.ns.Keys(TaskKeyPrefix)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(keys))
	for _, key := range keys {
		data, ok, err := s.ns.Get(key)
		if err != nil || !ok {
			continue
		}
		var task models.Task
		if err := json.Unmarshal(data, &task); err != nil {
			slog.Warn("skipping undecodable task entry", "key", key, "error", err)
			continue
		}
		if task.Status.Hidden() {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// ScanAll enumerates every stored task regardless of lifecycle state, for
// maintenance surfaces like archiving. Undecodable entries are skipped the
// same way ScanVisible skips them.
func (s *TaskStore) ScanAll() ([]models.Task, error) {
	keys, err := s.ns.Keys(TaskKeyPrefix)
	if err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(keys))
	for _, key := range keys {
		data, ok, err := s.ns.Get(key)
		if err != nil || !ok {
			continue
		}
		var task models.Task
		if err := json.Unmarshal(data, &task); err != nil {
			slog.Warn("skipping undecodable task entry", "key", key, "error", err)
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Remove deletes the record for id. Removing an absent id is a no-op.
func (s *TaskStore) Remove(id string) error {
	if id == "" {
		return fmt.Errorf("task has no id")
	}
	return s.ns.Delete(TaskKey(id))
}

// SetStatus applies a lifecycle transition. The layer does not enforce a
// transition graph; any state may move to any other. A transition to
// withdrawn removes the entry entirely, every other transition is a
// read-modify-write refreshing last_updated. Either way the bus fires with
// the old and new serialized values.
func (s *TaskStore) SetStatus(id string, status models.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("unknown status %q", status)
	}

	if status == models.StatusWithdrawn {
		_, ok, err := s.Get(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("set status of task %s: %w", id, ErrNotFound)
		}
		return s.Remove(id)
	}

	task, ok, err := s.Get(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("set status of task %s: %w", id, ErrNotFound)
	}

	task.Status = status
	return s.Put(task)
}
