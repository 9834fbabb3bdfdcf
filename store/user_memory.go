package store

import (
	"encoding/json"
	"fmt"

	"github.com/errandhq/errandsync/models"
)

// lastPostedKeyPrefix namespaces the per-user "last task posted" entries.
const lastPostedKeyPrefix = "lastPostedTask_"

// UserMemory records the most recent task each user posted, independent of
// the shared visibility store. It backs resume/recovery flows and is
// self-healing: any entry that fails to decode, lacks an id, or carries a
// mismatched owner is purged rather than surfaced.
type UserMemory struct {
	ns *Namespace
}

func NewUserMemory(ns *Namespace) *UserMemory {
	return &UserMemory{ns: ns}
}

func lastPostedKey(userID string) string {
	return lastPostedKeyPrefix + userID
}

// Save records task as userID's last posted task. Both the identity and the
// task id are required; without them the call fails before touching state.
func (m *UserMemory) Save(userID string, task models.Task) error {
	if userID == "" {
		return fmt.Errorf("no user identity")
	}
	if task.ID == "" {
		return fmt.Errorf("task has no id")
	}

	rec := models.LastPostedTask{
		Task:      task,
		UserID:    userID,
		Timestamp: models.Now(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("serialize last posted task for %s: %w", userID, err)
	}
	return m.ns.Put(lastPostedKey(userID), data)
}

// Load returns userID's remembered task. ok is false when there is nothing
// usable; corrupt or foreign entries are removed on the way out so the next
// load starts clean. Parse errors never reach the caller.
func (m *UserMemory) Load(userID string) (models.LastPostedTask, bool) {
	if userID == "" {
		return models.LastPostedTask{}, false
	}

	key := lastPostedKey(userID)
	data, ok, err := m.ns.Get(key)
	if err != nil || !ok {
		return models.LastPostedTask{}, false
	}

	var rec models.LastPostedTask
	if err := json.Unmarshal(data, &rec); err != nil {
		m.purge(key)
		return models.LastPostedTask{}, false
	}
	if rec.ID == "" || rec.UserID != userID {
		m.purge(key)
		return models.LastPostedTask{}, false
	}
	return rec, true
}

// LoadByID is Load filtered to an exact task id match.
func (m *UserMemory) LoadByID(userID, taskID string) (models.LastPostedTask, bool) {
	rec, ok := m.Load(userID)
	if !ok || rec.ID != taskID {
		return models.LastPostedTask{}, false
	}
	return rec, true
}

// Clear removes userID's remembered task. Clearing an empty slot is a no-op.
func (m *UserMemory) Clear(userID string) error {
	if userID == "" {
		return fmt.Errorf("no user identity")
	}
	return m.ns.Delete(lastPostedKey(userID))
}

func (m *UserMemory) purge(key string) {
	_ = m.ns.Delete(key)
}
