// Package onboarding keeps the signup bookkeeping that shares the task
// namespace: the terms-of-service acknowledgment ledger and the one-shot
// new-user flag. Both ride the same key-value store as task entries, so
// their mutations reach subscribers through the same notification bus.
package onboarding

import (
	"encoding/json"
	"fmt"

	"github.com/errandhq/errandsync/models"
	"github.com/errandhq/errandsync/store"
)

const (
	acceptedUsersKey = "acceptedUsers"
	newUserKey       = "isNewUser"

	// newUserSentinel is the literal the front-ends historically stored.
	newUserSentinel = `"true"`
)

// Acceptance is one user's terms-of-service acknowledgment.
type Acceptance struct {
	Accepted   bool   `json:"accepted"`
	Version    int    `json:"version"`
	AcceptedAt string `json:"acceptedAt"`
}

// Ledger stores acknowledgments keyed by user id in a single namespace
// entry.
type Ledger struct {
	ns *store.Namespace
}

func NewLedger(ns *store.Namespace) *Ledger {
	return &Ledger{ns: ns}
}

func (l *Ledger) load() (map[string]Acceptance, error) {
	data, ok, err := l.ns.Get(acceptedUsersKey)
	if err != nil {
		return nil, err
	}
	ledger := make(map[string]Acceptance)
	if !ok {
		return ledger, nil
	}
	if err := json.Unmarshal(data, &ledger); err != nil {
		// A corrupt ledger starts over; acceptance is re-collectable.
		return make(map[string]Acceptance), nil
	}
	return ledger, nil
}

// Accept records that userID acknowledged the given terms version.
func (l *Ledger) Accept(userID string, version int) error {
	if userID == "" {
		return fmt.Errorf("no user identity")
	}
	ledger, err := l.load()
	if err != nil {
		return err
	}
	ledger[userID] = Acceptance{
		Accepted:   true,
		Version:    version,
		AcceptedAt: models.Now(),
	}
	data, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("serialize acceptance ledger: %w", err)
	}
	return l.ns.Put(acceptedUsersKey, data)
}

// HasAccepted reports whether userID acknowledged at least minVersion of the
// terms.
func (l *Ledger) HasAccepted(userID string, minVersion int) bool {
	ledger, err := l.load()
	if err != nil {
		return false
	}
	a, ok := ledger[userID]
	return ok && a.Accepted && a.Version >= minVersion
}

// MarkNewUser raises the transient new-user flag.
func (l *Ledger) MarkNewUser() error {
	return l.ns.Put(newUserKey, []byte(newUserSentinel))
}

// ConsumeNewUser reads and clears the new-user flag in one step. It reports
// true only for the first caller after the flag was raised.
func (l *Ledger) ConsumeNewUser() bool {
	data, ok, err := l.ns.Get(newUserKey)
	if err != nil || !ok {
		return false
	}
	_ = l.ns.Delete(newUserKey)
	return string(data) == newUserSentinel || string(data) == "true"
}
