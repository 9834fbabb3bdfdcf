/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/errandhq/errandsync/internal/bus"
	"github.com/errandhq/errandsync/internal/config"
	"github.com/errandhq/errandsync/store"
)

// appContext bundles the shared store stack a command operates on.
type appContext struct {
	Bus       *bus.Bus
	Namespace *store.Namespace
	Tasks     *store.TaskStore
	Memory    *store.UserMemory
}

// openApp opens the shared namespace and wires the stores to a fresh bus.
// Every command invocation is its own "browsing context": reads go straight
// to the namespace, so no state is shared between invocations beyond it.
func openApp() (*appContext, error) {
	b := bus.New()
	ns, err := store.NewNamespace(afero.NewOsFs(), config.GetSharedStorePath(), b)
	if err != nil {
		return nil, fmt.Errorf("open shared store: %w", err)
	}
	return &appContext{
		Bus:       b,
		Namespace: ns,
		Tasks:     store.NewTaskStore(ns),
		Memory:    store.NewUserMemory(ns),
	}, nil
}

// requireUser returns the acting identity or a guarded failure when none is
// configured. Per-user operations without an identity never touch state.
func requireUser() (string, error) {
	id := CurrentUserID()
	if id == "" {
		return "", fmt.Errorf("no user identity configured; set --user or user.id in config")
	}
	return id, nil
}
