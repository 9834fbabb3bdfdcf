/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/errandhq/errandsync/internal/bus"
	"github.com/errandhq/errandsync/internal/server"
)

var servePort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shared task store over a local HTTP API",
	Long: `Run a loopback HTTP API over the shared task store so browser UIs
and other tools can read the feed, post errands, and follow change events
over SSE. Cross-context mutations are picked up through the store watcher
and re-broadcast to API clients.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}

	port := servePort
	if port == 0 {
		port = GetConfig().Server.Port
	}

	watcher, err := bus.NewWatcher(app.Namespace.Dir(), app.Bus)
	if err != nil {
		return fmt.Errorf("watch shared store: %w", err)
	}
	watcher.Start()
	defer watcher.Stop()

	srv := server.New(port, app.Tasks, app.Bus)

	var wg sync.WaitGroup
	errChan := make(chan error, 1)
	srv.Start(&wg, errChan)

	fmt.Printf("Serving on http://127.0.0.1:%d (ctrl-c to stop)\n", port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case <-sig:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	wg.Wait()
	return nil
}
