/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/errandhq/errandsync/internal/bus"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the shared store for changes from other contexts",
	Long: `Stream change events from the shared store as other processes post,
accept, complete, or withdraw errands. Events are hints: a consumer that
misses one simply re-scans the feed.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}

	unsubscribe := app.Bus.SubscribeStorage(func(ev bus.Event) {
		switch {
		case ev.NewValue == nil:
			fmt.Printf("removed  %s\n", ev.Key)
		case ev.OldValue == nil:
			fmt.Printf("created  %s\n", ev.Key)
		default:
			fmt.Printf("updated  %s\n", ev.Key)
		}
		if verbose && ev.NewValue != nil {
			fmt.Printf("         %s\n", ev.NewValue)
		}
	})
	defer unsubscribe()

	watcher, err := bus.NewWatcher(app.Namespace.Dir(), app.Bus)
	if err != nil {
		return fmt.Errorf("watch shared store: %w", err)
	}
	watcher.Start()
	defer watcher.Stop()

	fmt.Printf("Watching %s (ctrl-c to stop)\n", app.Namespace.Dir())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	return nil
}
