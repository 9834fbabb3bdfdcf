/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/errandhq/errandsync/models"
	"github.com/errandhq/errandsync/store"
)

// acceptCmd represents the accept command
var acceptCmd = &cobra.Command{
	Use:   "accept <task-id>",
	Short: "Accept an errand as a runner",
	Long: `Accept an errand. The record stays in the shared store but leaves
the runner-visible feed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(args[0], models.StatusAccepted)
	},
}

// doneCmd represents the done command
var doneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Mark an errand completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(args[0], models.StatusCompleted)
	},
}

// withdrawCmd represents the withdraw command
var withdrawCmd = &cobra.Command{
	Use:   "withdraw <task-id>",
	Short: "Withdraw an errand entirely",
	Long: `Withdraw an errand. Withdrawal is terminal: the record is removed
from the shared store, not just hidden.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transition(args[0], models.StatusWithdrawn)
	},
}

func init() {
	rootCmd.AddCommand(acceptCmd)
	rootCmd.AddCommand(doneCmd)
	rootCmd.AddCommand(withdrawCmd)
}

func transition(id string, status models.TaskStatus) error {
	app, err := openApp()
	if err != nil {
		return err
	}

	if err := app.Tasks.SetStatus(id, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("errand %s not found", id)
		}
		return err
	}

	fmt.Printf("Errand %s is now %s\n", id, status)
	return nil
}
