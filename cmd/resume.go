/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resumeTaskID string

// resumeCmd represents the resume command
var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Show the last errand you posted",
	Long: `Show the task remembered for the current user, independent of the
shared feed. Useful for picking an interrupted posting flow back up.

A corrupt or foreign memory entry is purged silently; the command then
reports that nothing is remembered.`,
	RunE: runResume,
}

// forgetCmd represents the forget command
var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Clear the remembered last posted errand",
	RunE:  runForget,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(forgetCmd)

	resumeCmd.Flags().StringVar(&resumeTaskID, "id", "", "only resume if the remembered task has this id")
}

func runResume(cmd *cobra.Command, args []string) error {
	uid, err := requireUser()
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}

	rec, ok := app.Memory.Load(uid)
	if ok && resumeTaskID != "" {
		rec, ok = app.Memory.LoadByID(uid, resumeTaskID)
	}
	if !ok {
		fmt.Println("No remembered errand for this user.")
		return nil
	}

	fmt.Printf("Last posted errand: %s (%s)\n", rec.ID, rec.Title)
	fmt.Printf("  status:    %s\n", rec.Status)
	fmt.Printf("  price:     %.0f-%.0f\n", rec.PriceMin, rec.PriceMax)
	if rec.Location != "" {
		fmt.Printf("  location:  %s\n", rec.Location)
	}
	fmt.Printf("  posted at: %s\n", rec.Timestamp)
	return nil
}

func runForget(cmd *cobra.Command, args []string) error {
	uid, err := requireUser()
	if err != nil {
		return err
	}
	app, err := openApp()
	if err != nil {
		return err
	}

	if err := app.Memory.Clear(uid); err != nil {
		return err
	}
	fmt.Println("Cleared remembered errand.")
	return nil
}
