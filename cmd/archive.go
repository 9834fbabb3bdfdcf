/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/errandhq/errandsync/internal/archive"
	"github.com/errandhq/errandsync/internal/config"
)

var archivePrune bool

// archiveCmd represents the archive command
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Copy finished errands into the archive database",
	Long: `Copy accepted and completed errands from the shared store into the
durable archive. By default records stay in the shared store afterwards;
--prune removes them once archived.

Archiving never happens implicitly; lifecycle transitions leave records in
place until this command is run.`,
	RunE: runArchive,
}

// archiveListCmd represents the archive list subcommand
var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived errands",
	RunE:  runArchiveList,
}

func init() {
	rootCmd.AddCommand(archiveCmd)
	archiveCmd.AddCommand(archiveListCmd)

	archiveCmd.Flags().BoolVar(&archivePrune, "prune", false, "remove archived errands from the shared store")
}

func runArchive(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}

	arc, err := archive.Open(config.GetArchivePath())
	if err != nil {
		return err
	}
	defer func() { _ = arc.Close() }()

	tasks, err := app.Tasks.ScanAll()
	if err != nil {
		return fmt.Errorf("scan errands: %w", err)
	}

	archived := 0
	for _, t := range tasks {
		if !t.Status.Hidden() {
			continue
		}
		if err := arc.ArchiveTask(t); err != nil {
			return err
		}
		archived++
		if archivePrune {
			if err := app.Tasks.Remove(t.ID); err != nil {
				return fmt.Errorf("prune errand %s: %w", t.ID, err)
			}
		}
	}

	if archived == 0 {
		fmt.Println("Nothing to archive.")
		return nil
	}
	action := "archived"
	if archivePrune {
		action = "archived and pruned"
	}
	fmt.Printf("%d errand(s) %s.\n", archived, action)
	return nil
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	arc, err := archive.Open(config.GetArchivePath())
	if err != nil {
		return err
	}
	defer func() { _ = arc.Close() }()

	tasks, err := arc.List()
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}
	for _, t := range tasks {
		fmt.Printf("%s  %-30s  %s\n", t.ID, t.Title, t.Status)
	}
	return nil
}
