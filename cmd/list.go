/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listAll bool

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List errands visible to runners",
	Long: `List the errands a runner browsing this profile would see.

Accepted, completed, and withdrawn errands are hidden from the feed; pass
--all to include every stored record regardless of state.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "include hidden lifecycle states")
}

func runList(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}

	tasks, err := app.Tasks.ScanVisible()
	if listAll {
		tasks, err = app.Tasks.ScanAll()
	}
	if err != nil {
		return fmt.Errorf("scan errands: %w", err)
	}

	if len(tasks) == 0 {
		fmt.Println("No errands found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tPRICE\tLOCATION\tSTATUS")
	for _, t := range tasks {
		price := fmt.Sprintf("%.0f", t.PriceMin)
		if t.PriceMax != t.PriceMin {
			price = fmt.Sprintf("%.0f-%.0f", t.PriceMin, t.PriceMax)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Title, t.TaskType, price, t.Location, t.Status)
	}
	return w.Flush()
}
