/*
Copyright © 2025 The errandsync authors
*/
package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/errandhq/errandsync/internal/normalize"
)

var (
	postDescription string
	postLocation    string
	postDeadline    string
	postPrice       float64
	postPriceMin    float64
	postPriceMax    float64
	postType        string
	postActive      bool
	postID          string
)

// postCmd represents the post command
var postCmd = &cobra.Command{
	Use:   "post <title>",
	Short: "Post a new errand to the shared store",
	Long: `Post a new errand so runners on this profile can see it.

The record goes through the same normalization as any other producer, so a
single --price collapses into the price range and missing fields pick up
their canonical defaults.

Examples:
  errandsync post "Buy groceries" --price 2000 --location Lagos
  errandsync post "Pick up parcel" --price-min 500 --price-max 1500 --type Delivery`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVar(&postDescription, "description", "", "longer description of the errand")
	postCmd.Flags().StringVar(&postLocation, "location", "", "where the errand happens")
	postCmd.Flags().StringVar(&postDeadline, "deadline", "", "when the errand must be done")
	postCmd.Flags().Float64Var(&postPrice, "price", 0, "single price (sets both bounds)")
	postCmd.Flags().Float64Var(&postPriceMin, "price-min", 0, "lower price bound")
	postCmd.Flags().Float64Var(&postPriceMax, "price-max", 0, "upper price bound")
	postCmd.Flags().StringVar(&postType, "type", "", "task category (default General)")
	postCmd.Flags().BoolVar(&postActive, "active", true, "post as active (false posts as pending)")
	postCmd.Flags().StringVar(&postID, "id", "", "explicit task id (defaults to a generated one)")
}

func runPost(cmd *cobra.Command, args []string) error {
	app, err := openApp()
	if err != nil {
		return err
	}

	id := postID
	if id == "" {
		// The CLI is the id authority here; the sync layer never generates ids.
		id = uuid.NewString()
	}

	status := "active"
	if !postActive {
		status = "pending"
	}

	raw := map[string]any{
		"id":          id,
		"title":       args[0],
		"description": postDescription,
		"location":    postLocation,
		"deadline":    postDeadline,
		"type":        postType,
		"status":      status,
	}
	switch {
	case postPriceMin != 0 || postPriceMax != 0:
		raw["price_min"] = postPriceMin
		raw["price_max"] = postPriceMax
	case postPrice != 0:
		raw["price"] = postPrice
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode errand: %w", err)
	}
	task, err := normalize.Normalize(payload)
	if err != nil {
		return fmt.Errorf("normalize errand: %w", err)
	}

	if err := app.Tasks.Put(task); err != nil {
		return fmt.Errorf("post errand: %w", err)
	}

	// Remember the post for resume flows when an identity is configured.
	if uid := CurrentUserID(); uid != "" {
		if err := app.Memory.Save(uid, task); err != nil && verbose {
			fmt.Printf("Warning: could not record last posted task: %v\n", err)
		}
	}

	fmt.Printf("Posted errand %s (%s, %s)\n", task.ID, task.Title, task.Status)
	return nil
}
