package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var diffJSON bool

var diffCmd = &cobra.Command{
	Use:   "diff <from-version> <to-version>",
	Short: "Compare two saved report versions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initVersions(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		d, err := env.Versions.Diff(ctx, args[0], args[1])
		if err != nil {
			return err
		}

		if diffJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(d)
		}

		fmt.Printf("%s -> %s\n", d.FromID, d.ToID)
		fmt.Printf("added %d, removed %d, modified %d\n", len(d.Added), len(d.Removed), len(d.Modified))
		for _, h := range d.Added {
			fmt.Printf("  + %s (%s)\n", h.Title, h.Source)
		}
		for _, h := range d.Removed {
			fmt.Printf("  - %s (%s)\n", h.Title, h.Source)
		}
		for _, m := range d.Modified {
			fmt.Printf("  ~ %s\n", m.Title)
			for _, c := range m.Changes {
				fmt.Printf("      %s: %s -> %s\n", c.Field, c.Before, c.After)
			}
		}
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "emit the diff as JSON")
	rootCmd.AddCommand(diffCmd)
}
