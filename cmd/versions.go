package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var versionsDate string

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "List saved report versions",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initVersions(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		date := versionsDate
		if date == "" {
			date = time.Now().UTC().Format("2006-01-02")
		}

		refs, err := env.Versions.List(ctx, date)
		if err != nil {
			return err
		}
		if len(refs) == 0 {
			fmt.Printf("no versions for %s\n", date)
			return nil
		}

		for _, ref := range refs {
			fmt.Printf("%s\tcreated %s\n", ref.ID, ref.CreatedAt.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	versionsCmd.Flags().StringVar(&versionsDate, "date", "", "report date YYYY-MM-DD (default today)")
	rootCmd.AddCommand(versionsCmd)
}
