package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection cycle and save a report version",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		res, err := env.Pipeline.Run(ctx)
		if err != nil {
			return err
		}

		for _, w := range res.Warnings {
			zap.L().Warn("run warning",
				zap.String("kind", string(w.Kind)),
				zap.String("source", w.Source),
				zap.String("detail", w.Detail))
		}

		fmt.Printf("saved %s (%d items, %d warnings) in %s\n",
			res.Version.ID,
			res.Version.Report.Summary.TotalItems,
			len(res.Warnings),
			res.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
