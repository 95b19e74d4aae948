package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/nevintel/internal/model"
	"github.com/sells-group/nevintel/internal/render"
)

var (
	renderDate    string
	renderVersion string
	renderOut     string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write a saved report to disk as json, markdown, and html",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initVersions(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		var v *model.Version
		if renderVersion != "" {
			v, err = env.Versions.Get(ctx, renderVersion)
		} else {
			date := renderDate
			if date == "" {
				date = time.Now().UTC().Format("2006-01-02")
			}
			v, err = env.Versions.Latest(ctx, date)
		}
		if err != nil {
			return err
		}

		outDir := renderOut
		if outDir == "" {
			outDir = cfg.Output.Dir
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return eris.Wrap(err, "create output dir")
		}

		base := filepath.Join(outDir, "nev_daily_"+v.Report.Date)
		for _, format := range cfg.Output.Formats {
			path, err := writeFormat(base, format, v)
			if err != nil {
				return err
			}
			zap.L().Info("report written", zap.String("format", format), zap.String("path", path))
			fmt.Println(path)
		}
		return nil
	},
}

func writeFormat(base, format string, v *model.Version) (string, error) {
	switch format {
	case "json":
		path := base + ".json"
		f, err := os.Create(path)
		if err != nil {
			return "", eris.Wrap(err, "create json output")
		}
		defer f.Close()
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v.Report); err != nil {
			return "", eris.Wrap(err, "encode report json")
		}
		return path, nil
	case "markdown":
		path := base + ".md"
		if err := os.WriteFile(path, []byte(render.Markdown(&v.Report)), 0o644); err != nil {
			return "", eris.Wrap(err, "write markdown output")
		}
		return path, nil
	case "html":
		path := base + ".html"
		f, err := os.Create(path)
		if err != nil {
			return "", eris.Wrap(err, "create html output")
		}
		defer f.Close()
		if err := render.HTML(f, &v.Report); err != nil {
			return "", err
		}
		return path, nil
	}
	return "", eris.Errorf("unknown output format %q", format)
}

func init() {
	renderCmd.Flags().StringVar(&renderDate, "date", "", "report date YYYY-MM-DD (default today)")
	renderCmd.Flags().StringVar(&renderVersion, "version", "", "explicit version id, overrides --date")
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output directory (default from config)")
	rootCmd.AddCommand(renderCmd)
}
