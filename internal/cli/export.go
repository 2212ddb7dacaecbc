package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/scbrown/gearcalc/internal/catalog"
	"github.com/scbrown/gearcalc/internal/config"
	"github.com/scbrown/gearcalc/internal/store"
	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	exportWorkers int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every reachable ratio and the trains that produce it",
	Long: `Export enumerates every valid train from --min to --max gears (default 2 to 6)
and groups the trains by the ratio they produce.

With --format json (the default) the catalog is written to --out, or to
gear_trains.json when no output is configured; "-" writes to stdout. The JSON
maps each ratio "n:d" to its trains, one list of tooth counts per train.

With --format sqlite the catalog replaces the trains stored in the --db
database, ready for gearcalc lookup and gearcalc ratios. Each export is kept in
the run history shown by gearcalc runs.`,
	Example: `  gearcalc export
  gearcalc export --out - | jq '."3:1"'
  gearcalc export --max 4 --out small.json
  gearcalc export --format sqlite
  gearcalc export --format sqlite --gears 8,16,24,40 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeCatalog()
		if err != nil {
			return err
		}
		lo, hi := gearRange(catalog.DefaultMinGears, catalog.DefaultMaxGears)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		cat, err := catalog.Build(ctx, c, lo, hi,
			catalog.WithLogger(logger),
			catalog.WithWorkers(exportWorkers))
		if err != nil {
			return fmt.Errorf("build catalog: %w", err)
		}

		switch exportFormat {
		case "json":
			return exportJSON(cat)
		case "sqlite":
			return exportSQLite(ctx, cat)
		default:
			return fmt.Errorf("unsupported format %q (use json or sqlite)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json or sqlite")
	exportCmd.Flags().StringVarP(&outputPath, "out", "o", "", "JSON output file, - for stdout (default gear_trains.json)")
	exportCmd.Flags().IntVar(&exportWorkers, "workers", 0, "train lengths enumerated in parallel (default: one per length)")
	rootCmd.AddCommand(exportCmd)
}

func exportJSON(cat *catalog.Catalog) error {
	path := outputPath
	if path == "" {
		path = config.DefaultOutput
	}

	// The summary goes to stderr when the catalog itself is on stdout.
	var summary io.Writer = os.Stdout
	if path == "-" {
		summary = os.Stderr
		if err := cat.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	} else {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		if err := cat.WriteJSON(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", path, err)
		}
		logger.Debug("wrote catalog", "path", path)
	}

	if jsonOutput && path != "-" {
		return writeJSON(os.Stdout, map[string]any{
			"path":   path,
			"ratios": cat.Len(),
			"trains": cat.Total(),
		})
	}
	fmt.Fprintln(summary, cat.Summary())
	return nil
}

func exportSQLite(ctx context.Context, cat *catalog.Catalog) error {
	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()

	run := store.NewRun(cat)
	if err := s.SaveRun(ctx, run, cat); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	logger.Debug("stored catalog", "db", dbPath, "run", run.ID)

	if jsonOutput {
		return writeJSON(os.Stdout, run)
	}
	fmt.Println(cat.Summary())
	return nil
}

// writeJSON writes v to w as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
