// Package cli defines the cobra command tree for the gearcalc CLI.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/scbrown/gearcalc/internal/config"
	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/logging"
	"github.com/scbrown/gearcalc/internal/store"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	jsonOutput bool
	verbose    bool
	gearFlags  []string
	minGears   int
	maxGears   int
	storeMode  string
	remoteURL  string
	outputPath string

	// logger is rebuilt before every command from --verbose and log_level.
	logger = logging.Discard()
)

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "gears.db"
	}
	return filepath.Join(home, ".gearcalc", "gears.db")
}

// rootCmd is the top-level gearcalc command.
var rootCmd = &cobra.Command{
	Use:   "gearcalc",
	Short: "Find LEGO gear trains that produce a target ratio",
	Long: `gearcalc searches chains of meshing gear pairs for trains whose overall
ratio matches a target x:y. The shortest exact trains are reported; when no
exact train exists within the gear limit, the closest train found is shown.

Exported catalogs of every reachable ratio can be written as JSON or stored in
a SQLite database at ~/.gearcalc/gears.db (configurable via --db flag or
gearcalc config db_path) and queried with lookup and ratios. All output
commands support --json for machine-readable output.`,
	Example: `  # Find trains for a 3:1 reduction
  gearcalc find 3 1

  # Allow longer trains and print the ratio normalised to one
  gearcalc find 24 1 --max 8 --to-one

  # Export every ratio reachable with up to six gears
  gearcalc export --format sqlite
  gearcalc lookup 1:108`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		cfg, err := config.LoadFrom(configPath)
		if err == nil {
			applyConfig(cmd, cfg)
			if l, err := logging.ParseLevel(cfg.LogLevel); err == nil {
				level = l
			}
		}
		if verbose {
			level = slog.LevelDebug
		}
		logger = logging.NewStderr(level)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBPath(), "path to SQLite database")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log search progress at debug level")
	rootCmd.PersistentFlags().StringSliceVar(&gearFlags, "gears", nil, "gear tooth counts to use (default 1,8,12,16,20,24,36,40,56)")
	rootCmd.PersistentFlags().IntVar(&minGears, "min", 0, "minimum gears in a train (even)")
	rootCmd.PersistentFlags().IntVar(&maxGears, "max", 0, "maximum gears in a train (even)")
}

// applyConfig copies config values into every flag the user did not set.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if cfg.DBPath != "" && !flags.Changed("db") {
		dbPath = cfg.DBPath
	}
	if cfg.DefaultFormat == "json" && !flags.Changed("json") {
		jsonOutput = true
	}
	if len(cfg.Gears) > 0 && !flags.Changed("gears") {
		gearFlags = cfg.Gears
	}
	if cfg.MinGears > 0 && !flags.Changed("min") {
		minGears = cfg.MinGears
	}
	if cfg.MaxGears > 0 && !flags.Changed("max") {
		maxGears = cfg.MaxGears
	}
	if cfg.StoreMode != "" && storeMode == "" {
		storeMode = cfg.StoreMode
	}
	if cfg.RemoteURL != "" && remoteURL == "" {
		remoteURL = cfg.RemoteURL
	}
	if cfg.Output != "" && outputPath == "" {
		outputPath = cfg.Output
	}
}

// activeCatalog returns the gear set selected by --gears or the config file.
func activeCatalog() (gear.Catalog, error) {
	if len(gearFlags) == 0 {
		return gear.DefaultCatalog, nil
	}
	c, err := gear.ParseCatalog(gearFlags)
	if err != nil {
		return nil, fmt.Errorf("invalid gears: %w", err)
	}
	return c, nil
}

// gearRange returns --min and --max, falling back to the given defaults.
func gearRange(defMin, defMax int) (int, int) {
	lo, hi := minGears, maxGears
	if lo == 0 {
		lo = defMin
	}
	if hi == 0 {
		hi = defMax
	}
	return lo, hi
}

// openStore returns a store.Store based on the current configuration.
// When store_mode is "remote", it returns a RemoteStore pointing at remote_url.
// Otherwise it opens the local SQLite database.
func openStore() (store.Store, error) {
	if storeMode == "remote" {
		if remoteURL == "" {
			return nil, fmt.Errorf("store_mode is \"remote\" but remote_url is not set; use: gearcalc config remote_url <url>")
		}
		return store.NewRemote(remoteURL), nil
	}
	return store.New(dbPath)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
