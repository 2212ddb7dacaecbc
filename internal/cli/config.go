package cli

import (
	"fmt"
	"os"

	"github.com/scbrown/gearcalc/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Show or modify configuration",
	Long: `View or change gearcalc configuration stored in ~/.gearcalc/config.toml.

With no arguments, shows all configuration settings.
With one argument, shows the value of that key.
With two arguments, sets the key to the given value. An empty value resets it.

Settings:
  db_path         Path to the SQLite catalog database
  gears           Comma-separated gear tooth counts (default 1,8,12,16,20,24,36,40,56)
  min_gears       Shortest train to consider (even, default 2)
  max_gears       Longest train to consider (even; find defaults to 8, export to 6)
  default_format  Default output format: "text" or "json"
  store_mode      "local" (SQLite) or "remote" (a gearcalc serve instance)
  remote_url      Base URL of the server used when store_mode is remote
  output          File written by gearcalc export --format json
  log_level       debug, info, warn or error`,
	Example: `  gearcalc config
  gearcalc config gears
  gearcalc config gears 1,8,16,24,40
  gearcalc config max_gears 6
  gearcalc config store_mode remote
  gearcalc config remote_url http://gears.local:7274
  gearcalc config max_gears ""`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFrom(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		switch len(args) {
		case 0:
			return showConfig(cfg)
		case 1:
			return getConfig(cfg, args[0])
		default:
			return setConfig(cfg, args[0], args[1])
		}
	},
}

// configPath is the path to the config file, settable for testing.
var configPath = config.Path()

func init() {
	rootCmd.AddCommand(configCmd)
}

func showConfig(cfg *config.Config) error {
	if jsonOutput {
		return writeJSON(os.Stdout, cfg)
	}

	tbl := NewTable(os.Stdout, "KEY", "VALUE")
	for _, key := range config.ValidKeys() {
		val, _ := cfg.Get(key)
		if val == "" {
			val = "(not set)"
		}
		tbl.Row(key, val)
	}
	return tbl.Flush()
}

func getConfig(cfg *config.Config, key string) error {
	val, err := cfg.Get(key)
	if err != nil {
		return err
	}
	if val == "" {
		return nil
	}
	fmt.Println(val)
	return nil
}

func setConfig(cfg *config.Config, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return err
	}
	val, _ := cfg.Get(key)
	fmt.Printf("%s = %s\n", key, val)
	return nil
}
