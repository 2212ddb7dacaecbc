package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/scbrown/gearcalc/internal/model"
	"github.com/scbrown/gearcalc/internal/store"
	"github.com/spf13/cobra"
)

var (
	ratiosLimit     int
	ratiosMinTrains int
	ratiosMaxGears  int
)

var ratiosCmd = &cobra.Command{
	Use:   "ratios",
	Short: "List the ratios in the exported catalog",
	Long: `Ratios lists every ratio stored by gearcalc export --format sqlite, ordered
from the strongest reduction to the strongest step-up.

Each row shows the ratio, its decimal value, how many trains produce it and the
fewest gears any of them needs.`,
	Example: `  gearcalc ratios
  gearcalc ratios --limit 20
  gearcalc ratios --max-gears 2
  gearcalc ratios --min-trains 10 --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		ratios, err := s.ListRatios(context.Background(), store.RatioOpts{
			Limit:     ratiosLimit,
			MinTrains: ratiosMinTrains,
			MaxGears:  ratiosMaxGears,
		})
		if err != nil {
			return fmt.Errorf("list ratios: %w", err)
		}

		if jsonOutput {
			if ratios == nil {
				ratios = []model.RatioCount{}
			}
			return writeJSON(os.Stdout, ratios)
		}
		if len(ratios) == 0 {
			fmt.Println("No ratios stored. Run gearcalc export --format sqlite first.")
			return nil
		}

		tbl := NewTable(os.Stdout, "RATIO", "VALUE", "TRAINS", "SHORTEST")
		for _, r := range ratios {
			tbl.Row(r.Ratio, strconv.FormatFloat(r.Value, 'g', 6, 64), strconv.Itoa(r.Count), strconv.Itoa(r.MinGears))
		}
		return tbl.Flush()
	},
}

func init() {
	ratiosCmd.Flags().IntVar(&ratiosLimit, "limit", 0, "maximum number of ratios to show (0 = all)")
	ratiosCmd.Flags().IntVar(&ratiosMinTrains, "min-trains", 0, "only ratios produced by at least this many trains")
	ratiosCmd.Flags().IntVar(&ratiosMaxGears, "max-gears", 0, "only count trains with at most this many gears")
	rootCmd.AddCommand(ratiosCmd)
}
