package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/scbrown/gearcalc/internal/model"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show the history of catalog exports",
	Long: `Runs lists every gearcalc export --format sqlite, newest first. Only the
newest run's trains are kept for lookup; older runs remain as history.`,
	Example: `  gearcalc runs
  gearcalc runs --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer s.Close()

		runs, err := s.ListRuns(context.Background())
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}

		if jsonOutput {
			if runs == nil {
				runs = []model.Run{}
			}
			return writeJSON(os.Stdout, runs)
		}
		if len(runs) == 0 {
			fmt.Println("No exports recorded yet.")
			return nil
		}

		tbl := NewTable(os.Stdout, "ID", "CREATED", "GEARS", "LENGTHS", "RATIOS", "TRAINS")
		for _, r := range runs {
			tbl.Row(
				shortID(r.ID),
				r.CreatedAt.Local().Format(time.DateTime),
				strings.Join(r.Gears, ","),
				fmt.Sprintf("%d-%d", r.MinGears, r.MaxGears),
				strconv.Itoa(r.Ratios),
				strconv.Itoa(r.Trains),
			)
		}
		return tbl.Flush()
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

// shortID returns the first 8 characters of a run ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
