package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/scbrown/gearcalc/internal/catalog"
	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/model"
	"github.com/scbrown/gearcalc/internal/ratio"
	"github.com/spf13/cobra"
)

var (
	lookupAll  bool
	lookupFile string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup N:D",
	Short: "Look up a ratio in the exported catalog",
	Long: `Lookup reads the trains stored for a ratio by gearcalc export --format sqlite.
The ratio may be written N:D or N-D and is reduced before lookup.

Trains that use the same gears in a different order are shown once unless --all
is given. Unlike find, lookup never searches: ratios missing from the catalog
are reported as an error.

With --file the ratio is read from a JSON catalog written by gearcalc export
instead of the database.`,
	Example: `  gearcalc lookup 1:108
  gearcalc lookup 6-2
  gearcalc lookup 3:1 --all --json
  gearcalc lookup 5:2 --file gear_trains.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := ratio.Parse(args[0])
		if err != nil {
			return err
		}

		var entry *model.Entry
		if lookupFile != "" {
			entry, err = lookupJSON(lookupFile, r)
		} else {
			entry, err = lookupStore(r)
		}
		if err != nil {
			return err
		}
		if entry == nil {
			return fmt.Errorf("ratio %s is not in the catalog (export a larger range with gearcalc export --format sqlite, or use gearcalc find)", r)
		}

		if jsonOutput {
			return writeJSON(os.Stdout, entry)
		}
		return renderEntry(os.Stdout, entry, lookupAll)
	},
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupAll, "all", false, "show every stored ordering of the same gears")
	lookupCmd.Flags().StringVar(&lookupFile, "file", "", "read a JSON catalog from gearcalc export instead of the database")
	rootCmd.AddCommand(lookupCmd)
}

func lookupStore(r ratio.Ratio) (*model.Entry, error) {
	s, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	entry, err := s.Lookup(context.Background(), r)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", r, err)
	}
	return entry, nil
}

// lookupJSON reads the trains for r from an exported JSON catalog. It returns
// nil when the file has no trains for r.
func lookupJSON(path string, r ratio.Ratio) (*model.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	ratios, err := catalog.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	trains := ratios[r]
	if len(trains) == 0 {
		return nil, nil
	}
	entry := &model.Entry{Ratio: r.String(), Trains: make([][]string, len(trains))}
	for i, t := range trains {
		entry.Trains[i] = gear.Tokens(t)
	}
	return entry, nil
}

func renderEntry(w io.Writer, entry *model.Entry, all bool) error {
	trains := make([]gear.Train, 0, len(entry.Trains))
	for _, tokens := range entry.Trains {
		t, err := gear.ParseTokens(tokens)
		if err != nil {
			return fmt.Errorf("stored train %v: %w", tokens, err)
		}
		trains = append(trains, t)
	}
	if !all {
		trains = gear.Distinct(trains)
	}

	color := isTTY(w)
	fmt.Fprintf(w, "\nRatio: %s\n", entry.Ratio)
	fmt.Fprintf(w, "\n%s\n=========\n", heading("Solutions", color))
	for _, t := range trains {
		fmt.Fprintf(w, "Gear Train: %s\n", gear.Format(t))
	}
	_, err := fmt.Fprintln(w)
	return err
}
