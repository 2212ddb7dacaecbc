package cli

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strings"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/model"
	"github.com/scbrown/gearcalc/internal/ratio"
	"github.com/scbrown/gearcalc/internal/search"
	"github.com/scbrown/gearcalc/internal/store"
	"github.com/spf13/cobra"
)

var findToOne bool

var findCmd = &cobra.Command{
	Use:   "find X Y",
	Short: "Find the shortest gear trains for the ratio X:Y",
	Long: `Find searches trains of meshing gear pairs for the ratio X:Y, starting with
two gears and adding one pair at a time up to --max gears (default 8).

The first train length that yields exact matches is reported; trains that use the
same gears in a different order are shown once. When no exact train exists within
the limit, the closest train seen is printed instead.

X and Y may be decimals: 13.5 1 is searched as 27:2. With store_mode=remote the
search runs on the configured gearcalc server.`,
	Example: `  gearcalc find 3 1
  gearcalc find 1 108
  gearcalc find 24 1 --max 8
  gearcalc find 13.5 1 --to-one
  gearcalc find 5 2 --gears 8,16,20,40 --json`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, y := args[0], args[1]
		target, err := ratio.FromDecimals(x, y)
		if err != nil {
			return err
		}
		lo, hi := gearRange(search.DefaultMinGears, search.DefaultMaxGears)

		s, err := newSearcher()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		sol, err := s.Search(ctx, x, y, lo, hi)
		if err != nil {
			return fmt.Errorf("search %s:%s: %w", x, y, err)
		}

		if jsonOutput {
			return writeJSON(os.Stdout, sol)
		}
		return renderSolution(os.Stdout, x, y, target, sol, findToOne)
	},
}

func init() {
	findCmd.Flags().BoolVar(&findToOne, "to-one", false, "print the ratio normalised to N:1 or 1:N")
	rootCmd.AddCommand(findCmd)
}

// searcher runs a ratio search locally or on a gearcalc server.
type searcher interface {
	Search(ctx context.Context, x, y string, minGears, maxGears int) (*model.Solution, error)
}

func newSearcher() (searcher, error) {
	if storeMode == "remote" {
		if remoteURL == "" {
			return nil, fmt.Errorf("store_mode is \"remote\" but remote_url is not set; use: gearcalc config remote_url <url>")
		}
		if len(gearFlags) > 0 {
			logger.Warn("gears setting ignored in remote mode; the server's catalog is used", "gears", strings.Join(gearFlags, ","), "remote_url", remoteURL)
		}
		return store.NewRemote(remoteURL), nil
	}
	c, err := activeCatalog()
	if err != nil {
		return nil, err
	}
	return &localSearcher{engine: search.New(search.WithLogger(logger)), catalog: c}, nil
}

// localSearcher runs searches in process.
type localSearcher struct {
	engine  *search.Engine
	catalog gear.Catalog
}

func (l *localSearcher) Search(ctx context.Context, x, y string, minGears, maxGears int) (*model.Solution, error) {
	target, err := ratio.FromDecimals(x, y)
	if err != nil {
		return nil, err
	}
	res, err := l.engine.Search(ctx, search.Request{
		Target:   target,
		Catalog:  l.catalog,
		MinGears: minGears,
		MaxGears: maxGears,
	})
	if err != nil {
		return nil, err
	}
	sol := model.NewSolution(x+":"+y, res)
	return &sol, nil
}

// renderSolution prints sol in the classic calculator layout:
//
//	NOTE: 6:2 reduces to 3:1
//
//	Ratio: 3:1
//
//	Solutions
//	=========
//	Gear Train: 24:8
func renderSolution(w io.Writer, x, y string, target ratio.Ratio, sol *model.Solution, toOne bool) error {
	color := isTTY(w)
	if reduces(x, y, target) {
		fmt.Fprintln(w, warning(fmt.Sprintf("NOTE: %s:%s reduces to %s", x, y, target), color))
	}

	label := sol.Ratio
	if toOne {
		if r, err := ratio.Parse(sol.Ratio); err == nil {
			label = ratio.ToOne(r)
		}
	}
	fmt.Fprintf(w, "\nRatio: %s\n", label)

	if sol.Exact {
		fmt.Fprintf(w, "\n%s\n=========\n", heading("Solutions", color))
	} else {
		fmt.Fprintf(w, "%s\n\n", warning("Could not find an exact match...best result:", color))
	}
	for _, line := range sol.Display {
		fmt.Fprintf(w, "Gear Train: %s\n", line)
	}
	_, err := fmt.Fprintln(w)
	return err
}

// reduces reports whether x:y as typed differs from its lowest terms.
func reduces(x, y string, target ratio.Ratio) bool {
	xr, okx := new(big.Rat).SetString(x)
	yr, oky := new(big.Rat).SetString(y)
	if !okx || !oky {
		return true
	}
	return xr.Cmp(big.NewRat(target.Num, 1)) != 0 || yr.Cmp(big.NewRat(target.Den, 1)) != 0
}
