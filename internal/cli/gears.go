package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/ratio"
	"github.com/spf13/cobra"
)

var gearsCmd = &cobra.Command{
	Use:   "gears",
	Short: "Show the gear catalog and the pairs that mesh",
	Long: `Gears prints the active gear catalog (--gears, the gears config key, or the
built-in LEGO set) and every driver:follower pair a train may use.

A worm (1) can only drive, and never drives a 36-tooth gear.`,
	Example: `  gearcalc gears
  gearcalc gears --gears 1,8,24,40
  gearcalc gears --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := activeCatalog()
		if err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		pairs := gear.Pairs(c)

		if jsonOutput {
			type pairJSON struct {
				Driver   int    `json:"driver"`
				Follower int    `json:"follower"`
				Ratio    string `json:"ratio"`
			}
			out := struct {
				Gears []string   `json:"gears"`
				Pairs []pairJSON `json:"pairs"`
			}{Gears: c.Strings(), Pairs: make([]pairJSON, 0, len(pairs))}
			for _, p := range pairs {
				out.Pairs = append(out.Pairs, pairJSON{
					Driver:   int(p.Driver),
					Follower: int(p.Follower),
					Ratio:    ratio.MustSimplify(int64(p.Driver), int64(p.Follower)).String(),
				})
			}
			return writeJSON(os.Stdout, out)
		}

		fmt.Printf("Gears: %s\n", strings.Join(c.Strings(), " "))
		fmt.Printf("%d pairs mesh\n\n", len(pairs))
		tbl := NewTable(os.Stdout, "DRIVER", "FOLLOWER", "RATIO")
		for _, p := range pairs {
			tbl.Row(
				strconv.Itoa(int(p.Driver)),
				strconv.Itoa(int(p.Follower)),
				ratio.MustSimplify(int64(p.Driver), int64(p.Follower)).String(),
			)
		}
		return tbl.Flush()
	},
}

func init() {
	rootCmd.AddCommand(gearsCmd)
}
