// Command gearcalc finds LEGO gear trains for a target ratio.
package main

import (
	"fmt"
	"os"

	"github.com/scbrown/gearcalc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gearcalc:", err)
		os.Exit(1)
	}
}
