package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version and Commit are set at build time via -ldflags.
//
//	go build -ldflags "-X github.com/scbrown/gearcalc/internal/cli.Version=v0.2.0
//	  -X github.com/scbrown/gearcalc/internal/cli.Commit=48cae1d"
var (
	Version = ""
	Commit  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and commit hash",
	Long: `Print the gearcalc version string.

Tagged builds show the release version, other builds show "dev". The commit
comes from -ldflags or, failing that, from the VCS stamp in the binary.

Examples:
  gearcalc v0.2.0 (48cae1d)
  gearcalc dev (48cae1d)
  gearcalc dev`,
	Run: func(cmd *cobra.Command, args []string) {
		v := Version
		if v == "" {
			v = "dev"
		}

		c := Commit
		if c == "" {
			c = commitFromBuildInfo()
		}

		fmt.Println(versionString(v, c))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// commitFromBuildInfo extracts vcs.revision from Go's embedded build info.
func commitFromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return ""
}

// versionString formats the version line printed by gearcalc version.
func versionString(version, commit string) string {
	if commit == "" {
		return "gearcalc " + version
	}
	return fmt.Sprintf("gearcalc %s (%s)", version, shortCommit(commit))
}

// shortCommit returns the first 7 characters of a commit hash.
func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
