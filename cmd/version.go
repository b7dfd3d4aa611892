package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is overridden via -ldflags "-X main.version=..." in release builds.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the podscout version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "podscout "+resolveVersion())
	},
}

// resolveVersion falls back to the VCS revision when no release version was
// linked in.
func resolveVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 8 {
				return "dev-" + s.Value[:8]
			}
		}
	}
	return version
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
