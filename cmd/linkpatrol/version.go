package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set at release-build time via ldflags. Everything else comes
// from the build info the Go toolchain embeds.
var version = ""

// getVersion returns the version string, preferring the ldflags value and
// falling back to the module version.
func getVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// vcsInfo returns the VCS revision and commit time recorded in the build
// info. Builds outside a checkout report "unknown" for both.
func vcsInfo() (revision, buildTime string) {
	revision, buildTime = "unknown", "unknown"
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return revision, buildTime
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.time":
			buildTime = s.Value
		}
	}
	return revision, buildTime
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version and build provenance of linkpatrol.`,
		Run: func(cmd *cobra.Command, _ []string) {
			revision, buildTime := vcsInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "linkpatrol %s (rev %s, built %s)\n", getVersion(), revision, buildTime)
		},
	}
}
