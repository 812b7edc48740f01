package commands

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
)

// BuildInfo describes the running leapanim binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	Module    string `json:"module,omitempty"`
}

// ResolveBuildInfo fills in fields left empty or "unknown" by the linker
// from the build metadata embedded in the binary.
func ResolveBuildInfo(info BuildInfo) BuildInfo {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		if info.GoVersion == "" {
			info.GoVersion = runtime.Version()
		}
		return info
	}
	return mergeBuildInfo(info, bi)
}

func mergeBuildInfo(info BuildInfo, bi *debug.BuildInfo) BuildInfo {
	info.GoVersion = bi.GoVersion
	info.Module = bi.Main.Path
	if unset(info.Version) && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = strings.TrimPrefix(bi.Main.Version, "v")
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if unset(info.Commit) {
				info.Commit = shortCommit(s.Value)
			}
		case "vcs.time":
			if unset(info.BuildDate) {
				info.BuildDate = s.Value
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

func unset(s string) bool {
	return s == "" || s == "unknown"
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

// NewVersionCommand creates the version command.
func NewVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display leapanim version information.

The commit and build date come from the linker flags when set, otherwise
from the VCS metadata Go embeds at build time.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := ResolveBuildInfo(info)
			if wantJSON(cmd) {
				return writeJSON(cmd.OutOrStdout(), info)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "leapanim v%s\n", info.Version)
			_, _ = fmt.Fprintln(w, "Keyframe evaluation and node graph inspection")
			commit := info.Commit
			if info.Modified {
				commit += " (modified)"
			}
			_, _ = fmt.Fprintf(w, "  commit: %s\n", commit)
			_, _ = fmt.Fprintf(w, "  built:  %s\n", info.BuildDate)
			_, _ = fmt.Fprintf(w, "  go:     %s\n", info.GoVersion)
			return nil
		},
	}
}
