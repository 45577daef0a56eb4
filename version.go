package checkmango

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the library version. GitCommit and BuildDate may be injected
// with -ldflags; when left empty they are read from the embedded VCS
// settings of the binary.
var (
	Version   = "0.3.0"
	GitCommit = ""
	BuildDate = ""
)

// BuildInfo describes the build the library is running in.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
}

// GetBuildInfo reports the library version and the build it is part of.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = setting.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = setting.Value
				}
			}
		}
	}

	if info.Commit == "" {
		info.Commit = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("checkmango-go v%s (commit: %s, built: %s, go: %s)",
		b.Version, b.Commit, b.BuildDate, b.GoVersion)
}

// GetVersion returns a human-readable version string.
func GetVersion() string {
	return GetBuildInfo().String()
}

// UserAgent returns the User-Agent token product/Version.
func UserAgent(product string) string {
	return product + "/" + Version
}
