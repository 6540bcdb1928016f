// Package version reports the colormap build.
package version

import (
	"encoding/json"
	"fmt"
	"runtime"
)

// Set by the release build through -ldflags -X.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info describes the running binary.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo collects the build values together with the Go runtime details.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// ShortCommit truncates the commit hash to eight characters.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 8 {
		return i.Commit[:8]
	}
	return i.Commit
}

// JSON encodes i for `colormap version --json`.
func (i Info) JSON() ([]byte, error) {
	return json.MarshalIndent(i, "", "  ")
}

// String is the one-line banner printed by `colormap version`.
func String() string {
	i := GetInfo()
	if i.Commit == "unknown" || i.Date == "unknown" {
		return fmt.Sprintf("colormap %s (%s, %s)", i.Version, i.GoVersion, i.Platform)
	}
	return fmt.Sprintf("colormap %s (commit %s, built %s, %s, %s)",
		i.Version, i.ShortCommit(), i.Date, i.GoVersion, i.Platform)
}

// Short is the bare version used by --version.
func Short() string {
	return Version
}
