package version

import (
	"fmt"
	"runtime"
)

// Set at build time with -ldflags "-X github.com/deskops/helpdesk-groups/pkg/version.ver=...".
var (
	ver    string //nolint:gochecknoglobals
	commit string //nolint:gochecknoglobals
	date   string //nolint:gochecknoglobals
)

type Info struct {
	Version string
	Commit  string
	Date    string
}

func GetInfo() Info {
	info := Info{
		Version: ver,
		Commit:  commit,
		Date:    date,
	}

	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	if info.Commit == "" {
		info.Commit = "unknown"
	}

	return info
}

func (i Info) String() string {
	return fmt.Sprintf("%s g%s %s-%s [%s]", i.Version, i.Commit, runtime.GOOS, runtime.GOARCH, i.Date)
}
