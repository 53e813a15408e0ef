package version

import (
	commonversion "github.com/prometheus/common/version"
)

// Set at build time with -ldflags "-X items-api/internal/version.Version=...".
var (
	Version   string = "dev"
	GitCommit string = "unknown"
	BuildTime string = "unknown"
)

func init() {
	commonversion.Version = Version
	commonversion.Revision = GitCommit
	commonversion.BuildDate = BuildTime
}

func GetVersion() string {
	return Version
}

func GetFullVersion() string {
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}

// Print renders the multi-line build report used by the version command.
func Print(program string) string {
	return commonversion.Print(program)
}
