package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service current released version.
// This value can be overridden at build time using ldflags:
//
//	go build -ldflags "-X github.com/feeleurope/luxeagent/internal/version.Version=v0.3.0"
var Version = "0.1.0"

// DevVersion is reported in dev and demo mode.
var DevVersion = "0.1.0-dev"

// GitCommit is the git commit hash at build time.
var GitCommit = "unknown"

// BuildTime is the build timestamp in RFC3339 format.
var BuildTime = "unknown"

// GetCurrentVersion returns the version for the given profile mode, without a
// leading "v".
func GetCurrentVersion(mode string) string {
	v := Version
	if mode == "dev" || mode == "demo" {
		v = DevVersion
	}
	return strings.TrimPrefix(v, "v")
}

// IsValid reports whether version is a semantic version, with or without "v".
func IsValid(version string) bool {
	return semver.IsValid(withPrefix(version))
}

// IsVersionGreaterOrEqualThan returns true if version is greater than or equal to target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(withPrefix(version), withPrefix(target)) > -1
}

func withPrefix(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// StringFull returns the complete version information including build metadata.
func StringFull(mode string) string {
	parts := []string{fmt.Sprintf("Version=%s", GetCurrentVersion(mode))}
	if GitCommit != "" && GitCommit != "unknown" {
		shortCommit := GitCommit
		if len(shortCommit) > 8 {
			shortCommit = shortCommit[:8]
		}
		parts = append(parts, fmt.Sprintf("Commit=%s", shortCommit))
	}
	if BuildTime != "" && BuildTime != "unknown" {
		parts = append(parts, fmt.Sprintf("BuildTime=%s", BuildTime))
	}
	return strings.Join(parts, " ")
}
