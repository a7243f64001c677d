// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/forumone/f1-ext-install/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/forumone/f1-ext-install/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/forumone/f1-ext-install/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import (
	"fmt"
	"strings"

	"github.com/forumone/f1-ext-install/pkg/errors"
)

var (
	// Version is the release version (e.g., "v1.2.3").
	// Set via ldflags: -X github.com/forumone/f1-ext-install/pkg/buildinfo.Version=...
	Version = "dev"

	// Commit is the git commit SHA.
	// Set via ldflags: -X github.com/forumone/f1-ext-install/pkg/buildinfo.Commit=...
	Commit = "none"

	// Date is the build timestamp.
	// Set via ldflags: -X github.com/forumone/f1-ext-install/pkg/buildinfo.Date=...
	Date = "unknown"
)

// String returns the formatted build information.
func String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// Tags returns the image tags for the build version: "X.Y.Z", "X.Y" and "X".
func Tags() ([]string, error) {
	return TagsFor(Version)
}

// TagsFor returns the image tags for version, which must be X.Y.Z with an
// optional leading "v".
func TagsFor(version string) ([]string, error) {
	parts := strings.Split(strings.TrimPrefix(version, "v"), ".")
	if len(parts) != 3 {
		return nil, errors.New(errors.ErrCodeInvalidArgument, "version %q is not X.Y.Z", version)
	}
	for _, p := range parts {
		if !isNumeric(p) {
			return nil, errors.New(errors.ErrCodeInvalidArgument, "version %q is not X.Y.Z", version)
		}
	}
	major, minor, patch := parts[0], parts[1], parts[2]
	return []string{
		major + "." + minor + "." + patch,
		major + "." + minor,
		major,
	}, nil
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
