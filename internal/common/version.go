package common

import (
	"os"
	"strings"
)

// Version information, set via ldflags at build time.
var (
	version   = "dev"
	build     = ""
	gitCommit = ""
)

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

// GetBuild returns the build identifier.
func GetBuild() string {
	return build
}

// GetGitCommit returns the git commit hash.
func GetGitCommit() string {
	return gitCommit
}

// LoadVersionFromFile reads the version from a .version file when ldflags
// were not set (development builds).
func LoadVersionFromFile() {
	if version != "dev" {
		return
	}
	data, err := os.ReadFile(".version")
	if err != nil {
		return
	}
	v := strings.TrimSpace(string(data))
	if v != "" {
		version = v
	}
}
