package version

import (
	"fmt"
	"runtime/debug"
)

// These are targets for compiling in build information.
// See cmd/evmquery/main.go

var (
	// Hash Git commit hash. Output of `git log -n 1 --pretty="%H"`
	Hash string

	// CompileTime YYYY-mm-ddTHH:MM:SS+ZZZZ
	CompileTime string

	// ReleaseVersion is set using -ldflags during build.
	ReleaseVersion string
)

// UnknownVersion is used when the version is not known.
const UnknownVersion = "(unknown version)"

// Version the binary version.
func Version() string {
	if ReleaseVersion != "" {
		return ReleaseVersion
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return UnknownVersion
}

// GitHash returns the commit the binary was built from, falling back to the VCS stamp the Go
// toolchain embeds.
func GitHash() string {
	if Hash != "" {
		return Hash
	}
	return buildSetting("vcs.revision")
}

// LongVersion the long form of the binary version.
func LongVersion() string {
	compiled := CompileTime
	if compiled == "" {
		compiled = buildSetting("vcs.time")
	}
	if compiled == "" {
		compiled = "unknown time"
	}
	hash := GitHash()
	if hash == "" {
		hash = "unknown"
	}
	return fmt.Sprintf("%s compiled at %s from git hash %s", Version(), compiled, hash)
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
