// Package version reports the combkit build version.
//
// The version is resolved from the embedding binary's module information,
// and can be pinned at build time:
//
//	go build -ldflags "-X github.com/combkit/combkit/version.Version=1.2.0"
package version

import "runtime/debug"

// Version is the library version, set at build time via -ldflags. When left
// empty it is resolved from the binary's dependency metadata.
var Version = ""

const modulePath = "github.com/combkit/combkit"

// Get returns the library version, or "unknown" when it cannot be resolved.
func Get() string {
	if Version != "" {
		return Version
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	if info.Main.Path == modulePath && info.Main.Version != "" {
		return info.Main.Version
	}
	for _, dep := range info.Deps {
		if dep.Path == modulePath && dep.Version != "" {
			return dep.Version
		}
	}
	return "unknown"
}
