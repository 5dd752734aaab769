// Package version exposes the build version of obsidian-mcp.
package version

import "runtime/debug"

// Version is overridden at build time with -ldflags "-X github.com/mcpjungle/obsidian-mcp/pkg/version.Version=v1.2.3".
var Version = "dev"

// GetVersion returns the version of the running binary.
// If no version was injected at build time, the module version recorded by the Go toolchain is used.
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
