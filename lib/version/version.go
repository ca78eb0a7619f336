// Copyright 2026 The Garrison Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
)

// Release builds stamp these through -ldflags:
//
//	go build -ldflags "-X github.com/garrison-works/garrison/lib/version.GitCommit=$(git rev-parse --short HEAD)"
var (
	// GitCommit is the abbreviated SHA the binary was built from.
	GitCommit = "unknown"

	// GitDirty is "true" when the build tree had local modifications.
	GitDirty = "false"

	// BuildTime is when the binary was built, in UTC.
	BuildTime = "unknown"

	// Version is the release number, bumped by hand when tagging.
	Version = "0.1.0-dev"
)

// Info renders the one-line form shown by --version.
func Info() string {
	dirty := ""
	if GitDirty == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, GitCommit, dirty, BuildTime)
}

// Full extends Info with the Go toolchain version and target platform.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns the bare version number.
func Short() string {
	return Version
}

// Commit returns the commit SHA the binary was built from.
func Commit() string {
	return GitCommit
}

// Print writes "<binary> <version info>" to stdout. Binaries call this
// when invoked with --version.
func Print(binary string) {
	fmt.Printf("%s %s\n", binary, Info())
}
