// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X docredact/internal/version.Version=..." at build time
var (
	Version   = "0.0.0-development"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the build information. When no commit was injected the VCS
// revision recorded by the Go toolchain is used, if any.
func Get() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	if info.Commit == "unknown" {
		if bi, ok := debug.ReadBuildInfo(); ok {
			for _, s := range bi.Settings {
				if s.Key == "vcs.revision" && s.Value != "" {
					info.Commit = s.Value
				}
			}
		}
	}
	return info
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("docredact %s (commit: %s, built: %s, go: %s, platform: %s)",
		b.Version, b.Commit, b.BuildDate, b.GoVersion, b.Platform)
}

// Short returns just the version number, as recorded in audit logs
func Short() string {
	return Version
}
