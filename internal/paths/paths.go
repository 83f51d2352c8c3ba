// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDirEnv overrides the configuration directory on every platform
const ConfigDirEnv = "DOCREDACT_CONFIG_DIR"

// GetConfigDir returns the docredact configuration directory
// Uses APPDATA on Windows and the XDG base directory or home directory elsewhere
func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "docredact")
		}
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			return filepath.Join(userProfile, ".docredact")
		}
		return ".docredact"
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "docredact")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".docredact"
	}
	return filepath.Join(home, ".docredact")
}

// GetConfigFile returns the path to the per-user config file
func GetConfigFile() string {
	return filepath.Join(GetConfigDir(), "docredact.yaml")
}
