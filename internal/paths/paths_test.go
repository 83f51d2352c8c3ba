// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigDir_Override(t *testing.T) {
	t.Setenv(ConfigDirEnv, "/opt/docredact")
	assert.Equal(t, "/opt/docredact", GetConfigDir())
	assert.Equal(t, filepath.Join("/opt/docredact", "docredact.yaml"), GetConfigFile())
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("XDG_CONFIG_HOME is not used on Windows")
	}
	t.Setenv(ConfigDirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/home/u/.config")
	assert.Equal(t, filepath.Join("/home/u/.config", "docredact"), GetConfigDir())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/u")
	assert.Equal(t, filepath.Join("/home/u", ".docredact"), GetConfigDir())
}
