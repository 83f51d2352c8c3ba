// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	dir       string
	outputDir string
	config    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	h := &harness{
		dir:       dir,
		outputDir: filepath.Join(dir, "out"),
		config:    filepath.Join(dir, "docredact.yaml"),
	}
	cfg := "redaction:\n  output_dir: " + h.outputDir + "\nlogging:\n  level: error\n" +
		"profiles:\n  contacts:\n    detectors: [EMAIL]\n    terms:\n      - term: Falcon\n"
	require.NoError(t, os.WriteFile(h.config, []byte(cfg), 0600))
	return h
}

func (h *harness) file(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(h.dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func (h *harness) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	root := newRootCommand(&app{stdout: &stdout, stderr: &stderr})
	root.SetArgs(append([]string{"--config", h.config}, args...))
	err := root.ExecuteContext(context.Background())
	if err != nil {
		stderr.WriteString(err.Error())
	}
	return ExitCode(err), stdout.String(), stderr.String()
}

func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	code, out, _ := h.run("version")
	assert.Equal(t, ExitOK, code)
	assert.True(t, strings.HasPrefix(out, "docredact "))
}

func TestDetectorsCommand(t *testing.T) {
	h := newHarness(t)
	code, out, _ := h.run("detectors")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "[EMAIL REDACTED]")

	code, out, _ = h.run("detectors", "--format", "json")
	require.Equal(t, ExitOK, code)
	var infos []detectorInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	assert.NotEmpty(t, infos)
}

func TestScanCommand_JSON(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "notes.txt", "Contact me at a@b.com or 9876543210")

	code, out, errOut := h.run("scan", path, "--detectors", "email,phone", "--format", "json")
	require.Equal(t, ExitOK, code, errOut)

	var reports []struct {
		File    string `json:"file"`
		Summary struct {
			TotalMatches int `json:"total_matches"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Summary.TotalMatches)

	_, err := os.Stat(h.outputDir)
	assert.True(t, os.IsNotExist(err), "scan must not write anything")
}

func TestScanCommand_Profile(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "memo.txt", "Project falcon: mail a@b.com, call 9876543210")

	code, out, errOut := h.run("scan", path, "--profile", "contacts", "--format", "yaml")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "total_matches: 2")

	code, _, _ = h.run("scan", path, "--profile", "missing")
	assert.Equal(t, ExitUsage, code)
}

func TestRedactCommand_WritesArtifactAndAudit(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "notes.txt", "Contact me at a@b.com or 9876543210")

	code, out, errOut := h.run("redact", path, "-d", "EMAIL,PHONE", "--audit")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "Redacted_notes.txt")

	artifact := filepath.Join(h.outputDir, "Redacted_notes.txt")
	data, err := os.ReadFile(artifact)
	require.NoError(t, err)
	assert.Equal(t, "Contact me at [EMAIL REDACTED] or [PHONE REDACTED]", string(data))

	audit, err := os.ReadFile(artifact + ".audit.json")
	require.NoError(t, err)
	assert.NotContains(t, string(audit), "a@b.com")
	assert.Contains(t, string(audit), `"strategy": "plain_text"`)
}

func TestRedactCommand_NothingToRedact(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "clean.txt", "nothing sensitive here")

	code, _, errOut := h.run("redact", path, "-d", "EMAIL")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, errOut, "nothing to redact")

	_, err := os.Stat(filepath.Join(h.outputDir, "Redacted_clean.txt"))
	assert.True(t, os.IsNotExist(err))
}

func TestRedactCommand_Batch(t *testing.T) {
	h := newHarness(t)
	first := h.file(t, "a.txt", "mail a@b.com")
	second := h.file(t, "b.txt", "mail c@d.org")

	code, _, errOut := h.run("redact", first, second, "-d", "EMAIL", "--jobs", "2")
	require.Equal(t, ExitOK, code, errOut)

	for _, name := range []string{"Redacted_a.txt", "Redacted_b.txt"} {
		data, err := os.ReadFile(filepath.Join(h.outputDir, name))
		require.NoError(t, err)
		assert.Equal(t, "mail [EMAIL REDACTED]", string(data))
	}
}

func TestRedactCommand_PayloadFile(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "notes.txt", "mail a@b.com and a@b.com")
	payloadPath := filepath.Join(h.dir, "payload.json")
	t.Setenv(DefaultPassphraseEnv, "correct horse")

	code, _, errOut := h.run("redact", path, "-d", "EMAIL", "--file-id", "file-42", "--payload-file", payloadPath)
	require.Equal(t, ExitOK, code, errOut)

	data, err := os.ReadFile(payloadPath)
	require.NoError(t, err)
	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "file-42", wire["file_id"])
	assert.Equal(t, "correct horse", wire["passphrase"])
	assert.Equal(t, []interface{}{"a@b.com"}, wire["matched_texts"])
	assert.Equal(t, []interface{}{"EMAIL"}, wire["patterns_applied"])
}

func TestRedactCommand_PayloadNeedsPassphrase(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "notes.txt", "mail a@b.com")
	t.Setenv(DefaultPassphraseEnv, "")

	code, _, _ := h.run("redact", path, "-d", "EMAIL", "--file-id", "file-42",
		"--payload-file", filepath.Join(h.dir, "payload.json"))
	assert.Equal(t, ExitUsage, code)
}

func TestChunksCommand(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "long.txt", strings.Repeat("x", 129)+" SECRET")

	code, out, errOut := h.run("chunks", path, "-d", "EMAIL", "-t", "secret", "--chunk-size", "128")
	require.Equal(t, ExitOK, code, errOut)
	assert.Equal(t, "1\n", out)

	code, out, _ = h.run("chunks", path, "-d", "EMAIL", "-t", "secret", "--chunk-size", "4", "--json")
	require.Equal(t, ExitOK, code)
	assert.Equal(t, "[32,33]\n", out)

	code, _, _ = h.run("chunks", path, "--chunk-size", "0")
	assert.Equal(t, ExitUsage, code)
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)
	path := h.file(t, "notes.txt", "mail a@b.com")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file argument", []string{"redact"}},
		{"unknown flag", []string{"scan", path, "--bogus"}},
		{"unknown format", []string{"scan", path, "--format", "sarif"}},
		{"audit file with batch", []string{"redact", path, path, "--audit-file", "x.json"}},
		{"unknown command", []string{"shred", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := h.run(tt.args...)
			assert.Equal(t, ExitUsage, code)
		})
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	h := newHarness(t)
	code, out, _ := h.run("version", "--json")
	require.Equal(t, ExitOK, code)

	var info map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Contains(t, info, "version")
	assert.Contains(t, info, "goVersion")
}
