// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package redactors

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docredact/internal/observability"
)

// OutputManager writes artifacts and audit logs beneath a base output directory
type OutputManager struct {
	// baseOutputDir is the base directory where artifacts are stored
	baseOutputDir string

	observer *observability.StandardObserver
}

// NewOutputManager creates a new OutputManager
func NewOutputManager(baseOutputDir string, observer *observability.StandardObserver) (*OutputManager, error) {
	if baseOutputDir == "" {
		return nil, fmt.Errorf("base output directory cannot be empty")
	}
	if err := ValidatePath(baseOutputDir); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = observability.NewNopObserver()
	}

	return &OutputManager{
		baseOutputDir: filepath.Clean(baseOutputDir),
		observer:      observer,
	}, nil
}

// ArtifactPath returns where an artifact with the given name is written
func (om *OutputManager) ArtifactPath(name string) string {
	return filepath.Join(om.baseOutputDir, SanitizeFileName(name))
}

// WriteArtifact writes the artifact bytes and returns the path written
func (om *OutputManager) WriteArtifact(artifact *Artifact) (string, error) {
	if artifact == nil {
		return "", fmt.Errorf("artifact cannot be nil")
	}
	path := om.ArtifactPath(artifact.Name)
	finishTiming := om.observer.StartTiming("output_manager", "write_artifact", path)

	if err := writeFileAtomic(path, artifact.Data); err != nil {
		finishTiming(false, map[string]interface{}{"error": err.Error()})
		return "", NewRedactionError(ErrorFileSystem, "write", "failed to write artifact", path, om.GetComponentName(), err)
	}

	finishTiming(true, map[string]interface{}{
		"bytes":  len(artifact.Data),
		"sha256": artifact.SHA256,
	})
	return path, nil
}

// WriteAuditLog writes the audit log as JSON to path
func (om *OutputManager) WriteAuditLog(path string, log *RedactionAuditLog) error {
	if err := log.Validate(); err != nil {
		return NewRedactionError(ErrorValidation, "audit", "audit log is incomplete", path, om.GetComponentName(), err)
	}
	data, err := log.ToJSON()
	if err != nil {
		return NewRedactionError(ErrorDocumentProcessing, "audit", "failed to encode audit log", path, om.GetComponentName(), err)
	}
	if err := writeFileAtomic(path, data); err != nil {
		return NewRedactionError(ErrorFileSystem, "audit", "failed to write audit log", path, om.GetComponentName(), err)
	}
	return nil
}

// EnsureDirectoryExists creates the parent directory of path if it doesn't exist
func EnsureDirectoryExists(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	dir := filepath.Dir(path)
	if info, err := os.Stat(dir); err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", dir)
		}
		return nil
	}

	// Owner only: artifacts are still sensitive documents
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := EnsureDirectoryExists(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".docredact-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file contents: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ValidatePath rejects paths with traversal sequences or system directories
func ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	cleanPath := filepath.Clean(path)
	for _, part := range strings.Split(filepath.ToSlash(cleanPath), "/") {
		if part == ".." {
			return fmt.Errorf("path contains invalid traversal sequences: %s", path)
		}
	}

	if filepath.IsAbs(cleanPath) {
		systemDirs := []string{"/etc", "/sys", "/proc", "/dev", "C:\\Windows", "C:\\System32"}
		for _, sysDir := range systemDirs {
			if strings.HasPrefix(strings.ToLower(cleanPath), strings.ToLower(sysDir)) {
				return fmt.Errorf("path references system directory: %s", path)
			}
		}
	}
	return nil
}

// SanitizeFileName reduces name to a single safe path element
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))

	replacer := strings.NewReplacer(
		"..", "parent",
		"<", "lt",
		">", "gt",
		":", "colon",
		"\"", "quote",
		"|", "pipe",
		"?", "question",
		"*", "star",
	)
	name = replacer.Replace(name)
	if name == "" || name == "." || name == "/" {
		return "document"
	}
	return name
}

// GetComponentName returns the component name for observability
func (om *OutputManager) GetComponentName() string {
	return "output_manager"
}
