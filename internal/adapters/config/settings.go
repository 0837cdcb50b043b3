package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.SettingsLoader = (*SettingsLoader)(nil)

// SettingsLoader implements ports.SettingsLoader using a YAML file.
type SettingsLoader struct {
	Filename string
}

// NewSettingsLoader creates a SettingsLoader reading SettingsFileName.
func NewSettingsLoader() *SettingsLoader {
	return &SettingsLoader{Filename: SettingsFileName}
}

// Load reads the settings from the given working directory.
// A missing file yields the defaults. Relative journal and progress log paths are resolved against cwd.
func (l *SettingsLoader) Load(cwd string) (domain.Settings, error) {
	settings := domain.DefaultSettings()
	path := filepath.Join(cwd, l.Filename)

	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the working directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return settings, nil
		}
		return settings, zerr.With(zerr.Wrap(err, "failed to read settings file"), "path", path)
	}

	var file Settingsfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return settings, zerr.With(zerr.Wrap(domain.ErrInvalidSettings, err.Error()), "path", path)
	}

	if len(file.Makefiles) > 0 {
		settings.Makefiles = file.Makefiles
	}
	settings.Ignore = file.Ignore
	if file.Progress != nil {
		settings.Progress = *file.Progress
	}

	settings.Journal = resolvePath(cwd, file.Journal)
	settings.ProgressLog = resolvePath(cwd, file.ProgressLog)

	switch policy := domain.ConflictPolicy(file.OnFileConflict); policy {
	case "":
	case domain.ConflictRuleWins, domain.ConflictError:
		settings.OnFileConflict = policy
	default:
		err := zerr.With(zerr.Wrap(domain.ErrInvalidSettings, "unknown on_file_conflict policy"), "path", path)
		return settings, zerr.With(err, "on_file_conflict", file.OnFileConflict)
	}

	return settings, nil
}

func resolvePath(cwd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
