// Package config locates and reads the makefile and the .remake.yaml settings.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.MakefileLoader = (*MakefileLoader)(nil)

// MakefileLoader implements ports.MakefileLoader on the local filesystem.
type MakefileLoader struct {
	logger ports.Logger
}

// NewMakefileLoader creates a new MakefileLoader.
func NewMakefileLoader(logger ports.Logger) *MakefileLoader {
	return &MakefileLoader{logger: logger}
}

// Load reads the makefile at path, or the first existing candidate in cwd
// when path is empty, and joins its continuation lines.
func (l *MakefileLoader) Load(cwd, path string, candidates []string) (string, string, error) {
	resolved, err := Locate(cwd, path, candidates)
	if err != nil {
		return "", "", err
	}

	data, err := os.ReadFile(resolved) //nolint:gosec // path is provided by user
	if err != nil {
		return "", "", zerr.With(zerr.Wrap(err, "failed to read makefile"), "path", resolved)
	}

	text, err := JoinContinuations(string(data))
	if err != nil {
		return "", "", zerr.With(err, "path", resolved)
	}
	if l.logger != nil {
		l.logger.Info("using makefile " + resolved)
	}
	return text, resolved, nil
}

// Locate returns the makefile to read. An explicit path must exist; otherwise
// the first candidate present in cwd wins.
func Locate(cwd, path string, candidates []string) (string, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", zerr.With(zerr.Wrap(domain.ErrMakefileNotFound, ""), "path", path)
			}
			return "", zerr.With(zerr.Wrap(err, "failed to stat makefile"), "path", path)
		}
		return path, nil
	}

	for _, name := range candidates {
		candidate := filepath.Join(cwd, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", zerr.With(zerr.Wrap(domain.ErrMakefileNotFound, ""), "candidates", strings.Join(candidates, ", "))
}

// JoinContinuations folds every line ending in a backslash into the next one.
// The backslash, the newline and the whitespace around them become one space.
// A backslash on the last line is an error.
func JoinContinuations(text string) (string, error) {
	trailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	out := make([]string, 0, len(lines))
	var cur strings.Builder
	continued := false

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if continued {
			line = strings.TrimLeft(line, " \t")
		}

		if strings.HasSuffix(line, `\`) {
			if i == len(lines)-1 {
				return "", zerr.With(zerr.Wrap(domain.ErrDanglingContinuation, ""), "line", i+1)
			}
			piece := strings.TrimRight(strings.TrimSuffix(line, `\`), " \t")
			cur.WriteString(piece)
			if piece != "" || cur.Len() > 0 {
				cur.WriteByte(' ')
			}
			continued = true
			continue
		}

		cur.WriteString(line)
		out = append(out, cur.String())
		cur.Reset()
		continued = false
	}

	joined := strings.Join(out, "\n")
	if trailingNewline {
		joined += "\n"
	}
	return joined, nil
}
