// Package journal persists the outcome of each target's latest run.
package journal

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Journal = (*Journal)(nil)

// Journal implements ports.Journal using a flat JSON file keyed by target.
// An empty path keeps the records in memory only.
type Journal struct {
	path    string
	mu      sync.RWMutex
	records map[string]domain.RunRecord
}

// New opens the journal at path, loading any records already stored there.
func New(path string) (*Journal, error) {
	j := &Journal{
		records: make(map[string]domain.RunRecord),
	}
	if path == "" {
		return j, nil
	}

	j.path = filepath.Clean(path)
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *Journal) load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path) //nolint:gosec // Path is cleaned and comes from settings
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to read journal"), "path", j.path)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &j.records); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to unmarshal journal"), "path", j.path)
	}
	if j.records == nil {
		// A "null" document decodes to a nil map.
		j.records = make(map[string]domain.RunRecord)
	}
	return nil
}

func (j *Journal) save() error {
	if j.path == "" {
		return nil
	}

	j.mu.RLock()
	data, err := json.MarshalIndent(j.records, "", "  ")
	j.mu.RUnlock()
	if err != nil {
		return zerr.Wrap(err, "failed to marshal journal")
	}

	if err := os.MkdirAll(filepath.Dir(j.path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for journal"), "path", j.path)
	}

	//nolint:gosec // Path is cleaned and comes from settings
	if err := os.WriteFile(j.path, data, 0o644); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write journal"), "path", j.path)
	}
	return nil
}

// Get retrieves the latest record for a target, or nil if it never ran.
func (j *Journal) Get(target string) (*domain.RunRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	record, ok := j.records[target]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// Put replaces the record of the target and writes the journal out.
func (j *Journal) Put(record domain.RunRecord) error {
	j.mu.Lock()
	j.records[record.Target] = record
	j.mu.Unlock()

	return j.save()
}
