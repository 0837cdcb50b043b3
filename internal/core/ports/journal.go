package ports

import "go.trai.ch/remake/internal/core/domain"

// Journal records the outcome of each target's most recent run.
//
//go:generate go run go.uber.org/mock/mockgen -source=journal.go -destination=mocks/mock_journal.go -package=mocks
type Journal interface {
	// Get retrieves the latest record for a target.
	// Returns nil, nil if the target never ran.
	Get(target string) (*domain.RunRecord, error)

	// Put stores a record, replacing any previous record of the same target.
	Put(record domain.RunRecord) error
}
