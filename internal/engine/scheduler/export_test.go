package scheduler

import (
	"maps"
	"time"

	"go.trai.ch/remake/internal/core/domain"
)

// GetNodeStatusMap returns a copy of the status of every node of the last plan.
// This is exported for testing purposes only.
func (s *Scheduler) GetNodeStatusMap() map[domain.InternedString]domain.VertexStatus {
	return maps.Clone(s.nodeStatus)
}

// SetClock replaces the time source used for run records.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}
