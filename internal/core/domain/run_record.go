package domain

import "time"

// RunRecord is the journal entry written after a target's recipe ran.
type RunRecord struct {
	Target       string       `json:"target,omitzero"`
	Status       VertexStatus `json:"status,omitzero"`
	RecipeDigest string       `json:"recipe_digest,omitzero"`
	Commands     int          `json:"commands,omitzero"`
	StartedAt    time.Time    `json:"started_at,omitzero"`
	FinishedAt   time.Time    `json:"finished_at,omitzero"`
	Error        string       `json:"error,omitzero"`
}

// Duration returns how long the recipe ran.
func (r RunRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
