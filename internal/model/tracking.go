package model

import "time"

// RunStatus is the lifecycle state of a recorded analysis run
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// AnalysisRun is one analyze call as kept in the run log
type AnalysisRun struct {
	ID        string          `json:"id"`
	Request   AnalysisRequest `json:"request"`
	Status    RunStatus       `json:"status"`
	Error     string          `json:"error,omitempty"`
	Summary   *Summary        `json:"summary,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
