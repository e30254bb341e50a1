package models

import (
	"time"
)

// RunningTask tracks the single background mining job a user may have.
// TaskID is the opaque handle returned by the scheduler when the job was
// submitted; it is all that is needed to cancel the job later.
type RunningTask struct {
	UserID    int64     `db:"user_id"`
	TaskID    string    `db:"task_id"`
	Running   bool      `db:"running"`
	StartedAt time.Time `db:"started_at"`
}
