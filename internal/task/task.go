// Package task defines the record model stored in the task-state document,
// plus schema validation for decoded payloads.
package task

import "github.com/google/uuid"

// Task statuses. The core store never enforces these; Validate does.
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusDone    = "done"
)

// Task is one record in the document payload.
type Task struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title" json:"title"`
	Status string `yaml:"status" json:"status"`
}

// New returns a pending task with a fresh UUID.
func New(title string) Task {
	return Task{
		ID:     uuid.NewString(),
		Title:  title,
		Status: StatusPending,
	}
}
