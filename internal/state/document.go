package state

import (
	"time"

	"github.com/mistakeknot/taskstate/internal/task"
)

// CurrentVersion is the document schema tag written by this build.
const CurrentVersion uint32 = 1

// Document is the versioned unit of persistence. Version tags the schema,
// Rev is the monotonic write counter used as the optimistic-concurrency
// token, and UpdatedAt is stamped (UTC) by the store on every successful
// write.
type Document struct {
	Version   uint32      `yaml:"version" json:"version"`
	Rev       uint64      `yaml:"rev" json:"rev"`
	UpdatedAt time.Time   `yaml:"updated_at" json:"updated_at"`
	Tasks     []task.Task `yaml:"tasks" json:"tasks"`
}

// Default returns the implicit state of a document that has never been
// written: rev 0, empty payload.
func Default() Document {
	return Document{Version: CurrentVersion}
}

// FindTask returns the index of the task with the given id, or false when no
// such task exists.
func (d *Document) FindTask(id string) (int, bool) {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i, true
		}
	}
	return 0, false
}
