package state

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mistakeknot/taskstate/internal/task"
)

func TestDefault(t *testing.T) {
	doc := Default()
	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, uint64(0), doc.Rev)
	assert.True(t, doc.UpdatedAt.IsZero())
	assert.Empty(t, doc.Tasks)
}

func TestFindTask(t *testing.T) {
	doc := Document{Tasks: []task.Task{
		{ID: "a", Title: "first"},
		{ID: "b", Title: "second"},
	}}

	i, ok := doc.FindTask("b")
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = doc.FindTask("missing")
	assert.False(t, ok)
}
