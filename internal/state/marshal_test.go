package state

import (
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mistakeknot/taskstate/internal/task"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	doc := Document{
		Version:   CurrentVersion,
		Rev:       7,
		UpdatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		Tasks: []task.Task{
			{ID: "a", Title: "first", Status: task.StatusPending},
			{ID: "b", Title: "second", Status: task.StatusDone},
		},
	}

	data, err := Encode(doc)
	require.NoError(t, err)

	got, err := Decode("tasks.yaml", data)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDecode_EmptyContent(t *testing.T) {
	got, err := Decode("tasks.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, Document{}, got)
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode("tasks.yaml", []byte("{not: [valid"))
	require.Error(t, err)
	assert.True(t, IsSerialization(err))

	var se *SerializationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "tasks.yaml", se.Path)
	assert.Error(t, se.Unwrap())
}

func TestDecode_WrongShape(t *testing.T) {
	// A YAML scalar where a mapping is required must fail, not silently
	// produce a zero document.
	_, err := Decode("tasks.yaml", []byte("just a string\n"))
	require.Error(t, err)
	assert.True(t, IsSerialization(err))
}

// TestEncode_Golden pins the on-disk format. Regenerate with:
//
//	go test ./internal/state -run TestEncode_Golden -update
func TestEncode_Golden(t *testing.T) {
	doc := Document{
		Version:   CurrentVersion,
		Rev:       3,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Tasks: []task.Task{
			{
				ID:     "11111111-1111-4111-8111-111111111111",
				Title:  "Write the durability tests",
				Status: task.StatusPending,
			},
			{
				ID:     "22222222-2222-4222-8222-222222222222",
				Title:  "Review lock coordinator",
				Status: task.StatusDone,
			},
		},
	}

	data, err := Encode(doc)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "document", data)
}
