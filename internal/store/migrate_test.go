package store

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/smart-tasks/internal/model"
)

func TestMigrateTask_LegacyCompletedRecord(t *testing.T) {
	// A record persisted before status/priority/subtasks existed.
	raw := `{"id": "x", "title": "t", "isCompleted": true}`

	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	migrated := MigrateTask(task)

	assert.Equal(t, model.StatusCompleted, migrated.Status)
	assert.True(t, migrated.IsCompleted)
	assert.Equal(t, model.PriorityMedium, migrated.Priority)
	assert.Equal(t, []model.SubTask{}, migrated.Subtasks)
	assert.Equal(t, "", migrated.Notes)
}

func TestMigrateTask_LegacyOpenRecord(t *testing.T) {
	raw := `{"id": "y", "title": "t", "isCompleted": false}`

	var task model.Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))

	migrated := MigrateTask(task)

	assert.Equal(t, model.StatusPending, migrated.Status)
	assert.False(t, migrated.IsCompleted)
}

func TestMigrateTask_LegacyPriorityLabels(t *testing.T) {
	// Early versions persisted the Hebrew display labels instead of the
	// fixed set; each one maps onto its priority level.
	cases := []struct {
		stored string
		want   model.Priority
	}{
		{"נמוכה", model.PriorityLow},
		{"בינונית", model.PriorityMedium},
		{"גבוהה", model.PriorityHigh},
		{"urgent", model.PriorityMedium},
		{"", model.PriorityMedium},
	}

	for _, tc := range cases {
		task := model.Task{
			ID:       "z",
			Title:    "t",
			Status:   model.StatusPending,
			Priority: model.Priority(tc.stored),
			Subtasks: []model.SubTask{},
		}

		assert.Equal(t, tc.want, MigrateTask(task).Priority, "stored %q", tc.stored)
	}
}

func TestMigrateTask_StaleIsCompletedResynced(t *testing.T) {
	// Stored isCompleted contradicts status; status wins.
	task := model.Task{
		ID:          "w",
		Title:       "t",
		Status:      model.StatusCompleted,
		IsCompleted: false,
		Priority:    model.PriorityLow,
		Subtasks:    []model.SubTask{},
	}

	assert.True(t, MigrateTask(task).IsCompleted)
}

func TestMigrateTask_Idempotent(t *testing.T) {
	due := int64(1700000000000)
	task := model.Task{
		ID:          "a",
		Title:       "buy milk",
		Status:      model.StatusInProgress,
		IsCompleted: false,
		Priority:    model.PriorityHigh,
		Subtasks:    []model.SubTask{{ID: "s1", Title: "go out", IsCompleted: true}},
		Notes:       "note",
		DueDate:     &due,
		CreatedAt:   1690000000000,
	}

	once := MigrateTask(task)
	twice := MigrateTask(once)

	assert.Equal(t, once, twice)
}
