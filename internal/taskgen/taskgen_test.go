package taskgen

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"task-admin-api/internal/models"
)

var codeRe = regexp.MustCompile(`^TASK-\d{4}$`)

func TestNewCode_Format(t *testing.T) {
	for i := 0; i < 50; i++ {
		require.Regexp(t, codeRe, NewCode())
	}
}

func TestRandom_ProducesValidStoredTask(t *testing.T) {
	stored := map[models.TaskStatus]bool{
		"todo": true, "in_progress": true, "done": true, "canceled": true,
	}

	for i := 0; i < 50; i++ {
		task := Random()
		require.NotEmpty(t, task.ID)
		require.Regexp(t, codeRe, task.Code)
		require.NotEmpty(t, task.Title)
		require.True(t, stored[task.Status], "status %q must be in storage form", task.Status)
		require.Contains(t, models.AllLabels, task.Label)
		require.Contains(t, models.AllPriorities, task.Priority)
		require.NotNil(t, task.EstimatedHours)
		require.GreaterOrEqual(t, *task.EstimatedHours, 1.0)
		require.LessOrEqual(t, *task.EstimatedHours, 24.0)
	}
}
