// Package taskgen produces the generated rows the mutation paths depend on:
// display codes for created tasks and full random tasks used as replacements
// for deleted rows and as seed data.
package taskgen

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"task-admin-api/internal/models"
)

// NewCode returns a human-readable display code like "TASK-4821". The code
// is generated at creation and immutable; it is distinct from the row id.
func NewCode() string {
	return "TASK-" + gonanoid.MustGenerate("0123456789", 4)
}

// Random generates a plausible task with a fresh id and code. The status is
// returned in storage form, ready to insert.
func Random() models.Task {
	status := models.AllStatuses[gofakeit.Number(0, len(models.AllStatuses)-1)]
	hours := float64(gofakeit.Number(1, 24))

	return models.Task{
		ID:             uuid.NewString(),
		Code:           NewCode(),
		Title:          capitalize(gofakeit.HackerPhrase()),
		Status:         status.Internal(),
		Label:          models.AllLabels[gofakeit.Number(0, len(models.AllLabels)-1)],
		Priority:       models.AllPriorities[gofakeit.Number(0, len(models.AllPriorities)-1)],
		EstimatedHours: &hours,
		Archived:       gofakeit.Number(1, 5) == 1,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
