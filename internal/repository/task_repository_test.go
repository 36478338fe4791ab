package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"task-admin-api/internal/filter"
	"task-admin-api/internal/models"
	"task-admin-api/internal/repository"
	"task-admin-api/internal/testutil"
)

func seedN(t *testing.T, db *gorm.DB, n int, mutate func(i int, task *models.Task)) {
	t.Helper()
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		task := models.Task{
			ID:        string(rune('a'+i/26)) + string(rune('a'+i%26)),
			Code:      "TASK-" + string(rune('0'+i/10)) + string(rune('0'+i%10)),
			Title:     "task",
			Status:    "todo",
			Label:     "bug",
			Priority:  "low",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if mutate != nil {
			mutate(i, &task)
		}
		require.NoError(t, db.Create(&task).Error)
	}
}

func TestList_PaginationAndCount(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	seedN(t, db, 25, nil)

	tasks, total, err := repo.List(context.Background(), repository.ListInput{Page: 3, PerPage: 10})
	require.NoError(t, err)
	require.EqualValues(t, 25, total)
	require.Len(t, tasks, 5)

	// out-of-range page returns an empty slice but the same total
	tasks, total, err = repo.List(context.Background(), repository.ListInput{Page: 9, PerPage: 10})
	require.NoError(t, err)
	require.EqualValues(t, 25, total)
	require.Empty(t, tasks)
}

func TestList_DefaultsPageAndPerPage(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	seedN(t, db, 12, nil)

	tasks, total, err := repo.List(context.Background(), repository.ListInput{})
	require.NoError(t, err)
	require.EqualValues(t, 12, total)
	require.Len(t, tasks, 10)
}

func TestList_SortSpec(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	seedN(t, db, 3, func(i int, task *models.Task) {
		task.Title = []string{"charlie", "alpha", "bravo"}[i]
	})

	tasks, _, err := repo.List(context.Background(), repository.ListInput{
		Sort: []repository.SortField{{ID: "title", Desc: false}},
	})
	require.NoError(t, err)
	require.Equal(t, "alpha", tasks[0].Title)
	require.Equal(t, "charlie", tasks[2].Title)

	// unknown sort columns are dropped rather than interpolated
	tasks, _, err = repo.List(context.Background(), repository.ListInput{
		Sort: []repository.SortField{{ID: "title; DROP TABLE tasks", Desc: true}},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
}

func TestList_RemapsStatusOnRead(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	seedN(t, db, 2, func(i int, task *models.Task) {
		if i == 0 {
			task.Status = "in_progress"
		}
	})

	tasks, _, err := repo.List(context.Background(), repository.ListInput{
		Sort: []repository.SortField{{ID: "createdAt", Desc: false}},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusInProgress, tasks[0].Status)
	require.Equal(t, models.StatusTodo, tasks[1].Status)
}

func TestList_StandardAndAdvancedModes(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	seedN(t, db, 4, func(i int, task *models.Task) {
		if i%2 == 0 {
			task.Status = "in_progress"
		}
	})

	// standard mode
	_, total, err := repo.List(context.Background(), repository.ListInput{
		Standard: filter.Standard{Status: []string{"in-progress"}},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	// the same clause set is ignored without the advanced flag
	input := repository.ListInput{
		Filters: []filter.Clause{
			{ID: "status", Operator: filter.OpEq, Variant: filter.VariantSelect, Value: "in-progress"},
		},
		JoinOperator: filter.JoinAnd,
	}
	_, total, err = repo.List(context.Background(), input)
	require.NoError(t, err)
	require.EqualValues(t, 4, total)

	input.FilterFlag = repository.FlagAdvancedFilters
	_, total, err = repo.List(context.Background(), input)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestStatusCounts_ZeroFilled(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	seedN(t, db, 3, func(i int, task *models.Task) {
		if i == 0 {
			task.Status = "in_progress"
		}
	})

	counts, err := repo.StatusCounts(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, counts[models.StatusTodo])
	require.EqualValues(t, 1, counts[models.StatusInProgress])
	require.EqualValues(t, 0, counts[models.StatusDone])
	require.EqualValues(t, 0, counts[models.StatusCanceled])
	require.Len(t, counts, 4)
}

func TestPriorityCounts_ZeroFilled(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	seedN(t, db, 2, func(i int, task *models.Task) {
		task.Priority = "high"
	})

	counts, err := repo.PriorityCounts(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 0, counts[models.PriorityLow])
	require.EqualValues(t, 0, counts[models.PriorityMedium])
	require.EqualValues(t, 2, counts[models.PriorityHigh])
	require.Len(t, counts, 3)
}

func TestEstimatedHoursRange(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	repo := repository.NewTaskRepository(db)

	// empty table: NULL aggregates map to zero
	rng, err := repo.EstimatedHoursRange(context.Background())
	require.NoError(t, err)
	require.Equal(t, repository.HoursRange{Min: 0, Max: 0}, rng)

	seedN(t, db, 3, func(i int, task *models.Task) {
		v := float64(2 + 5*i)
		task.EstimatedHours = &v
	})

	rng, err = repo.EstimatedHoursRange(context.Background())
	require.NoError(t, err)
	require.Equal(t, repository.HoursRange{Min: 2, Max: 12}, rng)
}
