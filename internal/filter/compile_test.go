package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-admin-api/internal/filter"
	"task-admin-api/internal/models"
	"task-admin-api/internal/testutil"
)

func hours(v float64) *float64 { return &v }

func seedTask(t *testing.T, db *gorm.DB, task models.Task) {
	t.Helper()
	if task.Code == "" {
		task.Code = "TASK-" + task.ID
	}
	require.NoError(t, db.Create(&task).Error)
}

func matchIDs(t *testing.T, db *gorm.DB, expr clause.Expression) []string {
	t.Helper()
	q := db.Model(&models.Task{})
	if expr != nil {
		q = q.Where(expr)
	}
	var tasks []models.Task
	require.NoError(t, q.Order("id asc").Find(&tasks).Error)
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

func TestCompile_EmptySetMatchesEverything(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "one", Status: "todo", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "two", Status: "done", Label: "bug", Priority: "low"})

	expr := filter.Compile(nil, filter.JoinAnd)
	require.Nil(t, expr)
	require.Equal(t, []string{"t1", "t2"}, matchIDs(t, db, expr))
}

func TestCompile_JoinOperators(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "alpha", Status: "todo", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "beta", Status: "done", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t3", Title: "alpha", Status: "done", Label: "bug", Priority: "low"})

	clauses := []filter.Clause{
		{ID: "title", Operator: filter.OpEq, Variant: filter.VariantText, Value: "alpha"},
		{ID: "status", Operator: filter.OpEq, Variant: filter.VariantSelect, Value: "done"},
	}

	require.Equal(t, []string{"t3"}, matchIDs(t, db, filter.Compile(clauses, filter.JoinAnd)))
	require.Equal(t, []string{"t1", "t2", "t3"}, matchIDs(t, db, filter.Compile(clauses, filter.JoinOr)))
}

func TestCompile_StatusEqualsRemapsInProgress(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "in_progress", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "todo", Label: "bug", Priority: "low"})

	expr := filter.Compile([]filter.Clause{
		{ID: "status", Operator: filter.OpEq, Variant: filter.VariantSelect, Value: "in-progress"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t1"}, matchIDs(t, db, expr))

	expr = filter.Compile([]filter.Clause{
		{ID: "status", Operator: filter.OpNe, Variant: filter.VariantSelect, Value: "in-progress"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t2"}, matchIDs(t, db, expr))
}

func TestCompile_StatusSetMembershipRemapsMembers(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "in_progress", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "todo", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t3", Title: "c", Status: "canceled", Label: "bug", Priority: "low"})

	expr := filter.Compile([]filter.Clause{
		{ID: "status", Operator: filter.OpIn, Variant: filter.VariantMultiSelect, Value: []any{"in-progress", "todo"}},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t1", "t2"}, matchIDs(t, db, expr))

	expr = filter.Compile([]filter.Clause{
		{ID: "status", Operator: filter.OpNotIn, Variant: filter.VariantMultiSelect, Value: []any{"in-progress"}},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t2", "t3"}, matchIDs(t, db, expr))
}

func TestCompile_ContainsInsensitive(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "Fix LOGIN flow", Status: "todo", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "Write docs", Status: "todo", Label: "bug", Priority: "low"})

	expr := filter.Compile([]filter.Clause{
		{ID: "title", Operator: filter.OpILike, Variant: filter.VariantText, Value: "login"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t1"}, matchIDs(t, db, expr))

	expr = filter.Compile([]filter.Clause{
		{ID: "title", Operator: filter.OpNotILike, Variant: filter.VariantText, Value: "login"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t2"}, matchIDs(t, db, expr))
}

func TestCompile_BooleanEquality(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "todo", Label: "bug", Priority: "low", Archived: true})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "todo", Label: "bug", Priority: "low", Archived: false})

	expr := filter.Compile([]filter.Clause{
		{ID: "archived", Operator: filter.OpEq, Variant: filter.VariantBoolean, Value: "true"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t1"}, matchIDs(t, db, expr))

	expr = filter.Compile([]filter.Clause{
		{ID: "archived", Operator: filter.OpEq, Variant: filter.VariantBoolean, Value: "false"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t2"}, matchIDs(t, db, expr))
}

func TestCompile_DateEqualsWidensToFullDay(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "todo", Label: "bug", Priority: "low",
		CreatedAt: day.Add(15*time.Hour + 30*time.Minute)})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "todo", Label: "bug", Priority: "low",
		CreatedAt: day.Add(5 * time.Minute)})
	seedTask(t, db, models.Task{ID: "t3", Title: "c", Status: "todo", Label: "bug", Priority: "low",
		CreatedAt: day.AddDate(0, 0, 1)})
	seedTask(t, db, models.Task{ID: "t4", Title: "d", Status: "todo", Label: "bug", Priority: "low",
		CreatedAt: day.Add(-time.Minute)})

	expr := filter.Compile([]filter.Clause{
		{ID: "createdAt", Operator: filter.OpEq, Variant: filter.VariantDate, Value: float64(day.UnixMilli())},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t1", "t2"}, matchIDs(t, db, expr))
}

func TestCompile_NumericComparisons(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "todo", Label: "bug", Priority: "low", EstimatedHours: hours(2)})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "todo", Label: "bug", Priority: "low", EstimatedHours: hours(8)})
	seedTask(t, db, models.Task{ID: "t3", Title: "c", Status: "todo", Label: "bug", Priority: "low", EstimatedHours: hours(16)})

	expr := filter.Compile([]filter.Clause{
		{ID: "estimatedHours", Operator: filter.OpGt, Variant: filter.VariantNumber, Value: "2"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t2", "t3"}, matchIDs(t, db, expr))

	expr = filter.Compile([]filter.Clause{
		{ID: "estimatedHours", Operator: filter.OpGte, Variant: filter.VariantNumber, Value: "8"},
		{ID: "estimatedHours", Operator: filter.OpLte, Variant: filter.VariantNumber, Value: "8"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t2"}, matchIDs(t, db, expr))
}

func TestCompile_IsEmptyAndIsNotEmpty(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "has title", Status: "todo", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "", Status: "todo", Label: "bug", Priority: "low"})
	require.NoError(t, db.Exec(
		`INSERT INTO tasks (id, code, title, status, label, priority, archived, created_at, updated_at)
		 VALUES ('t3', 'TASK-t3', NULL, 'todo', 'bug', 'low', false, ?, ?)`,
		time.Now(), time.Now()).Error)

	empty := filter.Compile([]filter.Clause{
		{ID: "title", Operator: filter.OpIsEmpty, Variant: filter.VariantText, Value: ""},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t2", "t3"}, matchIDs(t, db, empty))

	notEmpty := filter.Compile([]filter.Clause{
		{ID: "title", Operator: filter.OpIsNotEmpty, Variant: filter.VariantText, Value: ""},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t1"}, matchIDs(t, db, notEmpty))
}

func TestCompile_UnrecognizedClausesAreNoConstraint(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "todo", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "done", Label: "bug", Priority: "low"})

	for _, c := range []filter.Clause{
		{ID: "nosuchcolumn", Operator: filter.OpEq, Variant: filter.VariantText, Value: "x"},
		{ID: "title", Operator: "between", Variant: filter.VariantText, Value: "x"},
		{ID: "title", Operator: filter.OpILike, Variant: filter.VariantNumber, Value: "x"},
		{ID: "title", Operator: filter.OpIn, Variant: filter.VariantMultiSelect, Value: "not-an-array"},
	} {
		expr := filter.Compile([]filter.Clause{c}, filter.JoinAnd)
		require.Nil(t, expr, "clause %+v should compile to no constraint", c)
		require.Equal(t, []string{"t1", "t2"}, matchIDs(t, db, expr))
	}
}

func TestCompile_StatusOutsideEnumComparesVerbatim(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "todo", Label: "bug", Priority: "low"})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "done", Label: "bug", Priority: "low"})

	// Equality against a value outside the enum is not dropped; it compares
	// verbatim and matches no stored row.
	eq := filter.Compile([]filter.Clause{
		{ID: "status", Operator: filter.OpEq, Variant: filter.VariantSelect, Value: "blocked"},
	}, filter.JoinAnd)
	require.NotNil(t, eq)
	require.Empty(t, matchIDs(t, db, eq))

	// The inequality form then matches every row.
	ne := filter.Compile([]filter.Clause{
		{ID: "status", Operator: filter.OpNe, Variant: filter.VariantSelect, Value: "blocked"},
	}, filter.JoinAnd)
	require.Equal(t, []string{"t1", "t2"}, matchIDs(t, db, ne))
}

func TestCompileStandard_FixedConjunction(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	seedTask(t, db, models.Task{ID: "t1", Title: "Refactor login", Status: "in_progress", Label: "bug",
		Priority: "high", EstimatedHours: hours(4), CreatedAt: day.Add(10 * time.Hour)})
	seedTask(t, db, models.Task{ID: "t2", Title: "Refactor logout", Status: "in_progress", Label: "bug",
		Priority: "high", EstimatedHours: hours(40), CreatedAt: day.Add(11 * time.Hour)})
	seedTask(t, db, models.Task{ID: "t3", Title: "Refactor login", Status: "done", Label: "bug",
		Priority: "high", EstimatedHours: hours(4), CreatedAt: day.Add(12 * time.Hour)})
	seedTask(t, db, models.Task{ID: "t4", Title: "Refactor login", Status: "in_progress", Label: "bug",
		Priority: "high", EstimatedHours: hours(4), CreatedAt: day.AddDate(0, 0, 5)})

	expr := filter.CompileStandard(filter.Standard{
		Title:          "refactor lo",
		Status:         []string{"in-progress"},
		Priority:       []string{"high", "medium"},
		EstimatedHours: []float64{1, 10},
		CreatedAt:      []int64{day.UnixMilli(), day.UnixMilli()},
	})
	require.Equal(t, []string{"t1"}, matchIDs(t, db, expr))
}

func TestCompileStandard_EmptyInputMatchesEverything(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "todo", Label: "bug", Priority: "low"})

	expr := filter.CompileStandard(filter.Standard{})
	require.Nil(t, expr)
	require.Equal(t, []string{"t1"}, matchIDs(t, db, expr))
}

func TestCompileStandard_LowerBoundOnly(t *testing.T) {
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	seedTask(t, db, models.Task{ID: "t1", Title: "a", Status: "todo", Label: "bug", Priority: "low", EstimatedHours: hours(2)})
	seedTask(t, db, models.Task{ID: "t2", Title: "b", Status: "todo", Label: "bug", Priority: "low", EstimatedHours: hours(9)})

	expr := filter.CompileStandard(filter.Standard{EstimatedHours: []float64{5}})
	require.Equal(t, []string{"t2"}, matchIDs(t, db, expr))
}
