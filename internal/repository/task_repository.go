package repository

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-admin-api/internal/filter"
	"task-admin-api/internal/models"
)

// Filter flags selecting the advanced compiler over the standard one.
const (
	FlagAdvancedFilters = "advancedFilters"
	FlagCommandFilters  = "commandFilters"
)

// SortField is one (column, direction) pair of a sort specification.
type SortField struct {
	ID   string `json:"id"`
	Desc bool   `json:"desc"`
}

// ListInput is the full query input of a task listing: pagination, sort and
// either the standard filter fields or an advanced clause set. Its JSON
// serialization doubles as the cache key, so all fields are tagged.
type ListInput struct {
	Page       int         `json:"page"`
	PerPage    int         `json:"perPage"`
	Sort       []SortField `json:"sort"`
	FilterFlag string      `json:"filterFlag"`

	filter.Standard

	Filters      []filter.Clause     `json:"filters"`
	JoinOperator filter.JoinOperator `json:"joinOperator"`
}

// Advanced reports whether the input selects the advanced filter compiler.
func (in ListInput) Advanced() bool {
	return in.FilterFlag == FlagAdvancedFilters || in.FilterFlag == FlagCommandFilters
}

// HoursRange is the min/max aggregation over estimated hours.
type HoursRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// TaskRepository issues task queries against the store. Status values cross
// the storage boundary here: predicates are compiled against the internal
// form and every returned row is remapped to the external form.
type TaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a repository over the given DB handle.
func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns one page of tasks matching the input plus the total filtered
// count. The count is issued independently of the page fetch.
func (r *TaskRepository) List(ctx context.Context, input ListInput) ([]models.Task, int64, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = 10
	}
	offset := (page - 1) * perPage

	query := r.db.WithContext(ctx).Model(&models.Task{})
	if expr := r.compile(input); expr != nil {
		query = query.Where(expr)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []models.Task
	find := query.Session(&gorm.Session{}).Limit(perPage).Offset(offset)
	if order := orderClause(input.Sort); order != "" {
		find = find.Order(order)
	}
	if err := find.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	for i := range tasks {
		tasks[i].Status = tasks[i].Status.External()
	}
	return tasks, total, nil
}

// compile picks the filter compiler based on the input's filter flag.
func (r *TaskRepository) compile(input ListInput) clause.Expression {
	if input.Advanced() {
		return filter.Compile(input.Filters, input.JoinOperator)
	}
	return filter.CompileStandard(input.Standard)
}

// orderClause turns the sort spec into an ORDER BY fragment, dropping
// columns outside the whitelist. Empty means the store's default order.
func orderClause(sort []SortField) string {
	parts := make([]string, 0, len(sort))
	for _, s := range sort {
		col, ok := filter.ColumnName(s.ID)
		if !ok {
			continue
		}
		if s.Desc {
			parts = append(parts, col+" desc")
		} else {
			parts = append(parts, col+" asc")
		}
	}
	return strings.Join(parts, ", ")
}

// StatusCounts groups tasks by status and returns a count for every status
// member in external form. Members with no rows are zero-filled.
func (r *TaskRepository) StatusCounts(ctx context.Context) (map[models.TaskStatus]int64, error) {
	type row struct {
		Status string
		Count  int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := ZeroStatusCounts()
	for _, rw := range rows {
		external, err := models.StatusToExternal(rw.Status)
		if err != nil {
			continue
		}
		counts[models.TaskStatus(external)] = rw.Count
	}
	return counts, nil
}

// PriorityCounts groups tasks by priority, zero-filled over all members.
func (r *TaskRepository) PriorityCounts(ctx context.Context) (map[models.TaskPriority]int64, error) {
	type row struct {
		Priority string
		Count    int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Task{}).
		Select("priority, COUNT(*) as count").
		Group("priority").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := ZeroPriorityCounts()
	for _, rw := range rows {
		counts[models.TaskPriority(rw.Priority)] = rw.Count
	}
	return counts, nil
}

// EstimatedHoursRange returns the min and max estimated hours across all
// tasks. The two aggregates are issued as independent queries fanned out
// concurrently; NULL (empty table) maps to zero.
func (r *TaskRepository) EstimatedHoursRange(ctx context.Context) (HoursRange, error) {
	var minHours, maxHours float64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Task{}).
			Select("COALESCE(MIN(estimated_hours), 0)").Scan(&minHours).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Task{}).
			Select("COALESCE(MAX(estimated_hours), 0)").Scan(&maxHours).Error
	})
	if err := g.Wait(); err != nil {
		return HoursRange{}, err
	}

	return HoursRange{Min: minHours, Max: maxHours}, nil
}

// ZeroStatusCounts returns a counts map with every status member present.
func ZeroStatusCounts() map[models.TaskStatus]int64 {
	counts := make(map[models.TaskStatus]int64, len(models.AllStatuses))
	for _, s := range models.AllStatuses {
		counts[s] = 0
	}
	return counts
}

// ZeroPriorityCounts returns a counts map with every priority member present.
func ZeroPriorityCounts() map[models.TaskPriority]int64 {
	counts := make(map[models.TaskPriority]int64, len(models.AllPriorities))
	for _, p := range models.AllPriorities {
		counts[p] = 0
	}
	return counts
}
