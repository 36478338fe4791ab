package query

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"task-admin-api/internal/cache"
	"task-admin-api/internal/models"
	"task-admin-api/internal/repository"
)

// Invalidation tags. Mutations invalidate TagTasks unconditionally and the
// count tags only when the corresponding field changed.
const (
	TagTasks          = "tasks"
	TagStatusCounts   = "task-status-counts"
	TagPriorityCounts = "task-priority-counts"
)

// Fixed keys of the aggregate views. Listing keys are derived per input.
const (
	keyStatusCounts   = "task-status-counts"
	keyPriorityCounts = "task-priority-counts"
	keyHoursRange     = "estimated-hours-range"
)

const (
	listTTL      = 10 * time.Second
	aggregateTTL = time.Hour
)

// ListResult is one cached page of tasks.
type ListResult struct {
	Data      []models.Task `json:"data"`
	PageCount int           `json:"pageCount"`
}

// Queries is the cached read layer over the task repository. Reads never
// surface store failures: a failed recompute is logged and answered with a
// safe default, and failures are never cached. Concurrent misses for the
// same key are collapsed through a singleflight group.
type Queries struct {
	repo  *repository.TaskRepository
	cache cache.Store[string, any]
	group singleflight.Group
	log   *zap.Logger
}

// New creates the cached read layer.
func New(repo *repository.TaskRepository, store cache.Store[string, any], log *zap.Logger) *Queries {
	if log == nil {
		log = zap.NewNop()
	}
	return &Queries{repo: repo, cache: store, log: log}
}

// ListKey returns the cache key of a listing input: a deterministic
// serialization of the whole query input.
func ListKey(input repository.ListInput) string {
	b, err := json.Marshal(input)
	if err != nil {
		return "tasks-"
	}
	return "tasks-" + string(b)
}

// ListTasks returns one page of tasks plus the page count, cached for a few
// seconds under the tasks tag.
func (q *Queries) ListTasks(ctx context.Context, input repository.ListInput) ListResult {
	key := ListKey(input)
	if v, ok := q.cache.Get(key); ok {
		if res, ok := v.(ListResult); ok {
			return res
		}
	}

	v, err, _ := q.group.Do(key, func() (any, error) {
		tasks, total, err := q.repo.List(ctx, input)
		if err != nil {
			return nil, err
		}
		perPage := input.PerPage
		if perPage < 1 {
			perPage = 10
		}
		if tasks == nil {
			tasks = []models.Task{}
		}
		res := ListResult{
			Data:      tasks,
			PageCount: int(math.Ceil(float64(total) / float64(perPage))),
		}
		q.cache.Set(key, res, listTTL, TagTasks)
		return res, nil
	})
	if err != nil {
		q.log.Error("list tasks failed, returning empty page", zap.Error(err))
		return ListResult{Data: []models.Task{}, PageCount: 0}
	}
	return v.(ListResult)
}

// StatusCounts returns the zero-filled per-status task counts.
func (q *Queries) StatusCounts(ctx context.Context) map[models.TaskStatus]int64 {
	if v, ok := q.cache.Get(keyStatusCounts); ok {
		if counts, ok := v.(map[models.TaskStatus]int64); ok {
			return counts
		}
	}

	v, err, _ := q.group.Do(keyStatusCounts, func() (any, error) {
		counts, err := q.repo.StatusCounts(ctx)
		if err != nil {
			return nil, err
		}
		q.cache.Set(keyStatusCounts, counts, aggregateTTL, TagStatusCounts)
		return counts, nil
	})
	if err != nil {
		q.log.Error("status counts failed, returning zeros", zap.Error(err))
		return repository.ZeroStatusCounts()
	}
	return v.(map[models.TaskStatus]int64)
}

// PriorityCounts returns the zero-filled per-priority task counts.
func (q *Queries) PriorityCounts(ctx context.Context) map[models.TaskPriority]int64 {
	if v, ok := q.cache.Get(keyPriorityCounts); ok {
		if counts, ok := v.(map[models.TaskPriority]int64); ok {
			return counts
		}
	}

	v, err, _ := q.group.Do(keyPriorityCounts, func() (any, error) {
		counts, err := q.repo.PriorityCounts(ctx)
		if err != nil {
			return nil, err
		}
		q.cache.Set(keyPriorityCounts, counts, aggregateTTL, TagPriorityCounts)
		return counts, nil
	})
	if err != nil {
		q.log.Error("priority counts failed, returning zeros", zap.Error(err))
		return repository.ZeroPriorityCounts()
	}
	return v.(map[models.TaskPriority]int64)
}

// EstimatedHoursRange returns the min/max estimated hours. The entry
// carries no tag; staleness is bounded by the TTL alone.
func (q *Queries) EstimatedHoursRange(ctx context.Context) repository.HoursRange {
	if v, ok := q.cache.Get(keyHoursRange); ok {
		if rng, ok := v.(repository.HoursRange); ok {
			return rng
		}
	}

	v, err, _ := q.group.Do(keyHoursRange, func() (any, error) {
		rng, err := q.repo.EstimatedHoursRange(ctx)
		if err != nil {
			return nil, err
		}
		q.cache.Set(keyHoursRange, rng, aggregateTTL)
		return rng, nil
	})
	if err != nil {
		q.log.Error("estimated hours range failed, returning zeros", zap.Error(err))
		return repository.HoursRange{}
	}
	return v.(repository.HoursRange)
}
