package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"task-admin-api/internal/cache"
	"task-admin-api/internal/domain"
	"task-admin-api/internal/models"
	"task-admin-api/internal/query"
	"task-admin-api/internal/realtime"
	"task-admin-api/internal/taskgen"
)

// CreateTaskInput carries the caller-supplied fields of a new task. Status
// arrives in external form.
type CreateTaskInput struct {
	Title          string   `json:"title"`
	Label          string   `json:"label"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

// UpdateTaskInput is a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title          *string  `json:"title"`
	Label          *string  `json:"label"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

// TaskService runs task mutations. Every mutation is a single transaction
// against the store; on success it invalidates the affected cache tags and
// broadcasts an event over the realtime hub.
type TaskService struct {
	db    *gorm.DB
	cache cache.Store[string, any]
	hub   *realtime.Hub
	log   *zap.Logger
}

// NewTaskService creates the mutation service. hub may be nil.
func NewTaskService(db *gorm.DB, store cache.Store[string, any], hub *realtime.Hub, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{db: db, cache: store, hub: hub, log: log}
}

// Create inserts a new task with a generated id and display code, then
// evicts the oldest existing row so the working set keeps a fixed size. The
// just-created row is excluded from the oldest-row selection.
func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) error {
	internalStatus, err := models.StatusToInternal(input.Status)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
	}
	if err := validateLabel(input.Label); err != nil {
		return err
	}
	if err := validatePriority(input.Priority); err != nil {
		return err
	}

	task := models.Task{
		ID:             uuid.NewString(),
		Code:           taskgen.NewCode(),
		Title:          input.Title,
		Status:         models.TaskStatus(internalStatus),
		Label:          models.TaskLabel(input.Label),
		Priority:       models.TaskPriority(input.Priority),
		EstimatedHours: input.EstimatedHours,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		var oldest models.Task
		err := tx.Select("id").Where("id <> ?", task.ID).Order("created_at asc").First(&oldest).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Delete(&models.Task{}, "id = ?", oldest.ID).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(query.TagTasks, query.TagStatusCounts, query.TagPriorityCounts)
	s.broadcast("task_created", task.ID)
	return nil
}

// Update applies a partial update to one task. The current status and
// priority are fetched first; a missing row fails with not-found before any
// write. Count tags are invalidated only when the before/after comparison
// shows the field actually changed.
func (s *TaskService) Update(ctx context.Context, id string, input UpdateTaskInput) error {
	updates, err := updateColumns(input)
	if err != nil {
		return err
	}

	var before, after models.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "status", "priority").First(&before, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.Task{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}
		return tx.Select("id", "status", "priority").First(&after, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(query.TagTasks)
	if before.Status != after.Status {
		s.invalidate(query.TagStatusCounts)
	}
	if before.Priority != after.Priority {
		s.invalidate(query.TagPriorityCounts)
	}
	s.broadcast("task_updated", id)
	return nil
}

// UpdateMany applies the same partial update to every listed task inside
// one transaction; any missing id rolls the whole batch back.
//
// Count-tag invalidation inspects only the first id's before/after state as
// a representative sample of the batch. A batch that changes other rows'
// status without changing the first row's can leave the count caches
// stale until their TTL.
func (s *TaskService) UpdateMany(ctx context.Context, ids []string, input UpdateTaskInput) error {
	if len(ids) == 0 {
		return domain.ErrBadParamInput
	}
	updates, err := updateColumns(input)
	if err != nil {
		return err
	}

	var before, after models.Task
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id", "status", "priority").First(&before, "id = ?", ids[0]).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		for _, id := range ids {
			if len(updates) == 0 {
				continue
			}
			res := tx.Model(&models.Task{}).Where("id = ?", id).Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrNotFound
			}
		}
		return tx.Select("id", "status", "priority").First(&after, "id = ?", ids[0]).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(query.TagTasks)
	if before.Status != after.Status {
		s.invalidate(query.TagStatusCounts)
	}
	if before.Priority != after.Priority {
		s.invalidate(query.TagPriorityCounts)
	}
	s.broadcast("tasks_updated", ids...)
	return nil
}

// Delete removes one task and inserts a freshly generated random task in
// the same transaction, preserving the table's cardinality.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	replacement := taskgen.Random()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Task{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Create(&replacement).Error
	})
	if err != nil {
		return err
	}

	s.invalidate(query.TagTasks, query.TagStatusCounts, query.TagPriorityCounts)
	s.broadcast("task_deleted", id)
	return nil
}

// DeleteMany removes the listed tasks and inserts one generated replacement
// per row actually deleted. Ids that match nothing are skipped silently.
func (s *TaskService) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return domain.ErrBadParamInput
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Task{}, "id IN ?", ids)
		if res.Error != nil {
			return res.Error
		}
		for i := int64(0); i < res.RowsAffected; i++ {
			replacement := taskgen.Random()
			if err := tx.Create(&replacement).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(query.TagTasks, query.TagStatusCounts, query.TagPriorityCounts)
	s.broadcast("tasks_deleted", ids...)
	return nil
}

// updateColumns validates a partial update and maps it to storage columns.
func updateColumns(input UpdateTaskInput) (map[string]any, error) {
	updates := make(map[string]any)
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Label != nil {
		if err := validateLabel(*input.Label); err != nil {
			return nil, err
		}
		updates["label"] = *input.Label
	}
	if input.Status != nil {
		internal, err := models.StatusToInternal(*input.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrBadParamInput, err)
		}
		updates["status"] = internal
	}
	if input.Priority != nil {
		if err := validatePriority(*input.Priority); err != nil {
			return nil, err
		}
		updates["priority"] = *input.Priority
	}
	if input.EstimatedHours != nil {
		updates["estimated_hours"] = *input.EstimatedHours
	}
	return updates, nil
}

func validateLabel(label string) error {
	for _, l := range models.AllLabels {
		if models.TaskLabel(label) == l {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown label %q", domain.ErrBadParamInput, label)
}

func validatePriority(priority string) error {
	for _, p := range models.AllPriorities {
		if models.TaskPriority(priority) == p {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown priority %q", domain.ErrBadParamInput, priority)
}

func (s *TaskService) invalidate(tags ...string) {
	for _, tag := range tags {
		s.cache.InvalidateTag(tag)
	}
}

func (s *TaskService) broadcast(eventType string, ids ...string) {
	if s.hub == nil {
		return
	}
	evt := map[string]any{
		"type":    eventType,
		"taskIds": ids,
	}
	if b, err := json.Marshal(evt); err == nil {
		s.hub.Broadcast(b)
	}
}
