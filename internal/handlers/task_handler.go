package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"task-admin-api/internal/filter"
	"task-admin-api/internal/query"
	"task-admin-api/internal/realtime"
	"task-admin-api/internal/repository"
	"task-admin-api/internal/response"
	"task-admin-api/internal/service"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title          string   `json:"title" binding:"required"`
	Label          string   `json:"label" binding:"required"`
	Status         string   `json:"status" binding:"required"`
	Priority       string   `json:"priority" binding:"required"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

// UpdateTaskRequest represents the request payload for updating a task
type UpdateTaskRequest struct {
	Title          *string  `json:"title"`
	Label          *string  `json:"label"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	EstimatedHours *float64 `json:"estimatedHours"`
}

// UpdateTasksRequest is the bulk-update payload.
type UpdateTasksRequest struct {
	IDs []string `json:"ids" binding:"required"`
	UpdateTaskRequest
}

// DeleteTasksRequest is the bulk-delete payload.
type DeleteTasksRequest struct {
	IDs []string `json:"ids" binding:"required"`
}

// TaskHandler wires the HTTP surface to the cached read layer and the
// mutation service.
type TaskHandler struct {
	queries *query.Queries
	service *service.TaskService
	hub     *realtime.Hub
	log     *zap.Logger
}

// NewTaskHandler creates the handler set.
func NewTaskHandler(q *query.Queries, s *service.TaskService, hub *realtime.Hub, log *zap.Logger) *TaskHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskHandler{queries: q, service: s, hub: hub, log: log}
}

// ListTasks handles GET /api/tasks.
//
// Query params: page, perPage, sort (JSON array of {id,desc}), title,
// status, priority, estimatedHours, createdAt (comma-separated), and for
// advanced mode filterFlag, filters (JSON clause array), joinOperator.
// Read failures never reach the client; the cached layer answers with an
// empty page instead.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := parseListInput(c)
	c.JSON(200, h.queries.ListTasks(c.Request.Context(), input))
}

// StatusCounts handles GET /api/tasks/status-counts.
func (h *TaskHandler) StatusCounts(c *gin.Context) {
	c.JSON(200, h.queries.StatusCounts(c.Request.Context()))
}

// PriorityCounts handles GET /api/tasks/priority-counts.
func (h *TaskHandler) PriorityCounts(c *gin.Context) {
	c.JSON(200, h.queries.PriorityCounts(c.Request.Context()))
}

// EstimatedHoursRange handles GET /api/tasks/estimated-hours-range.
func (h *TaskHandler) EstimatedHoursRange(c *gin.Context) {
	c.JSON(200, h.queries.EstimatedHoursRange(c.Request.Context()))
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	err := h.service.Create(c.Request.Context(), service.CreateTaskInput{
		Title:          req.Title,
		Label:          req.Label,
		Status:         req.Status,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		response.MutationError(c, err)
		return
	}
	response.Mutated(c)
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	err := h.service.Update(c.Request.Context(), c.Param("id"), service.UpdateTaskInput{
		Title:          req.Title,
		Label:          req.Label,
		Status:         req.Status,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		response.MutationError(c, err)
		return
	}
	response.Mutated(c)
}

// UpdateTasks handles PATCH /api/tasks (bulk update by id list).
func (h *TaskHandler) UpdateTasks(c *gin.Context) {
	var req UpdateTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	err := h.service.UpdateMany(c.Request.Context(), req.IDs, service.UpdateTaskInput{
		Title:          req.Title,
		Label:          req.Label,
		Status:         req.Status,
		Priority:       req.Priority,
		EstimatedHours: req.EstimatedHours,
	})
	if err != nil {
		response.MutationError(c, err)
		return
	}
	response.Mutated(c)
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.MutationError(c, err)
		return
	}
	response.Mutated(c)
}

// DeleteTasks handles DELETE /api/tasks (bulk delete by id list).
func (h *TaskHandler) DeleteTasks(c *gin.Context) {
	var req DeleteTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err)
		return
	}

	if err := h.service.DeleteMany(c.Request.Context(), req.IDs); err != nil {
		response.MutationError(c, err)
		return
	}
	response.Mutated(c)
}

func parseListInput(c *gin.Context) repository.ListInput {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("perPage", "10"))
	if err != nil || perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	input := repository.ListInput{
		Page:       page,
		PerPage:    perPage,
		FilterFlag: c.Query("filterFlag"),
		Sort:       []repository.SortField{{ID: "createdAt", Desc: true}},
		Standard: filter.Standard{
			Title:          c.Query("title"),
			Status:         splitParam(c.Query("status")),
			Priority:       splitParam(c.Query("priority")),
			EstimatedHours: parseFloats(c.Query("estimatedHours")),
			CreatedAt:      parseMillis(c.Query("createdAt")),
		},
		JoinOperator: filter.JoinAnd,
	}

	if raw := c.Query("sort"); raw != "" {
		var sort []repository.SortField
		if err := json.Unmarshal([]byte(raw), &sort); err == nil {
			input.Sort = sort
		}
	}

	if c.Query("joinOperator") == string(filter.JoinOr) {
		input.JoinOperator = filter.JoinOr
	}

	// Malformed filter JSON is dropped, consistent with the compiler's
	// permissive handling of unrecognized clauses.
	if raw := c.Query("filters"); raw != "" {
		var clauses []filter.Clause
		if err := json.Unmarshal([]byte(raw), &clauses); err == nil {
			input.Filters = clauses
		}
	}

	return input
}

func splitParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseFloats(raw string) []float64 {
	var out []float64
	for _, p := range splitParam(raw) {
		if f, err := strconv.ParseFloat(p, 64); err == nil {
			out = append(out, f)
		}
	}
	return out
}

func parseMillis(raw string) []int64 {
	var out []int64
	for _, p := range splitParam(raw) {
		if n, err := strconv.ParseInt(p, 10, 64); err == nil {
			out = append(out, n)
		}
	}
	return out
}
