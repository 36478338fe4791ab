package models

import (
	"time"
)

// TaskStatus represents the status of a task in its external (API) form
type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in-progress"
	StatusDone       TaskStatus = "done"
	StatusCanceled   TaskStatus = "canceled"
)

// TaskLabel represents the label of a task
type TaskLabel string

const (
	LabelBug           TaskLabel = "bug"
	LabelFeature       TaskLabel = "feature"
	LabelEnhancement   TaskLabel = "enhancement"
	LabelDocumentation TaskLabel = "documentation"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// AllStatuses lists every status in external form, in display order.
var AllStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone, StatusCanceled}

// AllLabels lists every label in display order.
var AllLabels = []TaskLabel{LabelBug, LabelFeature, LabelEnhancement, LabelDocumentation}

// AllPriorities lists every priority in display order.
var AllPriorities = []TaskPriority{PriorityLow, PriorityMedium, PriorityHigh}

// Task represents a task row. The status column stores the internal form
// ("in_progress" rather than "in-progress"); read paths remap it to the
// external form before the row leaves the repository.
type Task struct {
	ID             string       `json:"id" gorm:"primaryKey"`
	Code           string       `json:"code" gorm:"uniqueIndex;not null"`
	Title          string       `json:"title"`
	Status         TaskStatus   `json:"status" gorm:"not null;default:'todo';index"`
	Label          TaskLabel    `json:"label" gorm:"not null;default:'bug'"`
	Priority       TaskPriority `json:"priority" gorm:"not null;default:'low';index"`
	EstimatedHours *float64     `json:"estimatedHours" gorm:"column:estimated_hours"`
	Archived       bool         `json:"archived" gorm:"default:false"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"column:created_at;index"`
	UpdatedAt      time.Time    `json:"updatedAt" gorm:"column:updated_at"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
