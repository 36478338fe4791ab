package filter

import (
	"time"

	"gorm.io/gorm/clause"
)

// Standard carries the fixed-shape filter fields of the non-advanced
// listing mode. Range fields are positional: index 0 is the lower bound,
// index 1 the upper, each optional by omission.
type Standard struct {
	Title          string    `json:"title"`
	Status         []string  `json:"status"`
	Priority       []string  `json:"priority"`
	EstimatedHours []float64 `json:"estimatedHours"`
	CreatedAt      []int64   `json:"createdAt"`
}

// CompileStandard builds the fixed conjunction of the standard filter mode:
// title substring, status set, priority set, estimated-hours range and
// created-at day-bounded range. The join operator does not apply here;
// standard mode is always AND. A nil result means no constraint.
func CompileStandard(s Standard) clause.Expression {
	var exprs []clause.Expression

	if s.Title != "" {
		exprs = append(exprs, containsInsensitive("title", s.Title))
	}

	if len(s.Status) > 0 {
		exprs = append(exprs, clause.IN{Column: "status", Values: setValues("status", s.Status)})
	}

	if len(s.Priority) > 0 {
		vals := make([]any, len(s.Priority))
		for i, p := range s.Priority {
			vals[i] = p
		}
		exprs = append(exprs, clause.IN{Column: "priority", Values: vals})
	}

	if len(s.EstimatedHours) > 0 {
		exprs = append(exprs, clause.Gte{Column: "estimated_hours", Value: s.EstimatedHours[0]})
		if len(s.EstimatedHours) > 1 {
			exprs = append(exprs, clause.Lte{Column: "estimated_hours", Value: s.EstimatedHours[1]})
		}
	}

	if len(s.CreatedAt) > 0 {
		exprs = append(exprs, clause.Gte{Column: "created_at", Value: dayStart(time.UnixMilli(s.CreatedAt[0]))})
		if len(s.CreatedAt) > 1 {
			exprs = append(exprs, clause.Lte{Column: "created_at", Value: dayEnd(time.UnixMilli(s.CreatedAt[1]))})
		}
	}

	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return clause.And(exprs...)
}
