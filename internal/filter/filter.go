package filter

import (
	"strconv"
	"time"
)

// Operator identifies a filter comparison.
type Operator string

const (
	OpEq         Operator = "eq"
	OpNe         Operator = "ne"
	OpILike      Operator = "iLike"
	OpNotILike   Operator = "notILike"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpIn         Operator = "in"
	OpNotIn      Operator = "notIn"
	OpIsEmpty    Operator = "isEmpty"
	OpIsNotEmpty Operator = "isNotEmpty"
)

// Variant declares how a clause value should be interpreted.
type Variant string

const (
	VariantText        Variant = "text"
	VariantNumber      Variant = "number"
	VariantBoolean     Variant = "boolean"
	VariantDate        Variant = "date"
	VariantDateRange   Variant = "dateRange"
	VariantSelect      Variant = "select"
	VariantMultiSelect Variant = "multiSelect"
)

// JoinOperator combines the clauses of a filter set.
type JoinOperator string

const (
	JoinAnd JoinOperator = "and"
	JoinOr  JoinOperator = "or"
)

// Clause is one user-supplied column/operator/value triple. Values arrive
// from JSON, so Value is either a string or a []any of strings.
type Clause struct {
	ID       string   `json:"id"`
	Operator Operator `json:"operator"`
	Variant  Variant  `json:"variant"`
	Value    any      `json:"value"`
}

// columns maps external column identifiers to storage column names. Filters
// on columns outside this map compile to no constraint, and the map doubles
// as the guard against identifier injection.
var columns = map[string]string{
	"id":             "id",
	"code":           "code",
	"title":          "title",
	"status":         "status",
	"label":          "label",
	"priority":       "priority",
	"estimatedHours": "estimated_hours",
	"archived":       "archived",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

// ColumnName resolves an external column identifier to its storage name.
func ColumnName(id string) (string, bool) {
	col, ok := columns[id]
	return col, ok
}

func stringValue(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// stringSlice accepts []string directly or the []any produced by JSON
// decoding, keeping only string elements.
func stringSlice(v any) ([]string, bool) {
	switch vs := v.(type) {
	case []string:
		return vs, true
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	}
	return nil, false
}

func isSlice(v any) bool {
	_, ok := stringSlice(v)
	return ok
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// timeValue interprets a clause value as epoch milliseconds.
func timeValue(v any) (time.Time, bool) {
	n, ok := numberValue(v)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(n)), true
}

// dayBounds widens a timestamp to the inclusive bounds of its local
// calendar day: 00:00:00.000 to 23:59:59.999.
func dayBounds(t time.Time) (time.Time, time.Time) {
	t = t.Local()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

func dayStart(t time.Time) time.Time {
	start, _ := dayBounds(t)
	return start
}

func dayEnd(t time.Time) time.Time {
	_, end := dayBounds(t)
	return end
}
