package filter

import (
	"strings"

	"gorm.io/gorm/clause"

	"task-admin-api/internal/models"
)

// Compile translates an ordered set of clauses plus a join operator into a
// single predicate expression. A nil result means no constraint.
//
// Clauses that do not match a recognized column/operator/variant combination
// compile to no constraint instead of failing. Filter input comes straight
// from untrusted UI state and is routinely partial; an ignored clause is the
// documented contract, not an error.
func Compile(clauses []Clause, join JoinOperator) clause.Expression {
	exprs := make([]clause.Expression, 0, len(clauses))
	for _, c := range clauses {
		if e := compileClause(c); e != nil {
			exprs = append(exprs, e)
		}
	}

	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	if join == JoinOr {
		return clause.Or(exprs...)
	}
	return clause.And(exprs...)
}

func compileClause(f Clause) clause.Expression {
	col, ok := ColumnName(f.ID)
	if !ok {
		return nil
	}

	switch f.Operator {
	case OpILike:
		if f.Variant == VariantText {
			if s, ok := stringValue(f.Value); ok {
				return containsInsensitive(col, s)
			}
		}

	case OpNotILike:
		if f.Variant == VariantText {
			if s, ok := stringValue(f.Value); ok {
				return clause.Not(containsInsensitive(col, s))
			}
		}

	case OpEq:
		return compileEq(f, col)

	case OpNe:
		return compileNe(f, col)

	case OpGt:
		return clause.Gt{Column: col, Value: comparableValue(f)}

	case OpGte:
		return clause.Gte{Column: col, Value: comparableValue(f)}

	case OpLt:
		return clause.Lt{Column: col, Value: comparableValue(f)}

	case OpLte:
		return clause.Lte{Column: col, Value: comparableValue(f)}

	case OpIn:
		if vals, ok := stringSlice(f.Value); ok {
			return clause.IN{Column: col, Values: setValues(f.ID, vals)}
		}

	case OpNotIn:
		if vals, ok := stringSlice(f.Value); ok {
			return clause.Not(clause.IN{Column: col, Values: setValues(f.ID, vals)})
		}

	case OpIsEmpty:
		return emptyExpr(f, col)

	case OpIsNotEmpty:
		return clause.Not(emptyExpr(f, col))
	}

	return nil
}

func compileEq(f Clause, col string) clause.Expression {
	if f.ID == "status" {
		if s, ok := stringValue(f.Value); ok {
			return clause.Eq{Column: col, Value: statusValue(s)}
		}
	}

	if f.Variant == VariantBoolean {
		if s, ok := stringValue(f.Value); ok {
			return clause.Eq{Column: col, Value: s == "true"}
		}
	}

	// Equality on a date widens to the full calendar day of the timestamp.
	if f.Variant == VariantDate || f.Variant == VariantDateRange {
		t, ok := timeValue(f.Value)
		if !ok {
			return nil
		}
		start, end := dayBounds(t)
		return clause.And(
			clause.Gte{Column: col, Value: start},
			clause.Lte{Column: col, Value: end},
		)
	}

	return clause.Eq{Column: col, Value: comparableValue(f)}
}

func compileNe(f Clause, col string) clause.Expression {
	if f.ID == "status" {
		if s, ok := stringValue(f.Value); ok {
			return clause.Neq{Column: col, Value: statusValue(s)}
		}
	}
	return clause.Neq{Column: col, Value: comparableValue(f)}
}

// statusValue maps a status value to its storage form. Values outside the
// enum are compared verbatim, where they match no stored row.
func statusValue(v string) string {
	if internal, err := models.StatusToInternal(v); err == nil {
		return internal
	}
	return v
}

// comparableValue coerces a clause value for direct comparison based on its
// declared variant, falling back to the raw value.
func comparableValue(f Clause) any {
	switch f.Variant {
	case VariantNumber:
		if n, ok := numberValue(f.Value); ok {
			return n
		}
	case VariantDate, VariantDateRange:
		if t, ok := timeValue(f.Value); ok {
			return t
		}
	}
	return f.Value
}

// setValues prepares the member list of an in/notIn clause. Status members
// are remapped to their storage form; unmappable members are kept verbatim,
// where they simply never match a stored row.
func setValues(columnID string, vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		if columnID == "status" {
			out[i] = statusValue(v)
			continue
		}
		out[i] = v
	}
	return out
}

// emptyExpr matches NULL, the empty string, and, for array-valued clauses,
// a serialized empty collection.
func emptyExpr(f Clause, col string) clause.Expression {
	exprs := []clause.Expression{
		clause.Eq{Column: col, Value: nil},
		clause.Eq{Column: col, Value: ""},
	}
	if isSlice(f.Value) {
		exprs = append(exprs, clause.Eq{Column: col, Value: "[]"})
	}
	return clause.Or(exprs...)
}

func containsInsensitive(col, s string) clause.Expression {
	// col comes from the column whitelist, never from the caller.
	return clause.Expr{
		SQL:  "LOWER(" + col + ") LIKE ?",
		Vars: []any{"%" + strings.ToLower(s) + "%"},
	}
}
