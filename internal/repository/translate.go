package repository

import (
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/apperrors"
	"taskboard/internal/query"
)

// Queryable JSON fields per model, mapped to their columns. PendingTasks is
// a JSON column and is not filterable.
var (
	userFields = map[string]string{
		"_id":         "id",
		"name":        "name",
		"email":       "email",
		"dateCreated": "date_created",
	}
	taskFields = map[string]string{
		"_id":              "id",
		"name":             "name",
		"description":      "description",
		"deadline":         "deadline",
		"completed":        "completed",
		"assignedUser":     "assigned_user",
		"assignedUserName": "assigned_user_name",
		"dateCreated":      "date_created",
	}
)

// condition is one translated predicate, ready for gorm's Where.
type condition struct {
	expr string
	args []any
}

// buildWhere translates a filter document into SQL conditions. A field maps
// either to a direct value (equality, with null meaning IS NULL) or to an
// operator document using $ne/$gt/$gte/$lt/$lte/$in. Unknown fields and
// operators are client errors: a SQL store cannot pass them through the way
// a schemaless one would, and dropping them would return wrong result sets.
func buildWhere(where map[string]any, fields map[string]string) ([]condition, error) {
	if len(where) == 0 {
		return nil, nil
	}
	conds := make([]condition, 0, len(where))
	for field, value := range where {
		col, ok := fields[field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q in where", apperrors.ErrMalformedQuery, field)
		}
		switch v := value.(type) {
		case map[string]any:
			for op, arg := range v {
				cond, err := operatorCondition(col, op, arg)
				if err != nil {
					return nil, err
				}
				conds = append(conds, cond)
			}
		case nil:
			conds = append(conds, condition{expr: col + " IS NULL"})
		default:
			conds = append(conds, condition{expr: col + " = ?", args: []any{v}})
		}
	}
	return conds, nil
}

func operatorCondition(col, op string, arg any) (condition, error) {
	switch op {
	case "$ne":
		if arg == nil {
			return condition{expr: col + " IS NOT NULL"}, nil
		}
		return condition{expr: col + " <> ?", args: []any{arg}}, nil
	case "$gt":
		return condition{expr: col + " > ?", args: []any{arg}}, nil
	case "$gte":
		return condition{expr: col + " >= ?", args: []any{arg}}, nil
	case "$lt":
		return condition{expr: col + " < ?", args: []any{arg}}, nil
	case "$lte":
		return condition{expr: col + " <= ?", args: []any{arg}}, nil
	case "$in":
		list, ok := arg.([]any)
		if !ok {
			return condition{}, fmt.Errorf("%w: $in requires an array", apperrors.ErrMalformedQuery)
		}
		return condition{expr: col + " IN ?", args: []any{list}}, nil
	default:
		return condition{}, fmt.Errorf("%w: unsupported operator %q", apperrors.ErrMalformedQuery, op)
	}
}

// buildOrder translates a sort document ({field: 1|-1|"asc"|"desc"}) into
// ORDER BY terms.
func buildOrder(sort map[string]any, fields map[string]string) ([]string, error) {
	if len(sort) == 0 {
		return nil, nil
	}
	terms := make([]string, 0, len(sort))
	for field, dir := range sort {
		col, ok := fields[field]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q in sort", apperrors.ErrMalformedQuery, field)
		}
		switch d := dir.(type) {
		case float64:
			if d < 0 {
				col += " DESC"
			}
		case string:
			if d == "desc" || d == "descending" || d == "-1" {
				col += " DESC"
			}
		default:
			return nil, fmt.Errorf("%w: bad sort direction for %q", apperrors.ErrMalformedQuery, field)
		}
		terms = append(terms, col)
	}
	return terms, nil
}

// buildSelect splits a projection document into inclusion and omission
// column lists. Value 1 includes, 0 omits. When any inclusion is present
// the projection is inclusive and the id column rides along unless the
// caller excluded it with `"_id": 0`.
func buildSelect(sel map[string]any, fields map[string]string) (include, omit []string, err error) {
	for field, value := range sel {
		col, ok := fields[field]
		if !ok {
			return nil, nil, fmt.Errorf("%w: unknown field %q in select", apperrors.ErrMalformedQuery, field)
		}
		n, ok := value.(float64)
		if !ok || (n != 0 && n != 1) {
			return nil, nil, fmt.Errorf("%w: projection for %q must be 0 or 1", apperrors.ErrMalformedQuery, field)
		}
		if n == 1 {
			include = append(include, col)
		} else {
			omit = append(omit, col)
		}
	}
	if len(include) > 0 {
		idOmitted := false
		for _, col := range omit {
			if col == "id" {
				idOmitted = true
			}
		}
		if !idOmitted && !contains(include, "id") {
			include = append(include, "id")
		}
		omit = nil
	}
	return include, omit, nil
}

func contains(cols []string, col string) bool {
	for _, c := range cols {
		if c == col {
			return true
		}
	}
	return false
}

// applyOptions attaches a parsed query descriptor to a gorm statement.
func applyOptions(tx *gorm.DB, opts *query.Options, fields map[string]string) (*gorm.DB, error) {
	if opts == nil {
		return tx, nil
	}
	conds, err := buildWhere(opts.Where, fields)
	if err != nil {
		return nil, err
	}
	for _, c := range conds {
		tx = tx.Where(c.expr, c.args...)
	}
	terms, err := buildOrder(opts.Sort, fields)
	if err != nil {
		return nil, err
	}
	for _, term := range terms {
		tx = tx.Order(term)
	}
	include, omit, err := buildSelect(opts.Select, fields)
	if err != nil {
		return nil, err
	}
	if len(include) > 0 {
		tx = tx.Select(include)
	} else if len(omit) > 0 {
		tx = tx.Omit(omit...)
	}
	if opts.Skip > 0 {
		tx = tx.Offset(opts.Skip)
	}
	if opts.Limit > 0 {
		tx = tx.Limit(opts.Limit)
	}
	return tx, nil
}

// applyFilter is applyOptions restricted to the where document, for counts.
func applyFilter(tx *gorm.DB, opts *query.Options, fields map[string]string) (*gorm.DB, error) {
	if opts == nil {
		return tx, nil
	}
	conds, err := buildWhere(opts.Where, fields)
	if err != nil {
		return nil, err
	}
	for _, c := range conds {
		tx = tx.Where(c.expr, c.args...)
	}
	return tx, nil
}
