package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"taskboard/internal/apperrors"
)

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name        string
		where       map[string]any
		expected    []condition
		expectedErr error
	}{
		{
			name:     "equality",
			where:    map[string]any{"completed": true},
			expected: []condition{{expr: "completed = ?", args: []any{true}}},
		},
		{
			name:     "null means IS NULL",
			where:    map[string]any{"assignedUser": nil},
			expected: []condition{{expr: "assigned_user IS NULL"}},
		},
		{
			name:     "ne null means IS NOT NULL",
			where:    map[string]any{"assignedUser": map[string]any{"$ne": nil}},
			expected: []condition{{expr: "assigned_user IS NOT NULL"}},
		},
		{
			name:     "comparison operator",
			where:    map[string]any{"deadline": map[string]any{"$lt": "2024-01-01"}},
			expected: []condition{{expr: "deadline < ?", args: []any{"2024-01-01"}}},
		},
		{
			name:     "in operator",
			where:    map[string]any{"name": map[string]any{"$in": []any{"a", "b"}}},
			expected: []condition{{expr: "name IN ?", args: []any{[]any{"a", "b"}}}},
		},
		{
			name:     "field name maps to column",
			where:    map[string]any{"_id": "x"},
			expected: []condition{{expr: "id = ?", args: []any{"x"}}},
		},
		{
			name:        "unknown field is a client error",
			where:       map[string]any{"pendingTasks": "x"},
			expectedErr: apperrors.ErrMalformedQuery,
		},
		{
			name:        "unknown operator is a client error",
			where:       map[string]any{"name": map[string]any{"$regex": "a"}},
			expectedErr: apperrors.ErrMalformedQuery,
		},
		{
			name:        "in without an array is a client error",
			where:       map[string]any{"name": map[string]any{"$in": "a"}},
			expectedErr: apperrors.ErrMalformedQuery,
		},
		{
			name:     "empty filter yields nothing",
			where:    nil,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conds, err := buildWhere(tt.where, taskFields)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, conds)
		})
	}
}

func TestBuildOrder(t *testing.T) {
	tests := []struct {
		name        string
		sort        map[string]any
		expected    []string
		expectedErr error
	}{
		{name: "ascending number", sort: map[string]any{"name": float64(1)}, expected: []string{"name"}},
		{name: "descending number", sort: map[string]any{"deadline": float64(-1)}, expected: []string{"deadline DESC"}},
		{name: "descending text", sort: map[string]any{"deadline": "desc"}, expected: []string{"deadline DESC"}},
		{name: "ascending text", sort: map[string]any{"name": "asc"}, expected: []string{"name"}},
		{name: "unknown field", sort: map[string]any{"nope": float64(1)}, expectedErr: apperrors.ErrMalformedQuery},
		{name: "bad direction type", sort: map[string]any{"name": true}, expectedErr: apperrors.ErrMalformedQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			terms, err := buildOrder(tt.sort, taskFields)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, terms)
		})
	}
}

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name            string
		sel             map[string]any
		expectedInclude []string
		expectedOmit    []string
		expectedErr     error
	}{
		{
			name:            "inclusion keeps id implicitly",
			sel:             map[string]any{"name": float64(1)},
			expectedInclude: []string{"name", "id"},
		},
		{
			name:         "exclusion omits listed columns",
			sel:          map[string]any{"description": float64(0)},
			expectedOmit: []string{"description"},
		},
		{
			name:            "id only projection",
			sel:             map[string]any{"_id": float64(1)},
			expectedInclude: []string{"id"},
		},
		{
			name:         "id exclusion",
			sel:          map[string]any{"_id": float64(0)},
			expectedOmit: []string{"id"},
		},
		{
			name:            "inclusion with id excluded drops id",
			sel:             map[string]any{"name": float64(1), "_id": float64(0)},
			expectedInclude: []string{"name"},
		},
		{
			name:        "unknown field",
			sel:         map[string]any{"nope": float64(1)},
			expectedErr: apperrors.ErrMalformedQuery,
		},
		{
			name:        "non binary value",
			sel:         map[string]any{"name": float64(2)},
			expectedErr: apperrors.ErrMalformedQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			include, omit, err := buildSelect(tt.sel, taskFields)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.ElementsMatch(t, tt.expectedInclude, include)
			assert.ElementsMatch(t, tt.expectedOmit, omit)
		})
	}
}
