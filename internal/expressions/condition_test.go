package expressions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateCondition(t *testing.T) {
	input := map[string]interface{}{
		"status": "active",
		"count":  float64(42),
		"user": map[string]interface{}{
			"email": "jane@example.com",
			"tags":  []interface{}{},
		},
	}
	variables := map[string]interface{}{
		"threshold": 10,
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals string", Condition{Variable: "status", Operator: OperatorEquals, Value: "active"}, true},
		{"equals mismatch", Condition{Variable: "status", Operator: OperatorEquals, Value: "inactive"}, false},
		{"equals numeric coercion", Condition{Variable: "count", Operator: OperatorEquals, Value: "42"}, true},
		{"not equals", Condition{Variable: "status", Operator: OperatorNotEquals, Value: "inactive"}, true},
		{"greater than", Condition{Variable: "count", Operator: OperatorGreaterThan, Value: 40}, true},
		{"greater than false", Condition{Variable: "count", Operator: OperatorGreaterThan, Value: 42}, false},
		{"less than", Condition{Variable: "count", Operator: OperatorLessThan, Value: 100}, true},
		{"less than against variable", Condition{Variable: "threshold", Operator: OperatorLessThan, Value: 11}, true},
		{"contains", Condition{Variable: "user.email", Operator: OperatorContains, Value: "@example"}, true},
		{"contains false", Condition{Variable: "user.email", Operator: OperatorContains, Value: "@other"}, false},
		{"regex", Condition{Variable: "user.email", Operator: OperatorRegex, Value: `^[^@]+@example\.com$`}, true},
		{"regex no match", Condition{Variable: "user.email", Operator: OperatorRegex, Value: `^admin@`}, false},
		{"is_empty on empty collection", Condition{Variable: "user.tags", Operator: OperatorIsEmpty}, true},
		{"is_empty on missing variable", Condition{Variable: "missing", Operator: OperatorIsEmpty}, true},
		{"is_empty on value", Condition{Variable: "status", Operator: OperatorIsEmpty}, false},
		{"is_not_empty", Condition{Variable: "status", Operator: OperatorIsNotEmpty}, true},
		{"is_not_empty on missing variable", Condition{Variable: "missing", Operator: OperatorIsNotEmpty}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EvaluateCondition(tt.cond, input, variables)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateConditionErrors(t *testing.T) {
	input := map[string]interface{}{"name": "jane"}

	t.Run("non-numeric comparison", func(t *testing.T) {
		_, err := EvaluateCondition(Condition{Variable: "name", Operator: OperatorGreaterThan, Value: 5}, input, nil)
		assert.Error(t, err)
	})

	t.Run("invalid regex pattern", func(t *testing.T) {
		_, err := EvaluateCondition(Condition{Variable: "name", Operator: OperatorRegex, Value: "("}, input, nil)
		assert.Error(t, err)
	})

	t.Run("unknown operator", func(t *testing.T) {
		_, err := EvaluateCondition(Condition{Variable: "name", Operator: "like", Value: "j"}, input, nil)
		assert.Error(t, err)
	})
}

func TestEvaluateConditions(t *testing.T) {
	input := map[string]interface{}{"a": 1, "b": 2}

	holds := Condition{Variable: "a", Operator: OperatorEquals, Value: 1}
	fails := Condition{Variable: "b", Operator: OperatorEquals, Value: 99}

	t.Run("AND requires all", func(t *testing.T) {
		got, err := EvaluateConditions([]Condition{holds, fails}, LogicalAnd, input, nil)
		require.NoError(t, err)
		assert.False(t, got)

		got, err = EvaluateConditions([]Condition{holds, holds}, LogicalAnd, input, nil)
		require.NoError(t, err)
		assert.True(t, got)
	})

	t.Run("OR requires any", func(t *testing.T) {
		got, err := EvaluateConditions([]Condition{fails, holds}, LogicalOr, input, nil)
		require.NoError(t, err)
		assert.True(t, got)

		got, err = EvaluateConditions([]Condition{fails, fails}, LogicalOr, input, nil)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("empty list", func(t *testing.T) {
		got, err := EvaluateConditions(nil, LogicalAnd, input, nil)
		require.NoError(t, err)
		assert.True(t, got)

		got, err = EvaluateConditions(nil, LogicalOr, input, nil)
		require.NoError(t, err)
		assert.False(t, got)
	})

	t.Run("defaults to AND", func(t *testing.T) {
		got, err := EvaluateConditions([]Condition{holds, fails}, "", input, nil)
		require.NoError(t, err)
		assert.False(t, got)
	})
}
