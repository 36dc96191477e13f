package expressions

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"flowpro/pkg/errors"
)

// Operator identifies a condition comparison operator
type Operator string

const (
	OperatorEquals      Operator = "equals"
	OperatorNotEquals   Operator = "not_equals"
	OperatorGreaterThan Operator = "greater_than"
	OperatorLessThan    Operator = "less_than"
	OperatorContains    Operator = "contains"
	OperatorRegex       Operator = "regex"
	OperatorIsEmpty     Operator = "is_empty"
	OperatorIsNotEmpty  Operator = "is_not_empty"
)

// LogicalOperator combines the results of several conditions
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "AND"
	LogicalOr  LogicalOperator = "OR"
)

// Condition is a single comparison against a resolved variable
type Condition struct {
	Variable string      `json:"variable" validate:"required"`
	Operator Operator    `json:"operator" validate:"required"`
	Value    interface{} `json:"value"`
}

// EvaluateCondition resolves the condition's variable against the node input
// and execution variables and applies the operator.
func EvaluateCondition(cond Condition, input, variables map[string]interface{}) (bool, error) {
	actual, found := Resolve(cond.Variable, input, variables)

	switch cond.Operator {
	case OperatorEquals:
		return looseEquals(actual, cond.Value), nil
	case OperatorNotEquals:
		return !looseEquals(actual, cond.Value), nil
	case OperatorGreaterThan, OperatorLessThan:
		left, okL := toFloat(actual)
		right, okR := toFloat(cond.Value)
		if !okL || !okR {
			return false, errors.Newf(errors.ErrorTypeExecution, errors.CodeExpressionFailed,
				"operator %s requires numeric operands, got %v and %v", cond.Operator, actual, cond.Value)
		}
		if cond.Operator == OperatorGreaterThan {
			return left > right, nil
		}
		return left < right, nil
	case OperatorContains:
		return strings.Contains(toString(actual), toString(cond.Value)), nil
	case OperatorRegex:
		re, err := regexp.Compile(toString(cond.Value))
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrorTypeExecution, errors.CodeExpressionFailed,
				"invalid pattern %q", toString(cond.Value))
		}
		return re.MatchString(toString(actual)), nil
	case OperatorIsEmpty:
		return !found || isEmpty(actual), nil
	case OperatorIsNotEmpty:
		return found && !isEmpty(actual), nil
	default:
		return false, errors.Newf(errors.ErrorTypeExecution, errors.CodeExpressionFailed,
			"unknown operator: %s", cond.Operator)
	}
}

// EvaluateConditions combines the conditions under the given logical operator.
// AND requires every condition to hold; OR requires at least one. An empty
// condition list evaluates to true under AND and false under OR.
func EvaluateConditions(conds []Condition, op LogicalOperator, input, variables map[string]interface{}) (bool, error) {
	if op == "" {
		op = LogicalAnd
	}

	for _, cond := range conds {
		ok, err := EvaluateCondition(cond, input, variables)
		if err != nil {
			return false, err
		}
		switch op {
		case LogicalAnd:
			if !ok {
				return false, nil
			}
		case LogicalOr:
			if ok {
				return true, nil
			}
		default:
			return false, errors.Newf(errors.ErrorTypeExecution, errors.CodeExpressionFailed,
				"unknown logical operator: %s", op)
		}
	}

	return op == LogicalAnd, nil
}

// looseEquals compares numerically when both sides coerce to numbers,
// otherwise by stringified value.
func looseEquals(a, b interface{}) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	return toString(a) == toString(b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// isEmpty treats nil, empty strings and zero-length collections as empty
func isEmpty(v interface{}) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case map[string]interface{}:
		return len(t) == 0
	case []interface{}:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
