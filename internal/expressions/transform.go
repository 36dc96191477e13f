package expressions

import (
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"flowpro/pkg/errors"
)

// TransformEvaluator evaluates restricted transform expressions against a
// node's input record. Programs are compiled once per expression string and
// run in a sandboxed environment with no host capabilities: the grammar
// covers field access, arithmetic/string operators and literals only.
type TransformEvaluator struct {
	cache map[string]*vm.Program
	mu    sync.RWMutex
}

// NewTransformEvaluator creates an evaluator with an initialized cache
func NewTransformEvaluator() *TransformEvaluator {
	return &TransformEvaluator{
		cache: make(map[string]*vm.Program),
	}
}

// Evaluate compiles the expression if needed and runs it against the input
func (e *TransformEvaluator) Evaluate(expression string, input map[string]interface{}) (interface{}, error) {
	if expression == "" {
		return nil, errors.New(errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
			"transform expression is required")
	}

	program, err := e.program(expression)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeExecution, errors.CodeExpressionFailed,
			"failed to compile expression %q", expression)
	}

	if input == nil {
		input = map[string]interface{}{}
	}

	result, err := expr.Run(program, input)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeExecution, errors.CodeExpressionFailed,
			"failed to evaluate expression %q", expression)
	}
	return result, nil
}

func (e *TransformEvaluator) program(expression string) (*vm.Program, error) {
	e.mu.RLock()
	program, ok := e.cache[expression]
	e.mu.RUnlock()
	if ok {
		return program, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if program, ok = e.cache[expression]; ok {
		return program, nil
	}

	program, err := expr.Compile(expression,
		expr.Env(map[string]interface{}{}),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, err
	}
	e.cache[expression] = program
	return program, nil
}
