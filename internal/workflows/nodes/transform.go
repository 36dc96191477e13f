package nodes

import (
	"context"

	"flowpro/internal/expressions"
	"flowpro/internal/workflows"
)

// TransformExecutor evaluates the configured expression against the input
// record through the sandboxed evaluator.
type TransformExecutor struct {
	evaluator *expressions.TransformEvaluator
}

func (e *TransformExecutor) Execute(ctx context.Context, node workflows.Node, input, variables map[string]interface{}) (map[string]interface{}, error) {
	decoded, err := node.DecodeConfig()
	if err != nil {
		return nil, err
	}
	cfg := decoded.(*workflows.TransformConfig)

	value, err := e.evaluator.Evaluate(cfg.Expression, input)
	if err != nil {
		return nil, err
	}

	// Scalar results are wrapped so downstream nodes always see a record
	if record, ok := value.(map[string]interface{}); ok {
		return record, nil
	}
	return map[string]interface{}{"result": value}, nil
}
