package nodes

import (
	"context"

	"flowpro/internal/expressions"
	"flowpro/internal/workflows"
)

// ConditionExecutor evaluates the node's sub-conditions against the input
// and execution variables. The engine reads the boolean result to pick the
// branch; the executor itself never touches edges.
type ConditionExecutor struct{}

func (e *ConditionExecutor) Execute(ctx context.Context, node workflows.Node, input, variables map[string]interface{}) (map[string]interface{}, error) {
	decoded, err := node.DecodeConfig()
	if err != nil {
		return nil, err
	}
	cfg := decoded.(*workflows.ConditionConfig)

	matched, err := expressions.EvaluateConditions(cfg.Conditions, cfg.LogicalOperator, input, variables)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"result": matched}, nil
}
