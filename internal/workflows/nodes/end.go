package nodes

import (
	"context"

	"flowpro/internal/workflows"
)

// EndExecutor marks a terminal point and passes input through untouched
type EndExecutor struct{}

func (e *EndExecutor) Execute(ctx context.Context, node workflows.Node, input, variables map[string]interface{}) (map[string]interface{}, error) {
	return input, nil
}
