package nodes

import (
	"context"

	"flowpro/internal/workflows"
)

// TriggerExecutor is the entry marker of a run. It passes the initial input
// through untouched.
type TriggerExecutor struct{}

func (e *TriggerExecutor) Execute(ctx context.Context, node workflows.Node, input, variables map[string]interface{}) (map[string]interface{}, error) {
	return input, nil
}
