package nodes

import (
	"context"
	"time"

	"flowpro/internal/workflows"
	"flowpro/pkg/errors"
)

// DelayExecutor suspends the calling traversal for the configured duration.
// The wait holds no locks, so concurrent executions are unaffected.
type DelayExecutor struct{}

func (e *DelayExecutor) Execute(ctx context.Context, node workflows.Node, input, variables map[string]interface{}) (map[string]interface{}, error) {
	decoded, err := node.DecodeConfig()
	if err != nil {
		return nil, err
	}
	cfg := decoded.(*workflows.DelayConfig)

	duration, err := cfg.Wait()
	if err != nil {
		return nil, err
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
		return input, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), errors.ErrorTypeTimeout, errors.CodeTimeout,
			"delay interrupted")
	}
}
