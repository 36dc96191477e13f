package nodes

import (
	"context"
	"time"

	"flowpro/internal/workflows"
	"flowpro/pkg/errors"
	"flowpro/pkg/logger"
)

// ActionDispatcher is the external system that performs business actions.
// The engine only assumes a call/response contract with failure signaling.
type ActionDispatcher interface {
	Dispatch(ctx context.Context, actionType string, input map[string]interface{}) (map[string]interface{}, error)
}

// ActionExecutor delegates to the dispatcher keyed by the configured action
// type and wraps the result in a success envelope.
type ActionExecutor struct {
	dispatcher ActionDispatcher
	logger     logger.Logger
}

func (e *ActionExecutor) Execute(ctx context.Context, node workflows.Node, input, variables map[string]interface{}) (map[string]interface{}, error) {
	decoded, err := node.DecodeConfig()
	if err != nil {
		return nil, err
	}
	cfg := decoded.(*workflows.ActionConfig)

	// Static parameters ride along with the runtime input; on a key clash
	// the parameter wins.
	payload := make(map[string]interface{}, len(input)+len(cfg.Parameters))
	for k, v := range input {
		payload[k] = v
	}
	for k, v := range cfg.Parameters {
		payload[k] = v
	}

	result, err := e.dispatcher.Dispatch(ctx, cfg.ActionType, payload)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeExecution, errors.CodeActionFailed,
			"action %q failed", cfg.ActionType).WithContext("node_id", node.ID)
	}

	return map[string]interface{}{
		"success":     true,
		"action_type": cfg.ActionType,
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
		"input":       input,
		"output":      result,
	}, nil
}

// LoggingDispatcher is the default dispatcher wired when no external action
// system is configured. It records the call and echoes the payload back, so
// workflows remain runnable end to end in development.
type LoggingDispatcher struct {
	logger logger.Logger
}

// NewLoggingDispatcher creates a dispatcher that logs and echoes
func NewLoggingDispatcher(log logger.Logger) *LoggingDispatcher {
	return &LoggingDispatcher{logger: log}
}

func (d *LoggingDispatcher) Dispatch(ctx context.Context, actionType string, input map[string]interface{}) (map[string]interface{}, error) {
	d.logger.InfoContext(ctx, "dispatching action",
		"action_type", actionType,
		"payload_keys", len(input),
	)
	return input, nil
}
