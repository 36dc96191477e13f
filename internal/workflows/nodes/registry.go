package nodes

import (
	"net/http"
	"time"

	"flowpro/internal/expressions"
	"flowpro/internal/workflows"
	"flowpro/pkg/errors"
	"flowpro/pkg/logger"
)

// Registry maps node types to their executors. It is built once at startup
// and read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	executors map[workflows.NodeType]workflows.NodeExecutor
}

// Options configures the executors a registry hands out. Zero-value fields
// fall back to in-process defaults.
type Options struct {
	Dispatcher ActionDispatcher
	HTTPClient *http.Client
	Logger     logger.Logger
}

// NewRegistry builds a registry with one executor per node type
func NewRegistry(opts Options) *Registry {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	dispatcher := opts.Dispatcher
	if dispatcher == nil {
		dispatcher = NewLoggingDispatcher(log)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultAPITimeout * time.Second}
	}

	evaluator := expressions.NewTransformEvaluator()

	return &Registry{
		executors: map[workflows.NodeType]workflows.NodeExecutor{
			workflows.NodeTypeTrigger:   &TriggerExecutor{},
			workflows.NodeTypeAction:    &ActionExecutor{dispatcher: dispatcher, logger: log},
			workflows.NodeTypeCondition: &ConditionExecutor{},
			workflows.NodeTypeTransform: &TransformExecutor{evaluator: evaluator},
			workflows.NodeTypeDelay:     &DelayExecutor{},
			workflows.NodeTypeAPI:       &APIExecutor{client: client},
			workflows.NodeTypeEnd:       &EndExecutor{},
		},
	}
}

// ExecutorFor returns the executor for a node type
func (r *Registry) ExecutorFor(nodeType workflows.NodeType) (workflows.NodeExecutor, error) {
	executor, ok := r.executors[nodeType]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
			"no executor registered for node type %q", nodeType)
	}
	return executor, nil
}
