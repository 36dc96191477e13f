package workflows

import (
	"context"
	"time"

	"flowpro/pkg/errors"
	"flowpro/pkg/logger"
	"flowpro/pkg/metrics"
)

// NodeExecutor executes nodes of a single type
type NodeExecutor interface {
	Execute(ctx context.Context, node Node, input, variables map[string]interface{}) (map[string]interface{}, error)
}

// NodeRegistry resolves the executor for a node type
type NodeRegistry interface {
	ExecutorFor(nodeType NodeType) (NodeExecutor, error)
}

// Engine runs workflow definitions and retains their execution records.
// Each call to Execute owns its record exclusively, so any number of runs
// of the same or different definitions may proceed concurrently.
type Engine struct {
	registry NodeRegistry
	store    *ExecutionStore
	logger   logger.Logger
	metrics  *metrics.Metrics
}

// NewEngine creates an engine. metrics may be nil.
func NewEngine(registry NodeRegistry, store *ExecutionStore, log logger.Logger, m *metrics.Metrics) *Engine {
	e := &Engine{
		registry: registry,
		store:    store,
		logger:   log,
		metrics:  m,
	}
	if m != nil {
		store.SetCountObserver(func(count int) {
			m.SetExecutionsRetained(float64(count))
		})
	}
	return e
}

// Validate runs static analysis over a definition without executing it
func (e *Engine) Validate(def *WorkflowDefinition) ValidationResult {
	return Validate(def)
}

// GetExecution returns a retained execution record by id
func (e *Engine) GetExecution(executionID string) (*WorkflowExecution, bool) {
	return e.store.Get(executionID)
}

// GetExecutionLogs returns the retained logs for an execution id
func (e *Engine) GetExecutionLogs(executionID string) []ExecutionLog {
	return e.store.Logs(executionID)
}

// frame is one pending unit of traversal work
type frame struct {
	nodeID string
	input  map[string]interface{}
}

// Execute runs the definition against the input and returns the complete
// execution record. It never returns an error: validation and node
// failures are encoded in the record's status and error fields.
func (e *Engine) Execute(ctx context.Context, def *WorkflowDefinition, input map[string]interface{}, triggeredBy string) *WorkflowExecution {
	execution := NewWorkflowExecution(def, input, triggeredBy)
	e.store.Put(execution)
	e.log(execution.ID, "info", "execution created", map[string]interface{}{
		"workflow_id":  def.ID,
		"triggered_by": triggeredBy,
	})

	if e.metrics != nil {
		e.metrics.ExecutionsActive.Inc()
	}
	start := time.Now()
	defer func() {
		e.store.Put(execution)
		e.store.ScheduleEviction(execution.ID)
		if e.metrics != nil {
			e.metrics.ExecutionsActive.Dec()
			e.metrics.RecordWorkflowExecution(def.ID, string(execution.Status), time.Since(start))
		}
	}()

	if result := Validate(def); !result.Valid {
		execution.MarkAsFailed(&ExecutionError{
			Code:      string(errors.CodeWorkflowInvalid),
			Message:   result.Errors[0].Message,
			Timestamp: time.Now(),
		})
		e.log(execution.ID, "error", "workflow validation failed", map[string]interface{}{
			"error": result.Errors[0].Message,
		})
		return execution
	}

	execution.Status = ExecutionStatusRunning
	e.store.Put(execution)

	triggers := def.GetTriggerNodes()
	if len(triggers) == 0 {
		// Unreachable after validation, handled anyway
		execution.MarkAsFailed(&ExecutionError{
			Code:      string(errors.CodeWorkflowInvalid),
			Message:   "no trigger nodes found",
			Timestamp: time.Now(),
		})
		return execution
	}

	e.traverse(ctx, def, execution, triggers, input)

	if execution.Status == ExecutionStatusRunning {
		execution.MarkAsCompleted()
		e.log(execution.ID, "info", "execution completed", map[string]interface{}{
			"nodes_executed": len(execution.NodeExecutions),
		})
	}
	return execution
}

// traverse walks the graph depth-first using an explicit worklist. A frame
// is pushed per outgoing edge, so a node reached through several satisfied
// paths runs once per path; successors are pushed in reverse edge order to
// keep pop order equal to definition order.
func (e *Engine) traverse(ctx context.Context, def *WorkflowDefinition, execution *WorkflowExecution, triggers []Node, input map[string]interface{}) {
	policy := def.ErrorHandlingPolicy()

	stack := make([]frame, 0, len(def.Nodes))
	for i := len(triggers) - 1; i >= 0; i-- {
		stack = append(stack, frame{nodeID: triggers[i].ID, input: input})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := def.GetNodeByID(f.nodeID)
		if node == nil {
			// Edges are validated against node ids before execution; a miss
			// here means the definition was mutated mid-run.
			execution.MarkAsFailed(&ExecutionError{
				Code:      string(errors.CodeWorkflowExecution),
				Message:   "edge references unknown node " + f.nodeID,
				Timestamp: time.Now(),
			})
			return
		}

		output, nodeErr := e.executeNode(ctx, execution, node, f.input)
		if nodeErr != nil {
			if policy == ErrorHandlingStop {
				execution.MarkAsFailed(newExecutionError(nodeErr, node.ID))
				e.log(execution.ID, "error", "execution failed", map[string]interface{}{
					"node_id": node.ID,
					"error":   nodeErr.Error(),
				})
				return
			}
			// continue policy: this branch ends, siblings keep going
			e.log(execution.ID, "warn", "node failed, continuing remaining branches", map[string]interface{}{
				"node_id": node.ID,
				"error":   nodeErr.Error(),
			})
			continue
		}

		if node.Type == NodeTypeCondition {
			matched, _ := output["result"].(bool)
			if edge := selectConditionEdge(def, node.ID, matched); edge != nil {
				// The selected target sees the condition node's input, not
				// the decision record.
				stack = append(stack, frame{nodeID: edge.Target, input: f.input})
			}
			continue
		}

		edges := def.EdgesFrom(node.ID)
		for i := len(edges) - 1; i >= 0; i-- {
			stack = append(stack, frame{nodeID: edges[i].Target, input: output})
		}
	}
}

// executeNode runs one node, appends its trace to the execution and records
// metrics. The returned output is the input for downstream frames.
func (e *Engine) executeNode(ctx context.Context, execution *WorkflowExecution, node *Node, input map[string]interface{}) (map[string]interface{}, error) {
	idx := len(execution.NodeExecutions)
	execution.NodeExecutions = append(execution.NodeExecutions, NodeExecution{
		NodeID:    node.ID,
		NodeName:  node.Label,
		NodeType:  node.Type,
		Status:    NodeStatusRunning,
		StartTime: time.Now(),
		Input:     input,
	})
	ne := &execution.NodeExecutions[idx]

	e.log(execution.ID, "info", "executing node", map[string]interface{}{
		"node_id":   node.ID,
		"node_type": string(node.Type),
	})

	finish := func(status NodeStatus) {
		now := time.Now()
		ne.Status = status
		ne.EndTime = &now
		durationMs := now.Sub(ne.StartTime).Milliseconds()
		ne.Duration = &durationMs
		if e.metrics != nil {
			e.metrics.RecordNodeExecution(string(node.Type), string(status), now.Sub(ne.StartTime))
		}
	}

	executor, err := e.registry.ExecutorFor(node.Type)
	if err != nil {
		ne.Error = newExecutionError(err, node.ID)
		finish(NodeStatusFailed)
		return nil, err
	}

	output, err := executor.Execute(ctx, *node, input, execution.Variables)
	if err != nil {
		ne.Error = newExecutionError(err, node.ID)
		ne.Logs = append(ne.Logs, ExecutionLog{
			Timestamp: time.Now(),
			Level:     "error",
			Message:   err.Error(),
		})
		finish(NodeStatusFailed)
		return nil, err
	}

	ne.Output = output
	if node.Type == NodeTypeEnd {
		ne.Logs = append(ne.Logs, ExecutionLog{
			Timestamp: time.Now(),
			Level:     "info",
			Message:   "reached end node",
		})
		e.log(execution.ID, "info", "reached end node", map[string]interface{}{
			"node_id": node.ID,
		})
	}
	finish(NodeStatusCompleted)
	return output, nil
}

// selectConditionEdge picks the outgoing edge matching the evaluated branch
func selectConditionEdge(def *WorkflowDefinition, nodeID string, matched bool) *Edge {
	wanted := map[string]bool{"false": true, "error": true}
	if matched {
		wanted = map[string]bool{"true": true, "success": true}
	}

	edges := def.EdgesFrom(nodeID)
	for i := range edges {
		if wanted[edges[i].BranchKey()] {
			return &edges[i]
		}
	}
	return nil
}

// newExecutionError converts an executor error into the record form
func newExecutionError(err error, nodeID string) *ExecutionError {
	execErr := &ExecutionError{
		Code:      string(errors.CodeNodeExecution),
		Message:   err.Error(),
		Timestamp: time.Now(),
		NodeID:    nodeID,
	}
	if appErr := errors.GetAppError(err); appErr != nil {
		execErr.Code = string(appErr.Code)
		execErr.Recoverable = appErr.Recoverable
		execErr.Stack = appErr.StackTrace
	}
	return execErr
}

func (e *Engine) log(executionID, level, message string, data map[string]interface{}) {
	e.store.AppendLog(executionID, ExecutionLog{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Data:      data,
	})
	args := []any{"execution_id", executionID}
	for k, v := range data {
		args = append(args, k, v)
	}
	switch level {
	case "error":
		e.logger.Error(message, args...)
	case "warn":
		e.logger.Warn(message, args...)
	default:
		e.logger.Debug(message, args...)
	}
}
