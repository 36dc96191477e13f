package workflows

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExecutionStatus represents the status of a workflow execution
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// NodeStatus represents the status of a node execution
type NodeStatus string

const (
	NodeStatusRunning   NodeStatus = "running"
	NodeStatusCompleted NodeStatus = "completed"
	NodeStatusFailed    NodeStatus = "failed"
)

// NodeType represents the type of workflow node
type NodeType string

const (
	NodeTypeTrigger   NodeType = "trigger"
	NodeTypeAction    NodeType = "action"
	NodeTypeCondition NodeType = "condition"
	NodeTypeTransform NodeType = "transform"
	NodeTypeDelay     NodeType = "delay"
	NodeTypeAPI       NodeType = "api"
	NodeTypeEnd       NodeType = "end"
)

// ErrorHandling selects the failure policy for a workflow run
type ErrorHandling string

const (
	ErrorHandlingStop     ErrorHandling = "stop"
	ErrorHandlingContinue ErrorHandling = "continue"
)

// WorkflowDefinition is the static, versioned graph describing a pipeline.
// Definitions are read-only once handed to the engine and are safe to share
// across concurrent runs.
type WorkflowDefinition struct {
	ID       string           `json:"id" validate:"required"`
	Version  int              `json:"version"`
	Nodes    []Node           `json:"nodes" validate:"required,dive"`
	Edges    []Edge           `json:"edges" validate:"dive"`
	Settings WorkflowSettings `json:"settings"`
}

// WorkflowSettings holds workflow-level execution settings
type WorkflowSettings struct {
	ErrorHandling ErrorHandling `json:"error_handling" validate:"omitempty,oneof=stop continue"`
}

// Node is a single node in a workflow graph. Config carries the raw
// type-specific configuration and is decoded by DecodeConfig.
type Node struct {
	ID     string          `json:"id" validate:"required"`
	Type   NodeType        `json:"type" validate:"required,oneof=trigger action condition transform delay api end"`
	Label  string          `json:"label"`
	Config json.RawMessage `json:"config,omitempty"`
}

// Edge connects two nodes. Label or Condition.Type disambiguates the
// branches leaving a condition node.
type Edge struct {
	ID        string         `json:"id"`
	Source    string         `json:"source" validate:"required"`
	Target    string         `json:"target" validate:"required"`
	Label     string         `json:"label,omitempty"`
	Condition *EdgeCondition `json:"condition,omitempty"`
}

// EdgeCondition marks which branch of a condition node the edge serves
type EdgeCondition struct {
	Type string `json:"type"`
}

// BranchKey returns the label used for condition-branch matching
func (e *Edge) BranchKey() string {
	if e.Condition != nil && e.Condition.Type != "" {
		return e.Condition.Type
	}
	return e.Label
}

// WorkflowExecution is the full trace of one run of a definition. A record
// is owned exclusively by the run that created it; no two runs ever write
// to the same record.
type WorkflowExecution struct {
	ID              string                 `json:"id"`
	WorkflowID      string                 `json:"workflow_id"`
	WorkflowVersion int                    `json:"workflow_version"`
	Status          ExecutionStatus        `json:"status"`
	StartTime       time.Time              `json:"start_time"`
	EndTime         *time.Time             `json:"end_time,omitempty"`
	Duration        *int64                 `json:"duration,omitempty"` // milliseconds
	NodeExecutions  []NodeExecution        `json:"node_executions"`
	Variables       map[string]interface{} `json:"variables"`
	TriggeredBy     string                 `json:"triggered_by"`
	Error           *ExecutionError        `json:"error,omitempty"`
}

// NodeExecution is the trace of a single node within a run. Entries are
// appended in the order nodes are entered and never removed.
type NodeExecution struct {
	NodeID    string                 `json:"node_id"`
	NodeName  string                 `json:"node_name"`
	NodeType  NodeType               `json:"node_type"`
	Status    NodeStatus             `json:"status"`
	StartTime time.Time              `json:"start_time"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Duration  *int64                 `json:"duration,omitempty"` // milliseconds
	Input     map[string]interface{} `json:"input,omitempty"`
	Output    map[string]interface{} `json:"output,omitempty"`
	Error     *ExecutionError        `json:"error,omitempty"`
	Logs      []ExecutionLog         `json:"logs,omitempty"`
}

// ExecutionError describes a failure at node or workflow level
type ExecutionError struct {
	Code        string    `json:"code"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Recoverable bool      `json:"recoverable"`
	NodeID      string    `json:"node_id,omitempty"`
	Stack       string    `json:"stack,omitempty"`
}

// ExecutionLog is a single log entry attached to an execution
type ExecutionLog struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ValidationResult is the outcome of static analysis over a definition
type ValidationResult struct {
	Valid    bool                `json:"valid"`
	Errors   []ValidationError   `json:"errors"`
	Warnings []ValidationWarning `json:"warnings"`
}

// ValidationError blocks execution
type ValidationError struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ValidationWarning flags a suspicious definition without blocking it
type ValidationWarning struct {
	NodeID     string `json:"node_id"`
	Type       string `json:"type"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// GenerateID generates a new UUID for the model
func GenerateID() string {
	return uuid.New().String()
}

// NewWorkflowExecution creates a pending execution record for the given
// definition. Variables are seeded from a copy of the caller input so the
// run never aliases caller-owned state.
func NewWorkflowExecution(def *WorkflowDefinition, input map[string]interface{}, triggeredBy string) *WorkflowExecution {
	variables := make(map[string]interface{}, len(input))
	for k, v := range input {
		variables[k] = v
	}

	return &WorkflowExecution{
		ID:              GenerateID(),
		WorkflowID:      def.ID,
		WorkflowVersion: def.Version,
		Status:          ExecutionStatusPending,
		StartTime:       time.Now(),
		NodeExecutions:  []NodeExecution{},
		Variables:       variables,
		TriggeredBy:     triggeredBy,
	}
}

// MarkAsCompleted stamps the end time and duration
func (e *WorkflowExecution) MarkAsCompleted() {
	now := time.Now()
	e.Status = ExecutionStatusCompleted
	e.EndTime = &now
	durationMs := now.Sub(e.StartTime).Milliseconds()
	e.Duration = &durationMs
}

// MarkAsFailed stamps the end time and records the top-level error
func (e *WorkflowExecution) MarkAsFailed(execErr *ExecutionError) {
	now := time.Now()
	e.Status = ExecutionStatusFailed
	e.EndTime = &now
	e.Error = execErr
	durationMs := now.Sub(e.StartTime).Milliseconds()
	e.Duration = &durationMs
}

// IsCompleted returns true if the execution reached a final state
func (e *WorkflowExecution) IsCompleted() bool {
	return e.Status == ExecutionStatusCompleted || e.Status == ExecutionStatusFailed
}

// Clone returns a copy safe to hand outside the owning run. Node execution
// and variable containers are copied; the values inside them are shared.
func (e *WorkflowExecution) Clone() *WorkflowExecution {
	clone := *e
	clone.NodeExecutions = make([]NodeExecution, len(e.NodeExecutions))
	copy(clone.NodeExecutions, e.NodeExecutions)
	clone.Variables = make(map[string]interface{}, len(e.Variables))
	for k, v := range e.Variables {
		clone.Variables[k] = v
	}
	return &clone
}

// GetNodeByID returns a node by its ID
func (d *WorkflowDefinition) GetNodeByID(nodeID string) *Node {
	for i := range d.Nodes {
		if d.Nodes[i].ID == nodeID {
			return &d.Nodes[i]
		}
	}
	return nil
}

// GetTriggerNodes returns all trigger nodes in the definition
func (d *WorkflowDefinition) GetTriggerNodes() []Node {
	var triggers []Node
	for _, node := range d.Nodes {
		if node.Type == NodeTypeTrigger {
			triggers = append(triggers, node)
		}
	}
	return triggers
}

// EdgesFrom returns the outgoing edges of a node, in definition order
func (d *WorkflowDefinition) EdgesFrom(nodeID string) []Edge {
	var edges []Edge
	for _, edge := range d.Edges {
		if edge.Source == nodeID {
			edges = append(edges, edge)
		}
	}
	return edges
}

// ErrorHandlingPolicy returns the configured failure policy, defaulting to stop
func (d *WorkflowDefinition) ErrorHandlingPolicy() ErrorHandling {
	if d.Settings.ErrorHandling == ErrorHandlingContinue {
		return ErrorHandlingContinue
	}
	return ErrorHandlingStop
}
