package workflows

import "fmt"

const (
	validationMissingTrigger  = "missing_trigger"
	validationCycleDetected   = "cycle_detected"
	validationUnreachableNode = "unreachable_node"

	severityCritical = "critical"
)

// Validate performs static analysis over a workflow definition: trigger
// presence, dangling-node detection and cycle detection. It is pure and
// side-effect free so editors can call it independently of execution.
func Validate(def *WorkflowDefinition) ValidationResult {
	result := ValidationResult{
		Errors:   []ValidationError{},
		Warnings: []ValidationWarning{},
	}

	if len(def.GetTriggerNodes()) == 0 {
		result.Errors = append(result.Errors, ValidationError{
			Type:     validationMissingTrigger,
			Message:  "workflow has no trigger node and cannot be started",
			Severity: severityCritical,
		})
	}

	result.Warnings = append(result.Warnings, danglingNodeWarnings(def)...)

	if hasCycle(def) {
		result.Errors = append(result.Errors, ValidationError{
			Type:     validationCycleDetected,
			Message:  "workflow graph contains a cycle",
			Severity: severityCritical,
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// danglingNodeWarnings flags every non-trigger node that no edge references
func danglingNodeWarnings(def *WorkflowDefinition) []ValidationWarning {
	referenced := make(map[string]bool)
	for _, edge := range def.Edges {
		referenced[edge.Source] = true
		referenced[edge.Target] = true
	}

	var warnings []ValidationWarning
	for _, node := range def.Nodes {
		if node.Type == NodeTypeTrigger {
			continue
		}
		if !referenced[node.ID] {
			warnings = append(warnings, ValidationWarning{
				NodeID:     node.ID,
				Type:       validationUnreachableNode,
				Message:    fmt.Sprintf("node %s is not connected to any edge", node.ID),
				Suggestion: "connect the node or remove it from the workflow",
			})
		}
	}
	return warnings
}

// hasCycle runs a DFS with an explicit recursion stack over every node, so
// cycles are found whether or not they are reachable from a trigger.
func hasCycle(def *WorkflowDefinition) bool {
	graph := make(map[string][]string)
	for _, edge := range def.Edges {
		graph[edge.Source] = append(graph[edge.Source], edge.Target)
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var visit func(string) bool
	visit = func(nodeID string) bool {
		visited[nodeID] = true
		recStack[nodeID] = true

		for _, neighbor := range graph[nodeID] {
			if !visited[neighbor] {
				if visit(neighbor) {
					return true
				}
			} else if recStack[neighbor] {
				return true
			}
		}

		recStack[nodeID] = false
		return false
	}

	for _, node := range def.Nodes {
		if !visited[node.ID] {
			if visit(node.ID) {
				return true
			}
		}
	}
	return false
}
