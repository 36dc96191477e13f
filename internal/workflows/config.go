package workflows

import (
	"encoding/json"
	"strings"
	"time"

	"flowpro/internal/expressions"
	"flowpro/pkg/errors"
)

// ActionConfig configures an action node. ActionType keys the external
// action dispatcher; Parameters are passed through untouched.
type ActionConfig struct {
	ActionType string                 `json:"action_type"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// ConditionConfig configures a condition node
type ConditionConfig struct {
	Conditions      []expressions.Condition     `json:"conditions"`
	LogicalOperator expressions.LogicalOperator `json:"logical_operator,omitempty"`
}

// TransformConfig configures a transform node
type TransformConfig struct {
	Expression string `json:"expression"`
}

// DelayConfig configures a delay node
type DelayConfig struct {
	Duration float64 `json:"duration"`
	Unit     string  `json:"unit"`
}

// APIConfig configures an outbound HTTP call node
type APIConfig struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    interface{}       `json:"body,omitempty"`
	Timeout int               `json:"timeout,omitempty"` // seconds
}

// Fixed unit multipliers, in milliseconds
const (
	millisPerSecond = 1000
	millisPerMinute = 60 * millisPerSecond
	millisPerHour   = 60 * millisPerMinute
	millisPerDay    = 24 * millisPerHour
)

// Wait converts the configured duration and unit to a time.Duration
func (c *DelayConfig) Wait() (time.Duration, error) {
	var multiplier float64
	switch strings.ToLower(c.Unit) {
	case "seconds":
		multiplier = millisPerSecond
	case "minutes":
		multiplier = millisPerMinute
	case "hours":
		multiplier = millisPerHour
	case "days":
		multiplier = millisPerDay
	default:
		return 0, errors.Newf(errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
			"invalid delay unit: %q", c.Unit)
	}
	if c.Duration < 0 {
		return 0, errors.New(errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
			"delay duration cannot be negative")
	}
	return time.Duration(c.Duration*multiplier) * time.Millisecond, nil
}

// DecodeConfig decodes the node's raw config into its typed variant. The
// switch is exhaustive over NodeType so adding a node type is a
// compile-surfaced change; trigger and end nodes carry no config.
func (n *Node) DecodeConfig() (interface{}, error) {
	switch n.Type {
	case NodeTypeTrigger, NodeTypeEnd:
		return nil, nil
	case NodeTypeAction:
		cfg := &ActionConfig{}
		if err := decodeInto(n, cfg); err != nil {
			return nil, err
		}
		if cfg.ActionType == "" {
			return nil, configError(n, "action_type is required")
		}
		return cfg, nil
	case NodeTypeCondition:
		cfg := &ConditionConfig{}
		if err := decodeInto(n, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	case NodeTypeTransform:
		cfg := &TransformConfig{}
		if err := decodeInto(n, cfg); err != nil {
			return nil, err
		}
		if cfg.Expression == "" {
			return nil, configError(n, "expression is required")
		}
		return cfg, nil
	case NodeTypeDelay:
		cfg := &DelayConfig{}
		if err := decodeInto(n, cfg); err != nil {
			return nil, err
		}
		if _, err := cfg.Wait(); err != nil {
			return nil, err
		}
		return cfg, nil
	case NodeTypeAPI:
		cfg := &APIConfig{}
		if err := decodeInto(n, cfg); err != nil {
			return nil, err
		}
		if cfg.URL == "" {
			return nil, configError(n, "url is required")
		}
		if cfg.Method == "" {
			cfg.Method = "GET"
		}
		cfg.Method = strings.ToUpper(cfg.Method)
		return cfg, nil
	default:
		return nil, errors.Newf(errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
			"unknown node type: %s", n.Type)
	}
}

func decodeInto(n *Node, target interface{}) error {
	if len(n.Config) == 0 {
		return nil
	}
	if err := json.Unmarshal(n.Config, target); err != nil {
		return errors.Wrapf(err, errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
			"invalid config for node %s", n.ID).WithContext("node_id", n.ID)
	}
	return nil
}

func configError(n *Node, message string) *errors.AppError {
	return errors.New(errors.ErrorTypeValidation, errors.CodeNodeConfiguration, message).
		WithContext("node_id", n.ID).
		WithContext("node_type", string(n.Type))
}
