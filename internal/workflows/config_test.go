package workflows

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeConfig(t *testing.T) {
	t.Run("trigger and end carry no config", func(t *testing.T) {
		for _, nodeType := range []NodeType{NodeTypeTrigger, NodeTypeEnd} {
			node := &Node{ID: "n", Type: nodeType}
			cfg, err := node.DecodeConfig()
			require.NoError(t, err)
			assert.Nil(t, cfg)
		}
	})

	t.Run("action", func(t *testing.T) {
		node := &Node{ID: "n", Type: NodeTypeAction, Config: []byte(`{"action_type":"send_email","parameters":{"to":"jane@example.com"}}`)}
		decoded, err := node.DecodeConfig()
		require.NoError(t, err)
		cfg := decoded.(*ActionConfig)
		assert.Equal(t, "send_email", cfg.ActionType)
		assert.Equal(t, "jane@example.com", cfg.Parameters["to"])
	})

	t.Run("action requires action_type", func(t *testing.T) {
		node := &Node{ID: "n", Type: NodeTypeAction, Config: []byte(`{}`)}
		_, err := node.DecodeConfig()
		assert.Error(t, err)
	})

	t.Run("transform requires expression", func(t *testing.T) {
		node := &Node{ID: "n", Type: NodeTypeTransform, Config: []byte(`{}`)}
		_, err := node.DecodeConfig()
		assert.Error(t, err)
	})

	t.Run("api defaults method to GET", func(t *testing.T) {
		node := &Node{ID: "n", Type: NodeTypeAPI, Config: []byte(`{"url":"https://example.com"}`)}
		decoded, err := node.DecodeConfig()
		require.NoError(t, err)
		cfg := decoded.(*APIConfig)
		assert.Equal(t, "GET", cfg.Method)
	})

	t.Run("api uppercases method", func(t *testing.T) {
		node := &Node{ID: "n", Type: NodeTypeAPI, Config: []byte(`{"url":"https://example.com","method":"post"}`)}
		decoded, err := node.DecodeConfig()
		require.NoError(t, err)
		assert.Equal(t, "POST", decoded.(*APIConfig).Method)
	})

	t.Run("api requires url", func(t *testing.T) {
		node := &Node{ID: "n", Type: NodeTypeAPI, Config: []byte(`{"method":"GET"}`)}
		_, err := node.DecodeConfig()
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		node := &Node{ID: "n", Type: NodeTypeAction, Config: []byte(`{`)}
		_, err := node.DecodeConfig()
		assert.Error(t, err)
	})
}

func TestDelayConfigWait(t *testing.T) {
	tests := []struct {
		name     string
		duration float64
		unit     string
		want     time.Duration
	}{
		{"seconds", 1, "seconds", time.Second},
		{"fractional seconds", 0.5, "seconds", 500 * time.Millisecond},
		{"minutes", 2, "minutes", 2 * time.Minute},
		{"hours", 1, "hours", time.Hour},
		{"days", 1, "days", 24 * time.Hour},
		{"unit is case insensitive", 1, "Seconds", time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &DelayConfig{Duration: tt.duration, Unit: tt.unit}
			got, err := cfg.Wait()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid unit", func(t *testing.T) {
		cfg := &DelayConfig{Duration: 1, Unit: "fortnights"}
		_, err := cfg.Wait()
		assert.Error(t, err)
	})

	t.Run("negative duration", func(t *testing.T) {
		cfg := &DelayConfig{Duration: -1, Unit: "seconds"}
		_, err := cfg.Wait()
		assert.Error(t, err)
	})
}
