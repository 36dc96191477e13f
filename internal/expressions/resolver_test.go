package expressions

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	input := map[string]interface{}{
		"status": "active",
		"user": map[string]interface{}{
			"profile": map[string]interface{}{
				"name": "jane",
			},
		},
	}
	variables := map[string]interface{}{
		"status":  "shadowed",
		"envName": "staging",
	}

	t.Run("top level key", func(t *testing.T) {
		got, found := Resolve("status", input, variables)
		assert.True(t, found)
		assert.Equal(t, "active", got)
	})

	t.Run("input shadows variables", func(t *testing.T) {
		got, _ := Resolve("status", input, variables)
		assert.NotEqual(t, "shadowed", got)
	})

	t.Run("falls back to variables", func(t *testing.T) {
		got, found := Resolve("envName", input, variables)
		assert.True(t, found)
		assert.Equal(t, "staging", got)
	})

	t.Run("nested path", func(t *testing.T) {
		got, found := Resolve("user.profile.name", input, variables)
		assert.True(t, found)
		assert.Equal(t, "jane", got)
	})

	t.Run("missing path", func(t *testing.T) {
		_, found := Resolve("user.profile.age", input, variables)
		assert.False(t, found)
	})

	t.Run("path through non-map", func(t *testing.T) {
		_, found := Resolve("status.inner", input, variables)
		assert.False(t, found)
	})
}
