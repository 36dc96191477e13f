package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flowpro/internal/config"
	"flowpro/internal/workflows"
	"flowpro/internal/workflows/nodes"
	"flowpro/pkg/logger"
)

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	log := logger.Discard()
	store := workflows.NewExecutionStore(cfg.Retention)
	t.Cleanup(store.Close)

	registry := nodes.NewRegistry(nodes.Options{Logger: log})
	engine := workflows.NewEngine(registry, store, log, nil)

	return NewRouter(cfg, NewHandler(engine, log), log, nil)
}

func linearWorkflowBody() []byte {
	return []byte(`{
		"workflow": {
			"id": "wf-1",
			"version": 1,
			"nodes": [
				{"id": "start", "type": "trigger"},
				{"id": "notify", "type": "action", "config": {"action_type": "send_email"}},
				{"id": "done", "type": "end"}
			],
			"edges": [
				{"id": "e1", "source": "start", "target": "notify"},
				{"id": "e2", "source": "notify", "target": "done"}
			]
		},
		"input": {"to": "jane@example.com"},
		"triggered_by": "handler-test"
	}`)
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestExecuteEndpoint(t *testing.T) {
	router := newTestRouter(t, config.Default())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/executions", linearWorkflowBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	var execution workflows.WorkflowExecution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &execution))
	assert.NotEmpty(t, execution.ID)
	assert.Equal(t, "wf-1", execution.WorkflowID)
	assert.Equal(t, workflows.ExecutionStatusCompleted, execution.Status)
	assert.Equal(t, "handler-test", execution.TriggeredBy)
	assert.Len(t, execution.NodeExecutions, 3)

	t.Run("execution is retrievable afterwards", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/executions/"+execution.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var fetched workflows.WorkflowExecution
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
		assert.Equal(t, execution.ID, fetched.ID)
	})

	t.Run("logs are retrievable afterwards", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/executions/"+execution.ID+"/logs", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			ExecutionID string                   `json:"execution_id"`
			Logs        []workflows.ExecutionLog `json:"logs"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, execution.ID, body.ExecutionID)
		assert.NotEmpty(t, body.Logs)
	})
}

func TestExecuteEndpointInvalidWorkflow(t *testing.T) {
	router := newTestRouter(t, config.Default())

	// No trigger node: the run is created but fails validation
	body := []byte(`{"workflow": {"id": "wf-bad", "nodes": [{"id": "done", "type": "end"}]}}`)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/executions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var execution workflows.WorkflowExecution
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &execution))
	assert.Equal(t, workflows.ExecutionStatusFailed, execution.Status)
	require.NotNil(t, execution.Error)
}

func TestExecuteEndpointBadRequests(t *testing.T) {
	router := newTestRouter(t, config.Default())

	t.Run("malformed json", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/executions", []byte(`{`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing workflow", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/executions", []byte(`{"input": {}}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown fields are rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/executions", []byte(`{"wrkflow": {}}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidateEndpoint(t *testing.T) {
	router := newTestRouter(t, config.Default())

	body := []byte(`{"workflow": {"id": "wf-bad", "nodes": [{"id": "done", "type": "end"}]}}`)
	rec := doRequest(t, router, http.MethodPost, "/api/v1/workflows/validate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result workflows.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, "missing_trigger", result.Errors[0].Type)
}

func TestGetExecutionNotFound(t *testing.T) {
	router := newTestRouter(t, config.Default())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/executions/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, router, http.MethodGet, "/api/v1/executions/unknown/logs", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, config.Default())

	rec := doRequest(t, router, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRateLimiting(t *testing.T) {
	cfg := config.Default()
	cfg.RateLimit = 1
	cfg.RateBurst = 1
	router := newTestRouter(t, cfg)

	first := doRequest(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	var limited bool
	for i := 0; i < 5; i++ {
		if doRequest(t, router, http.MethodGet, "/healthz", nil).Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	assert.True(t, limited, "burst exhaustion should trigger 429")

	// The bucket refills over time
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, doRequest(t, router, http.MethodGet, "/healthz", nil).Code)
}
