package nodes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"flowpro/internal/workflows"
	"flowpro/pkg/errors"
)

// defaultAPITimeout is the request timeout in seconds when the node config
// does not set one
const defaultAPITimeout = 30

// maxResponseBytes caps how much of a response body is read into the output
const maxResponseBytes = 10 << 20

// APIExecutor issues an outbound HTTP request described by the node config
type APIExecutor struct {
	client *http.Client
}

func (e *APIExecutor) Execute(ctx context.Context, node workflows.Node, input, variables map[string]interface{}) (map[string]interface{}, error) {
	decoded, err := node.DecodeConfig()
	if err != nil {
		return nil, err
	}
	cfg := decoded.(*workflows.APIConfig)

	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = defaultAPITimeout * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if cfg.Body != nil && hasRequestBody(cfg.Method) {
		encoded, err := json.Marshal(cfg.Body)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
				"invalid request body for node %s", node.ID)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(reqCtx, cfg.Method, cfg.URL, body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeValidation, errors.CodeNodeConfiguration,
			"invalid request for node %s", node.ID)
	}
	for key, value := range cfg.Headers {
		req.Header.Set(key, value)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := e.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, errors.Wrapf(err, errors.ErrorTypeTimeout, errors.CodeTimeout,
				"request to %s timed out after %s", cfg.URL, timeout)
		}
		return nil, errors.Wrapf(err, errors.ErrorTypeNetwork, errors.CodeExternalService,
			"request to %s failed", cfg.URL)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrorTypeNetwork, errors.CodeExternalService,
			"failed to read response from %s", cfg.URL)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Newf(errors.ErrorTypeExternal, errors.CodeExternalService,
			"request to %s returned status %d", cfg.URL, resp.StatusCode).
			WithContext("status", resp.StatusCode).
			WithDetails(string(raw))
	}

	return map[string]interface{}{
		"status":  resp.StatusCode,
		"headers": flattenHeaders(resp.Header),
		"data":    parseResponseBody(raw),
	}, nil
}

func hasRequestBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

func flattenHeaders(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for key := range header {
		flat[key] = header.Get(key)
	}
	return flat
}

// parseResponseBody decodes JSON responses into structured data and falls
// back to the raw string for everything else
func parseResponseBody(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err == nil {
		return data
	}
	return string(raw)
}
