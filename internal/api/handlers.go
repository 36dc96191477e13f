package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"flowpro/internal/workflows"
	"flowpro/pkg/errors"
	"flowpro/pkg/logger"
)

// Handler carries the dependencies of the api endpoints
type Handler struct {
	engine   *workflows.Engine
	logger   logger.Logger
	validate *validator.Validate
}

// NewHandler creates a handler bound to the given engine
func NewHandler(engine *workflows.Engine, log logger.Logger) *Handler {
	return &Handler{
		engine:   engine,
		logger:   log,
		validate: validator.New(),
	}
}

// ExecuteRequest is the body of POST /api/v1/executions
type ExecuteRequest struct {
	Workflow    *workflows.WorkflowDefinition `json:"workflow" validate:"required"`
	Input       map[string]interface{}        `json:"input"`
	TriggeredBy string                        `json:"triggered_by"`
}

// ValidateRequest is the body of POST /api/v1/workflows/validate
type ValidateRequest struct {
	Workflow *workflows.WorkflowDefinition `json:"workflow" validate:"required"`
}

func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	triggeredBy := req.TriggeredBy
	if triggeredBy == "" {
		triggeredBy = "api"
	}

	execution := h.engine.Execute(r.Context(), req.Workflow, req.Input, triggeredBy)
	respondJSON(w, h.logger, http.StatusCreated, execution)
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := h.decode(r, &req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	result := h.engine.Validate(req.Workflow)
	respondJSON(w, h.logger, http.StatusOK, result)
}

func (h *Handler) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	executionID := chi.URLParam(r, "executionID")

	execution, ok := h.engine.GetExecution(executionID)
	if !ok {
		respondError(w, h.logger, errors.NewNotFoundError("execution "+executionID))
		return
	}
	respondJSON(w, h.logger, http.StatusOK, execution)
}

func (h *Handler) handleGetExecutionLogs(w http.ResponseWriter, r *http.Request) {
	executionID := chi.URLParam(r, "executionID")

	logs := h.engine.GetExecutionLogs(executionID)
	if logs == nil {
		respondError(w, h.logger, errors.NewNotFoundError("execution "+executionID))
		return
	}
	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"execution_id": executionID,
		"logs":         logs,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}

// decode unmarshals and validates a request body
func (h *Handler) decode(r *http.Request, target interface{}) error {
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, errors.CodeInvalidFormat,
			"invalid request body")
	}
	if err := h.validate.Struct(target); err != nil {
		return errors.Wrap(err, errors.ErrorTypeValidation, errors.CodeMissingField,
			"request validation failed").WithDetails(err.Error())
	}
	return nil
}
