package api

import (
	"encoding/json"
	"net/http"

	"flowpro/pkg/errors"
	"flowpro/pkg/logger"
)

// errorResponse is the JSON shape of every error returned by the api
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, log logger.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, log logger.Logger, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		appErr = errors.InternalError("internal server error").WithCause(err)
	}

	respondJSON(w, log, appErr.HTTPStatus(), errorResponse{
		Error: errorBody{
			Type:    string(appErr.Type),
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}
