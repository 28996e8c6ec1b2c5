package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clipstream/backend/internal/auth"
	"github.com/clipstream/backend/internal/logging"
	"github.com/clipstream/backend/internal/relations"
	"github.com/clipstream/backend/internal/repositories"
)

// apiResponse is the uniform success envelope for every endpoint.
type apiResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// apiErrorResponse is the uniform failure envelope. Internals are never
// serialized into it.
type apiErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respondData(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeJSON(ctx, w, status, apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondFailure(ctx context.Context, w http.ResponseWriter, status int, message string, details ...string) {
	if details == nil {
		details = []string{}
	}
	writeJSON(ctx, w, status, apiErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     details,
	})
}

// respondError maps a downstream error to its boundary status code. The
// fallback message is used for 500s so internals never leak to clients.
func respondError(ctx context.Context, w http.ResponseWriter, err error, fallback string) {
	status := errorStatus(err)
	message := fallback

	switch status {
	case http.StatusNotFound:
		message = "resource not found"
	case http.StatusConflict:
		message = "resource already exists"
	case http.StatusUnauthorized:
		message = "invalid credentials"
	case http.StatusBadRequest:
		if errors.Is(err, auth.ErrPasswordMismatch) {
			message = "new password does not match its confirmation"
		} else if errors.Is(err, relations.ErrSelfSubscription) {
			message = "cannot subscribe to your own channel"
		}
	default:
		logging.FromContext(ctx).Error("request failed", "error", err)
	}

	respondFailure(ctx, w, status, message)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repositories.ErrConflict):
		return http.StatusConflict
	case auth.IsUnauthorized(err):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrPasswordMismatch), errors.Is(err, relations.ErrSelfSubscription):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", status, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("request failed", "status", status)
	case status >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", status)
	}
}
