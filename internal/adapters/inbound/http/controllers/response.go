package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	apperrors "tonsettle/internal/shared_kernel/errors"
)

const headerUserID = "X-User-ID"

type errorResponse struct {
	Error errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAppError(w http.ResponseWriter, appErr *apperrors.AppError) {
	status := http.StatusInternalServerError
	switch appErr.Type {
	case apperrors.TypeValidation:
		status = http.StatusBadRequest
	case apperrors.TypeNotFound:
		status = http.StatusNotFound
	case apperrors.TypeConflict:
		status = http.StatusConflict
	case apperrors.TypeUnavailable:
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, errorResponse{
		Error: errorEnvelope{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// principalUserID reads the authenticated user identity the edge proxy
// injects. Every account-scoped route requires it.
func principalUserID(r *http.Request) (string, *apperrors.AppError) {
	userID := strings.TrimSpace(r.Header.Get(headerUserID))
	if userID == "" {
		return "", apperrors.NewValidation(
			"user_id_required",
			"the "+headerUserID+" header is required",
			map[string]any{"header": headerUserID},
		)
	}
	return userID, nil
}
