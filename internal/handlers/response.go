package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JeffBaumgardt/family-chores/internal/repository"
	"github.com/JeffBaumgardt/family-chores/internal/services"
)

// Every endpoint answers with this envelope; Payload fields are flattened
// alongside it by the per-handler response structs.
type result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

func writeSuccess(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, result{Success: true})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, result{Success: false, Error: message})
}

// writeServiceError translates the service/repository error taxonomy into a
// structured failure; anything unexpected is logged and reported
// generically so callers never see a raw failure.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeFailure(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrUnauthorized):
		writeFailure(w, http.StatusForbidden, "Not authorized")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeFailure(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, services.ErrInvalidCode):
		writeFailure(w, http.StatusNotFound, "Whoops! That code didn't work. Try again!")
	case errors.Is(err, repository.ErrCodeInUse):
		writeFailure(w, http.StatusConflict, "This code is already in use. Please try another one.")
	case errors.Is(err, repository.ErrEmailInUse):
		writeFailure(w, http.StatusConflict, "Error creating account. Please try again.")
	case errors.Is(err, repository.ErrInsufficientPoints):
		writeFailure(w, http.StatusUnprocessableEntity, "Not enough points available")
	case errors.Is(err, repository.ErrChoreAlreadyComplete):
		writeFailure(w, http.StatusConflict, "Chore is already completed")
	default:
		slog.Error("request failed", "error", err)
		writeFailure(w, http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeFailure(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
