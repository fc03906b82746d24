package handlers

import (
	"net/http"

	"github.com/JeffBaumgardt/family-chores/internal/middleware"
	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/services"
	"github.com/go-chi/chi/v5"
)

type ActivityHandler struct {
	ledgerService *services.LedgerService
}

func NewActivityHandler(ledgerService *services.LedgerService) *ActivityHandler {
	return &ActivityHandler{ledgerService: ledgerService}
}

type updateActivityRequest struct {
	Status models.ActivityStatus `json:"status"`
}

// UpdateStatus is the parent's approve/reject action on an activity.
func (handler *ActivityHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())
	activityID := chi.URLParam(r, "id")

	var request updateActivityRequest
	if !decodeBody(w, r, &request) {
		return
	}
	switch request.Status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		writeFailure(w, http.StatusBadRequest, "Invalid status")
		return
	}

	if _, err := handler.ledgerService.UpdateActivity(r.Context(), parent, activityID, request.Status); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}
