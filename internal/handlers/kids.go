package handlers

import (
	"net/http"

	"github.com/JeffBaumgardt/family-chores/internal/middleware"
	"github.com/JeffBaumgardt/family-chores/internal/services"
	"github.com/go-chi/chi/v5"
)

type KidHandler struct {
	familyService *services.FamilyService
	ledgerService *services.LedgerService
}

func NewKidHandler(familyService *services.FamilyService, ledgerService *services.LedgerService) *KidHandler {
	return &KidHandler{familyService: familyService, ledgerService: ledgerService}
}

type kidViewResponse struct {
	result
	services.KidView
}

// Me returns the logged-in child's view: their points and the family's
// open chores split into required and extra.
func (handler *KidHandler) Me(w http.ResponseWriter, r *http.Request) {
	child := middleware.GetMember(r.Context())
	if child.SpecialCode == nil {
		writeFailure(w, http.StatusNotFound, "Not found")
		return
	}

	view, err := handler.familyService.KidView(r.Context(), *child.SpecialCode)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, kidViewResponse{result: result{Success: true}, KidView: view})
}

func (handler *KidHandler) CompleteChore(w http.ResponseWriter, r *http.Request) {
	child := middleware.GetMember(r.Context())
	choreID := chi.URLParam(r, "id")

	if _, err := handler.ledgerService.CompleteChore(r.Context(), child, choreID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

type redeemRequest struct {
	Points     int    `json:"points"`
	RewardName string `json:"rewardName"`
}

func (handler *KidHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	child := middleware.GetMember(r.Context())

	var request redeemRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if _, err := handler.ledgerService.Redeem(r.Context(), child, request.Points, request.RewardName); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}
