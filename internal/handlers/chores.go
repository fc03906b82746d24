package handlers

import (
	"net/http"
	"time"

	"github.com/JeffBaumgardt/family-chores/internal/middleware"
	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
	"github.com/JeffBaumgardt/family-chores/internal/services"
	"github.com/go-chi/chi/v5"
)

type ChoreHandler struct {
	familyService *services.FamilyService
	ledgerService *services.LedgerService
}

func NewChoreHandler(familyService *services.FamilyService, ledgerService *services.LedgerService) *ChoreHandler {
	return &ChoreHandler{familyService: familyService, ledgerService: ledgerService}
}

type choreRequest struct {
	Name         string  `json:"name"`
	Points       int     `json:"points"`
	Optional     bool    `json:"optional"`
	AssignedToID *string `json:"assignedToId"`
}

type choreResponse struct {
	result
	Chore *models.Chore `json:"chore,omitempty"`
}

func (handler *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())

	var request choreRequest
	if !decodeBody(w, r, &request) {
		return
	}
	if request.Name == "" || request.Points <= 0 {
		writeFailure(w, http.StatusBadRequest, "A name and a positive point value are required")
		return
	}

	chore, err := handler.familyService.CreateChore(r.Context(), parent, models.Chore{
		Name:         request.Name,
		Points:       request.Points,
		Optional:     request.Optional,
		AssignedToID: request.AssignedToID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, choreResponse{result: result{Success: true}, Chore: &chore})
}

type chorePatchRequest struct {
	Name         *string `json:"name"`
	Points       *int    `json:"points"`
	Optional     *bool   `json:"optional"`
	AssignedToID *string `json:"assignedToId"`
}

func (handler *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())
	choreID := chi.URLParam(r, "id")

	var request chorePatchRequest
	if !decodeBody(w, r, &request) {
		return
	}

	chore, err := handler.familyService.UpdateChore(r.Context(), parent, choreID, models.ChorePatch{
		Name:         request.Name,
		Points:       request.Points,
		Optional:     request.Optional,
		AssignedToID: request.AssignedToID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, choreResponse{result: result{Success: true}, Chore: &chore})
}

func (handler *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())
	choreID := chi.URLParam(r, "id")

	if err := handler.familyService.DeleteChore(r.Context(), parent, choreID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

func (handler *ChoreHandler) Deny(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())
	choreID := chi.URLParam(r, "id")

	if err := handler.ledgerService.DenyChore(r.Context(), parent, choreID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

func (handler *ChoreHandler) Reenable(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())
	choreID := chi.URLParam(r, "id")

	if err := handler.ledgerService.ReenableChore(r.Context(), parent, choreID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

type choreReviewsResponse struct {
	result
	Activities []choreReviewJSON `json:"activities"`
}

type choreReviewJSON struct {
	ID        string `json:"id"`
	KidID     string `json:"kidId"`
	KidName   string `json:"kidName"`
	ChoreID   string `json:"choreId"`
	ChoreName string `json:"choreName"`
	Points    int    `json:"points"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Reviews lists completed chores for the parent to approve or deny.
func (handler *ChoreHandler) Reviews(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())

	reviews, err := handler.familyService.ChoreReviews(r.Context(), parent)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := choreReviewsResponse{result: result{Success: true}}
	for _, review := range reviews {
		response.Activities = append(response.Activities, choreReviewJSON{
			ID:        review.ChoreID,
			KidID:     review.KidID,
			KidName:   review.KidName,
			ChoreID:   review.ChoreID,
			ChoreName: review.ChoreName,
			Points:    review.Points,
			Status:    reviewStatus(review),
			Timestamp: review.UpdatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, response)
}

func reviewStatus(review repository.ChoreReview) string {
	switch {
	case review.Denied:
		return "denied"
	case review.Completed:
		return "completed"
	default:
		return "pending"
	}
}
