package handlers

import (
	"net/http"

	"github.com/JeffBaumgardt/family-chores/internal/middleware"
	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/services"
	"github.com/go-chi/chi/v5"
)

type FamilyHandler struct {
	familyService *services.FamilyService
}

func NewFamilyHandler(familyService *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

type dashboardResponse struct {
	result
	services.Dashboard
}

func (handler *FamilyHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())

	dashboard, err := handler.familyService.Dashboard(r.Context(), parent)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResponse{result: result{Success: true}, Dashboard: dashboard})
}

type addChildRequest struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type childResponse struct {
	result
	Child *services.Kid `json:"child,omitempty"`
}

func (handler *FamilyHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())

	var request addChildRequest
	if !decodeBody(w, r, &request) {
		return
	}
	if request.Name == "" {
		writeFailure(w, http.StatusBadRequest, "Name is required")
		return
	}

	kid, err := handler.familyService.AddChild(r.Context(), parent, request.Name, request.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, childResponse{result: result{Success: true}, Child: &kid})
}

type updateChildRequest struct {
	Name   *string `json:"name"`
	Points *int    `json:"points"`
}

func (handler *FamilyHandler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())
	childID := chi.URLParam(r, "id")

	var request updateChildRequest
	if !decodeBody(w, r, &request) {
		return
	}

	kid, err := handler.familyService.UpdateChild(r.Context(), parent, childID, models.MemberPatch{
		Name:   request.Name,
		Points: request.Points,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, childResponse{result: result{Success: true}, Child: &kid})
}

func (handler *FamilyHandler) RemoveChild(w http.ResponseWriter, r *http.Request) {
	parent := middleware.GetMember(r.Context())
	childID := chi.URLParam(r, "id")

	if err := handler.familyService.RemoveChild(r.Context(), parent, childID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

type codeSuggestionsResponse struct {
	result
	Codes []string `json:"codes"`
}

// CodeSuggestions returns a handful of adjective+noun special-code ideas.
func (handler *FamilyHandler) CodeSuggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, codeSuggestionsResponse{
		result: result{Success: true},
		Codes:  services.GenerateCodeNames(3),
	})
}
