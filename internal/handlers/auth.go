package handlers

import (
	"net/http"

	"github.com/JeffBaumgardt/family-chores/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FamilyName string `json:"familyName"`
	ParentName string `json:"parentName"`
}

func (handler *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var request signupRequest
	if !decodeBody(w, r, &request) {
		return
	}
	if request.Email == "" || request.Password == "" || request.FamilyName == "" || request.ParentName == "" {
		writeFailure(w, http.StatusBadRequest, "All fields are required")
		return
	}

	parent, err := handler.authService.SignupParent(r.Context(), request.Email, request.Password, request.FamilyName, request.ParentName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := handler.authService.SetParentSession(w, parent.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (handler *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	var request signinRequest
	if !decodeBody(w, r, &request) {
		return
	}

	parent, err := handler.authService.SigninParent(r.Context(), request.Email, request.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := handler.authService.SetParentSession(w, parent.ID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeSuccess(w)
}

func (handler *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	handler.authService.ClearSessions(w)
	writeSuccess(w)
}

type verifyCodeRequest struct {
	Code string `json:"code"`
}

type verifyCodeResponse struct {
	result
	Code string `json:"code,omitempty"`
}

// VerifyCode confirms a child's special code and mints the anonymous child
// session.
func (handler *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var request verifyCodeRequest
	if !decodeBody(w, r, &request) {
		return
	}

	normalized, err := handler.authService.VerifyChildCode(r.Context(), request.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if err := handler.authService.SetChildSession(w, normalized); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verifyCodeResponse{result: result{Success: true}, Code: normalized})
}
