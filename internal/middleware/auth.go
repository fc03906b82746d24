package middleware

import (
	"context"
	"net/http"

	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/services"
)

type contextKey string

const MemberContextKey contextKey = "member"

// RequireParent resolves the parent session and puts the member on the
// request context.
func RequireParent(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			parent, err := authService.CurrentParent(r)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), MemberContextKey, parent)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireChild resolves the anonymous child session.
func RequireChild(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			child, err := authService.CurrentChild(r)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), MemberContextKey, child)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetMember(ctx context.Context) models.FamilyMember {
	member, _ := ctx.Value(MemberContextKey).(models.FamilyMember)
	return member
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"success":false,"error":"Not authenticated"}`))
}
