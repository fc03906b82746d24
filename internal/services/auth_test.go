package services_test

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JeffBaumgardt/family-chores/internal/config"
	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
	"github.com/JeffBaumgardt/family-chores/internal/services"
	"github.com/JeffBaumgardt/family-chores/internal/testutil"
)

func newAuthService(db *sql.DB) *services.AuthService {
	cfg := config.Config{
		SessionSecret:   "test-session-secret-for-auth-tests",
		ChildSessionTTL: time.Hour,
	}
	return services.NewAuthService(
		cfg,
		repository.NewAccountRepository(db),
		repository.NewMemberRepository(db),
		repository.NewFamilyRepository(db),
	)
}

func requestWithCookies(recorder *httptest.ResponseRecorder) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range recorder.Result().Cookies() {
		request.AddCookie(cookie)
	}
	return request
}

func TestSignupAndSignin(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)
	ctx := context.Background()

	parent, err := service.SignupParent(ctx, "pat@example.com", "hunter22", "The Smiths", "Pat")
	if err != nil {
		t.Fatalf("signing up: %v", err)
	}
	if parent.Role != models.RoleParent {
		t.Errorf("expected PARENT role, got %s", parent.Role)
	}
	if parent.FamilyID == "" {
		t.Error("expected parent to belong to a family")
	}

	signedIn, err := service.SigninParent(ctx, "pat@example.com", "hunter22")
	if err != nil {
		t.Fatalf("signing in: %v", err)
	}
	if signedIn.ID != parent.ID {
		t.Errorf("expected member %s, got %s", parent.ID, signedIn.ID)
	}
}

func TestSigninWrongPassword(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)
	ctx := context.Background()

	if _, err := service.SignupParent(ctx, "pat@example.com", "hunter22", "The Smiths", "Pat"); err != nil {
		t.Fatalf("signing up: %v", err)
	}

	_, err := service.SigninParent(ctx, "pat@example.com", "wrong")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}

	_, err = service.SigninParent(ctx, "nobody@example.com", "hunter22")
	if !errors.Is(err, services.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)
	ctx := context.Background()

	if _, err := service.SignupParent(ctx, "pat@example.com", "hunter22", "The Smiths", "Pat"); err != nil {
		t.Fatalf("signing up: %v", err)
	}

	_, err := service.SignupParent(ctx, "pat@example.com", "other", "The Clones", "Pat")
	if !errors.Is(err, repository.ErrEmailInUse) {
		t.Errorf("expected ErrEmailInUse, got %v", err)
	}
}

func TestParentSessionRoundtrip(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)

	parent, err := service.SignupParent(context.Background(), "pat@example.com", "hunter22", "The Smiths", "Pat")
	if err != nil {
		t.Fatalf("signing up: %v", err)
	}

	recorder := httptest.NewRecorder()
	if err := service.SetParentSession(recorder, parent.ID); err != nil {
		t.Fatalf("setting session: %v", err)
	}

	current, err := service.CurrentParent(requestWithCookies(recorder))
	if err != nil {
		t.Fatalf("resolving session: %v", err)
	}
	if current.ID != parent.ID {
		t.Errorf("expected member %s, got %s", parent.ID, current.ID)
	}
}

func TestCurrentParentWithoutSession(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)

	_, err := service.CurrentParent(httptest.NewRequest(http.MethodGet, "/", nil))
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestVerifyChildCode(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)
	ctx := context.Background()

	parent, err := service.SignupParent(ctx, "pat@example.com", "hunter22", "The Smiths", "Pat")
	if err != nil {
		t.Fatalf("signing up: %v", err)
	}
	if _, err := repository.NewMemberRepository(db).CreateChild(ctx, parent.FamilyID, "Max", "happy-panda"); err != nil {
		t.Fatalf("creating child: %v", err)
	}

	normalized, err := service.VerifyChildCode(ctx, "Happy Panda")
	if err != nil {
		t.Fatalf("verifying code: %v", err)
	}
	if normalized != "happy-panda" {
		t.Errorf("expected normalized code happy-panda, got %s", normalized)
	}

	if _, err := service.VerifyChildCode(ctx, "no such code"); !errors.Is(err, services.ErrInvalidCode) {
		t.Errorf("expected ErrInvalidCode, got %v", err)
	}
}

func TestChildSessionRoundtrip(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)
	ctx := context.Background()

	parent, err := service.SignupParent(ctx, "pat@example.com", "hunter22", "The Smiths", "Pat")
	if err != nil {
		t.Fatalf("signing up: %v", err)
	}
	child, err := repository.NewMemberRepository(db).CreateChild(ctx, parent.FamilyID, "Max", "happy-panda")
	if err != nil {
		t.Fatalf("creating child: %v", err)
	}

	recorder := httptest.NewRecorder()
	if err := service.SetChildSession(recorder, "happy-panda"); err != nil {
		t.Fatalf("setting child session: %v", err)
	}

	current, err := service.CurrentChild(requestWithCookies(recorder))
	if err != nil {
		t.Fatalf("resolving child session: %v", err)
	}
	if current.ID != child.ID {
		t.Errorf("expected child %s, got %s", child.ID, current.ID)
	}
}

func TestClearSessions(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	service := newAuthService(db)

	recorder := httptest.NewRecorder()
	service.ClearSessions(recorder)

	cookies := recorder.Result().Cookies()
	if len(cookies) != 2 {
		t.Fatalf("expected 2 expired cookies, got %d", len(cookies))
	}
	for _, cookie := range cookies {
		if cookie.MaxAge != -1 {
			t.Errorf("expected cookie %s to be expired, got MaxAge %d", cookie.Name, cookie.MaxAge)
		}
	}
}
