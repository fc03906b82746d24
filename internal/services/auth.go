package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/JeffBaumgardt/family-chores/internal/config"
	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUnauthorized       = errors.New("not authorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidCode        = errors.New("that code didn't work")
)

const (
	parentSessionCookie = "session"
	childSessionCookie  = "kid_session"
)

// AuthService is the identity gate: parent credential accounts, the parent
// session cookie, and the anonymous child session minted from a special
// code.
type AuthService struct {
	accountRepo  repository.AccountRepository
	memberRepo   repository.MemberRepository
	familyRepo   repository.FamilyRepository
	secureCookie *securecookie.SecureCookie
	jwtSecret    []byte
	childTTL     time.Duration
}

type childClaims struct {
	SpecialCode string      `json:"special_code"`
	Role        models.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(
	cfg config.Config,
	accountRepo repository.AccountRepository,
	memberRepo repository.MemberRepository,
	familyRepo repository.FamilyRepository,
) *AuthService {
	return &AuthService{
		accountRepo:  accountRepo,
		memberRepo:   memberRepo,
		familyRepo:   familyRepo,
		secureCookie: securecookie.New([]byte(cfg.SessionSecret), nil),
		jwtSecret:    []byte(cfg.SessionSecret),
		childTTL:     cfg.ChildSessionTTL,
	}
}

// SignupParent creates the credential account, then the family with its
// first PARENT member keyed by the account's ID.
func (service *AuthService) SignupParent(ctx context.Context, email, password, familyName, parentName string) (models.FamilyMember, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.FamilyMember{}, fmt.Errorf("hashing password: %w", err)
	}

	account, err := service.accountRepo.Create(ctx, models.Account{
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return models.FamilyMember{}, err
	}

	family, parent, err := service.familyRepo.CreateWithParent(ctx, familyName, account.ID, parentName)
	if err != nil {
		return models.FamilyMember{}, err
	}

	slog.Info("parent signed up", "family_id", family.ID, "member_id", parent.ID)
	return parent, nil
}

func (service *AuthService) SigninParent(ctx context.Context, email, password string) (models.FamilyMember, error) {
	account, err := service.accountRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.FamilyMember{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.FamilyMember{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return models.FamilyMember{}, ErrInvalidCredentials
	}

	parent, err := service.memberRepo.FindByID(ctx, account.ID)
	if err != nil {
		return models.FamilyMember{}, fmt.Errorf("finding parent member: %w", err)
	}
	return parent, nil
}

// VerifyChildCode confirms a special code belongs to a child and returns
// the normalized form. It does not create the session.
func (service *AuthService) VerifyChildCode(ctx context.Context, code string) (string, error) {
	normalized := NormalizeCode(code)
	if _, err := service.memberRepo.FindChildByCode(ctx, normalized); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	return normalized, nil
}

func (service *AuthService) SetParentSession(w http.ResponseWriter, memberID string) error {
	encoded, err := service.secureCookie.Encode(parentSessionCookie, memberID)
	if err != nil {
		return fmt.Errorf("encoding session cookie: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     parentSessionCookie,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 30,
	})
	return nil
}

// SetChildSession mints the anonymous child session: a signed token
// carrying the normalized code and CHILD role.
func (service *AuthService) SetChildSession(w http.ResponseWriter, normalizedCode string) error {
	claims := childClaims{
		SpecialCode: normalizedCode,
		Role:        models.RoleChild,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(service.childTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.jwtSecret)
	if err != nil {
		return fmt.Errorf("signing child session: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     childSessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.childTTL.Seconds()),
	})
	return nil
}

func (service *AuthService) ClearSessions(w http.ResponseWriter) {
	for _, name := range []string{parentSessionCookie, childSessionCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			MaxAge:   -1,
		})
	}
}

// CurrentParent resolves the parent member from the request's session
// cookie.
func (service *AuthService) CurrentParent(r *http.Request) (models.FamilyMember, error) {
	cookie, err := r.Cookie(parentSessionCookie)
	if err != nil {
		return models.FamilyMember{}, ErrUnauthorized
	}

	var memberID string
	if err := service.secureCookie.Decode(parentSessionCookie, cookie.Value, &memberID); err != nil {
		return models.FamilyMember{}, ErrUnauthorized
	}

	member, err := service.memberRepo.FindByID(r.Context(), memberID)
	if err != nil {
		return models.FamilyMember{}, ErrUnauthorized
	}
	if member.Role != models.RoleParent {
		return models.FamilyMember{}, ErrUnauthorized
	}
	return member, nil
}

// CurrentChild resolves the child member from the request's anonymous
// session token.
func (service *AuthService) CurrentChild(r *http.Request) (models.FamilyMember, error) {
	cookie, err := r.Cookie(childSessionCookie)
	if err != nil {
		return models.FamilyMember{}, ErrUnauthorized
	}

	parsed, err := jwt.ParseWithClaims(cookie.Value, &childClaims{}, func(token *jwt.Token) (interface{}, error) {
		return service.jwtSecret, nil
	})
	if err != nil {
		return models.FamilyMember{}, ErrUnauthorized
	}
	claims, ok := parsed.Claims.(*childClaims)
	if !ok || !parsed.Valid || claims.Role != models.RoleChild {
		return models.FamilyMember{}, ErrUnauthorized
	}

	child, err := service.memberRepo.FindChildByCode(r.Context(), claims.SpecialCode)
	if err != nil {
		return models.FamilyMember{}, ErrUnauthorized
	}
	return child, nil
}
