package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
)

// Kid is the child shape the dashboard and kid pages work with.
type Kid struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Points      int    `json:"points"`
	SpecialCode string `json:"specialCode"`
}

type ChoreSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Points         int     `json:"points"`
	Optional       bool    `json:"optional"`
	AssignedToID   *string `json:"assignedToId,omitempty"`
	AssignedToName *string `json:"assignedToName,omitempty"`
}

type TimelineEntry struct {
	ID         string                `json:"id"`
	KidID      string                `json:"kidId"`
	KidName    string                `json:"kidName"`
	Type       models.ActivityType   `json:"type"`
	Status     models.ActivityStatus `json:"status"`
	Points     int                   `json:"points"`
	Timestamp  time.Time             `json:"timestamp"`
	ChoreID    *string               `json:"choreId,omitempty"`
	ChoreName  *string               `json:"choreName,omitempty"`
	ActionText string                `json:"actionText"`
	ItemName   string                `json:"itemName"`
}

type Dashboard struct {
	FamilyID   string          `json:"familyId"`
	FamilyName string          `json:"familyName"`
	ParentName string          `json:"parentName"`
	Kids       []Kid           `json:"kids"`
	Chores     []ChoreSummary  `json:"chores"`
	Activities []TimelineEntry `json:"activities"`
}

type KidView struct {
	Kid
	AssignedChores []ChoreSummary `json:"assignedChores"`
	OptionalChores []ChoreSummary `json:"optionalChores"`
}

const timelineLimit = 20

// FamilyService covers the parent's family-scoped CRUD and the read
// projections both dashboards are built from.
type FamilyService struct {
	familyRepo   repository.FamilyRepository
	memberRepo   repository.MemberRepository
	choreRepo    repository.ChoreRepository
	activityRepo repository.ActivityRepository
}

func NewFamilyService(
	familyRepo repository.FamilyRepository,
	memberRepo repository.MemberRepository,
	choreRepo repository.ChoreRepository,
	activityRepo repository.ActivityRepository,
) *FamilyService {
	return &FamilyService{
		familyRepo:   familyRepo,
		memberRepo:   memberRepo,
		choreRepo:    choreRepo,
		activityRepo: activityRepo,
	}
}

// AddChild creates a child in the parent's family. The code is normalized
// before the uniqueness check and before storage, so collisions are
// detected regardless of case or spacing.
func (service *FamilyService) AddChild(ctx context.Context, parent models.FamilyMember, name, code string) (Kid, error) {
	normalized := NormalizeCode(code)
	if normalized == "" || normalized == "-" {
		return Kid{}, fmt.Errorf("special code is required")
	}

	taken, err := service.memberRepo.CodeExists(ctx, normalized)
	if err != nil {
		return Kid{}, err
	}
	if taken {
		return Kid{}, repository.ErrCodeInUse
	}

	child, err := service.memberRepo.CreateChild(ctx, parent.FamilyID, name, normalized)
	if err != nil {
		return Kid{}, err
	}
	return kidFromMember(child), nil
}

func (service *FamilyService) UpdateChild(ctx context.Context, parent models.FamilyMember, childID string, patch models.MemberPatch) (Kid, error) {
	if err := service.requireFamilyChild(ctx, parent, childID); err != nil {
		return Kid{}, err
	}

	child, err := service.memberRepo.Update(ctx, childID, patch)
	if err != nil {
		return Kid{}, err
	}
	return kidFromMember(child), nil
}

func (service *FamilyService) RemoveChild(ctx context.Context, parent models.FamilyMember, childID string) error {
	if err := service.requireFamilyChild(ctx, parent, childID); err != nil {
		return err
	}
	return service.memberRepo.RemoveChild(ctx, childID)
}

func (service *FamilyService) CreateChore(ctx context.Context, parent models.FamilyMember, chore models.Chore) (models.Chore, error) {
	chore.FamilyID = parent.FamilyID
	chore.Completed = false
	chore.Denied = false
	return service.choreRepo.Create(ctx, chore)
}

func (service *FamilyService) UpdateChore(ctx context.Context, parent models.FamilyMember, choreID string, patch models.ChorePatch) (models.Chore, error) {
	if err := service.requireFamilyChore(ctx, parent, choreID); err != nil {
		return models.Chore{}, err
	}
	return service.choreRepo.Update(ctx, choreID, patch)
}

func (service *FamilyService) DeleteChore(ctx context.Context, parent models.FamilyMember, choreID string) error {
	if err := service.requireFamilyChore(ctx, parent, choreID); err != nil {
		return err
	}
	return service.choreRepo.Delete(ctx, choreID)
}

// Dashboard assembles the parent view: children, open chores, and the last
// 20 activities with their timeline text.
func (service *FamilyService) Dashboard(ctx context.Context, parent models.FamilyMember) (Dashboard, error) {
	family, err := service.familyRepo.FindByID(ctx, parent.FamilyID)
	if err != nil {
		return Dashboard{}, err
	}

	children, err := service.memberRepo.FindChildren(ctx, parent.FamilyID)
	if err != nil {
		return Dashboard{}, err
	}

	chores, err := service.choreRepo.FindOpenByFamily(ctx, parent.FamilyID)
	if err != nil {
		return Dashboard{}, err
	}

	recent, err := service.activityRepo.FindRecentByFamily(ctx, parent.FamilyID, timelineLimit)
	if err != nil {
		return Dashboard{}, err
	}

	dashboard := Dashboard{
		FamilyID:   family.ID,
		FamilyName: family.Name,
		ParentName: parent.Name,
	}
	for _, child := range children {
		dashboard.Kids = append(dashboard.Kids, kidFromMember(child))
	}
	for _, chore := range chores {
		dashboard.Chores = append(dashboard.Chores, choreSummary(chore))
	}
	for _, detail := range recent {
		dashboard.Activities = append(dashboard.Activities, timelineEntry(detail))
	}
	return dashboard, nil
}

// KidView loads a child by special code together with the family's open
// chores, split into required and extra.
func (service *FamilyService) KidView(ctx context.Context, code string) (KidView, error) {
	child, err := service.memberRepo.FindChildByCode(ctx, NormalizeCode(code))
	if err != nil {
		return KidView{}, err
	}

	chores, err := service.choreRepo.FindOpenByFamily(ctx, child.FamilyID)
	if err != nil {
		return KidView{}, err
	}

	view := KidView{Kid: kidFromMember(child)}
	for _, chore := range chores {
		summary := choreSummary(chore)
		if chore.Optional {
			view.OptionalChores = append(view.OptionalChores, summary)
		} else {
			view.AssignedChores = append(view.AssignedChores, summary)
		}
	}
	return view, nil
}

// ChoreReviews lists the family's completed chores awaiting parent review.
func (service *FamilyService) ChoreReviews(ctx context.Context, parent models.FamilyMember) ([]repository.ChoreReview, error) {
	return service.choreRepo.FindCompletedByFamily(ctx, parent.FamilyID)
}

func (service *FamilyService) requireFamilyChild(ctx context.Context, parent models.FamilyMember, childID string) error {
	child, err := service.memberRepo.FindByID(ctx, childID)
	if err != nil {
		return err
	}
	if child.FamilyID != parent.FamilyID || child.Role != models.RoleChild {
		return ErrUnauthorized
	}
	return nil
}

func (service *FamilyService) requireFamilyChore(ctx context.Context, parent models.FamilyMember, choreID string) error {
	chore, err := service.choreRepo.FindByID(ctx, choreID)
	if err != nil {
		return err
	}
	if chore.FamilyID != parent.FamilyID {
		return ErrUnauthorized
	}
	return nil
}

func kidFromMember(member models.FamilyMember) Kid {
	kid := Kid{
		ID:     member.ID,
		Name:   member.Name,
		Points: member.Balance(),
	}
	if member.SpecialCode != nil {
		kid.SpecialCode = *member.SpecialCode
	}
	return kid
}

func choreSummary(chore repository.ChoreWithAssignee) ChoreSummary {
	return ChoreSummary{
		ID:             chore.ID,
		Name:           chore.Name,
		Points:         chore.Points,
		Optional:       chore.Optional,
		AssignedToID:   chore.AssignedToID,
		AssignedToName: chore.AssignedToName,
	}
}

func timelineEntry(detail repository.ActivityDetail) TimelineEntry {
	entry := TimelineEntry{
		ID:        detail.ID,
		KidID:     detail.ChildID,
		KidName:   detail.KidName,
		Type:      detail.Type,
		Status:    detail.Status,
		Points:    detail.Points,
		Timestamp: detail.Timestamp,
		ChoreID:   detail.ChoreID,
		ChoreName: detail.ChoreName,
	}
	if detail.Type == models.ActivityChore {
		entry.ActionText = strings.ToLower(string(detail.Status)) + " chore"
		if detail.ChoreName != nil {
			entry.ItemName = *detail.ChoreName
		} else {
			entry.ItemName = "Unknown Chore"
		}
	} else {
		entry.ActionText = "redeemed reward"
		entry.ItemName = detail.Name
	}
	return entry
}
