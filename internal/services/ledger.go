package services

import (
	"context"

	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
)

// LedgerService fronts every balance-affecting operation. Authorization is
// checked here; the atomic read-modify-write itself lives in the activity
// repository.
type LedgerService struct {
	activityRepo repository.ActivityRepository
	choreRepo    repository.ChoreRepository
}

func NewLedgerService(
	activityRepo repository.ActivityRepository,
	choreRepo repository.ChoreRepository,
) *LedgerService {
	return &LedgerService{
		activityRepo: activityRepo,
		choreRepo:    choreRepo,
	}
}

// UpdateActivity moves an activity to the requested status and applies the
// implied point delta exactly once. The caller must be a parent of the
// activity's family.
func (service *LedgerService) UpdateActivity(ctx context.Context, parent models.FamilyMember, activityID string, status models.ActivityStatus) (models.Activity, error) {
	activity, err := service.activityRepo.FindByID(ctx, activityID)
	if err != nil {
		return models.Activity{}, err
	}
	if err := requireParentOf(parent, activity.FamilyID); err != nil {
		return models.Activity{}, err
	}

	return service.activityRepo.Transition(ctx, activityID, status)
}

// CompleteChore records the child's completion: a pending activity plus the
// completed flag. The chore must belong to the child's family.
func (service *LedgerService) CompleteChore(ctx context.Context, child models.FamilyMember, choreID string) (models.Activity, error) {
	chore, err := service.choreRepo.FindByID(ctx, choreID)
	if err != nil {
		return models.Activity{}, err
	}
	if chore.FamilyID != child.FamilyID {
		return models.Activity{}, ErrUnauthorized
	}

	return service.activityRepo.CompleteChore(ctx, choreID, child.ID)
}

// DenyChore requires a parent of the chore's family.
func (service *LedgerService) DenyChore(ctx context.Context, parent models.FamilyMember, choreID string) error {
	chore, err := service.choreRepo.FindByID(ctx, choreID)
	if err != nil {
		return err
	}
	if err := requireParentOf(parent, chore.FamilyID); err != nil {
		return err
	}

	return service.activityRepo.DenyChore(ctx, choreID)
}

// ReenableChore clears both the completed and denied flags; the balance is
// untouched.
func (service *LedgerService) ReenableChore(ctx context.Context, parent models.FamilyMember, choreID string) error {
	chore, err := service.choreRepo.FindByID(ctx, choreID)
	if err != nil {
		return err
	}
	if err := requireParentOf(parent, chore.FamilyID); err != nil {
		return err
	}

	return service.choreRepo.ClearFlags(ctx, choreID)
}

// Redeem creates a pending redemption for the child after the balance
// check. Points are deducted when a parent approves it, not here.
func (service *LedgerService) Redeem(ctx context.Context, child models.FamilyMember, points int, rewardName string) (models.Activity, error) {
	if points <= 0 {
		return models.Activity{}, repository.ErrInsufficientPoints
	}
	return service.activityRepo.Redeem(ctx, child.ID, points, rewardName)
}

func requireParentOf(member models.FamilyMember, familyID string) error {
	if member.Role != models.RoleParent || member.FamilyID != familyID {
		return ErrUnauthorized
	}
	return nil
}
