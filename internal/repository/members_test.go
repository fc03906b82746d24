package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
	"github.com/JeffBaumgardt/family-chores/internal/testutil"
)

func setupFamily(t *testing.T, db *sql.DB) (models.Family, models.FamilyMember) {
	t.Helper()
	familyRepo := repository.NewFamilyRepository(db)
	family, parent, err := familyRepo.CreateWithParent(context.Background(), "The Smiths", "account-1", "Pat")
	if err != nil {
		t.Fatalf("creating family: %v", err)
	}
	return family, parent
}

func TestCreateWithParent(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	family, parent := setupFamily(t, db)

	if parent.ID != "account-1" {
		t.Errorf("expected parent id to match account id, got %s", parent.ID)
	}
	if parent.FamilyID != family.ID {
		t.Errorf("expected parent to belong to family %s, got %s", family.ID, parent.FamilyID)
	}
	if parent.Points != nil {
		t.Error("expected parent points to be unset")
	}

	found, err := repository.NewMemberRepository(db).FindByID(context.Background(), parent.ID)
	if err != nil {
		t.Fatalf("finding parent: %v", err)
	}
	if found.Role != models.RoleParent {
		t.Errorf("expected PARENT role, got %s", found.Role)
	}
}

func TestCreateChild(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	family, _ := setupFamily(t, db)
	repo := repository.NewMemberRepository(db)
	ctx := context.Background()

	child, err := repo.CreateChild(ctx, family.ID, "Max", "happy-panda")
	if err != nil {
		t.Fatalf("creating child: %v", err)
	}
	if child.Balance() != 0 {
		t.Errorf("expected new child to start at 0 points, got %d", child.Balance())
	}

	found, err := repo.FindChildByCode(ctx, "happy-panda")
	if err != nil {
		t.Fatalf("finding child by code: %v", err)
	}
	if found.ID != child.ID {
		t.Errorf("expected child %s, got %s", child.ID, found.ID)
	}
}

func TestCodeExists(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	family, _ := setupFamily(t, db)
	repo := repository.NewMemberRepository(db)
	ctx := context.Background()

	if _, err := repo.CreateChild(ctx, family.ID, "Max", "happy-panda"); err != nil {
		t.Fatalf("creating child: %v", err)
	}

	taken, err := repo.CodeExists(ctx, "happy-panda")
	if err != nil {
		t.Fatalf("checking code: %v", err)
	}
	if !taken {
		t.Error("expected code to be taken")
	}

	free, err := repo.CodeExists(ctx, "brave-tiger")
	if err != nil {
		t.Fatalf("checking code: %v", err)
	}
	if free {
		t.Error("expected code to be free")
	}
}

func TestUpdateMemberPatch(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	family, _ := setupFamily(t, db)
	repo := repository.NewMemberRepository(db)
	ctx := context.Background()

	child, _ := repo.CreateChild(ctx, family.ID, "Max", "happy-panda")

	points := 25
	updated, err := repo.Update(ctx, child.ID, models.MemberPatch{Points: &points})
	if err != nil {
		t.Fatalf("updating points: %v", err)
	}
	if updated.Balance() != 25 {
		t.Errorf("expected 25 points, got %d", updated.Balance())
	}
	if updated.Name != "Max" {
		t.Errorf("expected name to be unchanged, got %s", updated.Name)
	}

	name := "Maxine"
	updated, err = repo.Update(ctx, child.ID, models.MemberPatch{Name: &name})
	if err != nil {
		t.Fatalf("updating name: %v", err)
	}
	if updated.Name != "Maxine" {
		t.Errorf("expected renamed child, got %s", updated.Name)
	}
	if updated.Balance() != 25 {
		t.Errorf("expected points to be unchanged, got %d", updated.Balance())
	}
}

func TestRemoveChildCascades(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	family, _ := setupFamily(t, db)
	memberRepo := repository.NewMemberRepository(db)
	choreRepo := repository.NewChoreRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	ctx := context.Background()

	child, _ := memberRepo.CreateChild(ctx, family.ID, "Max", "happy-panda")
	chore, err := choreRepo.Create(ctx, models.Chore{
		FamilyID:     family.ID,
		Name:         "Dishes",
		Points:       10,
		AssignedToID: &child.ID,
	})
	if err != nil {
		t.Fatalf("creating chore: %v", err)
	}
	if _, err := activityRepo.CompleteChore(ctx, chore.ID, child.ID); err != nil {
		t.Fatalf("completing chore: %v", err)
	}

	if err := memberRepo.RemoveChild(ctx, child.ID); err != nil {
		t.Fatalf("removing child: %v", err)
	}

	if _, err := memberRepo.FindByID(ctx, child.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound after removal, got %v", err)
	}

	var activities int
	if err := db.QueryRow("SELECT COUNT(*) FROM activities WHERE child_id = ?", child.ID).Scan(&activities); err != nil {
		t.Fatalf("counting activities: %v", err)
	}
	if activities != 0 {
		t.Errorf("expected activities to be deleted, found %d", activities)
	}

	remaining, err := choreRepo.FindByID(ctx, chore.ID)
	if err != nil {
		t.Fatalf("finding chore: %v", err)
	}
	if remaining.AssignedToID != nil {
		t.Error("expected chore to be unassigned after child removal")
	}
}

func TestRemoveChildMissing(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	setupFamily(t, db)
	repo := repository.NewMemberRepository(db)

	err := repo.RemoveChild(context.Background(), "no-such-member")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
