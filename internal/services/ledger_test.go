package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/JeffBaumgardt/family-chores/internal/repository"
	"github.com/JeffBaumgardt/family-chores/internal/services"
	"github.com/JeffBaumgardt/family-chores/internal/testutil"
)

func newLedgerService(db *sql.DB) *services.LedgerService {
	return services.NewLedgerService(
		repository.NewActivityRepository(db),
		repository.NewChoreRepository(db),
	)
}

func addChildMember(t *testing.T, db *sql.DB, parent models.FamilyMember, name, code string) models.FamilyMember {
	t.Helper()
	child, err := repository.NewMemberRepository(db).CreateChild(context.Background(), parent.FamilyID, name, code)
	if err != nil {
		t.Fatalf("creating child: %v", err)
	}
	return child
}

func TestCompleteAndApproveChore(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	parent := createParent(t, db, "The Smiths", "account-1", "Pat")
	child := addChildMember(t, db, parent, "Max", "happy-panda")
	ledger := newLedgerService(db)
	ctx := context.Background()

	chore, err := newFamilyService(db).CreateChore(ctx, parent, models.Chore{Name: "Dishes", Points: 10})
	if err != nil {
		t.Fatalf("creating chore: %v", err)
	}

	activity, err := ledger.CompleteChore(ctx, child, chore.ID)
	if err != nil {
		t.Fatalf("completing chore: %v", err)
	}

	if _, err := ledger.UpdateActivity(ctx, parent, activity.ID, models.StatusApproved); err != nil {
		t.Fatalf("approving: %v", err)
	}

	updated, err := repository.NewMemberRepository(db).FindByID(ctx, child.ID)
	if err != nil {
		t.Fatalf("finding child: %v", err)
	}
	if updated.Balance() != 10 {
		t.Errorf("expected 10 points after approval, got %d", updated.Balance())
	}
}

func TestUpdateActivityOtherFamily(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	parent := createParent(t, db, "The Smiths", "account-1", "Pat")
	stranger := createParent(t, db, "The Jones", "account-2", "Sam")
	child := addChildMember(t, db, parent, "Max", "happy-panda")
	ledger := newLedgerService(db)
	ctx := context.Background()

	chore, _ := newFamilyService(db).CreateChore(ctx, parent, models.Chore{Name: "Dishes", Points: 10})
	activity, err := ledger.CompleteChore(ctx, child, chore.ID)
	if err != nil {
		t.Fatalf("completing chore: %v", err)
	}

	_, err = ledger.UpdateActivity(ctx, stranger, activity.ID, models.StatusApproved)
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestCompleteChoreOtherFamily(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	parent := createParent(t, db, "The Smiths", "account-1", "Pat")
	stranger := createParent(t, db, "The Jones", "account-2", "Sam")
	outsider := addChildMember(t, db, stranger, "Rex", "brave-tiger")
	ledger := newLedgerService(db)
	ctx := context.Background()

	chore, _ := newFamilyService(db).CreateChore(ctx, parent, models.Chore{Name: "Dishes", Points: 10})

	_, err := ledger.CompleteChore(ctx, outsider, chore.ID)
	if !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestDenyChoreOtherFamily(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	parent := createParent(t, db, "The Smiths", "account-1", "Pat")
	stranger := createParent(t, db, "The Jones", "account-2", "Sam")
	ledger := newLedgerService(db)
	ctx := context.Background()

	chore, _ := newFamilyService(db).CreateChore(ctx, parent, models.Chore{Name: "Dishes", Points: 10})

	if err := ledger.DenyChore(ctx, stranger, chore.ID); !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized on deny, got %v", err)
	}
	if err := ledger.ReenableChore(ctx, stranger, chore.ID); !errors.Is(err, services.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized on reenable, got %v", err)
	}
}

func TestReenableChore(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	parent := createParent(t, db, "The Smiths", "account-1", "Pat")
	child := addChildMember(t, db, parent, "Max", "happy-panda")
	ledger := newLedgerService(db)
	ctx := context.Background()

	chore, _ := newFamilyService(db).CreateChore(ctx, parent, models.Chore{Name: "Dishes", Points: 10})
	if _, err := ledger.CompleteChore(ctx, child, chore.ID); err != nil {
		t.Fatalf("completing chore: %v", err)
	}
	if err := ledger.DenyChore(ctx, parent, chore.ID); err != nil {
		t.Fatalf("denying chore: %v", err)
	}

	if err := ledger.ReenableChore(ctx, parent, chore.ID); err != nil {
		t.Fatalf("re-enabling chore: %v", err)
	}

	reset, err := repository.NewChoreRepository(db).FindByID(ctx, chore.ID)
	if err != nil {
		t.Fatalf("finding chore: %v", err)
	}
	if reset.Completed || reset.Denied {
		t.Errorf("expected flags cleared, got completed=%v denied=%v", reset.Completed, reset.Denied)
	}

	if _, err := ledger.CompleteChore(ctx, child, chore.ID); err != nil {
		t.Errorf("expected chore to be completable again, got %v", err)
	}
}

func TestRedeemRejectsNonPositivePoints(t *testing.T) {
	db := testutil.NewTestDatabase(t)
	parent := createParent(t, db, "The Smiths", "account-1", "Pat")
	child := addChildMember(t, db, parent, "Max", "happy-panda")
	ledger := newLedgerService(db)

	for _, points := range []int{0, -5} {
		_, err := ledger.Redeem(context.Background(), child, points, "Freebie")
		if !errors.Is(err, repository.ErrInsufficientPoints) {
			t.Errorf("expected ErrInsufficientPoints for %d points, got %v", points, err)
		}
	}
}
