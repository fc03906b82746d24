package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/google/uuid"
)

const activityColumns = "id, family_id, child_id, chore_id, type, status, points, name, timestamp"

var ErrChoreAlreadyComplete = errors.New("chore is already completed")

// ActivityDetail is an activity joined with the names the timeline shows.
type ActivityDetail struct {
	models.Activity
	KidName   string
	ChoreName *string
}

type ActivityRepository interface {
	FindByID(ctx context.Context, id string) (models.Activity, error)
	FindRecentByFamily(ctx context.Context, familyID string, limit int) ([]ActivityDetail, error)
	Transition(ctx context.Context, activityID string, newStatus models.ActivityStatus) (models.Activity, error)
	CompleteChore(ctx context.Context, choreID, childID string) (models.Activity, error)
	Redeem(ctx context.Context, childID string, points int, rewardName string) (models.Activity, error)
	DenyChore(ctx context.Context, choreID string) error
}

type SQLiteActivityRepository struct {
	database *sql.DB
}

func NewActivityRepository(database *sql.DB) *SQLiteActivityRepository {
	return &SQLiteActivityRepository{database: database}
}

// PointsDelta is the ledger effect rule: the balance change implied by
// moving an activity from oldStatus to newStatus. Deltas only occur when a
// transition crosses the APPROVED boundary, so repeating a status is always
// a no-op.
func PointsDelta(activityType models.ActivityType, oldStatus, newStatus models.ActivityStatus, points int) int {
	switch activityType {
	case models.ActivityChore:
		if newStatus == models.StatusApproved && oldStatus != models.StatusApproved {
			return points
		}
		if newStatus == models.StatusRejected && oldStatus == models.StatusApproved {
			return -points
		}
	case models.ActivityRedemption:
		if newStatus == models.StatusApproved && oldStatus != models.StatusApproved {
			return -points
		}
		if newStatus == models.StatusRejected && oldStatus == models.StatusApproved {
			return points
		}
	}
	return 0
}

func (repository *SQLiteActivityRepository) FindByID(ctx context.Context, id string) (models.Activity, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id = ?", id)
	return scanActivity(row)
}

func (repository *SQLiteActivityRepository) FindRecentByFamily(ctx context.Context, familyID string, limit int) ([]ActivityDetail, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT a.id, a.family_id, a.child_id, a.chore_id, a.type, a.status, a.points, a.name, a.timestamp,
			m.name, c.name
		FROM activities a
		JOIN family_members m ON m.id = a.child_id
		LEFT JOIN chores c ON c.id = a.chore_id
		WHERE a.family_id = ?
		ORDER BY a.timestamp DESC
		LIMIT ?`,
		familyID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("finding recent activities: %w", err)
	}
	defer rows.Close()

	var details []ActivityDetail
	for rows.Next() {
		var detail ActivityDetail
		if err := rows.Scan(
			&detail.ID, &detail.FamilyID, &detail.ChildID, &detail.ChoreID,
			&detail.Type, &detail.Status, &detail.Points, &detail.Name, &detail.Timestamp,
			&detail.KidName, &detail.ChoreName,
		); err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}

// Transition applies a status change and its exact point effect in one
// transaction. The prior status is re-read inside the transaction so a
// concurrent approval cannot double-apply a delta. CHORE deltas use the
// chore's current point value; a CHORE activity whose chore row is gone
// fails with ErrChoreMissing and nothing is written.
func (repository *SQLiteActivityRepository) Transition(ctx context.Context, activityID string, newStatus models.ActivityStatus) (models.Activity, error) {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Activity{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	activity, err := scanActivity(transaction.QueryRowContext(ctx,
		"SELECT "+activityColumns+" FROM activities WHERE id = ?", activityID))
	if err != nil {
		return models.Activity{}, err
	}

	points := activity.Points
	if activity.Type == models.ActivityChore {
		if activity.ChoreID == nil {
			return models.Activity{}, ErrChoreMissing
		}
		err := transaction.QueryRowContext(ctx,
			"SELECT points FROM chores WHERE id = ?", *activity.ChoreID,
		).Scan(&points)
		if errors.Is(err, sql.ErrNoRows) {
			return models.Activity{}, ErrChoreMissing
		}
		if err != nil {
			return models.Activity{}, fmt.Errorf("reading chore points: %w", err)
		}
	}

	if _, err := transaction.ExecContext(ctx,
		"UPDATE activities SET status = ? WHERE id = ?", newStatus, activity.ID,
	); err != nil {
		return models.Activity{}, fmt.Errorf("updating activity status: %w", err)
	}

	if delta := PointsDelta(activity.Type, activity.Status, newStatus, points); delta != 0 {
		if err := adjustBalance(ctx, transaction, activity.ChildID, delta); err != nil {
			return models.Activity{}, err
		}
	}

	if err := transaction.Commit(); err != nil {
		return models.Activity{}, fmt.Errorf("committing transition: %w", err)
	}

	activity.Status = newStatus
	return activity, nil
}

// CompleteChore records a pending CHORE activity and marks the chore
// completed, atomically. Points move only when a parent approves the
// activity later.
func (repository *SQLiteActivityRepository) CompleteChore(ctx context.Context, choreID, childID string) (models.Activity, error) {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Activity{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	chore, err := scanChore(transaction.QueryRowContext(ctx,
		"SELECT "+choreColumns+" FROM chores WHERE id = ?", choreID))
	if err != nil {
		return models.Activity{}, err
	}
	if chore.Completed {
		return models.Activity{}, ErrChoreAlreadyComplete
	}

	activity := models.Activity{
		ID:        uuid.New().String(),
		FamilyID:  chore.FamilyID,
		ChildID:   childID,
		ChoreID:   &chore.ID,
		Type:      models.ActivityChore,
		Status:    models.StatusPending,
		Points:    chore.Points,
		Name:      chore.Name,
		Timestamp: time.Now(),
	}
	if err := insertActivity(ctx, transaction, activity); err != nil {
		return models.Activity{}, err
	}

	if _, err := transaction.ExecContext(ctx,
		"UPDATE chores SET completed = 1, updated_at = ? WHERE id = ?",
		time.Now(), chore.ID,
	); err != nil {
		return models.Activity{}, fmt.Errorf("marking chore completed: %w", err)
	}

	if err := transaction.Commit(); err != nil {
		return models.Activity{}, fmt.Errorf("committing completion: %w", err)
	}
	return activity, nil
}

// Redeem validates the child's balance and records a pending REDEMPTION
// activity. The balance itself is untouched here: approval is the one
// place redemption points are deducted.
func (repository *SQLiteActivityRepository) Redeem(ctx context.Context, childID string, points int, rewardName string) (models.Activity, error) {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Activity{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	var familyID string
	var balance sql.NullInt64
	err = transaction.QueryRowContext(ctx,
		"SELECT family_id, points FROM family_members WHERE id = ? AND role = ?",
		childID, models.RoleChild,
	).Scan(&familyID, &balance)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, ErrNotFound
	}
	if err != nil {
		return models.Activity{}, fmt.Errorf("reading child balance: %w", err)
	}
	if !balance.Valid || balance.Int64 < int64(points) {
		return models.Activity{}, ErrInsufficientPoints
	}

	activity := models.Activity{
		ID:        uuid.New().String(),
		FamilyID:  familyID,
		ChildID:   childID,
		Type:      models.ActivityRedemption,
		Status:    models.StatusPending,
		Points:    points,
		Name:      rewardName,
		Timestamp: time.Now(),
	}
	if err := insertActivity(ctx, transaction, activity); err != nil {
		return models.Activity{}, err
	}

	if err := transaction.Commit(); err != nil {
		return models.Activity{}, fmt.Errorf("committing redemption: %w", err)
	}
	return activity, nil
}

// DenyChore flips the chore to denied and pushes its latest non-rejected
// activity through the REJECTED transition under the same effect rule, so
// points come back only if they were actually credited.
func (repository *SQLiteActivityRepository) DenyChore(ctx context.Context, choreID string) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	chore, err := scanChore(transaction.QueryRowContext(ctx,
		"SELECT "+choreColumns+" FROM chores WHERE id = ?", choreID))
	if err != nil {
		return err
	}

	if _, err := transaction.ExecContext(ctx,
		"UPDATE chores SET completed = 0, denied = 1, updated_at = ? WHERE id = ?",
		time.Now(), chore.ID,
	); err != nil {
		return fmt.Errorf("marking chore denied: %w", err)
	}

	activity, err := scanActivity(transaction.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities
		WHERE chore_id = ? AND status != ?
		ORDER BY timestamp DESC LIMIT 1`,
		chore.ID, models.StatusRejected))
	if errors.Is(err, ErrNotFound) {
		// Never completed through the activity path; nothing to reverse.
		return transaction.Commit()
	}
	if err != nil {
		return err
	}

	if _, err := transaction.ExecContext(ctx,
		"UPDATE activities SET status = ? WHERE id = ?", models.StatusRejected, activity.ID,
	); err != nil {
		return fmt.Errorf("rejecting activity: %w", err)
	}

	if delta := PointsDelta(models.ActivityChore, activity.Status, models.StatusRejected, chore.Points); delta != 0 {
		if err := adjustBalance(ctx, transaction, activity.ChildID, delta); err != nil {
			return err
		}
	}

	return transaction.Commit()
}

func insertActivity(ctx context.Context, transaction *sql.Tx, activity models.Activity) error {
	_, err := transaction.ExecContext(ctx,
		`INSERT INTO activities (id, family_id, child_id, chore_id, type, status, points, name, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID, activity.FamilyID, activity.ChildID, activity.ChoreID,
		activity.Type, activity.Status, activity.Points, activity.Name, activity.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("creating activity: %w", err)
	}
	return nil
}

func adjustBalance(ctx context.Context, transaction *sql.Tx, memberID string, delta int) error {
	if _, err := transaction.ExecContext(ctx,
		"UPDATE family_members SET points = points + ?, updated_at = ? WHERE id = ?",
		delta, time.Now(), memberID,
	); err != nil {
		return fmt.Errorf("adjusting balance: %w", err)
	}
	return nil
}

func scanActivity(row rowScanner) (models.Activity, error) {
	var activity models.Activity
	err := row.Scan(
		&activity.ID, &activity.FamilyID, &activity.ChildID, &activity.ChoreID,
		&activity.Type, &activity.Status, &activity.Points, &activity.Name, &activity.Timestamp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Activity{}, ErrNotFound
	}
	if err != nil {
		return models.Activity{}, fmt.Errorf("scanning activity: %w", err)
	}
	return activity, nil
}
