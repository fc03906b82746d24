package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JeffBaumgardt/family-chores/internal/models"
	"github.com/google/uuid"
)

const choreColumns = "id, family_id, name, points, optional, completed, denied, assigned_to_id, created_at, updated_at"

// ChoreWithAssignee pairs a chore with its assignee's display name for the
// dashboard listing.
type ChoreWithAssignee struct {
	models.Chore
	AssignedToName *string
}

// ChoreReview is one row of the parent's completed-chore review list.
type ChoreReview struct {
	ChoreID   string
	ChoreName string
	Points    int
	Completed bool
	Denied    bool
	KidID     string
	KidName   string
	UpdatedAt time.Time
}

type ChoreRepository interface {
	FindByID(ctx context.Context, id string) (models.Chore, error)
	FindOpenByFamily(ctx context.Context, familyID string) ([]ChoreWithAssignee, error)
	FindCompletedByFamily(ctx context.Context, familyID string) ([]ChoreReview, error)
	Create(ctx context.Context, chore models.Chore) (models.Chore, error)
	Update(ctx context.Context, id string, patch models.ChorePatch) (models.Chore, error)
	Delete(ctx context.Context, id string) error
	ClearFlags(ctx context.Context, id string) error
}

type SQLiteChoreRepository struct {
	database *sql.DB
}

func NewChoreRepository(database *sql.DB) *SQLiteChoreRepository {
	return &SQLiteChoreRepository{database: database}
}

func (repository *SQLiteChoreRepository) FindByID(ctx context.Context, id string) (models.Chore, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+choreColumns+" FROM chores WHERE id = ?", id)
	return scanChore(row)
}

func (repository *SQLiteChoreRepository) FindOpenByFamily(ctx context.Context, familyID string) ([]ChoreWithAssignee, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT c.id, c.family_id, c.name, c.points, c.optional, c.completed, c.denied,
			c.assigned_to_id, c.created_at, c.updated_at, m.name
		FROM chores c
		LEFT JOIN family_members m ON m.id = c.assigned_to_id
		WHERE c.family_id = ? AND c.completed = 0
		ORDER BY c.name ASC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("finding open chores: %w", err)
	}
	defer rows.Close()

	var chores []ChoreWithAssignee
	for rows.Next() {
		var chore ChoreWithAssignee
		if err := rows.Scan(
			&chore.ID, &chore.FamilyID, &chore.Name, &chore.Points,
			&chore.Optional, &chore.Completed, &chore.Denied,
			&chore.AssignedToID, &chore.CreatedAt, &chore.UpdatedAt,
			&chore.AssignedToName,
		); err != nil {
			return nil, fmt.Errorf("scanning chore: %w", err)
		}
		chores = append(chores, chore)
	}
	return chores, rows.Err()
}

func (repository *SQLiteChoreRepository) FindCompletedByFamily(ctx context.Context, familyID string) ([]ChoreReview, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT c.id, c.name, c.points, c.completed, c.denied, m.id, m.name, c.updated_at
		FROM chores c
		JOIN family_members m ON m.id = c.assigned_to_id
		WHERE m.family_id = ? AND m.role = ? AND c.completed = 1
		ORDER BY c.updated_at DESC`,
		familyID, models.RoleChild,
	)
	if err != nil {
		return nil, fmt.Errorf("finding completed chores: %w", err)
	}
	defer rows.Close()

	var reviews []ChoreReview
	for rows.Next() {
		var review ChoreReview
		if err := rows.Scan(
			&review.ChoreID, &review.ChoreName, &review.Points,
			&review.Completed, &review.Denied,
			&review.KidID, &review.KidName, &review.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning chore review: %w", err)
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

func (repository *SQLiteChoreRepository) Create(ctx context.Context, chore models.Chore) (models.Chore, error) {
	if chore.ID == "" {
		chore.ID = uuid.New().String()
	}
	now := time.Now()
	chore.CreatedAt = now
	chore.UpdatedAt = now

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO chores (id, family_id, name, points, optional, completed, denied, assigned_to_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		chore.ID, chore.FamilyID, chore.Name, chore.Points, chore.Optional,
		chore.Completed, chore.Denied, chore.AssignedToID, chore.CreatedAt, chore.UpdatedAt,
	)
	if err != nil {
		return models.Chore{}, fmt.Errorf("creating chore: %w", err)
	}
	return chore, nil
}

func (repository *SQLiteChoreRepository) Update(ctx context.Context, id string, patch models.ChorePatch) (models.Chore, error) {
	assignments := []string{"updated_at = ?"}
	args := []interface{}{time.Now()}

	if patch.Name != nil {
		assignments = append(assignments, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Points != nil {
		assignments = append(assignments, "points = ?")
		args = append(args, *patch.Points)
	}
	if patch.Optional != nil {
		assignments = append(assignments, "optional = ?")
		args = append(args, *patch.Optional)
	}
	if patch.AssignedToID != nil {
		assignments = append(assignments, "assigned_to_id = ?")
		if *patch.AssignedToID == "" {
			args = append(args, nil)
		} else {
			args = append(args, *patch.AssignedToID)
		}
	}
	args = append(args, id)

	query := "UPDATE chores SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	result, err := repository.database.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Chore{}, fmt.Errorf("updating chore: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.Chore{}, fmt.Errorf("updating chore: %w", err)
	}
	if affected == 0 {
		return models.Chore{}, ErrNotFound
	}

	return repository.FindByID(ctx, id)
}

func (repository *SQLiteChoreRepository) Delete(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx, "DELETE FROM chores WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting chore: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting chore: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearFlags re-enables a chore: both completed and denied go back to false.
func (repository *SQLiteChoreRepository) ClearFlags(ctx context.Context, id string) error {
	result, err := repository.database.ExecContext(ctx,
		"UPDATE chores SET completed = 0, denied = 0, updated_at = ? WHERE id = ?",
		time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("re-enabling chore: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("re-enabling chore: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanChore(row rowScanner) (models.Chore, error) {
	var chore models.Chore
	err := row.Scan(
		&chore.ID, &chore.FamilyID, &chore.Name, &chore.Points,
		&chore.Optional, &chore.Completed, &chore.Denied,
		&chore.AssignedToID, &chore.CreatedAt, &chore.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chore{}, ErrNotFound
	}
	if err != nil {
		return models.Chore{}, fmt.Errorf("scanning chore: %w", err)
	}
	return chore, nil
}
