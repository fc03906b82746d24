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

const memberColumns = "id, family_id, name, role, points, special_code, created_at, updated_at"

type MemberRepository interface {
	FindByID(ctx context.Context, id string) (models.FamilyMember, error)
	FindChildByCode(ctx context.Context, code string) (models.FamilyMember, error)
	FindChildren(ctx context.Context, familyID string) ([]models.FamilyMember, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	CreateChild(ctx context.Context, familyID, name, code string) (models.FamilyMember, error)
	Update(ctx context.Context, id string, patch models.MemberPatch) (models.FamilyMember, error)
	RemoveChild(ctx context.Context, id string) error
}

type SQLiteMemberRepository struct {
	database *sql.DB
}

func NewMemberRepository(database *sql.DB) *SQLiteMemberRepository {
	return &SQLiteMemberRepository{database: database}
}

func (repository *SQLiteMemberRepository) FindByID(ctx context.Context, id string) (models.FamilyMember, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM family_members WHERE id = ?", id)
	return scanMember(row)
}

func (repository *SQLiteMemberRepository) FindChildByCode(ctx context.Context, code string) (models.FamilyMember, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM family_members WHERE special_code = ? AND role = ?",
		code, models.RoleChild)
	return scanMember(row)
}

func (repository *SQLiteMemberRepository) FindChildren(ctx context.Context, familyID string) ([]models.FamilyMember, error) {
	rows, err := repository.database.QueryContext(ctx,
		"SELECT "+memberColumns+" FROM family_members WHERE family_id = ? AND role = ? ORDER BY name DESC",
		familyID, models.RoleChild)
	if err != nil {
		return nil, fmt.Errorf("finding children: %w", err)
	}
	defer rows.Close()

	var children []models.FamilyMember
	for rows.Next() {
		child, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, rows.Err()
}

func (repository *SQLiteMemberRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := repository.database.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM family_members WHERE special_code = ?", code,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking special code: %w", err)
	}
	return count > 0, nil
}

func (repository *SQLiteMemberRepository) CreateChild(ctx context.Context, familyID, name, code string) (models.FamilyMember, error) {
	now := time.Now()
	points := 0
	child := models.FamilyMember{
		ID:          uuid.New().String(),
		FamilyID:    familyID,
		Name:        name,
		Role:        models.RoleChild,
		Points:      &points,
		SpecialCode: &code,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := repository.database.ExecContext(ctx,
		`INSERT INTO family_members (id, family_id, name, role, points, special_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		child.ID, child.FamilyID, child.Name, child.Role, child.Points, child.SpecialCode,
		child.CreatedAt, child.UpdatedAt,
	)
	if err != nil {
		return models.FamilyMember{}, fmt.Errorf("creating child: %w", err)
	}
	return child, nil
}

func (repository *SQLiteMemberRepository) Update(ctx context.Context, id string, patch models.MemberPatch) (models.FamilyMember, error) {
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
	args = append(args, id)

	query := "UPDATE family_members SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	result, err := repository.database.ExecContext(ctx, query, args...)
	if err != nil {
		return models.FamilyMember{}, fmt.Errorf("updating member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return models.FamilyMember{}, fmt.Errorf("updating member: %w", err)
	}
	if affected == 0 {
		return models.FamilyMember{}, ErrNotFound
	}

	return repository.FindByID(ctx, id)
}

// RemoveChild deletes a member and everything hanging off it, in order:
// activities first, then chore assignments, then the member row itself.
func (repository *SQLiteMemberRepository) RemoveChild(ctx context.Context, id string) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(ctx,
		"DELETE FROM activities WHERE child_id = ?", id,
	); err != nil {
		return fmt.Errorf("deleting activities: %w", err)
	}

	if _, err := transaction.ExecContext(ctx,
		"UPDATE chores SET assigned_to_id = NULL, updated_at = ? WHERE assigned_to_id = ?",
		time.Now(), id,
	); err != nil {
		return fmt.Errorf("unassigning chores: %w", err)
	}

	result, err := transaction.ExecContext(ctx, "DELETE FROM family_members WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return transaction.Commit()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMember(row rowScanner) (models.FamilyMember, error) {
	var member models.FamilyMember
	err := row.Scan(
		&member.ID, &member.FamilyID, &member.Name, &member.Role,
		&member.Points, &member.SpecialCode, &member.CreatedAt, &member.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.FamilyMember{}, ErrNotFound
	}
	if err != nil {
		return models.FamilyMember{}, fmt.Errorf("scanning member: %w", err)
	}
	return member, nil
}
