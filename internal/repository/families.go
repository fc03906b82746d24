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

type FamilyRepository interface {
	// CreateWithParent creates the family and its first PARENT member in
	// one transaction. The member's ID is the identity account ID.
	CreateWithParent(ctx context.Context, familyName, accountID, parentName string) (models.Family, models.FamilyMember, error)
	FindByID(ctx context.Context, id string) (models.Family, error)
}

type SQLiteFamilyRepository struct {
	database *sql.DB
}

func NewFamilyRepository(database *sql.DB) *SQLiteFamilyRepository {
	return &SQLiteFamilyRepository{database: database}
}

func (repository *SQLiteFamilyRepository) CreateWithParent(ctx context.Context, familyName, accountID, parentName string) (models.Family, models.FamilyMember, error) {
	now := time.Now()
	family := models.Family{
		ID:        uuid.New().String(),
		Name:      familyName,
		CreatedAt: now,
	}
	parent := models.FamilyMember{
		ID:        accountID,
		FamilyID:  family.ID,
		Name:      parentName,
		Role:      models.RoleParent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return models.Family{}, models.FamilyMember{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	if _, err := transaction.ExecContext(ctx,
		"INSERT INTO families (id, name, created_at) VALUES (?, ?, ?)",
		family.ID, family.Name, family.CreatedAt,
	); err != nil {
		return models.Family{}, models.FamilyMember{}, fmt.Errorf("creating family: %w", err)
	}

	if _, err := transaction.ExecContext(ctx,
		`INSERT INTO family_members (id, family_id, name, role, points, special_code, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, NULL, ?, ?)`,
		parent.ID, parent.FamilyID, parent.Name, parent.Role, parent.CreatedAt, parent.UpdatedAt,
	); err != nil {
		return models.Family{}, models.FamilyMember{}, fmt.Errorf("creating parent member: %w", err)
	}

	if err := transaction.Commit(); err != nil {
		return models.Family{}, models.FamilyMember{}, fmt.Errorf("committing family: %w", err)
	}
	return family, parent, nil
}

func (repository *SQLiteFamilyRepository) FindByID(ctx context.Context, id string) (models.Family, error) {
	var family models.Family
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM families WHERE id = ?", id,
	).Scan(&family.ID, &family.Name, &family.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Family{}, ErrNotFound
	}
	if err != nil {
		return models.Family{}, fmt.Errorf("finding family by id: %w", err)
	}
	return family, nil
}
