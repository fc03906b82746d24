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

type AccountRepository interface {
	Create(ctx context.Context, account models.Account) (models.Account, error)
	FindByEmail(ctx context.Context, email string) (models.Account, error)
	FindByID(ctx context.Context, id string) (models.Account, error)
}

type SQLiteAccountRepository struct {
	database *sql.DB
}

func NewAccountRepository(database *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{database: database}
}

func (repository *SQLiteAccountRepository) Create(ctx context.Context, account models.Account) (models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.CreatedAt = time.Now()

	var existing int
	err := repository.database.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM accounts WHERE email = ?", account.Email,
	).Scan(&existing)
	if err != nil {
		return models.Account{}, fmt.Errorf("checking email: %w", err)
	}
	if existing > 0 {
		return models.Account{}, ErrEmailInUse
	}

	_, err = repository.database.ExecContext(ctx,
		"INSERT INTO accounts (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		account.ID, account.Email, account.PasswordHash, account.CreatedAt,
	)
	if err != nil {
		return models.Account{}, fmt.Errorf("creating account: %w", err)
	}
	return account, nil
}

func (repository *SQLiteAccountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM accounts WHERE email = ?", email,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("finding account by email: %w", err)
	}
	return account, nil
}

func (repository *SQLiteAccountRepository) FindByID(ctx context.Context, id string) (models.Account, error) {
	var account models.Account
	err := repository.database.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM accounts WHERE id = ?", id,
	).Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, ErrNotFound
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("finding account by id: %w", err)
	}
	return account, nil
}
