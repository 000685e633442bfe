package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// uniqueViolation is the postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// Postgres implements the bank store interfaces on a pgxpool. Per-account
// serialization comes from row-level locks: every balance or
// transactional-password mutation runs inside a transaction that takes
// SELECT ... FOR UPDATE on the account row, and transfers lock both rows in
// ascending-id order.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

const accountColumns = `id, owner_id, owner_name, cpf, email, phone, number, agency, status, balance,
	transactional_secret, secret_set, failed_attempts, locked_until, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.ID, &acc.OwnerID, &acc.OwnerName, &acc.CPF, &acc.Email, &acc.Phone,
		&acc.Number, &acc.Agency, &acc.Status, &acc.Balance,
		&acc.SecretHash, &acc.SecretSet, &acc.FailedAttempts, &acc.LockedUntil,
		&acc.CreatedAt, &acc.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (p *Postgres) CreateAccount(ctx context.Context, acc *domain.Account) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO accounts (id, owner_id, owner_name, cpf, email, phone, number, agency, status, balance,
			transactional_secret, secret_set, failed_attempts, locked_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		acc.ID, acc.OwnerID, acc.OwnerName, acc.CPF, acc.Email, acc.Phone,
		acc.Number, acc.Agency, acc.Status, acc.Balance,
		acc.SecretHash, acc.SecretSet, acc.FailedAttempts, acc.LockedUntil,
		acc.CreatedAt, acc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (p *Postgres) Account(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := p.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (p *Postgres) ActiveAccountByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE owner_id = $1 AND status = 'ACTIVE' LIMIT 1`, ownerID)
	acc, err := scanAccount(row)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil, domain.ErrNoActiveAccount
	}
	return acc, err
}

func (p *Postgres) Credit(ctx context.Context, id uuid.UUID, amount domain.Money) (domain.Money, domain.Money, error) {
	return p.adjustBalance(ctx, id, amount, false)
}

func (p *Postgres) Debit(ctx context.Context, id uuid.UUID, amount domain.Money) (domain.Money, domain.Money, error) {
	return p.adjustBalance(ctx, id, amount, true)
}

func (p *Postgres) adjustBalance(ctx context.Context, id uuid.UUID, amount domain.Money, debit bool) (domain.Money, domain.Money, error) {
	if !amount.IsPositive() {
		return 0, 0, domain.ErrInvalidAmount
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback(ctx)

	var previous domain.Money
	err = tx.QueryRow(ctx, `SELECT balance FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, domain.ErrAccountNotFound
	}
	if err != nil {
		return 0, 0, err
	}

	next := previous.Add(amount)
	if debit {
		if previous.LessThan(amount) {
			return 0, 0, domain.ErrInsufficientFunds
		}
		next = previous.Sub(amount)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = $1, updated_at = NOW() WHERE id = $2`, next, id); err != nil {
		return 0, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, 0, err
	}
	return previous, next, nil
}

// Transfer moves amount between two accounts inside one transaction. Both
// rows are locked in ascending-id order so two opposing transfers cannot
// deadlock each other.
func (p *Postgres) Transfer(ctx context.Context, fromID, toID uuid.UUID, amount domain.Money) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx,
		`SELECT id, balance FROM accounts WHERE id = ANY($1) ORDER BY id FOR UPDATE`,
		[]uuid.UUID{fromID, toID})
	if err != nil {
		return err
	}
	balances := make(map[uuid.UUID]domain.Money, 2)
	for rows.Next() {
		var id uuid.UUID
		var balance domain.Money
		if err := rows.Scan(&id, &balance); err != nil {
			rows.Close()
			return err
		}
		balances[id] = balance
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	fromBalance, ok := balances[fromID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if _, ok := balances[toID]; !ok {
		return domain.ErrAccountNotFound
	}
	if fromBalance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = balance - $1, updated_at = NOW() WHERE id = $2`, amount, fromID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx,
		`UPDATE accounts SET balance = balance + $1, updated_at = NOW() WHERE id = $2`, amount, toID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MutateAccount locks the row, runs fn and writes the
// transactional-password fields back. The write is committed even when fn
// returns a domain error, so failed verification attempts stick.
func (p *Postgres) MutateAccount(ctx context.Context, id uuid.UUID, fn func(acc *domain.Account) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
	acc, err := scanAccount(row)
	if err != nil {
		return err
	}

	fnErr := fn(acc)

	if _, err := tx.Exec(ctx, `
		UPDATE accounts
		SET transactional_secret = $1, secret_set = $2, failed_attempts = $3, locked_until = $4, updated_at = NOW()
		WHERE id = $5`,
		acc.SecretHash, acc.SecretSet, acc.FailedAttempts, acc.LockedUntil, id); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	return fnErr
}

// --- api keys ---

func (p *Postgres) SaveAPIKey(ctx context.Context, accountID uuid.UUID, keyHash, keyPrefix string) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO api_keys (account_id, key_hash, key_prefix) VALUES ($1, $2, $3)`,
		accountID, keyHash, keyPrefix)
	if err != nil {
		return fmt.Errorf("failed to save api key: %w", err)
	}
	return nil
}

func (p *Postgres) AccountByAPIKey(ctx context.Context, keyHash string) (*domain.Account, error) {
	row := p.db.QueryRow(ctx, `
		SELECT `+qualified(accountColumns, "a")+`
		FROM accounts a
		JOIN api_keys k ON k.account_id = a.id
		WHERE k.key_hash = $1`, keyHash)
	return scanAccount(row)
}

// qualified prefixes every column in a comma-separated list with an alias.
func qualified(columns, alias string) string {
	parts := strings.Split(columns, ",")
	for i, c := range parts {
		parts[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(parts, ", ")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
