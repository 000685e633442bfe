package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// Pix key persistence. The pix_keys table carries a unique constraint on
// (key_value, key_type); violations map to domain.ErrDuplicateKey.

const pixKeyColumns = `id, account_id, key_type, key_value, owner_name, status, created_at`

func scanPixKey(row pgx.Row) (*domain.PixKey, error) {
	var key domain.PixKey
	err := row.Scan(&key.ID, &key.AccountID, &key.Type, &key.Value, &key.OwnerName, &key.Status, &key.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrKeyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func (p *Postgres) SaveKey(ctx context.Context, key *domain.PixKey) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO pix_keys (id, account_id, key_type, key_value, owner_name, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.AccountID, key.Type, key.Value, key.OwnerName, key.Status, key.CreatedAt)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateKey
	}
	return err
}

func (p *Postgres) KeyByID(ctx context.Context, id uuid.UUID) (*domain.PixKey, error) {
	row := p.db.QueryRow(ctx, `SELECT `+pixKeyColumns+` FROM pix_keys WHERE id = $1`, id)
	return scanPixKey(row)
}

func (p *Postgres) KeyByValue(ctx context.Context, keyType domain.PixKeyType, value string) (*domain.PixKey, error) {
	row := p.db.QueryRow(ctx,
		`SELECT `+pixKeyColumns+` FROM pix_keys WHERE key_value = $1 AND key_type = $2`, value, keyType)
	return scanPixKey(row)
}

func (p *Postgres) KeysByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.PixKey, error) {
	rows, err := p.db.Query(ctx,
		`SELECT `+pixKeyColumns+` FROM pix_keys WHERE account_id = $1 ORDER BY created_at`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.PixKey
	for rows.Next() {
		var key domain.PixKey
		if err := rows.Scan(&key.ID, &key.AccountID, &key.Type, &key.Value, &key.OwnerName, &key.Status, &key.CreatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (p *Postgres) CountActiveKeys(ctx context.Context, accountID uuid.UUID) (int, error) {
	var count int
	err := p.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM pix_keys WHERE account_id = $1 AND status = 'ACTIVE'`, accountID).Scan(&count)
	return count, err
}

func (p *Postgres) UpdateKeyStatus(ctx context.Context, id uuid.UUID, status domain.PixKeyStatus) error {
	tag, err := p.db.Exec(ctx, `UPDATE pix_keys SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

func (p *Postgres) DeleteKey(ctx context.Context, id uuid.UUID) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM pix_keys WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}
