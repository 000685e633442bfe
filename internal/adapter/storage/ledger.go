package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// Ledger entry persistence. Entries are append-mostly: the only update ever
// issued is the single transition out of PROCESSING, guarded in SQL so a
// finalized row can never change again.

func (p *Postgres) SaveTransaction(ctx context.Context, txn *domain.Transaction) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO transactions (transaction_id, account_id, type, amount, previous_balance, new_balance,
			description, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		txn.ID, txn.AccountID, txn.Type, txn.Amount, txn.PreviousBalance, txn.NewBalance,
		txn.Description, txn.Status, txn.CreatedAt, txn.ProcessedAt)
	return err
}

func (p *Postgres) SavePixTransaction(ctx context.Context, pix *domain.PixTransaction) error {
	_, err := p.db.Exec(ctx, `
		INSERT INTO pix_transactions (transaction_id, from_account_id, to_account_id, amount, description,
			key_type, key_value, status, created_at, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pix.ID, pix.FromAccountID, pix.ToAccountID, pix.Amount, pix.Description,
		pix.KeyType, pix.KeyValue, pix.Status, pix.CreatedAt, pix.ProcessedAt)
	return err
}

func (p *Postgres) FinishPixTransaction(ctx context.Context, id string, status domain.TransactionStatus, processedAt time.Time) error {
	tag, err := p.db.Exec(ctx, `
		UPDATE pix_transactions
		SET status = $1, processed_at = $2
		WHERE transaction_id = $3 AND status IN ('PENDING', 'PROCESSING')`,
		status, processedAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := p.db.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM pix_transactions WHERE transaction_id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrEntryNotFound
		}
		return domain.ErrEntryFinalized
	}
	return nil
}

func (p *Postgres) AccountTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.Query(ctx, `
		SELECT transaction_id, account_id, type, amount, previous_balance, new_balance,
			description, status, created_at, processed_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(&txn.ID, &txn.AccountID, &txn.Type, &txn.Amount, &txn.PreviousBalance,
			&txn.NewBalance, &txn.Description, &txn.Status, &txn.CreatedAt, &txn.ProcessedAt); err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

func (p *Postgres) AccountPixTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.PixTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.db.Query(ctx, `
		SELECT transaction_id, from_account_id, to_account_id, amount, description,
			key_type, key_value, status, created_at, processed_at
		FROM pix_transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, accountID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.PixTransaction
	for rows.Next() {
		var pix domain.PixTransaction
		if err := rows.Scan(&pix.ID, &pix.FromAccountID, &pix.ToAccountID, &pix.Amount, &pix.Description,
			&pix.KeyType, &pix.KeyValue, &pix.Status, &pix.CreatedAt, &pix.ProcessedAt); err != nil {
			return nil, err
		}
		entries = append(entries, pix)
	}
	return entries, rows.Err()
}
