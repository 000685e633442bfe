// Package worker delivers transfer notifications out of band. Completed pix
// transfers are enqueued as webhook jobs; a background loop drains the queue
// with retry and backoff so a slow or dead receiver never touches the
// transfer path.
package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jairft/Bank-service/internal/core/domain"
	"github.com/jairft/Bank-service/internal/core/notifications"
)

const (
	pollInterval = 5 * time.Second
	maxAttempts  = 5
)

// Enqueuer implements bank.EventSink on the webhook_jobs table.
type Enqueuer struct {
	DB  *pgxpool.Pool
	URL string
}

// TransferCompleted records a notification job. Failures are logged, never
// propagated: the transfer already committed.
func (e *Enqueuer) TransferCompleted(ctx context.Context, pix *domain.PixTransaction) {
	if e.URL == "" {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event":       "pix.transfer.completed",
		"transaction": pix,
	})
	if err != nil {
		slog.Error("Worker: failed to encode notification", "error", err, "transaction", pix.ID)
		return
	}

	_, err = e.DB.Exec(ctx, `
		INSERT INTO webhook_jobs (url, payload, status, attempts, next_run_at, created_at)
		VALUES ($1, $2, 'PENDING', 0, NOW(), NOW())`, e.URL, payload)
	if err != nil {
		slog.Error("Worker: failed to enqueue notification", "error", err, "transaction", pix.ID)
	}
}

// StartNotifier launches the delivery loop.
func StartNotifier(db *pgxpool.Pool, secret string) {
	go func() {
		slog.Info("Webhook notifier started")
		for {
			processJobs(db, secret)
			time.Sleep(pollInterval)
		}
	}()
}

func processJobs(db *pgxpool.Pool, secret string) {
	ctx := context.Background()

	// SKIP LOCKED lets multiple instances drain the queue without stepping
	// on each other.
	query := `
		SELECT id, url, payload, attempts
		FROM webhook_jobs
		WHERE status = 'PENDING' AND next_run_at <= NOW()
		ORDER BY created_at ASC
		LIMIT 1
		FOR UPDATE SKIP LOCKED
	`

	var id string
	var url string
	var payloadBytes []byte
	var attempts int

	err := db.QueryRow(ctx, query).Scan(&id, &url, &payloadBytes, &attempts)
	if err != nil {
		return
	}

	var payload interface{}
	if err := json.Unmarshal(payloadBytes, &payload); err != nil {
		slog.Error("Worker: failed to parse payload", "error", err, "job_id", id)
		db.Exec(ctx, `UPDATE webhook_jobs SET status = 'FAILED' WHERE id = $1`, id)
		return
	}

	slog.Info("Worker: processing job", "url", url, "job_id", id)

	if sendErr := notifications.SendWebhook(url, payload, secret); sendErr != nil {
		slog.Error("Worker: webhook failed", "error", sendErr, "attempts", attempts)
		nextRun := time.Now().Add(time.Duration(attempts*10+10) * time.Second)

		if attempts >= maxAttempts {
			db.Exec(ctx, `UPDATE webhook_jobs SET status = 'FAILED' WHERE id = $1`, id)
			slog.Error("Worker: job marked FAILED, max attempts reached", "job_id", id)
		} else {
			db.Exec(ctx, `UPDATE webhook_jobs SET status = 'PENDING', attempts = attempts + 1, next_run_at = $2 WHERE id = $1`, id, nextRun)
			slog.Info("Worker: scheduled retry", "next_run", nextRun)
		}
		return
	}

	db.Exec(ctx, `UPDATE webhook_jobs SET status = 'COMPLETED' WHERE id = $1`, id)
	slog.Info("Worker: webhook delivered", "job_id", id)
}
