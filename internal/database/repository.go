package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/thetanishqrawat05/QuickApply-sub000/internal/models"
)

type Repository struct {
	db *pgxpool.Pool
}

func ConnectDB(ctx context.Context, connString string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Pooled Postgres (PgBouncer in transaction mode) breaks prepared
	// statements, so force simple exec mode.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{db: pool}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- USER OPERATIONS ----------------

// GetOrCreateUser looks a user up by email, creating a row on first sight.
func (r *Repository) GetOrCreateUser(ctx context.Context, email, name string) (*models.User, error) {
	var user models.User

	err := r.db.QueryRow(ctx, "SELECT id, email, name, created_at, updated_at FROM users WHERE email = $1", email).
		Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)

	if err == pgx.ErrNoRows {
		query := `
			INSERT INTO users (email, name)
			VALUES ($1, $2)
			RETURNING id, email, name, created_at, updated_at`
		err = r.db.QueryRow(ctx, query, email, name).
			Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	return &user, nil
}

// ---------------- SESSION OPERATIONS ----------------

// SaveSession upserts the audit row for a session. Called after every
// status transition so the table mirrors the in-memory registry.
func (r *Repository) SaveSession(ctx context.Context, rec *models.SessionRecord) error {
	query := `
		INSERT INTO sessions (id, approval_token, job_url, platform, status, requires_login, is_logged_in, filled_count, error_message, created_at, expires_at, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id)
		DO UPDATE SET status = EXCLUDED.status, is_logged_in = EXCLUDED.is_logged_in,
			filled_count = EXCLUDED.filled_count, error_message = EXCLUDED.error_message,
			expires_at = EXCLUDED.expires_at, submitted_at = EXCLUDED.submitted_at`

	_, err := r.db.Exec(ctx, query,
		rec.ID, rec.ApprovalToken, rec.JobURL, rec.Platform, rec.Status,
		rec.RequiresLogin, rec.IsLoggedIn, rec.FilledCount, rec.ErrorMessage,
		rec.CreatedAt, rec.ExpiresAt, rec.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// GetSession retrieves the audit row for one session.
func (r *Repository) GetSession(ctx context.Context, id string) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	query := `SELECT id, approval_token, job_url, platform, status, requires_login, is_logged_in, filled_count, error_message, created_at, expires_at, submitted_at FROM sessions WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).
		Scan(&rec.ID, &rec.ApprovalToken, &rec.JobURL, &rec.Platform, &rec.Status,
			&rec.RequiresLogin, &rec.IsLoggedIn, &rec.FilledCount, &rec.ErrorMessage,
			&rec.CreatedAt, &rec.ExpiresAt, &rec.SubmittedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &rec, nil
}

// ---------------- APPLICATION LOG OPERATIONS ----------------

// InsertApplicationLog appends one audit event for a session.
func (r *Repository) InsertApplicationLog(ctx context.Context, entry *models.ApplicationLog) error {
	query := `
		INSERT INTO application_logs (session_id, event, status, detail)
		VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, entry.SessionID, entry.Event, entry.Status, entry.Detail)
	if err != nil {
		return fmt.Errorf("failed to insert application log: %w", err)
	}
	return nil
}

// ListApplicationLogs returns a session's audit trail, oldest first.
func (r *Repository) ListApplicationLogs(ctx context.Context, sessionID string) ([]models.ApplicationLog, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, session_id, event, status, detail, created_at FROM application_logs WHERE session_id = $1 ORDER BY created_at",
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list application logs: %w", err)
	}
	defer rows.Close()

	var logs []models.ApplicationLog
	for rows.Next() {
		var l models.ApplicationLog
		if err := rows.Scan(&l.ID, &l.SessionID, &l.Event, &l.Status, &l.Detail, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
