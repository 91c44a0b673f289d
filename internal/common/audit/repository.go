// internal/common/audit/repository.go
package audit

import (
	"context"
	"database/sql"
	"time"

	apperrors "jira-assistant/internal/common/errors"

	"github.com/lib/pq"
)

// Entry is one answered query.
type Entry struct {
	SessionID    string
	Query        string
	Response     string
	Confidence   float64
	Sources      []string
	ActionReason string
	CreatedAt    time.Time
}

const insertEntry = `INSERT INTO query_audit
	(session_id, query, response, confidence, sources, action_reason, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Record(ctx context.Context, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	sources := entry.Sources
	if sources == nil {
		sources = []string{}
	}

	var reason sql.NullString
	if entry.ActionReason != "" {
		reason = sql.NullString{String: entry.ActionReason, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, insertEntry,
		entry.SessionID,
		entry.Query,
		entry.Response,
		entry.Confidence,
		pq.Array(sources),
		reason,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(err)
	}
	return nil
}
