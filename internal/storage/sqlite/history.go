package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/pkg/log"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (h *HistoryRepo) AddRecord(ctx context.Context, rec core.SessionRecord) error {
	answersJSON, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}

	// A nil slice marshals to "null"; store it as empty.
	answers := string(answersJSON)
	if answers == "null" {
		answers = ""
	}

	query := `INSERT INTO session_history (session_id, template, command, outcome, answers, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	_, err = h.db.ExecContext(ctx, query, rec.SessionID, rec.Template, rec.Command, string(rec.Outcome), answers, rec.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert session record: %w", err)
	}
	return nil
}

// GetRecords returns the last limit records of sessionID, newest first.
func (h *HistoryRepo) GetRecords(ctx context.Context, sessionID string, limit int) ([]core.SessionRecord, error) {
	query := `SELECT id, session_id, template, command, outcome, answers, created_at FROM session_history WHERE session_id = ? ORDER BY id DESC LIMIT ?`

	rows, err := h.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query session history: %w", err)
	}
	defer rows.Close()

	var records []core.SessionRecord
	for rows.Next() {
		var rec core.SessionRecord
		var outcome string
		var answers sql.NullString

		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.Template, &rec.Command, &outcome, &answers, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session record: %w", err)
		}
		rec.Outcome = core.SessionOutcome(outcome)

		if answers.Valid && answers.String != "" {
			if err := json.Unmarshal([]byte(answers.String), &rec.Answers); err != nil {
				return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
			}
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Debug().Int("count", len(records)).Str("session", sessionID).Msg("loaded session history")
	return records, nil
}
