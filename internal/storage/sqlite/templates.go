package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sandevgo/prompter/internal/core"
	"github.com/sandevgo/prompter/pkg/log"
)

type TemplatesRepo struct {
	db *sql.DB
}

func NewTemplatesRepo(db *sql.DB) *TemplatesRepo {
	return &TemplatesRepo{db: db}
}

// SaveTemplate inserts tpl or replaces the template with the same name.
func (r *TemplatesRepo) SaveTemplate(ctx context.Context, tpl core.Template) error {
	query := `INSERT INTO templates (name, body, created_by, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, created_by = excluded.created_by, created_at = excluded.created_at`

	if _, err := r.db.ExecContext(ctx, query, tpl.Name, tpl.Body, tpl.CreatedBy, tpl.CreatedAt.UTC()); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	log.FromCtx(ctx).Debug().Str("template", tpl.Name).Msg("template saved")
	return nil
}

func (r *TemplatesRepo) GetTemplate(ctx context.Context, name string) (core.Template, error) {
	query := `SELECT name, body, created_by, created_at FROM templates WHERE name = ?`

	var tpl core.Template
	err := r.db.QueryRowContext(ctx, query, name).Scan(&tpl.Name, &tpl.Body, &tpl.CreatedBy, &tpl.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Template{}, core.ErrTemplateNotFound
		}
		return core.Template{}, fmt.Errorf("failed to get template: %w", err)
	}
	return tpl, nil
}

func (r *TemplatesRepo) DeleteTemplate(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM templates WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return core.ErrTemplateNotFound
	}
	return nil
}

func (r *TemplatesRepo) ListTemplates(ctx context.Context) ([]core.Template, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, body, created_by, created_at FROM templates ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []core.Template
	for rows.Next() {
		var tpl core.Template
		if err := rows.Scan(&tpl.Name, &tpl.Body, &tpl.CreatedBy, &tpl.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, tpl)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}
