package core

import (
	"context"
	"errors"
)

var ErrTemplateNotFound = errors.New("template not found")

type TemplateRepository interface {
	SaveTemplate(ctx context.Context, tpl Template) error
	GetTemplate(ctx context.Context, name string) (Template, error)
	DeleteTemplate(ctx context.Context, name string) error
	ListTemplates(ctx context.Context) ([]Template, error)
}

type HistoryRepository interface {
	AddRecord(ctx context.Context, rec SessionRecord) error
	GetRecords(ctx context.Context, sessionID string, limit int) ([]SessionRecord, error)
}
