package loader

import (
	"context"
	"errors"
	"time"

	db "github.com/Drolfothesgnir/gohaa/db/sqlc"
)

// TemplateReader is the part of the template store the database loader reads from.
type TemplateReader interface {
	GetTemplate(ctx context.Context, path string) (db.Template, error)
	GetTemplateVersion(ctx context.Context, path string) (time.Time, error)
}

// Database loads templates stored in Postgres. The version is the row's updated_at.
type Database struct {
	store TemplateReader
}

func NewDatabase(store TemplateReader) *Database {
	return &Database{store: store}
}

func notFound(name string, err error) error {
	if errors.Is(err, db.ErrTemplateNotFound) {
		return &NotFoundError{Name: name, Err: err}
	}
	return err
}

func (l *Database) Load(ctx context.Context, name string) (*Template, error) {
	tmpl, err := l.store.GetTemplate(ctx, name)
	if err != nil {
		return nil, notFound(name, err)
	}
	return &Template{
		Name:    name,
		Origin:  "db:" + tmpl.Path,
		Source:  tmpl.Source,
		Version: tmpl.UpdatedAt,
	}, nil
}

func (l *Database) Version(ctx context.Context, name string) (time.Time, error) {
	v, err := l.store.GetTemplateVersion(ctx, name)
	if err != nil {
		return time.Time{}, notFound(name, err)
	}
	return v, nil
}
