package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the persistent template store.
type Store interface {
	CreateTemplate(ctx context.Context, arg CreateTemplateParams) (Template, error)
	GetTemplate(ctx context.Context, path string) (Template, error)
	GetTemplateVersion(ctx context.Context, path string) (time.Time, error)
	ListTemplates(ctx context.Context, arg ListTemplatesParams) ([]TemplateSummary, error)
	UpdateTemplate(ctx context.Context, arg UpdateTemplateParams) (Template, error)
	DeleteTemplate(ctx context.Context, path string) error
	SaveTemplateTx(ctx context.Context, arg SaveTemplateTxParams) (SaveTemplateTxResult, error)
	Shutdown()
}

type SQLStore struct {
	*Queries
	connPool *pgxpool.Pool
}

func NewStore(connPool *pgxpool.Pool) Store {
	return &SQLStore{
		connPool: connPool,
		Queries:  New(connPool),
	}
}

// execTx runs fn inside a database transaction, rolling back when fn fails.
func (s *SQLStore) execTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := s.connPool.Begin(ctx)
	if err != nil {
		return err
	}

	q := New(tx)
	err = fn(q)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx err: %v, rb err: %v", err, rbErr)
		}
		return err
	}

	return tx.Commit(ctx)
}

// Shutdown closes the connection pool.
func (s *SQLStore) Shutdown() {
	s.connPool.Close()
}
