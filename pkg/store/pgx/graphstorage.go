package pgx

import (
	"context"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// GraphDBStorage implements store.GraphStore on PostgreSQL. Nodes and edges
// live in two tables with unique keys, so INSERT ... ON CONFLICT DO NOTHING
// is the find-or-create primitive and no application lock is needed.
type GraphDBStorage struct {
	conn             pgxIConn
	statementTimeout time.Duration
}

type GraphDBStorageOption func(*GraphDBStorage)

// WithStatementTimeout bounds every statement the storage issues.
func WithStatementTimeout(d time.Duration) GraphDBStorageOption {
	return func(s *GraphDBStorage) {
		s.statementTimeout = d
	}
}

// NewGraphDBStorageWithConnection creates a GraphDBStorage on an existing
// pool, connection or transaction.
func NewGraphDBStorageWithConnection(
	conn pgxIConn,
	opts ...GraphDBStorageOption,
) *GraphDBStorage {
	s := &GraphDBStorage{
		conn: conn,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

func (s *GraphDBStorage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.statementTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.statementTimeout)
}
