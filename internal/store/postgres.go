package store

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostgresSchema creates the single JSONB table the postgres backend keeps
// every collection in.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS seed_documents (
	collection TEXT        NOT NULL,
	id         TEXT        NOT NULL,
	data       JSONB       NOT NULL,
	written_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
)`

const (
	upsertDocument = `
INSERT INTO seed_documents (collection, id, data, written_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, written_at = EXCLUDED.written_at`

	deleteDocument = `DELETE FROM seed_documents WHERE collection = $1 AND id = $2`

	listDocumentIDs = `SELECT id FROM seed_documents WHERE collection = $1 ORDER BY id`
)

// PostgresOptions configures the connection pool.
type PostgresOptions struct {
	URL             string
	MaxConns        int32
	MaxConnLifetime time.Duration
}

// Postgres is a Store that keeps documents as JSONB rows. One batch is one
// transaction.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres opens a pool, verifies the connection and ensures the schema.
func NewPostgres(ctx context.Context, opts PostgresOptions, logger *zap.Logger) (*Postgres, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	poolConfig, err := pgxpool.ParseConfig(opts.URL)
	if err != nil {
		return nil, errors.Wrap(err, "parse database URL")
	}
	if opts.MaxConns > 0 {
		poolConfig.MaxConns = opts.MaxConns
	}
	if opts.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, errors.Wrap(err, "connect to database")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	if _, err := pool.Exec(ctx, PostgresSchema); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "create seed_documents table")
	}

	if u, err := url.Parse(opts.URL); err == nil {
		logger.Info("connected to database", zap.String("name", strings.TrimPrefix(u.Path, "/")))
	} else {
		logger.Info("connected to database")
	}
	return &Postgres{pool: pool, logger: logger}, nil
}

func (p *Postgres) Commit(ctx context.Context, collection string, ops []Op) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback(ctx) // no-op after commit

	batch := &pgx.Batch{}
	for _, op := range ops {
		switch op.Kind {
		case OpSet:
			batch.Queue(upsertDocument, collection, op.ID, op.Data)
		case OpDelete:
			batch.Queue(deleteDocument, collection, op.ID)
		}
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrapf(err, "write %d operations to %s", len(ops), collection)
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}

func (p *Postgres) ListIDs(ctx context.Context, collection string) ([]string, error) {
	rows, err := p.pool.Query(ctx, listDocumentIDs, collection)
	if err != nil {
		return nil, errors.Wrapf(err, "list documents of %s", collection)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, errors.Wrapf(err, "scan document ids of %s", collection)
	}
	return ids, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
