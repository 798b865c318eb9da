// Package repository implements the mapping store on PostgreSQL through
// database/sql and the pgx driver.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/models"
	"github.com/atinyakov/url-resolver/internal/storage"
)

const (
	maxOpenConnections = 10
	maxIdleConnections = 5
	connMaxIdleTime    = 2 * time.Minute
	connMaxLifetime    = 30 * time.Minute
	pingTimeout        = 5 * time.Second
)

const schema = `
	CREATE TABLE IF NOT EXISTS long_url (
		id BIGSERIAL PRIMARY KEY,
		url TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS short_url (
		id BIGSERIAL PRIMARY KEY,
		long_url_id BIGINT NOT NULL UNIQUE REFERENCES long_url(id),
		url TEXT NOT NULL UNIQUE
	);`

// InitDB opens the pool, checks the connection and creates the schema when
// it does not exist yet.
func InitDB(ctx context.Context, dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConnections)
	db.SetMaxIdleConns(maxIdleConnections)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Info("Database connected and tables ready")
	return db, nil
}

// CreateSchema creates both tables if they are missing.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}

// URLRepository is the PostgreSQL mapping store.
type URLRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func CreateURLRepository(db *sql.DB, logger *zap.Logger) *URLRepository {
	return &URLRepository{
		db:     db,
		logger: logger,
	}
}

// WithinTx runs fn inside a database transaction, committing when fn returns
// nil and rolling back on error or panic.
func (r *URLRepository) WithinTx(ctx context.Context, fn storage.TxFunc) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.NewStorageError("begin", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}

		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("rollback failed", zap.Error(rbErr))
			}
			return
		}

		if commitErr := tx.Commit(); commitErr != nil {
			err = models.NewStorageError("commit", commitErr)
		}
	}()

	return fn(&sqlTx{tx: tx})
}

func (r *URLRepository) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) FindLongURL(ctx context.Context, url string) (*models.LongURLRecord, error) {
	var rec models.LongURLRecord

	err := t.tx.QueryRowContext(ctx, "SELECT id, url FROM long_url WHERE url = $1;", url).
		Scan(&rec.ID, &rec.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify("find long url", err)
	}

	return &rec, nil
}

func (t *sqlTx) InsertLongURL(ctx context.Context, url string) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO long_url (url) VALUES ($1) ON CONFLICT (url) DO NOTHING;", url)

	return classify("insert long url", err)
}

func (t *sqlTx) FindLongURLID(ctx context.Context, url string) (int64, bool, error) {
	var id int64

	err := t.tx.QueryRowContext(ctx, "SELECT id FROM long_url WHERE url = $1;", url).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify("find long url id", err)
	}

	return id, true, nil
}

func (t *sqlTx) FindShortTokenForLongURL(ctx context.Context, url string) (string, bool, error) {
	var token string

	err := t.tx.QueryRowContext(ctx,
		`SELECT s.url FROM short_url s
		JOIN long_url l ON s.long_url_id = l.id
		WHERE l.url = $1;`, url).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("find short url", err)
	}

	return token, true, nil
}

func (t *sqlTx) FindLongURLForToken(ctx context.Context, token string) (string, bool, error) {
	var url string

	err := t.tx.QueryRowContext(ctx,
		`SELECT l.url FROM long_url l
		JOIN short_url s ON s.long_url_id = l.id
		WHERE s.url = $1;`, token).Scan(&url)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("find long url by token", err)
	}

	return url, true, nil
}

// InsertShortURL skips conflicting rows instead of failing so the
// transaction stays usable for the caller's re-read.
func (t *sqlTx) InsertShortURL(ctx context.Context, token string, longURLID int64) error {
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO short_url (url, long_url_id) VALUES ($1, $2) ON CONFLICT DO NOTHING;",
		token, longURLID)
	if err != nil {
		return classify("insert short url", err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return classify("insert short url", err)
	}

	if rowsAffected == 0 {
		return models.ErrConflict
	}

	return nil
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return models.ErrConflict
	}

	return models.NewStorageError(op, err)
}
