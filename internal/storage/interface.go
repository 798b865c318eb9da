// Package storage holds the mapping store contract and its in-process
// backends: a memory store and a file store journaling to JSON lines.
package storage

import (
	"context"

	"github.com/atinyakov/url-resolver/internal/models"
)

//go:generate mockgen -source=interface.go -destination=../mocks/storage_mock.go -package=mocks

// Tx is a transaction-scoped handle to the mapping store. Lookups report
// absence through a nil record or a false flag, never through an error.
type Tx interface {
	FindLongURL(ctx context.Context, url string) (*models.LongURLRecord, error)
	InsertLongURL(ctx context.Context, url string) error
	FindLongURLID(ctx context.Context, url string) (int64, bool, error)
	FindShortTokenForLongURL(ctx context.Context, url string) (string, bool, error)
	FindLongURLForToken(ctx context.Context, token string) (string, bool, error)
	InsertShortURL(ctx context.Context, token string, longURLID int64) error
}

// TxFunc is the body of a transaction.
type TxFunc func(tx Tx) error
