package service

import (
	"context"

	"github.com/atinyakov/url-resolver/internal/storage"
)

//go:generate mockgen -source=interface.go -destination=../../mocks/service_mock.go -package=mocks

// Storage is a mapping store that hands out transaction-scoped handles.
type Storage interface {
	WithinTx(ctx context.Context, fn storage.TxFunc) error
	PingContext(ctx context.Context) error
}

// Cache remembers resolved tokens. Implementations report a miss with
// ok == false.
type Cache interface {
	Get(ctx context.Context, token string) (string, bool, error)
	Set(ctx context.Context, token, longURL string) error
}

// TokenGenerator mints new random tokens.
type TokenGenerator interface {
	Generate() (string, error)
}

// URLServiceIface is what the transports depend on.
type URLServiceIface interface {
	CreateOrFetch(ctx context.Context, longURL, suggestedToken string) (string, error)
	Resolve(ctx context.Context, token string) (string, error)
	PingContext(ctx context.Context) error
}
