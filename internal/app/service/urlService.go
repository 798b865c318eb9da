package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/models"
	"github.com/atinyakov/url-resolver/internal/storage"
)

// maxTokenAttempts bounds regeneration of a colliding generated token.
const maxTokenAttempts = 5

type URLService struct {
	repository Storage
	generator  TokenGenerator
	cache      Cache
	logger     *zap.Logger
}

// Option customises a URLService.
type Option func(*URLService)

// WithCache puts c in front of Resolve.
func WithCache(c Cache) Option {
	return func(s *URLService) {
		s.cache = c
	}
}

func NewURL(repo Storage, generator TokenGenerator, logger *zap.Logger, opts ...Option) *URLService {
	s := &URLService{
		repository: repo,
		generator:  generator,
		logger:     logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *URLService) PingContext(ctx context.Context) error {
	return s.repository.PingContext(ctx)
}

// CreateOrFetch returns the token mapped to longURL, creating the long URL
// record and a mapping with a generated token when they do not exist.
// suggestedToken is checked for format but never stored.
func (s *URLService) CreateOrFetch(ctx context.Context, longURL, suggestedToken string) (string, error) {
	longURL = strings.TrimSpace(longURL)
	if err := ValidateLongURL(longURL); err != nil {
		return "", err
	}

	if suggestedToken != "" {
		if err := ValidateToken(suggestedToken); err != nil {
			return "", err
		}
	}

	var token string

	err := s.repository.WithinTx(ctx, func(tx storage.Tx) error {
		rec, err := tx.FindLongURL(ctx, longURL)
		if err != nil {
			return err
		}

		if rec == nil {
			if err := tx.InsertLongURL(ctx, longURL); err != nil {
				return err
			}
		}

		id, ok, err := tx.FindLongURLID(ctx, longURL)
		if err != nil {
			return err
		}
		if !ok {
			return models.NewStorageError("find long url id", fmt.Errorf("no row for %q after insert", longURL))
		}

		token, err = s.mint(ctx, tx, longURL, id)
		return err
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// mint returns the existing mapping for longURL or inserts one with a
// generated token. A conflicting insert means either a concurrent request
// mapped longURL first, in which case its token is returned, or the
// generated token is taken and another one is drawn.
func (s *URLService) mint(ctx context.Context, tx storage.Tx, longURL string, longURLID int64) (string, error) {
	for attempt := 1; ; attempt++ {
		existing, ok, err := tx.FindShortTokenForLongURL(ctx, longURL)
		if err != nil {
			return "", err
		}
		if ok {
			return existing, nil
		}

		if attempt > maxTokenAttempts {
			return "", models.NewStorageError("insert short url", fmt.Errorf("no free token after %d attempts", maxTokenAttempts))
		}

		candidate, err := s.generator.Generate()
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}

		err = tx.InsertShortURL(ctx, candidate, longURLID)
		if err == nil {
			s.logger.Info("short url created", zap.String("token", candidate), zap.String("long_url", longURL))
			return candidate, nil
		}

		if !errors.Is(err, models.ErrConflict) {
			return "", err
		}

		s.logger.Debug("token conflict", zap.String("token", candidate), zap.Int("attempt", attempt))
	}
}

// Resolve returns the long URL mapped to token or models.ErrNotFound.
func (s *URLService) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", &models.ValidationError{Field: "short_url", Reason: "must not be empty"}
	}

	if s.cache != nil {
		longURL, ok, err := s.cache.Get(ctx, token)
		if err != nil {
			s.logger.Warn("cache get failed", zap.String("token", token), zap.Error(err))
		} else if ok {
			return longURL, nil
		}
	}

	var longURL string

	err := s.repository.WithinTx(ctx, func(tx storage.Tx) error {
		v, ok, err := tx.FindLongURLForToken(ctx, token)
		if err != nil {
			return err
		}
		if !ok {
			return models.ErrNotFound
		}

		longURL = v
		return nil
	})
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, token, longURL); err != nil {
			s.logger.Warn("cache set failed", zap.String("token", token), zap.Error(err))
		}
	}

	return longURL, nil
}
