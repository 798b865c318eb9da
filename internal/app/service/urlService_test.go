package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/app/service"
	"github.com/atinyakov/url-resolver/internal/mocks"
	"github.com/atinyakov/url-resolver/internal/models"
	"github.com/atinyakov/url-resolver/internal/shortcode"
	"github.com/atinyakov/url-resolver/internal/storage"
)

func newMemoryService(t *testing.T, opts ...service.Option) *service.URLService {
	t.Helper()
	mem, err := storage.CreateMemoryStorage()
	require.NoError(t, err)
	return service.NewURL(mem, shortcode.NewGenerator(), zap.NewNop(), opts...)
}

// sequence returns the given tokens in order.
type sequence []string

func (s *sequence) Generate() (string, error) {
	if len(*s) == 0 {
		return "", errors.New("sequence exhausted")
	}
	next := (*s)[0]
	*s = (*s)[1:]
	return next, nil
}

func TestURLService_RoundTrip(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	for _, u := range []string{
		"https://example.com/a",
		"http://example.org/path?q=1#frag",
		"HTTPS://EXAMPLE.COM/UPPER",
	} {
		token, err := svc.CreateOrFetch(ctx, u, "")
		require.NoError(t, err)
		assert.Len(t, token, shortcode.DefaultLength)

		long, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, u, long)
	}
}

func TestURLService_CreateOrFetchIsIdempotent(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	first, err := svc.CreateOrFetch(ctx, "https://example.com/a", "")
	require.NoError(t, err)

	second, err := svc.CreateOrFetch(ctx, "https://example.com/a", "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// An existing mapping wins over a later suggestion.
	third, err := svc.CreateOrFetch(ctx, "https://example.com/a", "custom")
	require.NoError(t, err)
	assert.Equal(t, first, third)

	_, err = svc.Resolve(ctx, "custom")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestURLService_SuggestedTokenIsNotStored(t *testing.T) {
	gen := sequence{"aaaaa", "bbbbb"}
	mem, err := storage.CreateMemoryStorage()
	require.NoError(t, err)
	svc := service.NewURL(mem, &gen, zap.NewNop())
	ctx := context.Background()

	token, err := svc.CreateOrFetch(ctx, "https://example.com/a", "my-custom-alias")
	require.NoError(t, err)
	assert.Equal(t, "aaaaa", token)

	_, err = svc.Resolve(ctx, "my-custom-alias")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// The same suggestion for another URL is not a conflict.
	token, err = svc.CreateOrFetch(ctx, "https://example.com/b", "my-custom-alias")
	require.NoError(t, err)
	assert.Equal(t, "bbbbb", token)

	long, err := svc.Resolve(ctx, "bbbbb")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/b", long)
}

func TestURLService_RegeneratesCollidingToken(t *testing.T) {
	gen := sequence{"aaaaa", "aaaaa", "bbbbb"}
	mem, _ := storage.CreateMemoryStorage()
	svc := service.NewURL(mem, &gen, zap.NewNop())
	ctx := context.Background()

	first, err := svc.CreateOrFetch(ctx, "https://example.com/1", "")
	require.NoError(t, err)
	assert.Equal(t, "aaaaa", first)

	second, err := svc.CreateOrFetch(ctx, "https://example.com/2", "")
	require.NoError(t, err)
	assert.Equal(t, "bbbbb", second)
	assert.Empty(t, gen)
}

func TestURLService_GivesUpAfterMaxAttempts(t *testing.T) {
	gen := sequence{"aaaaa", "aaaaa", "aaaaa", "aaaaa", "aaaaa", "aaaaa"}
	mem, _ := storage.CreateMemoryStorage()
	svc := service.NewURL(mem, &gen, zap.NewNop())
	ctx := context.Background()

	_, err := svc.CreateOrFetch(ctx, "https://example.com/1", "")
	require.NoError(t, err)

	_, err = svc.CreateOrFetch(ctx, "https://example.com/2", "")

	var se *models.StorageError
	require.ErrorAs(t, err, &se)
	assert.NotErrorIs(t, err, models.ErrConflict)
	assert.Empty(t, gen)

	// The failed request was rolled back with its long URL.
	require.NoError(t, mem.WithinTx(ctx, func(tx storage.Tx) error {
		rec, err := tx.FindLongURL(ctx, "https://example.com/2")
		assert.Nil(t, rec)
		return err
	}))
}

func TestURLService_Validation(t *testing.T) {
	svc := newMemoryService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		longURL   string
		suggested string
		field     string
	}{
		{name: "empty", longURL: "", field: "long_url"},
		{name: "relative", longURL: "/just/a/path", field: "long_url"},
		{name: "not a url", longURL: "example", field: "long_url"},
		{name: "ftp scheme", longURL: "ftp://example.com/file", field: "long_url"},
		{name: "missing host", longURL: "http:///path", field: "long_url"},
		{name: "bad token", longURL: "https://example.com", suggested: "no spaces", field: "short_url"},
		{name: "long token", longURL: "https://example.com", suggested: "abcdefghijklmnopqrstuvwxyz0123456789", field: "short_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrFetch(ctx, tt.longURL, tt.suggested)

			var ve *models.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestURLService_ResolveUnknown(t *testing.T) {
	svc := newMemoryService(t)

	_, err := svc.Resolve(context.Background(), "nope0")
	assert.ErrorIs(t, err, models.ErrNotFound)

	var ve *models.ValidationError
	_, err = svc.Resolve(context.Background(), "")
	assert.ErrorAs(t, err, &ve)
}

func TestURLService_StorageErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	mockTx := mocks.NewMockTx(ctrl)
	svc := service.NewURL(mockStorage, mocks.NewMockTokenGenerator(ctrl), zap.NewNop())

	storageErr := models.NewStorageError("find long url", errors.New("connection reset"))

	mockStorage.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn storage.TxFunc) error {
			return fn(mockTx)
		})
	mockTx.EXPECT().FindLongURL(gomock.Any(), "https://example.com").Return(nil, storageErr)

	_, err := svc.CreateOrFetch(context.Background(), "https://example.com", "")

	var se *models.StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "find long url", se.Op)
}

func TestURLService_ConcurrentWinnerIsReturned(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockStorage := mocks.NewMockStorage(ctrl)
	mockTx := mocks.NewMockTx(ctrl)
	mockGen := mocks.NewMockTokenGenerator(ctrl)
	svc := service.NewURL(mockStorage, mockGen, zap.NewNop())

	const long = "https://example.com"

	mockStorage.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn storage.TxFunc) error {
			return fn(mockTx)
		})

	gomock.InOrder(
		mockTx.EXPECT().FindLongURL(gomock.Any(), long).Return(&models.LongURLRecord{ID: 3, URL: long}, nil),
		mockTx.EXPECT().FindLongURLID(gomock.Any(), long).Return(int64(3), true, nil),
		mockTx.EXPECT().FindShortTokenForLongURL(gomock.Any(), long).Return("", false, nil),
		mockGen.EXPECT().Generate().Return("mine1", nil),
		mockTx.EXPECT().InsertShortURL(gomock.Any(), "mine1", int64(3)).Return(models.ErrConflict),
		mockTx.EXPECT().FindShortTokenForLongURL(gomock.Any(), long).Return("their", true, nil),
	)

	token, err := svc.CreateOrFetch(context.Background(), long, "")
	require.NoError(t, err)
	assert.Equal(t, "their", token)
}

func TestURLService_GeneratorError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockGen := mocks.NewMockTokenGenerator(ctrl)
	mem, _ := storage.CreateMemoryStorage()
	svc := service.NewURL(mem, mockGen, zap.NewNop())

	mockGen.EXPECT().Generate().Return("", errors.New("entropy exhausted"))

	_, err := svc.CreateOrFetch(context.Background(), "https://example.com", "")
	assert.ErrorContains(t, err, "generate token")
}

func TestURLService_ResolveUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := mocks.NewMockCache(ctrl)
	svc := newMemoryService(t, service.WithCache(mockCache))
	ctx := context.Background()

	token, err := svc.CreateOrFetch(ctx, "https://example.com/cached", "")
	require.NoError(t, err)

	t.Run("miss populates", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), token).Return("", false, nil)
		mockCache.EXPECT().Set(gomock.Any(), token, "https://example.com/cached").Return(nil)

		long, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/cached", long)
	})

	t.Run("hit short-circuits", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), "hit00").Return("https://example.com/from-cache", true, nil)

		long, err := svc.Resolve(ctx, "hit00")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/from-cache", long)
	})

	t.Run("cache failures are not surfaced", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), token).Return("", false, errors.New("redis down"))
		mockCache.EXPECT().Set(gomock.Any(), token, gomock.Any()).Return(errors.New("redis down"))

		long, err := svc.Resolve(ctx, token)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/cached", long)
	})

	t.Run("unknown token is not cached", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), "nope0").Return("", false, nil)

		_, err := svc.Resolve(ctx, "nope0")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestURLService_PingContext(t *testing.T) {
	svc := newMemoryService(t)

	err := svc.PingContext(context.Background())
	assert.ErrorIs(t, err, errors.ErrUnsupported)
}
