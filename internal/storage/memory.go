package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atinyakov/url-resolver/internal/models"
)

// MemoryStorage keeps both tables in maps. Transactions are serialised by a
// mutex and see their own staged writes; staged rows become visible to
// others only on commit.
type MemoryStorage struct {
	mu sync.Mutex

	longs         map[int64]models.LongURLRecord
	shorts        map[int64]models.ShortURLRecord
	longByURL     map[string]int64
	shortByToken  map[string]int64
	shortByLongID map[int64]int64

	// Highest ids handed out so far. Ids of a failed commit are not reused.
	lastLongID  int64
	lastShortID int64

	// persist is called under the lock before staged rows are applied.
	// A non-nil error aborts the commit.
	persist func(longs []models.LongURLRecord, shorts []models.ShortURLRecord) error
}

// CreateMemoryStorage returns an empty store.
func CreateMemoryStorage() (*MemoryStorage, error) {
	return &MemoryStorage{
		longs:         make(map[int64]models.LongURLRecord),
		shorts:        make(map[int64]models.ShortURLRecord),
		longByURL:     make(map[string]int64),
		shortByToken:  make(map[string]int64),
		shortByLongID: make(map[int64]int64),
	}, nil
}

// WithinTx runs fn in a transaction. The transaction commits when fn returns
// nil and is discarded on error or panic.
func (m *MemoryStorage) WithinTx(ctx context.Context, fn TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{m: m}
	if err := fn(tx); err != nil {
		return err
	}

	return m.commit(tx)
}

func (m *MemoryStorage) commit(tx *memoryTx) error {
	if len(tx.longs) == 0 && len(tx.shorts) == 0 {
		return nil
	}

	if m.persist != nil {
		if err := m.persist(tx.longs, tx.shorts); err != nil {
			m.reserve(tx)
			return models.NewStorageError("commit", err)
		}
	}

	for _, r := range tx.longs {
		m.applyLong(r)
	}
	for _, r := range tx.shorts {
		m.applyShort(r)
	}

	return nil
}

func (m *MemoryStorage) reserve(tx *memoryTx) {
	for _, r := range tx.longs {
		m.lastLongID = max(m.lastLongID, r.ID)
	}
	for _, r := range tx.shorts {
		m.lastShortID = max(m.lastShortID, r.ID)
	}
}

func (m *MemoryStorage) applyLong(r models.LongURLRecord) {
	m.longs[r.ID] = r
	m.longByURL[r.URL] = r.ID
	m.lastLongID = max(m.lastLongID, r.ID)
}

func (m *MemoryStorage) applyShort(r models.ShortURLRecord) {
	m.shorts[r.ID] = r
	m.shortByToken[r.Token] = r.ID
	m.shortByLongID[r.LongURLID] = r.ID
	m.lastShortID = max(m.lastShortID, r.ID)
}

// PingContext is not supported by the in-process stores.
func (m *MemoryStorage) PingContext(_ context.Context) error {
	return errors.ErrUnsupported
}

type memoryTx struct {
	m      *MemoryStorage
	longs  []models.LongURLRecord
	shorts []models.ShortURLRecord
}

func (tx *memoryTx) lookupLong(url string) (models.LongURLRecord, bool) {
	if id, ok := tx.m.longByURL[url]; ok {
		return tx.m.longs[id], true
	}
	for _, r := range tx.longs {
		if r.URL == url {
			return r, true
		}
	}
	return models.LongURLRecord{}, false
}

func (tx *memoryTx) lookupLongByID(id int64) (models.LongURLRecord, bool) {
	if r, ok := tx.m.longs[id]; ok {
		return r, true
	}
	for _, r := range tx.longs {
		if r.ID == id {
			return r, true
		}
	}
	return models.LongURLRecord{}, false
}

func (tx *memoryTx) lookupShortByToken(token string) (models.ShortURLRecord, bool) {
	if id, ok := tx.m.shortByToken[token]; ok {
		return tx.m.shorts[id], true
	}
	for _, r := range tx.shorts {
		if r.Token == token {
			return r, true
		}
	}
	return models.ShortURLRecord{}, false
}

func (tx *memoryTx) lookupShortByLongID(longID int64) (models.ShortURLRecord, bool) {
	if id, ok := tx.m.shortByLongID[longID]; ok {
		return tx.m.shorts[id], true
	}
	for _, r := range tx.shorts {
		if r.LongURLID == longID {
			return r, true
		}
	}
	return models.ShortURLRecord{}, false
}

func (tx *memoryTx) FindLongURL(_ context.Context, url string) (*models.LongURLRecord, error) {
	r, ok := tx.lookupLong(url)
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (tx *memoryTx) InsertLongURL(_ context.Context, url string) error {
	if _, ok := tx.lookupLong(url); ok {
		return nil
	}

	id := tx.m.lastLongID + int64(len(tx.longs)) + 1
	tx.longs = append(tx.longs, models.LongURLRecord{ID: id, URL: url})
	return nil
}

func (tx *memoryTx) FindLongURLID(_ context.Context, url string) (int64, bool, error) {
	r, ok := tx.lookupLong(url)
	return r.ID, ok, nil
}

func (tx *memoryTx) FindShortTokenForLongURL(_ context.Context, url string) (string, bool, error) {
	l, ok := tx.lookupLong(url)
	if !ok {
		return "", false, nil
	}

	s, ok := tx.lookupShortByLongID(l.ID)
	return s.Token, ok, nil
}

func (tx *memoryTx) FindLongURLForToken(_ context.Context, token string) (string, bool, error) {
	s, ok := tx.lookupShortByToken(token)
	if !ok {
		return "", false, nil
	}

	l, ok := tx.lookupLongByID(s.LongURLID)
	return l.URL, ok, nil
}

func (tx *memoryTx) InsertShortURL(_ context.Context, token string, longURLID int64) error {
	if _, ok := tx.lookupLongByID(longURLID); !ok {
		return models.NewStorageError("insert short url", fmt.Errorf("long url %d does not exist", longURLID))
	}

	if _, ok := tx.lookupShortByToken(token); ok {
		return models.ErrConflict
	}
	if _, ok := tx.lookupShortByLongID(longURLID); ok {
		return models.ErrConflict
	}

	id := tx.m.lastShortID + int64(len(tx.shorts)) + 1
	tx.shorts = append(tx.shorts, models.ShortURLRecord{ID: id, Token: token, LongURLID: longURLID})
	return nil
}
