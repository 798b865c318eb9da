package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/atinyakov/url-resolver/internal/models"
)

const (
	tableLongURL  = "long_url"
	tableShortURL = "short_url"
)

// journalEntry is one line of the storage file.
type journalEntry struct {
	Table     string `json:"table"`
	ID        int64  `json:"id"`
	URL       string `json:"url"`
	LongURLID int64  `json:"long_url_id,omitempty"`
}

// FileStorage is a MemoryStorage whose committed rows are appended to a
// JSON-lines file and replayed on start.
type FileStorage struct {
	*MemoryStorage
	file     *os.File
	syncFile func() error
	logger   *zap.Logger
}

// NewFileStorage opens the file at p, creating it and its directory when
// missing, and restores previously committed rows.
func NewFileStorage(p string, logger *zap.Logger) (*FileStorage, error) {
	if err := os.MkdirAll(filepath.Dir(p), 0770); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE, 0660)
	if err != nil {
		return nil, err
	}

	mem, err := CreateMemoryStorage()
	if err != nil {
		file.Close()
		return nil, err
	}
	fs := &FileStorage{
		MemoryStorage: mem,
		file:          file,
		syncFile:      file.Sync,
		logger:        logger,
	}

	n, err := fs.restore()
	if err != nil {
		file.Close()
		return nil, err
	}
	logger.Info("file storage restored", zap.String("path", p), zap.Int("rows", n))

	mem.persist = fs.append

	return fs, nil
}

func (fs *FileStorage) restore() (int, error) {
	if _, err := fs.file.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	n := 0
	scanner := bufio.NewScanner(fs.file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var e journalEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return n, fmt.Errorf("failed to parse JSON line: %w", err)
		}

		if err := fs.replay(e); err != nil {
			return n, fmt.Errorf("entry %d: %w", n+1, err)
		}
		n++
	}

	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("error reading file: %w", err)
	}

	_, err := fs.file.Seek(0, io.SeekEnd)
	return n, err
}

// replay applies one journal entry, rejecting entries that would break the
// uniqueness of ids, URLs or tokens.
func (fs *FileStorage) replay(e journalEntry) error {
	switch e.Table {
	case tableLongURL:
		if _, dup := fs.longs[e.ID]; dup {
			return fmt.Errorf("duplicate long_url id %d", e.ID)
		}
		if _, dup := fs.longByURL[e.URL]; dup {
			return fmt.Errorf("duplicate long_url %q", e.URL)
		}
		fs.applyLong(models.LongURLRecord{ID: e.ID, URL: e.URL})
	case tableShortURL:
		if _, dup := fs.shorts[e.ID]; dup {
			return fmt.Errorf("duplicate short_url id %d", e.ID)
		}
		if _, dup := fs.shortByToken[e.URL]; dup {
			return fmt.Errorf("duplicate short_url %q", e.URL)
		}
		if _, ok := fs.longs[e.LongURLID]; !ok {
			return fmt.Errorf("short_url %q references missing long_url id %d", e.URL, e.LongURLID)
		}
		if _, dup := fs.shortByLongID[e.LongURLID]; dup {
			return fmt.Errorf("long_url id %d is mapped twice", e.LongURLID)
		}
		fs.applyShort(models.ShortURLRecord{ID: e.ID, Token: e.URL, LongURLID: e.LongURLID})
	default:
		return fmt.Errorf("unknown table %q in storage file", e.Table)
	}
	return nil
}

// append journals a commit. On failure the file is cut back to where the
// commit started so no partial commit survives a restart.
func (fs *FileStorage) append(longs []models.LongURLRecord, shorts []models.ShortURLRecord) error {
	offset, err := fs.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}

	if err := fs.write(longs, shorts); err != nil {
		if rerr := fs.rewind(offset); rerr != nil {
			fs.logger.Error("failed to rewind storage file", zap.Int64("offset", offset), zap.Error(rerr))
			return errors.Join(err, rerr)
		}
		return err
	}

	return nil
}

func (fs *FileStorage) rewind(offset int64) error {
	if err := fs.file.Truncate(offset); err != nil {
		return err
	}
	_, err := fs.file.Seek(offset, io.SeekStart)
	return err
}

func (fs *FileStorage) write(longs []models.LongURLRecord, shorts []models.ShortURLRecord) error {
	w := bufio.NewWriter(fs.file)
	enc := json.NewEncoder(w)

	for _, r := range longs {
		if err := enc.Encode(journalEntry{Table: tableLongURL, ID: r.ID, URL: r.URL}); err != nil {
			return err
		}
	}
	for _, r := range shorts {
		if err := enc.Encode(journalEntry{Table: tableShortURL, ID: r.ID, URL: r.Token, LongURLID: r.LongURLID}); err != nil {
			return err
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	return fs.syncFile()
}

// PingContext reports whether the storage file is still accessible.
func (fs *FileStorage) PingContext(_ context.Context) error {
	_, err := fs.file.Stat()
	return err
}

// Close closes the storage file.
func (fs *FileStorage) Close() error {
	return fs.file.Close()
}
