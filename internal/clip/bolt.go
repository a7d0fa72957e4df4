package clip

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var bucketClipboard = []byte("clipboard")

// Bolt is a clipboard persisted in a bbolt database, so the contents survive
// a daemon restart. Like Memory it holds a single payload: Put drops every
// other format.
type Bolt struct {
	db   *bbolt.DB
	path string
}

// DefaultStorePath returns $XDG_CACHE_HOME/pasteboard/clipboard.db (or the
// platform equivalent).
func DefaultStorePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pasteboard", "clipboard.db"), nil
}

// OpenBolt opens (creating if needed) the database at path. An empty path
// means DefaultStorePath.
func OpenBolt(path string) (*Bolt, error) {
	if path == "" {
		p, err := DefaultStorePath()
		if err != nil {
			return nil, fmt.Errorf("%w: store path: %w", ErrBackendUnavailable, err)
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBackendUnavailable, err)
	}

	// A second daemon holding the file lock must not hang selection.
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrBackendUnavailable, path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketClipboard)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: init %s: %w", ErrBackendUnavailable, path, err)
	}
	return &Bolt{db: db, path: path}, nil
}

func (b *Bolt) Name() string { return "bolt (" + b.path + ")" }

// Path returns the database file location.
func (b *Bolt) Path() string { return b.path }

func (b *Bolt) Get(format string) ([]byte, bool) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucketClipboard)
		if bk == nil {
			return nil
		}
		if v := bk.Get([]byte(format)); v != nil {
			// v is only valid for the life of the transaction.
			out = make([]byte, len(v))
			copy(out, v)
		}
		return nil
	})
	if err != nil {
		slog.Debug("bolt clipboard read failed", "format", format, "err", err)
		return nil, false
	}
	return out, out != nil
}

func (b *Bolt) Put(data []byte, format string) {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketClipboard); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		bk, err := tx.CreateBucket(bucketClipboard)
		if err != nil {
			return err
		}
		if data == nil {
			data = []byte{}
		}
		return bk.Put([]byte(format), data)
	})
	if err != nil {
		slog.Debug("bolt clipboard write failed", "format", format, "err", err)
	}
}

func (b *Bolt) Formats() []string {
	out := []string{}
	err := b.db.View(func(tx *bbolt.Tx) error {
		bk := tx.Bucket(bucketClipboard)
		if bk == nil {
			return nil
		}
		return bk.ForEach(func(k, _ []byte) error {
			out = append(out, string(k))
			return nil
		})
	})
	if err != nil {
		slog.Debug("bolt clipboard list failed", "err", err)
		return []string{}
	}
	return out
}

// Close releases the database file lock.
func (b *Bolt) Close() error { return b.db.Close() }
