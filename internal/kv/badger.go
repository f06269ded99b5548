package kv

import (
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is the durable Store implementation, an embedded key-value database
// on local disk. It plays the role browser localStorage played for the web
// client: per-device, survives restarts, shared by everything in the process.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenBadger opens (or creates) the store at path.
func OpenBadger(path string, logger *slog.Logger) (*Badger, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // badger's own logger is too chatty for this use
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	return &Badger{db: db, logger: logger}, nil
}

// GetItem returns the stored value for key. Any read error is treated as
// absent; local storage is a cache, not a source of truth.
func (b *Badger) GetItem(key string) (string, bool) {
	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = string(raw)
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return "", false
	}
	if err != nil {
		b.logger.Warn("local_store_read_failed", "key", key, "error", err)
		return "", false
	}
	return value, true
}

func (b *Badger) SetItem(key, value string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		b.logger.Error("local_store_write_failed", "key", key, "error", err)
	}
}

func (b *Badger) RemoveItem(key string) {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil && err != badger.ErrKeyNotFound {
		b.logger.Warn("local_store_delete_failed", "key", key, "error", err)
	}
}

func (b *Badger) Close() error {
	return b.db.Close()
}
