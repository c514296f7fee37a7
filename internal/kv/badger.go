// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
	"github.com/rotisserie/eris"
)

// Badger stores keys in an embedded Badger database.
type Badger struct {
	db *badger.DB
}

var _ Backend = (*Badger)(nil)

// OpenBadger opens (or creates) a Badger database in dir.
func OpenBadger(dir string) (*Badger, error) {
	return openBadger(badger.DefaultOptions(dir))
}

func openBadger(opts badger.Options) (*Badger, error) {
	db, err := badger.Open(opts.WithLogger(nil))
	if err != nil {
		return nil, eris.Wrap(err, "badger store: open")
	}
	return &Badger{db: db}, nil
}

// Get implements Backend.
func (b *Badger) Get(_ context.Context, key string) (string, bool, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return "", false, nil
		}
		return "", false, eris.Wrapf(err, "badger store: get %s", key)
	}
	return string(value), true, nil
}

// Set implements Backend.
func (b *Badger) Set(_ context.Context, key, value string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), []byte(value))
	})
	if err != nil {
		return eris.Wrapf(err, "badger store: set %s", key)
	}
	return nil
}

// Delete implements Backend.
func (b *Badger) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return eris.Wrapf(err, "badger store: delete %s", key)
	}
	return nil
}

// Close flushes and closes the database.
func (b *Badger) Close() error {
	return b.db.Close()
}
