// Package badgerstore persists account and profile documents in BadgerDB.
// Documents are JSON values under prefixed keys; secondary lookups (email,
// reset token) are maintained as index keys inside the same transaction.
package badgerstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"carehub/internal/domain"
)

// Key prefixes for BadgerDB storage.
const (
	accountKeyPrefix = "account:"
	emailKeyPrefix   = "email:"
	resetKeyPrefix   = "reset:"
	profileKeyPrefix = "profile:"
)

// Open opens (or creates) a Badger database at dir with logging disabled;
// the service logs through slog, not through Badger's own logger.
func Open(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening badger at %s: %w", dir, err)
	}
	return db, nil
}

// Store is a BadgerDB-backed account store, suitable for production use
// with persistence across restarts.
type Store struct {
	db *badger.DB
}

// NewStore creates an account store on top of an open Badger database.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

func accountKey(id string) []byte  { return []byte(accountKeyPrefix + id) }
func emailKey(email string) []byte { return []byte(emailKeyPrefix + strings.ToLower(email)) }
func resetKey(hash string) []byte  { return []byte(resetKeyPrefix + hash) }

// FindByID returns the account document stored under id.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Account, error) {
	var account domain.Account

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, accountKey(id), &account)
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// FindByEmail resolves the email index, then loads the account document.
func (s *Store) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	var account domain.Account

	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, emailKey(email))
		if err != nil {
			return err
		}
		return getJSON(txn, accountKey(id), &account)
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// FindByResetToken resolves the reset-token index, then loads the account.
func (s *Store) FindByResetToken(ctx context.Context, tokenHash string) (domain.Account, error) {
	var account domain.Account

	err := s.db.View(func(txn *badger.Txn) error {
		id, err := getString(txn, resetKey(tokenHash))
		if err != nil {
			return err
		}
		return getJSON(txn, accountKey(id), &account)
	})
	if err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// Save upserts the account document and rewrites its index keys in one
// transaction, dropping index entries that no longer match.
func (s *Store) Save(ctx context.Context, account domain.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		// Load the previous version to clean up stale index keys.
		var old domain.Account
		err := getJSON(txn, accountKey(account.ID), &old)
		switch {
		case err == nil:
			if !strings.EqualFold(old.Email, account.Email) {
				if err := txn.Delete(emailKey(old.Email)); err != nil {
					return fmt.Errorf("delete stale email index: %w", err)
				}
			}
			if old.ResetTokenHash != "" && old.ResetTokenHash != account.ResetTokenHash {
				if err := txn.Delete(resetKey(old.ResetTokenHash)); err != nil {
					return fmt.Errorf("delete stale reset index: %w", err)
				}
			}
		case errors.Is(err, domain.ErrNotFound):
			// First write for this ID.
		default:
			return err
		}

		if err := txn.Set(accountKey(account.ID), data); err != nil {
			return fmt.Errorf("set account: %w", err)
		}
		if err := txn.Set(emailKey(account.Email), []byte(account.ID)); err != nil {
			return fmt.Errorf("set email index: %w", err)
		}
		if account.ResetTokenHash != "" {
			if err := txn.Set(resetKey(account.ResetTokenHash), []byte(account.ID)); err != nil {
				return fmt.Errorf("set reset index: %w", err)
			}
		}
		return nil
	})
}

// List scans all account documents.
func (s *Store) List(ctx context.Context) ([]domain.Account, error) {
	var out []domain.Account

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var account domain.Account
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &account)
			})
			if err != nil {
				return fmt.Errorf("unmarshal account: %w", err)
			}
			out = append(out, account)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of account documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(accountKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}

// ProfileStore is a BadgerDB-backed profile document store.
type ProfileStore struct {
	db *badger.DB
}

// NewProfileStore creates a profile store on top of an open Badger database.
func NewProfileStore(db *badger.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// FindByAccountID returns the profile document for an account.
func (s *ProfileStore) FindByAccountID(ctx context.Context, accountID string) (domain.Profile, error) {
	var profile domain.Profile

	err := s.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, []byte(profileKeyPrefix+accountID), &profile)
	})
	if err != nil {
		return domain.Profile{}, err
	}
	return profile, nil
}

// Save upserts the profile document.
func (s *ProfileStore) Save(ctx context.Context, profile domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(profileKeyPrefix+profile.AccountID), data)
	})
}

func getJSON(txn *badger.Txn, key []byte, dst any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", key, err)
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dst)
	})
}

func getString(txn *badger.Txn, key []byte) (string, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	var out string
	err = item.Value(func(val []byte) error {
		out = string(val)
		return nil
	})
	return out, err
}
