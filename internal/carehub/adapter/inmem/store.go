package inmem

import (
	"context"
	"strings"
	"sync"

	"carehub/internal/domain"
)

// Store is an in-memory account store. Used in tests and for local
// development when no data directory is configured.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account // keyed by ID
	byEmail  map[string]string         // lowercased email → ID
	byReset  map[string]string         // reset token hash → ID
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		byEmail:  make(map[string]string),
		byReset:  make(map[string]string),
	}
}

// FindByID returns the account with the given ID.
func (s *Store) FindByID(ctx context.Context, id string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return a, nil
}

// FindByEmail returns the account with the given email (case-insensitive).
func (s *Store) FindByEmail(ctx context.Context, email string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return s.accounts[id], nil
}

// FindByResetToken returns the account holding the given reset token hash.
func (s *Store) FindByResetToken(ctx context.Context, tokenHash string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byReset[tokenHash]
	if !ok {
		return domain.Account{}, domain.ErrNotFound
	}
	return s.accounts[id], nil
}

// Save upserts the account and keeps the email and reset-token indexes in
// step with the document.
func (s *Store) Save(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.accounts[account.ID]; ok {
		delete(s.byEmail, strings.ToLower(old.Email))
		if old.ResetTokenHash != "" {
			delete(s.byReset, old.ResetTokenHash)
		}
	}

	s.accounts[account.ID] = account
	s.byEmail[strings.ToLower(account.Email)] = account.ID
	if account.ResetTokenHash != "" {
		s.byReset[account.ResetTokenHash] = account.ID
	}
	return nil
}

// List returns all accounts in unspecified order.
func (s *Store) List(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	return out, nil
}

// Count returns the number of stored accounts.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts), nil
}

// ProfileStore is an in-memory profile document store.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile // keyed by account ID
}

// NewProfileStore creates an empty profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domain.Profile)}
}

// FindByAccountID returns the profile document for an account.
func (s *ProfileStore) FindByAccountID(ctx context.Context, accountID string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[accountID]
	if !ok {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, nil
}

// Save upserts the profile document.
func (s *ProfileStore) Save(ctx context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.AccountID] = profile
	return nil
}
