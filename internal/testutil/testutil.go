// Package testutil provides shared fixtures for handler and middleware tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"carehub/internal/carehub/adapter/inmem"
	"carehub/internal/carehub/adapter/token"
	"carehub/internal/domain"
)

// TestSecret is the shared signing secret used by test codecs.
const TestSecret = "carehub-test-signing-secret"

// TestPassword is the plaintext behind every fixture account's hash.
const TestPassword = "Sunflower#2024"

var seq int

// Codec returns a credential codec with the test secret and a 15 minute TTL.
func Codec() *token.HMAC {
	return token.NewHMAC([]byte(TestSecret), 15*time.Minute, time.Now)
}

// CodecWithClock returns a codec with an injected clock for expiry tests.
func CodecWithClock(ttl time.Duration, clock func() time.Time) *token.HMAC {
	return token.NewHMAC([]byte(TestSecret), ttl, clock)
}

// Account builds an active account with the given role. IDs and emails are
// unique per call within a process.
func Account(t *testing.T, role domain.Role) domain.Account {
	t.Helper()
	seq++
	now := time.Now().UTC()
	return domain.Account{
		ID:           fmt.Sprintf("acct-%04d", seq),
		Email:        fmt.Sprintf("user%04d@example.com", seq),
		PasswordHash: PasswordHash(t, TestPassword),
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		Status:       domain.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PasswordHash bcrypt-hashes a password at MinCost to keep tests fast.
func PasswordHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hash)
}

// IssueToken mints a valid credential for the account using the test codec.
func IssueToken(t *testing.T, account domain.Account) string {
	t.Helper()
	signed, _, err := Codec().Issue(account)
	if err != nil {
		t.Fatalf("issuing token: %v", err)
	}
	return signed
}

// IssueTokenWithRole mints a credential carrying an arbitrary role string,
// bypassing domain validation. Used to exercise unknown-role handling.
func IssueTokenWithRole(t *testing.T, accountID, role string) string {
	t.Helper()
	now := time.Now()
	claims := token.Claims{
		Email: "rogue@example.com",
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   accountID,
			Issuer:    "carehub",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(TestSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

// SeedStore returns an in-memory account store preloaded with the given
// accounts.
func SeedStore(t *testing.T, accounts ...domain.Account) *inmem.Store {
	t.Helper()
	store := inmem.NewStore()
	for _, a := range accounts {
		if err := store.Save(context.Background(), a); err != nil {
			t.Fatalf("seeding store: %v", err)
		}
	}
	return store
}
