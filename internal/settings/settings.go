package settings

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Compiled-in defaults, used when a key is in neither the settings table nor
// the environment.
const (
	KeyMinimumWithdrawalCents = "minimum_withdrawal_cents"

	DefaultMinimumWithdrawalCents = 2500 // 25.00 currency units
)

// Store reads runtime settings from the settings table, falling back to an
// environment variable of the same name (upper-cased) and then to a default.
type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get returns the raw value for key, or fallback when unset.
func (s *Store) Get(ctx context.Context, key, fallback string) string {
	if s.pool != nil {
		var value string
		err := s.pool.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
		if err == nil {
			return value
		}
	}
	if v := os.Getenv(strings.ToUpper(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt64 returns the value of key parsed as int64, or fallback when unset
// or unparseable.
func (s *Store) GetInt64(ctx context.Context, key string, fallback int64) int64 {
	raw := s.Get(ctx, key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Printf("setting %s has non-integer value %q, using default %d", key, raw, fallback)
		return fallback
	}
	return v
}

// MinimumWithdrawalCents returns the configured withdrawal floor in minor units.
func (s *Store) MinimumWithdrawalCents(ctx context.Context) int64 {
	return s.GetInt64(ctx, KeyMinimumWithdrawalCents, DefaultMinimumWithdrawalCents)
}
