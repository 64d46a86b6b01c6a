package ports

import (
	"context"
	"time"

	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
)

// TransactionRegistry issues opaque bearer tokens for credential records and
// resolves them back. Records are immutable once stored and expire by TTL;
// there is deliberately no delete or revoke operation, expiry is the only
// removal path.
type TransactionRegistry interface {
	// CreateHoyolab stores a HoYoLAB credential bundle and returns the token.
	// A non-positive ttl yields a token whose record is already expired.
	CreateHoyolab(ctx context.Context, rec *transaction.Hoyolab, ttl time.Duration) (string, error)
	// CreateMihomo stores a Mihomo profile snapshot and returns the token.
	CreateMihomo(ctx context.Context, rec *transaction.Mihomo, ttl time.Duration) (string, error)

	// GetHoyolab resolves a token to its HoYoLAB record. ok is false when the
	// token is unknown, expired, or was issued for a different record kind;
	// none of those are errors.
	GetHoyolab(ctx context.Context, token string) (*transaction.Hoyolab, bool, error)
	// GetMihomo resolves a token to its Mihomo record, with the same absence
	// semantics as GetHoyolab.
	GetMihomo(ctx context.Context, token string) (*transaction.Mihomo, bool, error)
}

// GenerationCache stores rendered artifacts (and cached info payloads) scoped
// under a token and a cache key built by transaction.MakeCacheKey. Entries are
// pure derived data: overwrites are unconditional and last-writer-wins.
type GenerationCache interface {
	// GetGenerated returns the cached artifact bytes, ok=false on miss/expiry.
	GetGenerated(ctx context.Context, token, cacheKey string) ([]byte, bool, error)
	// SetGenerated overwrites the entry with its own TTL, independent of the
	// credential record's TTL.
	SetGenerated(ctx context.Context, token, cacheKey string, data []byte, ttl time.Duration) error
}
