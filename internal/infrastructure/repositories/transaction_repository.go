package repositories

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
	"github.com/naotimes/qingque-api/internal/core/ports"
)

// registryPrefix is the namespace every key of this gateway lives under.
// Credential records sit at {prefix}:{token}; generation-cache entries at
// {prefix}:{token}:{cache-key}. No other persisted state exists.
const registryPrefix = "qingque:transactions"

var (
	genCacheOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "generation_cache_ops_total",
			Help: "Generation cache operations by result (hit, miss, store)",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(genCacheOps)
}

// recordEnvelope tags the stored payload with its record kind so that a token
// issued for one credential variant can never deserialize as another: a kind
// mismatch on read resolves to absent.
type recordEnvelope struct {
	Kind    transaction.RecordKind `json:"kind"`
	Payload []byte                 `json:"payload"`
}

// TransactionRepository implements ports.TransactionRegistry and
// ports.GenerationCache on top of the TTL-capable key-value store. It holds
// no state of its own and relies solely on the store's atomic get/set-with-
// expiry; two concurrent requests never need more coordination than that.
type TransactionRepository struct {
	store  ports.Cache
	logger *logrus.Logger
}

func NewTransactionRepository(store ports.Cache, logger *logrus.Logger) *TransactionRepository {
	return &TransactionRepository{store: store, logger: logger}
}

// newToken returns 32 bytes of CSPRNG output, hex-encoded (64 chars, 256 bits
// of entropy). No collision check is performed; the entropy makes a collision
// vastly less likely than store corruption.
func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func recordKey(token string) string {
	return fmt.Sprintf("%s:%s", registryPrefix, token)
}

func generatedKey(token, cacheKey string) string {
	return fmt.Sprintf("%s:%s:%s", registryPrefix, token, cacheKey)
}

func (r *TransactionRepository) create(ctx context.Context, kind transaction.RecordKind, payload []byte, ttl time.Duration) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	// A non-positive TTL means the record is born expired: hand out the token
	// without storing anything, so the next Get observes absence. Redis would
	// treat expiration <= 0 as "no expiry", which is the opposite contract.
	if ttl <= 0 {
		return token, nil
	}
	env, err := json.Marshal(recordEnvelope{Kind: kind, Payload: payload})
	if err != nil {
		return "", fmt.Errorf("failed to marshal record envelope: %w", err)
	}
	if err := r.store.Set(ctx, recordKey(token), env, ttl); err != nil {
		return "", fmt.Errorf("failed to store transaction record: %w", err)
	}
	return token, nil
}

func (r *TransactionRepository) load(ctx context.Context, token string, want transaction.RecordKind) ([]byte, bool, error) {
	raw, ok, err := r.store.Get(ctx, recordKey(token))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read transaction record: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	var env recordEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		// A corrupt record behaves like an expired one.
		r.logger.WithField("token_prefix", safePrefix(token)).WithError(err).Warn("discarding undecodable transaction record")
		return nil, false, nil
	}
	if env.Kind != want {
		return nil, false, nil
	}
	return env.Payload, true, nil
}

// CreateHoyolab stores a HoYoLAB credential bundle (small, kept human-readable
// as JSON) and returns the bearer token.
func (r *TransactionRepository) CreateHoyolab(ctx context.Context, rec *transaction.Hoyolab, ttl time.Duration) (string, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal hoyolab record: %w", err)
	}
	return r.create(ctx, transaction.RecordHoyolab, payload, ttl)
}

// CreateMihomo stores the profile snapshot msgpack-encoded; the nested
// showcase structure is large and read back only by this process.
func (r *TransactionRepository) CreateMihomo(ctx context.Context, rec *transaction.Mihomo, ttl time.Duration) (string, error) {
	payload, err := msgpack.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to marshal mihomo record: %w", err)
	}
	return r.create(ctx, transaction.RecordMihomo, payload, ttl)
}

func (r *TransactionRepository) GetHoyolab(ctx context.Context, token string) (*transaction.Hoyolab, bool, error) {
	payload, ok, err := r.load(ctx, token, transaction.RecordHoyolab)
	if err != nil || !ok {
		return nil, false, err
	}
	var rec transaction.Hoyolab
	if err := json.Unmarshal(payload, &rec); err != nil {
		return nil, false, nil
	}
	return &rec, true, nil
}

func (r *TransactionRepository) GetMihomo(ctx context.Context, token string) (*transaction.Mihomo, bool, error) {
	payload, ok, err := r.load(ctx, token, transaction.RecordMihomo)
	if err != nil || !ok {
		return nil, false, err
	}
	var rec transaction.Mihomo
	if err := msgpack.Unmarshal(payload, &rec); err != nil {
		return nil, false, nil
	}
	return &rec, true, nil
}

// GetGenerated returns a cached rendered artifact. A miss is not an error.
func (r *TransactionRepository) GetGenerated(ctx context.Context, token, cacheKey string) ([]byte, bool, error) {
	data, ok, err := r.store.Get(ctx, generatedKey(token, cacheKey))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read generation cache: %w", err)
	}
	if ok {
		genCacheOps.WithLabelValues("hit").Inc()
	} else {
		genCacheOps.WithLabelValues("miss").Inc()
	}
	return data, ok, nil
}

// SetGenerated overwrites unconditionally; concurrent writers of the same key
// both succeed and the last write wins, which is safe because regeneration is
// byte-for-byte idempotent for identical upstream data.
func (r *TransactionRepository) SetGenerated(ctx context.Context, token, cacheKey string, data []byte, ttl time.Duration) error {
	if err := r.store.Set(ctx, generatedKey(token, cacheKey), data, ttl); err != nil {
		return fmt.Errorf("failed to write generation cache: %w", err)
	}
	genCacheOps.WithLabelValues("store").Inc()
	return nil
}

func safePrefix(token string) string {
	if len(token) > 8 {
		return token[:8]
	}
	return token
}
