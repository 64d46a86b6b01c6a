package transaction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
)

// CacheKind namespaces generation-cache entries per artifact route. The set is
// closed: adding a member is a deliberate compatibility change to the stored
// key shape.
type CacheKind string

const (
	CacheKindMihomo       CacheKind = "mihomo"
	CacheKindMihomoPlayer CacheKind = "mihomo:player"
	CacheKindChronicles   CacheKind = "hoyolab:chronicles"
	CacheKindMoC          CacheKind = "hoyolab:moc"
	CacheKindSimUniverse  CacheKind = "hoyolab:simulated_universe"
)

// ErrInvalidCacheKind signals a programming error: an orchestrator passed a
// kind outside the closed enumeration. It is never reachable from client input.
var ErrInvalidCacheKind = errors.New("invalid cache kind")

func (k CacheKind) valid() bool {
	switch k {
	case CacheKindMihomo, CacheKindMihomoPlayer, CacheKindChronicles, CacheKindMoC, CacheKindSimUniverse:
		return true
	}
	return false
}

// MakeCacheKey deterministically builds a generation-cache key. The result is
// the kind alone, or "kind:suffix" when a suffix is given. No hashing: the
// suffix must already encode every parameter that affects the artifact bytes,
// which is why orchestrators go through the typed suffix builders below
// instead of joining strings by hand.
func MakeCacheKey(kind CacheKind, suffix string) (string, error) {
	if !kind.valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCacheKind, string(kind))
	}
	if suffix == "" {
		return string(kind), nil
	}
	return string(kind) + ":" + suffix, nil
}

// joinSuffix joins non-empty parts with the stable ':' delimiter.
func joinSuffix(parts ...string) string {
	return strings.Join(parts, ":")
}

// ChroniclesSuffix covers the overview and characters-list cards. View
// distinguishes the two artifact shapes sharing the chronicles kind.
type ChroniclesSuffix struct {
	UID   int64
	LtUID int64
	View  string // "overview" or "characters"
	Lang  i18n.Language
	Info  bool // raw JSON payload instead of a rendered card
}

func (s ChroniclesSuffix) Suffix() string {
	parts := []string{fmt.Sprintf("%d", s.UID), fmt.Sprintf("%d", s.LtUID), s.View, s.Lang.String()}
	if s.Info {
		parts = append(parts, "info")
	}
	return joinSuffix(parts...)
}

// SimUniverseSuffix covers the two standard progress modes plus the swarm
// disaster DLC mode, all namespaced under one kind.
type SimUniverseSuffix struct {
	UID   int64
	LtUID int64
	Kind  string // "current", "previous" or "swarm"
	Index int    // 1-based record index
	Lang  i18n.Language
	Info  bool
}

func (s SimUniverseSuffix) Suffix() string {
	parts := []string{fmt.Sprintf("%d", s.UID), fmt.Sprintf("%d", s.LtUID), s.Kind, fmt.Sprintf("INDEX_%d", s.Index), s.Lang.String()}
	if s.Info {
		parts = append(parts, "info")
	}
	return joinSuffix(parts...)
}

// MoCSuffix covers the two Memory of Chaos difficulty-tower modes. Floor is
// the user-facing 1-based floor number, before the reversed remapping.
type MoCSuffix struct {
	UID   int64
	LtUID int64
	Kind  string // "current" or "previous"
	Floor int
	Lang  i18n.Language
	Info  bool
}

func (s MoCSuffix) Suffix() string {
	parts := []string{fmt.Sprintf("%d", s.UID), fmt.Sprintf("%d", s.LtUID), s.Kind, fmt.Sprintf("FLOOR_%d", s.Floor), s.Lang.String()}
	if s.Info {
		parts = append(parts, "info")
	}
	return joinSuffix(parts...)
}

// CharacterSuffix covers the per-character Mihomo render.
type CharacterSuffix struct {
	UID       int64
	Character int // 1-based roster index
	Detailed  bool
	Lang      i18n.Language
}

func (s CharacterSuffix) Suffix() string {
	parts := []string{fmt.Sprintf("%d", s.UID), fmt.Sprintf("CHAR_%d", s.Character), s.Lang.String()}
	if s.Detailed {
		parts = append(parts, "detailed")
	}
	return joinSuffix(parts...)
}

// PlayerSuffix covers the Mihomo player-summary render and its info variant.
type PlayerSuffix struct {
	UID  int64
	Lang i18n.Language
	Info bool
}

func (s PlayerSuffix) Suffix() string {
	parts := []string{fmt.Sprintf("%d", s.UID), s.Lang.String()}
	if s.Info {
		parts = append(parts, "info")
	}
	return joinSuffix(parts...)
}
