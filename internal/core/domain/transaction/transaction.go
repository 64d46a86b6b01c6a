package transaction

import (
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
)

// RecordKind tags which credential variant a stored record holds. The tag is
// persisted alongside the record so a token issued for one variant can never
// deserialize as another.
type RecordKind string

const (
	RecordHoyolab RecordKind = "hoyolab"
	RecordMihomo  RecordKind = "mihomo"
)

// Hoyolab is the credential bundle exchanged for a HoYoLAB session token.
// It is immutable once stored; expiry is its only removal path.
type Hoyolab struct {
	// UID is the in-game Star Rail UID.
	UID int64 `json:"uid"`
	// LtUID is the HoYoLAB account UID.
	LtUID int64 `json:"ltuid"`
	// LToken is the HoYoLAB auth token.
	LToken string `json:"ltoken"`
	// LCookie is the optional full cookie value.
	LCookie string `json:"lcookie,omitempty"`
	// LMID is the optional HoYoLAB MID token (v2 cookies).
	LMID string `json:"lmid,omitempty"`
}

// Mihomo pins the game UID together with the full profile snapshot captured
// at exchange time. The snapshot is large, so it is stored msgpack-encoded.
type Mihomo struct {
	UID    int64          `json:"uid" msgpack:"uid"`
	Player *mihomo.Player `json:"cached" msgpack:"cached"`
}
