// Package mihomo models the parsed showcase payload served by the Mihomo API.
package mihomo

import "errors"

// ErrUIDNotFound signals that the showcase API has no profile for a UID.
var ErrUIDNotFound = errors.New("mihomo: uid not found")

// PlayerInfo is the public profile header of a showcase.
type PlayerInfo struct {
	UID       string `json:"uid" msgpack:"uid"`
	Nickname  string `json:"nickname" msgpack:"nickname"`
	Level     int    `json:"level" msgpack:"level"`
	WorldLevel int   `json:"world_level" msgpack:"world_level"`
	Signature string `json:"signature,omitempty" msgpack:"signature,omitempty"`
	AvatarID  string `json:"avatar,omitempty" msgpack:"avatar,omitempty"`
}

// Attribute is one resolved stat line on a character.
type Attribute struct {
	Field   string  `json:"field" msgpack:"field"`
	Name    string  `json:"name" msgpack:"name"`
	Value   float64 `json:"value" msgpack:"value"`
	Display string  `json:"display" msgpack:"display"`
	Percent bool    `json:"percent" msgpack:"percent"`
}

// LightCone is the equipped light cone, if any.
type LightCone struct {
	ID    string `json:"id" msgpack:"id"`
	Name  string `json:"name" msgpack:"name"`
	Level int    `json:"level" msgpack:"level"`
	Rank  int    `json:"rank" msgpack:"rank"`
}

// Relic is one equipped relic piece.
type Relic struct {
	ID      string `json:"id" msgpack:"id"`
	Name    string `json:"name" msgpack:"name"`
	SetName string `json:"set_name" msgpack:"set_name"`
	Level   int    `json:"level" msgpack:"level"`
	Rarity  int    `json:"rarity" msgpack:"rarity"`
}

// Character is one showcased character with resolved stats.
type Character struct {
	ID         string      `json:"id" msgpack:"id"`
	Name       string      `json:"name" msgpack:"name"`
	Level      int         `json:"level" msgpack:"level"`
	Promotion  int         `json:"promotion" msgpack:"promotion"`
	Rank       int         `json:"rank" msgpack:"rank"`
	Element    string      `json:"element,omitempty" msgpack:"element,omitempty"`
	Path       string      `json:"path,omitempty" msgpack:"path,omitempty"`
	LightCone  *LightCone  `json:"light_cone,omitempty" msgpack:"light_cone,omitempty"`
	Relics     []Relic     `json:"relics,omitempty" msgpack:"relics,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Additions  []Attribute `json:"additions,omitempty" msgpack:"additions,omitempty"`
}

// Player is the full parsed showcase: profile header plus every showcased
// character. This is the structure snapshotted into a Mihomo transaction.
type Player struct {
	Player     PlayerInfo  `json:"player" msgpack:"player"`
	Characters []Character `json:"characters" msgpack:"characters"`
}
