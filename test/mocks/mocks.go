package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
)

// MemoryCache is an in-memory ports.Cache with an injectable clock so tests
// can step past TTLs without sleeping.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	Now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), Now: time.Now}
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !m.Now().Before(e.expiresAt) {
		delete(m.entries, key)
		return nil, false, nil
	}
	return e.value, true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var exp time.Time
	if ttl > 0 {
		exp = m.Now().Add(ttl)
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	m.entries[key] = memoryEntry{value: cp, expiresAt: exp}
	return nil
}

// Len reports the number of live entries; expired ones still count until read.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// HoyolabClientMock is a lightweight mock for ports.HoyolabClient.
type HoyolabClientMock struct {
	GetBasicInfoFn        func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserInfo, error)
	GetOverviewFn         func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error)
	GetNotesFn            func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Notes, error)
	GetCharactersFn       func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Characters, error)
	GetSimUniverseFn      func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverse, error)
	GetSimUniverseSwarmFn func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverseSwarm, error)
	GetForgottenHallFn    func(ctx context.Context, creds *transaction.Hoyolab, previous bool, lang i18n.Language) (*hoyolab.ForgottenHall, error)
}

func (m *HoyolabClientMock) GetBasicInfo(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserInfo, error) {
	if m.GetBasicInfoFn != nil {
		return m.GetBasicInfoFn(ctx, creds, lang)
	}
	return &hoyolab.UserInfo{Nickname: "Trailblazer", Level: 70}, nil
}
func (m *HoyolabClientMock) GetOverview(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error) {
	if m.GetOverviewFn != nil {
		return m.GetOverviewFn(ctx, creds, lang)
	}
	return &hoyolab.UserOverview{
		Overview: &hoyolab.Overview{Stats: &hoyolab.OverviewStats{ActiveDays: 1}},
		UserInfo: &hoyolab.UserInfo{Nickname: "Trailblazer", Level: 70},
	}, nil
}
func (m *HoyolabClientMock) GetNotes(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Notes, error) {
	if m.GetNotesFn != nil {
		return m.GetNotesFn(ctx, creds, lang)
	}
	return &hoyolab.Notes{StaminaCurrent: 120, StaminaMax: 240}, nil
}
func (m *HoyolabClientMock) GetCharacters(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Characters, error) {
	if m.GetCharactersFn != nil {
		return m.GetCharactersFn(ctx, creds, lang)
	}
	return &hoyolab.Characters{List: []hoyolab.Character{{ID: 1205, Name: "Blade", Level: 80}}}, nil
}
func (m *HoyolabClientMock) GetSimUniverse(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverse, error) {
	if m.GetSimUniverseFn != nil {
		return m.GetSimUniverseFn(ctx, creds, lang)
	}
	return &hoyolab.SimUniverse{
		User:    &hoyolab.UserInfo{Nickname: "Trailblazer"},
		Current: hoyolab.SimUniverseDetail{Records: []hoyolab.SimUniverseRecord{{Progress: 8, Score: 4000}}},
	}, nil
}
func (m *HoyolabClientMock) GetSimUniverseSwarm(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverseSwarm, error) {
	if m.GetSimUniverseSwarmFn != nil {
		return m.GetSimUniverseSwarmFn(ctx, creds, lang)
	}
	swarm := &hoyolab.SimUniverseSwarm{
		User:    &hoyolab.UserInfo{Nickname: "Trailblazer"},
		Details: hoyolab.SimUniverseDetail{Records: []hoyolab.SimUniverseRecord{{Progress: 4, Score: 2000}}},
	}
	swarm.Overview.Destiny = []hoyolab.SwarmDestiny{{Name: "Preservation", Level: 3}}
	return swarm, nil
}
func (m *HoyolabClientMock) GetForgottenHall(ctx context.Context, creds *transaction.Hoyolab, previous bool, lang i18n.Language) (*hoyolab.ForgottenHall, error) {
	if m.GetForgottenHallFn != nil {
		return m.GetForgottenHallFn(ctx, creds, previous, lang)
	}
	return &hoyolab.ForgottenHall{
		TotalStars: 12,
		Floors: []hoyolab.ForgottenHallFloor{
			{Name: "Floor 10", StarNum: 3},
			{Name: "Floor 9", StarNum: 3},
			{Name: "Floor 8", StarNum: 3},
		},
	}, nil
}

// MihomoClientMock is a lightweight mock for ports.MihomoClient.
type MihomoClientMock struct {
	GetPlayerFn func(ctx context.Context, uid int64, lang i18n.Language) (*mihomo.Player, error)
}

func (m *MihomoClientMock) GetPlayer(ctx context.Context, uid int64, lang i18n.Language) (*mihomo.Player, error) {
	if m.GetPlayerFn != nil {
		return m.GetPlayerFn(ctx, uid, lang)
	}
	return &mihomo.Player{
		Player: mihomo.PlayerInfo{UID: "800000001", Nickname: "Stelle", Level: 60},
		Characters: []mihomo.Character{
			{ID: "1006", Name: "Silver Wolf", Level: 80},
			{ID: "1205", Name: "Blade", Level: 80},
		},
	}, nil
}

// RendererMock is a lightweight mock for ports.CardRenderer. Every method
// returns a fixed PNG-ish payload unless its Fn is set; Calls counts total
// invocations so caching tests can assert how often rendering ran.
type RendererMock struct {
	mu    sync.Mutex
	calls int

	RenderChroniclesFn    func(ctx context.Context, overview *hoyolab.UserOverview, notes *hoyolab.Notes, lang i18n.Language) ([]byte, error)
	RenderCharactersFn    func(ctx context.Context, info *hoyolab.UserInfo, chars *hoyolab.Characters, lang i18n.Language) ([]byte, error)
	RenderSimUniverseFn   func(ctx context.Context, user *hoyolab.UserInfo, record *hoyolab.SimUniverseRecord, striders []hoyolab.SwarmDestiny, lang i18n.Language) ([]byte, error)
	RenderMoCFn           func(ctx context.Context, floor *hoyolab.ForgottenHallFloor, lang i18n.Language) ([]byte, error)
	RenderCharacterCardFn func(ctx context.Context, player *mihomo.PlayerInfo, char *mihomo.Character, detailed bool, lang i18n.Language) ([]byte, error)
	RenderPlayerCardFn    func(ctx context.Context, player *mihomo.Player, lang i18n.Language) ([]byte, error)
}

func (m *RendererMock) bump() {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
}

// Calls reports how many render invocations happened across all methods.
func (m *RendererMock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *RendererMock) RenderChronicles(ctx context.Context, overview *hoyolab.UserOverview, notes *hoyolab.Notes, lang i18n.Language) ([]byte, error) {
	m.bump()
	if m.RenderChroniclesFn != nil {
		return m.RenderChroniclesFn(ctx, overview, notes, lang)
	}
	return []byte("png:chronicles"), nil
}
func (m *RendererMock) RenderCharacters(ctx context.Context, info *hoyolab.UserInfo, chars *hoyolab.Characters, lang i18n.Language) ([]byte, error) {
	m.bump()
	if m.RenderCharactersFn != nil {
		return m.RenderCharactersFn(ctx, info, chars, lang)
	}
	return []byte("png:characters"), nil
}
func (m *RendererMock) RenderSimUniverse(ctx context.Context, user *hoyolab.UserInfo, record *hoyolab.SimUniverseRecord, striders []hoyolab.SwarmDestiny, lang i18n.Language) ([]byte, error) {
	m.bump()
	if m.RenderSimUniverseFn != nil {
		return m.RenderSimUniverseFn(ctx, user, record, striders, lang)
	}
	return []byte("png:simuniverse"), nil
}
func (m *RendererMock) RenderMoC(ctx context.Context, floor *hoyolab.ForgottenHallFloor, lang i18n.Language) ([]byte, error) {
	m.bump()
	if m.RenderMoCFn != nil {
		return m.RenderMoCFn(ctx, floor, lang)
	}
	return []byte("png:moc"), nil
}
func (m *RendererMock) RenderCharacterCard(ctx context.Context, player *mihomo.PlayerInfo, char *mihomo.Character, detailed bool, lang i18n.Language) ([]byte, error) {
	m.bump()
	if m.RenderCharacterCardFn != nil {
		return m.RenderCharacterCardFn(ctx, player, char, detailed, lang)
	}
	return []byte("png:character"), nil
}
func (m *RendererMock) RenderPlayerCard(ctx context.Context, player *mihomo.Player, lang i18n.Language) ([]byte, error) {
	m.bump()
	if m.RenderPlayerCardFn != nil {
		return m.RenderPlayerCardFn(ctx, player, lang)
	}
	return []byte("png:player"), nil
}
