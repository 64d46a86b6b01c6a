package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	impl "github.com/naotimes/qingque-api/internal/application/services"
	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
	"github.com/naotimes/qingque-api/internal/infrastructure/repositories"
	"github.com/naotimes/qingque-api/test/mocks"
)

type mihomoFixture struct {
	svc      *impl.MihomoService
	client   *mocks.MihomoClientMock
	renderer *mocks.RendererMock
	token    string
	snapshot *mihomo.Player
}

func newMihomoFixture(t *testing.T) *mihomoFixture {
	t.Helper()
	store := mocks.NewMemoryCache()
	repo := repositories.NewTransactionRepository(store, testLogger())
	client := &mocks.MihomoClientMock{}
	renderer := &mocks.RendererMock{}
	svc := impl.NewMihomoService(repo, repo, client, renderer, testCacheConfig(), testLogger())

	snapshot := &mihomo.Player{
		Player: mihomo.PlayerInfo{UID: "800000001", Nickname: "Stelle", Level: 60},
		Characters: []mihomo.Character{
			{ID: "1006", Name: "Silver Wolf", Level: 80},
			{ID: "1205", Name: "Blade", Level: 75},
		},
	}
	token, err := repo.CreateMihomo(context.Background(), &transaction.Mihomo{UID: 800000001, Player: snapshot}, testCacheConfig().MihomoTTL)
	require.NoError(t, err)

	return &mihomoFixture{svc: svc, client: client, renderer: renderer, token: token, snapshot: snapshot}
}

func TestCharacterCard_TokenServesSnapshotWithoutUpstream(t *testing.T) {
	f := newMihomoFixture(t)
	f.client.GetPlayerFn = func(ctx context.Context, uid int64, lang i18n.Language) (*mihomo.Player, error) {
		t.Fatal("token requests must never hit the showcase API")
		return nil, nil
	}

	var rendered *mihomo.Character
	f.renderer.RenderCharacterCardFn = func(ctx context.Context, player *mihomo.PlayerInfo, char *mihomo.Character, detailed bool, lang i18n.Language) ([]byte, error) {
		rendered = char
		return []byte("png"), nil
	}

	artifact, err := f.svc.CharacterCard(context.Background(), "", f.token, 2, false, "", false)
	require.NoError(t, err)
	require.Equal(t, "Blade", rendered.Name)
	require.Equal(t, "Mihomo_800000001_C2EN.Qingque.png", artifact.Filename)
}

func TestCharacterCard_TokenRequestsAreCached(t *testing.T) {
	f := newMihomoFixture(t)

	_, err := f.svc.CharacterCard(context.Background(), "", f.token, 1, false, "", false)
	require.NoError(t, err)
	_, err = f.svc.CharacterCard(context.Background(), "", f.token, 1, false, "", false)
	require.NoError(t, err)
	require.Equal(t, 1, f.renderer.Calls())

	// A different index or the detailed variant is a different artifact.
	_, err = f.svc.CharacterCard(context.Background(), "", f.token, 2, false, "", false)
	require.NoError(t, err)
	_, err = f.svc.CharacterCard(context.Background(), "", f.token, 1, true, "", false)
	require.NoError(t, err)
	require.Equal(t, 3, f.renderer.Calls())
}

func TestCharacterCard_RawUIDIsNeverCached(t *testing.T) {
	f := newMihomoFixture(t)

	_, err := f.svc.CharacterCard(context.Background(), "800000001", "", 1, false, "", false)
	require.NoError(t, err)
	_, err = f.svc.CharacterCard(context.Background(), "800000001", "", 1, false, "", false)
	require.NoError(t, err)
	require.Equal(t, 2, f.renderer.Calls())
}

func TestCharacterCard_MissingUIDAndToken(t *testing.T) {
	f := newMihomoFixture(t)
	_, err := f.svc.CharacterCard(context.Background(), "", "", 1, false, "", false)
	requireCode(t, err, apperror.CodeMissingUIDToken, 400)
}

func TestCharacterCard_MalformedUID(t *testing.T) {
	f := newMihomoFixture(t)
	_, err := f.svc.CharacterCard(context.Background(), "not-a-uid", "", 1, false, "", false)
	requireCode(t, err, apperror.CodeMissingUID, 400)
}

func TestCharacterCard_IndexOutOfRange(t *testing.T) {
	f := newMihomoFixture(t)
	_, err := f.svc.CharacterCard(context.Background(), "", f.token, 3, false, "", false)
	requireCode(t, err, apperror.CodeMihomoInvalidCharacter, 400)
}

func TestCharacterCard_IndexBelowOne(t *testing.T) {
	f := newMihomoFixture(t)
	_, err := f.svc.CharacterCard(context.Background(), "", f.token, 0, false, "", false)
	requireCode(t, err, apperror.CodeInvalidIndex, 400)
}

func TestCharacterCard_UnknownToken(t *testing.T) {
	f := newMihomoFixture(t)
	_, err := f.svc.CharacterCard(context.Background(), "", "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", 1, false, "", false)
	requireCode(t, err, apperror.CodeTRInvalidToken, 403)
}

func TestCharacterCard_UIDNotFound(t *testing.T) {
	f := newMihomoFixture(t)
	f.client.GetPlayerFn = func(ctx context.Context, uid int64, lang i18n.Language) (*mihomo.Player, error) {
		return nil, mihomo.ErrUIDNotFound
	}
	_, err := f.svc.CharacterCard(context.Background(), "800000002", "", 1, false, "", false)
	requireCode(t, err, apperror.CodeMihomoUIDNotFound, 500)
}

func TestPlayerCard_CachedUnderToken(t *testing.T) {
	f := newMihomoFixture(t)

	first, err := f.svc.PlayerCard(context.Background(), "", f.token, "", false)
	require.NoError(t, err)
	second, err := f.svc.PlayerCard(context.Background(), "", f.token, "", false)
	require.NoError(t, err)

	require.Equal(t, first.Data, second.Data)
	require.Equal(t, 1, f.renderer.Calls())
	require.Equal(t, "Mihomo_800000001_PlayerEN.Qingque.png", first.Filename)
}

func TestPlayerInfo_ReturnsSnapshotJSON(t *testing.T) {
	f := newMihomoFixture(t)

	artifact, err := f.svc.PlayerInfo(context.Background(), "", f.token, "", false)
	require.NoError(t, err)

	var got mihomo.Player
	require.NoError(t, json.Unmarshal(artifact.Data, &got))
	require.Equal(t, "Stelle", got.Player.Nickname)
	require.Len(t, got.Characters, 2)
}
