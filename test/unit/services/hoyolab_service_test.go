package services_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	impl "github.com/naotimes/qingque-api/internal/application/services"
	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
	"github.com/naotimes/qingque-api/internal/infrastructure/repositories"
	"github.com/naotimes/qingque-api/test/mocks"
)

type hoyolabFixture struct {
	svc      *impl.HoyolabService
	client   *mocks.HoyolabClientMock
	renderer *mocks.RendererMock
	token    string
	store    *mocks.MemoryCache
}

func newHoyolabFixture(t *testing.T) *hoyolabFixture {
	t.Helper()
	store := mocks.NewMemoryCache()
	repo := repositories.NewTransactionRepository(store, testLogger())
	client := &mocks.HoyolabClientMock{}
	renderer := &mocks.RendererMock{}
	svc := impl.NewHoyolabService(repo, repo, client, renderer, testCacheConfig(), testLogger())

	token, err := repo.CreateHoyolab(context.Background(), &transaction.Hoyolab{UID: 800000001, LtUID: 12345, LToken: "ltoken"}, testCacheConfig().TransactionTTL)
	require.NoError(t, err)

	return &hoyolabFixture{svc: svc, client: client, renderer: renderer, token: token, store: store}
}

func TestChroniclesCard_CacheHitSkipsUpstream(t *testing.T) {
	f := newHoyolabFixture(t)
	var upstreamCalls int32
	f.client.GetOverviewFn = func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error) {
		atomic.AddInt32(&upstreamCalls, 1)
		return &hoyolab.UserOverview{
			Overview: &hoyolab.Overview{Stats: &hoyolab.OverviewStats{ActiveDays: 42}},
			UserInfo: &hoyolab.UserInfo{Nickname: "Trailblazer"},
		}, nil
	}

	first, err := f.svc.ChroniclesCard(context.Background(), f.token, "en-US", false)
	require.NoError(t, err)
	second, err := f.svc.ChroniclesCard(context.Background(), f.token, "en-US", false)
	require.NoError(t, err)

	require.Equal(t, first.Data, second.Data)
	require.Equal(t, int32(1), atomic.LoadInt32(&upstreamCalls))
	require.Equal(t, 1, f.renderer.Calls())
	require.Equal(t, "Chronicles_800000001_OverviewEN.Qingque.png", first.Filename)
}

func TestChroniclesCard_NocacheBypassesReadButStillWrites(t *testing.T) {
	f := newHoyolabFixture(t)

	_, err := f.svc.ChroniclesCard(context.Background(), f.token, "", false)
	require.NoError(t, err)
	require.Equal(t, 1, f.renderer.Calls())

	// nocache skips the read and regenerates, but the result is written back.
	_, err = f.svc.ChroniclesCard(context.Background(), f.token, "", true)
	require.NoError(t, err)
	require.Equal(t, 2, f.renderer.Calls())

	// The write-back from the nocache request now serves a normal request.
	_, err = f.svc.ChroniclesCard(context.Background(), f.token, "", false)
	require.NoError(t, err)
	require.Equal(t, 2, f.renderer.Calls())
}

func TestChroniclesCard_UnknownToken(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.ChroniclesCard(context.Background(), "0000000000000000000000000000000000000000000000000000000000000000", "", false)
	requireCode(t, err, apperror.CodeTRInvalidToken, 403)
}

func TestChroniclesCard_MissingToken(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.ChroniclesCard(context.Background(), "", "", false)
	requireCode(t, err, apperror.CodeMissingToken, 400)
}

func TestChroniclesCard_InvalidLanguage(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.ChroniclesCard(context.Background(), f.token, "xx-XX", false)
	requireCode(t, err, apperror.CodeInvalidLang, 400)
}

func TestChroniclesCard_LanguagesAreCachedSeparately(t *testing.T) {
	f := newHoyolabFixture(t)

	_, err := f.svc.ChroniclesCard(context.Background(), f.token, "en-US", false)
	require.NoError(t, err)
	_, err = f.svc.ChroniclesCard(context.Background(), f.token, "ja-JP", false)
	require.NoError(t, err)
	require.Equal(t, 2, f.renderer.Calls())
}

func TestChroniclesCard_IncompleteUpstreamData(t *testing.T) {
	f := newHoyolabFixture(t)
	f.client.GetOverviewFn = func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error) {
		return &hoyolab.UserOverview{Overview: nil, UserInfo: &hoyolab.UserInfo{}}, nil
	}
	_, err := f.svc.ChroniclesCard(context.Background(), f.token, "", false)
	requireCode(t, err, apperror.CodeHoyolabError, 500)
}

func TestChroniclesCard_UpstreamErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code apperror.Code
	}{
		{"data not public", hoyolab.ErrDataNotPublic, apperror.CodeHoyolabDataNotPublic},
		{"account not found", hoyolab.ErrAccountNotFound, apperror.CodeHoyolabAccountNotFound},
		{"invalid cookies", hoyolab.ErrInvalidCookies, apperror.CodeHoyolabInvalidCookies},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newHoyolabFixture(t)
			f.client.GetOverviewFn = func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error) {
				return nil, tc.err
			}
			_, err := f.svc.ChroniclesCard(context.Background(), f.token, "", false)
			requireCode(t, err, tc.code, 500)
		})
	}
}

func TestChroniclesCard_FailedRenderIsNotCached(t *testing.T) {
	f := newHoyolabFixture(t)
	fail := true
	f.renderer.RenderChroniclesFn = func(ctx context.Context, overview *hoyolab.UserOverview, notes *hoyolab.Notes, lang i18n.Language) ([]byte, error) {
		if fail {
			return nil, context.DeadlineExceeded
		}
		return []byte("png"), nil
	}

	_, err := f.svc.ChroniclesCard(context.Background(), f.token, "", false)
	requireCode(t, err, apperror.CodeGenFailure, 500)

	fail = false
	artifact, err := f.svc.ChroniclesCard(context.Background(), f.token, "", false)
	require.NoError(t, err)
	require.Equal(t, []byte("png"), artifact.Data)
	require.Equal(t, 2, f.renderer.Calls())
}

func TestSimUniverseCard_UnknownKind(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.SimUniverseCard(context.Background(), f.token, "eternal", 1, "", false)
	requireCode(t, err, apperror.CodeHoyolabSimuUnknownKind, 400)
}

func TestSimUniverseCard_IndexBelowOne(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.SimUniverseCard(context.Background(), f.token, "current", 0, "", false)
	requireCode(t, err, apperror.CodeInvalidIndex, 400)
}

func TestSimUniverseCard_NoRecords(t *testing.T) {
	f := newHoyolabFixture(t)
	f.client.GetSimUniverseFn = func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverse, error) {
		return &hoyolab.SimUniverse{User: &hoyolab.UserInfo{}}, nil
	}
	_, err := f.svc.SimUniverseCard(context.Background(), f.token, "current", 1, "", false)
	requireCode(t, err, apperror.CodeHoyolabSimuNoRecords, 400)
}

func TestSimUniverseCard_IndexOutOfRange(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.SimUniverseCard(context.Background(), f.token, "current", 5, "", false)
	requireCode(t, err, apperror.CodeHoyolabSimuInvalidIndex, 400)
}

func TestSimUniverseCard_SwarmPassesStriders(t *testing.T) {
	f := newHoyolabFixture(t)
	var gotStriders []hoyolab.SwarmDestiny
	f.renderer.RenderSimUniverseFn = func(ctx context.Context, user *hoyolab.UserInfo, record *hoyolab.SimUniverseRecord, striders []hoyolab.SwarmDestiny, lang i18n.Language) ([]byte, error) {
		gotStriders = striders
		return []byte("png"), nil
	}

	_, err := f.svc.SimUniverseCard(context.Background(), f.token, "swarm", 1, "", false)
	require.NoError(t, err)
	require.Len(t, gotStriders, 1)
	require.Equal(t, "Preservation", gotStriders[0].Name)
}

func TestMoCCard_FloorNumbersAreReversed(t *testing.T) {
	f := newHoyolabFixture(t)
	var rendered *hoyolab.ForgottenHallFloor
	f.renderer.RenderMoCFn = func(ctx context.Context, floor *hoyolab.ForgottenHallFloor, lang i18n.Language) ([]byte, error) {
		rendered = floor
		return []byte("png"), nil
	}

	// The default mock returns floors newest-first: 10, 9, 8. Floor 1 must
	// map to the oldest entry.
	_, err := f.svc.MoCCard(context.Background(), f.token, "current", 1, "", false)
	require.NoError(t, err)
	require.NotNil(t, rendered)
	require.Equal(t, "Floor 8", rendered.Name)

	_, err = f.svc.MoCCard(context.Background(), f.token, "current", 3, "", false)
	require.NoError(t, err)
	require.Equal(t, "Floor 10", rendered.Name)
}

func TestMoCCard_FloorOutOfRange(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.MoCCard(context.Background(), f.token, "current", 4, "", false)
	requireCode(t, err, apperror.CodeHoyolabSimuInvalidIndex, 400)
}

func TestMoCCard_PreviousSchedule(t *testing.T) {
	f := newHoyolabFixture(t)
	var gotPrevious bool
	f.client.GetForgottenHallFn = func(ctx context.Context, creds *transaction.Hoyolab, previous bool, lang i18n.Language) (*hoyolab.ForgottenHall, error) {
		gotPrevious = previous
		return &hoyolab.ForgottenHall{Floors: []hoyolab.ForgottenHallFloor{{Name: "Floor 1"}}}, nil
	}

	_, err := f.svc.MoCCard(context.Background(), f.token, "previous", 1, "", false)
	require.NoError(t, err)
	require.True(t, gotPrevious)
}

func TestMoCCard_UnknownKind(t *testing.T) {
	f := newHoyolabFixture(t)
	_, err := f.svc.MoCCard(context.Background(), f.token, "future", 1, "", false)
	requireCode(t, err, apperror.CodeHoyolabSimuUnknownKind, 400)
}

func TestChroniclesInfo_IsCachedSeparatelyFromCard(t *testing.T) {
	f := newHoyolabFixture(t)
	var upstreamCalls int32
	f.client.GetOverviewFn = func(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error) {
		atomic.AddInt32(&upstreamCalls, 1)
		return &hoyolab.UserOverview{
			Overview: &hoyolab.Overview{Stats: &hoyolab.OverviewStats{}},
			UserInfo: &hoyolab.UserInfo{Nickname: "Trailblazer"},
		}, nil
	}

	_, err := f.svc.ChroniclesCard(context.Background(), f.token, "", false)
	require.NoError(t, err)
	info, err := f.svc.ChroniclesInfo(context.Background(), f.token, "", false)
	require.NoError(t, err)

	// Card and info each hit upstream once: they live under distinct keys.
	require.Equal(t, int32(2), atomic.LoadInt32(&upstreamCalls))
	require.Contains(t, string(info.Data), "Trailblazer")

	// The info payload itself is cached on repeat.
	_, err = f.svc.ChroniclesInfo(context.Background(), f.token, "", false)
	require.NoError(t, err)
	require.Equal(t, int32(2), atomic.LoadInt32(&upstreamCalls))
}

func TestCharactersCard_Filename(t *testing.T) {
	f := newHoyolabFixture(t)
	artifact, err := f.svc.CharactersCard(context.Background(), f.token, "ja-JP", false)
	require.NoError(t, err)
	require.Equal(t, "Chronicles_800000001_CharactersJP.Qingque.png", artifact.Filename)
}
