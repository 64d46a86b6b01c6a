package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	config "github.com/naotimes/qingque-api/configs"
	"github.com/naotimes/qingque-api/internal/application/services"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
	"github.com/naotimes/qingque-api/internal/infrastructure/httpserver"
	"github.com/naotimes/qingque-api/internal/infrastructure/repositories"
	"github.com/naotimes/qingque-api/test/mocks"
)

type serverFixture struct {
	server       *httpserver.Server
	repo         *repositories.TransactionRepository
	hoyolabToken string
	mihomoToken  string
}

func newServerFixture(t *testing.T, strictSecret string) *serverFixture {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cacheCfg := &config.CacheConfig{
		TransactionTTL: 72 * time.Hour,
		MihomoTTL:      5 * time.Minute,
		ImageTTL:       15 * time.Minute,
	}

	store := mocks.NewMemoryCache()
	repo := repositories.NewTransactionRepository(store, logger)
	hoyolabClient := &mocks.HoyolabClientMock{}
	mihomoClient := &mocks.MihomoClientMock{}
	renderer := &mocks.RendererMock{}

	deps := httpserver.ServerDeps{
		ExchangeService: services.NewExchangeService(repo, hoyolabClient, mihomoClient, cacheCfg, logger),
		HoyolabService:  services.NewHoyolabService(repo, repo, hoyolabClient, renderer, cacheCfg, logger),
		MihomoService:   services.NewMihomoService(repo, repo, mihomoClient, renderer, cacheCfg, logger),
	}
	server := httpserver.NewServer(&httpserver.ServerConfig{
		Host:         "127.0.0.1",
		Port:         "0",
		StrictSecret: strictSecret,
	}, logger, deps)

	ctx := context.Background()
	hoyolabToken, err := repo.CreateHoyolab(ctx, &transaction.Hoyolab{UID: 800000001, LtUID: 12345, LToken: "ltoken"}, time.Hour)
	require.NoError(t, err)
	mihomoToken, err := repo.CreateMihomo(ctx, &transaction.Mihomo{
		UID: 800000001,
		Player: &mihomo.Player{
			Player:     mihomo.PlayerInfo{UID: "800000001", Nickname: "Stelle"},
			Characters: []mihomo.Character{{ID: "1205", Name: "Blade"}},
		},
	}, 5*time.Minute)
	require.NoError(t, err)

	return &serverFixture{server: server, repo: repo, hoyolabToken: hoyolabToken, mihomoToken: mihomoToken}
}

func (f *serverFixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.server.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload
}

func TestExchangeHoyolab_ReturnsToken(t *testing.T) {
	f := newServerFixture(t, "")

	body := `{"uid": 800000001, "ltuid": 12345, "ltoken": "ltoken"}`
	req := httptest.NewRequest(http.MethodPost, "/api/exchange/hoyolab", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(0), payload["code"])
	require.Equal(t, "Success", payload["message"])
	token, ok := payload["data"].(string)
	require.True(t, ok, "token must be carried in the data field")
	require.Len(t, token, 64)

	// The issued token resolves immediately.
	_, found, err := f.repo.GetHoyolab(context.Background(), token)
	require.NoError(t, err)
	require.True(t, found)
}

func TestExchangeHoyolab_MissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
		code float64
	}{
		{"missing both", `{}`, 103},
		{"missing uid", `{"ltoken": "x"}`, 101},
		{"missing token", `{"uid": 1}`, 102},
	}
	f := newServerFixture(t, "")
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/exchange/hoyolab", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := f.do(req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			payload := decodeEnvelope(t, rec.Body.Bytes())
			require.Equal(t, tc.code, payload["code"])
		})
	}
}

func TestExchangeMihomo_ReturnsToken(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/exchange/mihomo", strings.NewReader(`{"uid": 800000001}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, "Success", payload["message"])
	require.Len(t, payload["data"].(string), 64)
}

func TestChronicles_ServesPNGWithHeaders(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/chronicles?token="+f.hoyolabToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Contains(t, rec.Header().Get("Content-Disposition"), `inline; filename="Chronicles_800000001_OverviewEN.Qingque.png"`)
	require.Equal(t, "max-age=900, must-revalidate", rec.Header().Get("Cache-Control"))
	require.NotEmpty(t, rec.Body.Bytes())
}

func TestChronicles_HeadReturnsHeadersOnly(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodHead, "/api/hoyolab/chronicles?token="+f.hoyolabToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Header().Get("Content-Length"))
	require.Empty(t, rec.Body.Bytes())
}

func TestChronicles_InvalidTokenIsForbidden(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/chronicles?token=ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", nil)
	rec := f.do(req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(1000), payload["code"])
}

func TestChronicles_InvalidLanguage(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/chronicles?token="+f.hoyolabToken+"&lang=xx-YY", nil)
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(100), payload["code"])
}

func TestSimUniverse_BogusKind(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/simuniverse/eternal/1?token="+f.hoyolabToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(2104), payload["code"])
}

func TestSimUniverse_NonNumericIndex(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/simuniverse/current/first?token="+f.hoyolabToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(104), payload["code"])
}

func TestMoC_ServesFloorCard(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/moc/current/1?token="+f.hoyolabToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestMihomoProfile_ByToken(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/mihomo/profile?token="+f.mihomoToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Disposition"), "Mihomo_800000001_C1EN.Qingque.png")
}

func TestMihomoProfile_MissingUIDAndToken(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/mihomo/profile", nil)
	rec := f.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(103), payload["code"])
}

func TestMihomoPlayerInfo_ReturnsJSON(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/mihomo/info/player?token="+f.mihomoToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.NotNil(t, payload["player"])
}

func TestHealth_ReportsService(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, "qingque-api", payload["service"])
	require.Equal(t, "healthy", payload["status"])
}
