package httpserver_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStrictMode_RejectsMissingSecret(t *testing.T) {
	f := newServerFixture(t, "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/mihomo/info/player?token="+f.mihomoToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	require.Equal(t, float64(105), payload["code"])
	require.Equal(t, "invalid secret provided", payload["message"])
}

func TestStrictMode_RejectsWrongSecret(t *testing.T) {
	f := newServerFixture(t, "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/info/chronicles?token="+f.hoyolabToken, nil)
	req.Header.Set("X-Qingque-Secret", "hunter3")
	rec := f.do(req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	payload := decodeEnvelope(t, rec.Body.Bytes())
	// Distinct from the invalid-token rejection on the same routes.
	require.Equal(t, float64(105), payload["code"])
}

func TestStrictMode_AcceptsCorrectSecret(t *testing.T) {
	f := newServerFixture(t, "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/mihomo/info/player?token="+f.mihomoToken, nil)
	req.Header.Set("X-Qingque-Secret", "hunter2")
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStrictMode_DoesNotGateCardRoutes(t *testing.T) {
	f := newServerFixture(t, "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/hoyolab/chronicles?token="+f.hoyolabToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestStrictMode_DisabledWhenNoSecretConfigured(t *testing.T) {
	f := newServerFixture(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/mihomo/info/player?token="+f.mihomoToken, nil)
	rec := f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
}
