package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

// IntegrationTestSuite runs against a live gateway (and its Redis). Set
// TEST_SERVER_URL to point at it; the suite is skipped otherwise.
type IntegrationTestSuite struct {
	suite.Suite
	client  *http.Client
	baseURL string
}

func (s *IntegrationTestSuite) SetupSuite() {
	base := os.Getenv("TEST_SERVER_URL")
	if base == "" {
		s.T().Skip("TEST_SERVER_URL not set; skipping integration tests")
	}
	s.baseURL = base
	s.client = &http.Client{Timeout: 10 * time.Second}
}

func (s *IntegrationTestSuite) TestHealthEndpoint() {
	resp, err := s.client.Get(s.baseURL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var payload map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&payload))
	s.Equal("qingque-api", payload["service"])
}

func (s *IntegrationTestSuite) TestMetricsEndpoint() {
	resp, err := s.client.Get(s.baseURL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestExchangeRejectsEmptyBody() {
	resp, err := s.client.Post(s.baseURL+"/api/exchange/hoyolab", "application/json", bytes.NewReader([]byte(`{}`)))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var payload map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&payload))
	s.Equal(float64(103), payload["code"])
}

func (s *IntegrationTestSuite) TestCardRouteRejectsUnknownToken() {
	url := fmt.Sprintf("%s/api/hoyolab/chronicles?token=%064d", s.baseURL, 0)
	resp, err := s.client.Get(url)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
