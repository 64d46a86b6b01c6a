// Package mihomo implements the public showcase API client.
package mihomo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/naotimes/qingque-api/configs"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
)

// Client fetches parsed showcase profiles by raw game UID. The API is public:
// no credentials are involved, only the UID.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *logrus.Logger
}

func NewClient(cfg *config.MihomoConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	base := cfg.BaseURL
	if base == "" {
		base = "https://api.mihomo.me"
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: base,
		logger:  logger,
	}
}

// GetPlayer fetches the parsed showcase for uid in the given language.
// An unknown UID resolves to mihomo.ErrUIDNotFound.
func (c *Client) GetPlayer(ctx context.Context, uid int64, lang i18n.Language) (*mihomo.Player, error) {
	endpoint := fmt.Sprintf("%s/sr_info_parsed/%d?lang=%s", c.baseURL, uid, lang.Mihomo())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build showcase request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("showcase request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, mihomo.ErrUIDNotFound
	default:
		c.logger.WithFields(logrus.Fields{"uid": uid, "status": resp.StatusCode}).Debug("showcase API rejected request")
		return nil, fmt.Errorf("showcase API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read showcase response: %w", err)
	}
	var player mihomo.Player
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, fmt.Errorf("failed to decode showcase payload: %w", err)
	}
	return &player, nil
}
