// Package hoyolab implements the battle-chronicle API client. Requests are
// DS-signed, cookie-authenticated, and bounded by the configured timeout;
// non-zero retcodes map onto the typed error taxonomy in the domain package.
package hoyolab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/naotimes/qingque-api/configs"
	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
)

const (
	chroniclesBase = "https://bbs-api-os.hoyolab.com/game_record/hkrpg/api"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/117.0"
)

// Client talks to the overseas HoYoLAB chronicle endpoints. The client-level
// credentials act as a fallback for records that carry no cookie material of
// their own.
type Client struct {
	http    *http.Client
	baseURL string
	logger  *logrus.Logger

	defaultLtUID  int64
	defaultLToken string
}

func NewClient(cfg *config.HoyolabConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:          &http.Client{Timeout: timeout},
		baseURL:       chroniclesBase,
		logger:        logger,
		defaultLtUID:  cfg.LtUID,
		defaultLToken: cfg.LToken,
	}
}

// apiResponse is the HoYoLAB response envelope shared by every endpoint.
type apiResponse struct {
	Retcode int             `json:"retcode"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) cookieHeader(creds *transaction.Hoyolab) string {
	if creds.LCookie != "" {
		return creds.LCookie
	}
	ltoken, ltuid := creds.LToken, creds.LtUID
	if ltoken == "" {
		ltoken = c.defaultLToken
	}
	if ltuid == 0 {
		ltuid = c.defaultLtUID
	}
	if creds.LMID != "" {
		// v2 cookie pair
		return fmt.Sprintf("ltoken_v2=%s; ltmid_v2=%s; ltuid_v2=%d", ltoken, creds.LMID, ltuid)
	}
	return fmt.Sprintf("ltoken=%s; ltuid=%d", ltoken, ltuid)
}

func (c *Client) call(ctx context.Context, path string, query url.Values, creds *transaction.Hoyolab, lang i18n.Language, out any) error {
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, path, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build chronicle request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cookie", c.cookieHeader(creds))
	req.Header.Set("DS", generateDS(overseasSalt))
	req.Header.Set("x-rpc-app_version", "1.5.0")
	req.Header.Set("x-rpc-client_type", "5")
	req.Header.Set("x-rpc-language", lang.Hoyolab())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("chronicle request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("failed to read chronicle response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &hoyolab.APIError{Retcode: -resp.StatusCode, Msg: http.StatusText(resp.StatusCode)}
	}

	var envelope apiResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode chronicle response: %w", err)
	}
	if err := hoyolab.ErrorFromRetcode(envelope.Retcode, envelope.Message); err != nil {
		c.logger.WithFields(logrus.Fields{"path": path, "retcode": envelope.Retcode}).Debug("chronicle API rejected request")
		return err
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode chronicle payload: %w", err)
		}
	}
	return nil
}

func baseQuery(creds *transaction.Hoyolab) url.Values {
	q := url.Values{}
	q.Set("server", serverOf(creds.UID))
	q.Set("role_id", fmt.Sprintf("%d", creds.UID))
	return q
}

func (c *Client) GetBasicInfo(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserInfo, error) {
	var info hoyolab.UserInfo
	if err := c.call(ctx, "role/basicInfo", baseQuery(creds), creds, lang, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetOverview(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error) {
	var overview hoyolab.Overview
	if err := c.call(ctx, "index", baseQuery(creds), creds, lang, &overview); err != nil {
		return nil, err
	}
	info, err := c.GetBasicInfo(ctx, creds, lang)
	if err != nil {
		return nil, err
	}
	return &hoyolab.UserOverview{Overview: &overview, UserInfo: info}, nil
}

func (c *Client) GetNotes(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Notes, error) {
	var notes hoyolab.Notes
	if err := c.call(ctx, "note", baseQuery(creds), creds, lang, &notes); err != nil {
		return nil, err
	}
	return &notes, nil
}

func (c *Client) GetCharacters(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Characters, error) {
	var chars hoyolab.Characters
	if err := c.call(ctx, "avatar/info", baseQuery(creds), creds, lang, &chars); err != nil {
		return nil, err
	}
	return &chars, nil
}

func (c *Client) GetSimUniverse(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverse, error) {
	q := baseQuery(creds)
	q.Set("schedule_type", "3")
	q.Set("need_detail", "true")
	var su hoyolab.SimUniverse
	if err := c.call(ctx, "rogue", q, creds, lang, &su); err != nil {
		return nil, err
	}
	return &su, nil
}

func (c *Client) GetSimUniverseSwarm(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverseSwarm, error) {
	q := baseQuery(creds)
	q.Set("need_detail", "true")
	var swarm hoyolab.SimUniverseSwarm
	if err := c.call(ctx, "rogue_locust", q, creds, lang, &swarm); err != nil {
		return nil, err
	}
	return &swarm, nil
}

func (c *Client) GetForgottenHall(ctx context.Context, creds *transaction.Hoyolab, previous bool, lang i18n.Language) (*hoyolab.ForgottenHall, error) {
	q := baseQuery(creds)
	if previous {
		q.Set("schedule_type", "2")
	} else {
		q.Set("schedule_type", "1")
	}
	q.Set("need_all", "true")
	var hall hoyolab.ForgottenHall
	if err := c.call(ctx, "challenge", q, creds, lang, &hall); err != nil {
		return nil, err
	}
	return &hall, nil
}
