package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	config "github.com/naotimes/qingque-api/configs"
	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
	"github.com/naotimes/qingque-api/internal/core/ports"
)

// SimUniverseKind selects which simulated-universe dataset a request targets.
type SimUniverseKind string

const (
	SimUniverseCurrent  SimUniverseKind = "current"
	SimUniversePrevious SimUniverseKind = "previous"
	SimUniverseSwarm    SimUniverseKind = "swarm"
)

func ParseSimUniverseKind(raw string) (SimUniverseKind, error) {
	switch SimUniverseKind(raw) {
	case SimUniverseCurrent, SimUniversePrevious, SimUniverseSwarm:
		return SimUniverseKind(raw), nil
	}
	return "", apperror.BadRequest(apperror.CodeHoyolabSimuUnknownKind, "invalid kind: %s (must be: current/previous/swarm)", raw)
}

// MoCKind selects the current or previous Memory of Chaos schedule.
type MoCKind string

const (
	MoCCurrent  MoCKind = "current"
	MoCPrevious MoCKind = "previous"
)

func ParseMoCKind(raw string) (MoCKind, error) {
	switch MoCKind(raw) {
	case MoCCurrent, MoCPrevious:
		return MoCKind(raw), nil
	}
	// Same code as the simulated-universe selector; the codes are shared
	// across kind selectors in the public contract.
	return "", apperror.BadRequest(apperror.CodeHoyolabSimuUnknownKind, "invalid kind: %s (must be: current/previous)", raw)
}

// HoyolabService orchestrates every chronicle endpoint: resolve token, build
// cache key, consult the generation cache, fetch, validate, render, store.
type HoyolabService struct {
	registry ports.TransactionRegistry
	genCache ports.GenerationCache
	client   ports.HoyolabClient
	renderer ports.CardRenderer
	imageTTL time.Duration
	logger   *logrus.Logger
}

func NewHoyolabService(registry ports.TransactionRegistry, genCache ports.GenerationCache, client ports.HoyolabClient, renderer ports.CardRenderer, cfg *config.CacheConfig, logger *logrus.Logger) *HoyolabService {
	return &HoyolabService{
		registry: registry,
		genCache: genCache,
		client:   client,
		renderer: renderer,
		imageTTL: cfg.ImageTTL,
		logger:   logger,
	}
}

// resolve looks the token up; absence (expired, unknown, wrong record kind)
// is a terminal forbidden error, the client must exchange again.
func (s *HoyolabService) resolve(ctx context.Context, token string) (*transaction.Hoyolab, error) {
	if token == "" {
		return nil, apperror.BadRequest(apperror.CodeMissingToken, "missing token")
	}
	creds, ok, err := s.registry.GetHoyolab(ctx, token)
	if err != nil {
		return nil, apperror.Internal(apperror.CodeGenFailure, "failed to resolve transaction").WithCause(err)
	}
	if !ok {
		return nil, apperror.Forbidden(apperror.CodeTRInvalidToken, "invalid token provided")
	}
	return creds, nil
}

// mapUpstreamErr converts upstream failures into the closed taxonomy: the
// three credential-class rejections get distinct codes, everything else
// (timeouts included) is a generic chronicle error. All are 500-class.
func mapUpstreamErr(err error, action string) error {
	switch {
	case errors.Is(err, hoyolab.ErrDataNotPublic):
		return apperror.Internal(apperror.CodeHoyolabDataNotPublic, "data is not public").WithCause(err)
	case errors.Is(err, hoyolab.ErrAccountNotFound):
		return apperror.Internal(apperror.CodeHoyolabAccountNotFound, "account not found").WithCause(err)
	case errors.Is(err, hoyolab.ErrInvalidCookies):
		return apperror.Internal(apperror.CodeHoyolabInvalidCookies, "invalid cookies/token").WithCause(err)
	default:
		return apperror.Internal(apperror.CodeHoyolabError, "error while getting %s: %v", action, err).WithCause(err)
	}
}

func incomplete(what string) error {
	return apperror.Internal(apperror.CodeHoyolabError, "data is unavailable (missing %s)", what)
}

func cacheKeyOrDie(kind transaction.CacheKind, suffix string) (string, error) {
	key, err := transaction.MakeCacheKey(kind, suffix)
	if err != nil {
		// Unknown kinds are a programming error in this package, not client
		// input; surface loudly as a generation failure.
		return "", apperror.Internal(apperror.CodeGenFailure, "broken cache key").WithCause(err)
	}
	return key, nil
}

// fetchChronicles pulls the overview and real-time notes concurrently and
// validates structural completeness before anything is rendered.
func (s *HoyolabService) fetchChronicles(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, *hoyolab.Notes, error) {
	var (
		overview *hoyolab.UserOverview
		notes    *hoyolab.Notes
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.client.GetOverview(gctx, creds, lang)
		if err != nil {
			return mapUpstreamErr(err, "profile overview")
		}
		overview = v
		return nil
	})
	g.Go(func() error {
		v, err := s.client.GetNotes(gctx, creds, lang)
		if err != nil {
			return mapUpstreamErr(err, "real-time notes")
		}
		notes = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if overview == nil || overview.Overview == nil || overview.Overview.Stats == nil {
		return nil, nil, incomplete("overview")
	}
	if overview.UserInfo == nil {
		return nil, nil, incomplete("user info")
	}
	if notes == nil {
		return nil, nil, incomplete("real-time notes")
	}
	return overview, notes, nil
}

// ChroniclesCard renders (or serves cached) the profile overview card.
func (s *HoyolabService) ChroniclesCard(ctx context.Context, token, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.ChroniclesSuffix{UID: creds.UID, LtUID: creds.LtUID, View: "overview", Lang: lang}
	key, err := cacheKeyOrDie(transaction.CacheKindChronicles, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		overview, notes, err := s.fetchChronicles(ctx, creds, lang)
		if err != nil {
			return nil, err
		}
		rendered, err := s.renderer.RenderChronicles(ctx, overview, notes, lang)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to generate card").WithCause(err)
		}
		return rendered, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Data:     data,
		Filename: fmt.Sprintf("Chronicles_%d_Overview%s.Qingque.png", creds.UID, lang.Name()),
		TTL:      s.imageTTL,
	}, nil
}

// ChroniclesInfo serves the structured overview payload instead of a card.
func (s *HoyolabService) ChroniclesInfo(ctx context.Context, token, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.ChroniclesSuffix{UID: creds.UID, LtUID: creds.LtUID, View: "overview", Lang: lang, Info: true}
	key, err := cacheKeyOrDie(transaction.CacheKindChronicles, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		overview, notes, err := s.fetchChronicles(ctx, creds, lang)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(map[string]any{"overview": overview, "notes": notes})
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to encode payload").WithCause(err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{Data: data, TTL: s.imageTTL}, nil
}

func (s *HoyolabService) fetchCharacters(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserInfo, *hoyolab.Characters, error) {
	info, err := s.client.GetBasicInfo(ctx, creds, lang)
	if err != nil {
		return nil, nil, mapUpstreamErr(err, "profile info")
	}
	chars, err := s.client.GetCharacters(ctx, creds, lang)
	if err != nil {
		return nil, nil, mapUpstreamErr(err, "profile characters")
	}
	if chars == nil || chars.List == nil {
		return nil, nil, incomplete("profile characters")
	}
	return info, chars, nil
}

// CharactersCard renders the roster list card.
func (s *HoyolabService) CharactersCard(ctx context.Context, token, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.ChroniclesSuffix{UID: creds.UID, LtUID: creds.LtUID, View: "characters", Lang: lang}
	key, err := cacheKeyOrDie(transaction.CacheKindChronicles, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		info, chars, err := s.fetchCharacters(ctx, creds, lang)
		if err != nil {
			return nil, err
		}
		rendered, err := s.renderer.RenderCharacters(ctx, info, chars, lang)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to generate card").WithCause(err)
		}
		return rendered, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Data:     data,
		Filename: fmt.Sprintf("Chronicles_%d_Characters%s.Qingque.png", creds.UID, lang.Name()),
		TTL:      s.imageTTL,
	}, nil
}

// CharactersInfo serves the structured roster payload.
func (s *HoyolabService) CharactersInfo(ctx context.Context, token, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.ChroniclesSuffix{UID: creds.UID, LtUID: creds.LtUID, View: "characters", Lang: lang, Info: true}
	key, err := cacheKeyOrDie(transaction.CacheKindChronicles, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		info, chars, err := s.fetchCharacters(ctx, creds, lang)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(map[string]any{"user_info": info, "characters": chars.List})
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to encode payload").WithCause(err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{Data: data, TTL: s.imageTTL}, nil
}

// simUniverseRecord picks the requested run out of the fetched dataset.
// index is 1-based from the route.
func simUniverseRecord(detail hoyolab.SimUniverseDetail, index int) (*hoyolab.SimUniverseRecord, error) {
	if len(detail.Records) == 0 {
		return nil, apperror.BadRequest(apperror.CodeHoyolabSimuNoRecords, "no records found for this user")
	}
	if index > len(detail.Records) {
		return nil, apperror.BadRequest(apperror.CodeHoyolabSimuInvalidIndex, "invalid index provided, out of range")
	}
	return &detail.Records[index-1], nil
}

// SimUniverseCard renders one simulated-universe run card.
func (s *HoyolabService) SimUniverseCard(ctx context.Context, token, kindRaw string, index int, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	kind, err := ParseSimUniverseKind(kindRaw)
	if err != nil {
		return nil, err
	}
	if index < 1 {
		return nil, apperror.BadRequest(apperror.CodeInvalidIndex, "invalid index provided, must be more than 1")
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.SimUniverseSuffix{UID: creds.UID, LtUID: creds.LtUID, Kind: string(kind), Index: index, Lang: lang}
	key, err := cacheKeyOrDie(transaction.CacheKindSimUniverse, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		var (
			user     *hoyolab.UserInfo
			record   *hoyolab.SimUniverseRecord
			striders []hoyolab.SwarmDestiny
		)
		if kind == SimUniverseSwarm {
			swarm, err := s.client.GetSimUniverseSwarm(ctx, creds, lang)
			if err != nil {
				return nil, mapUpstreamErr(err, "simulated universe")
			}
			record, err = simUniverseRecord(swarm.Details, index)
			if err != nil {
				return nil, err
			}
			user = swarm.User
			striders = swarm.Overview.Destiny
		} else {
			su, err := s.client.GetSimUniverse(ctx, creds, lang)
			if err != nil {
				return nil, mapUpstreamErr(err, "simulated universe")
			}
			detail := su.Current
			if kind == SimUniversePrevious {
				detail = su.Previous
			}
			record, err = simUniverseRecord(detail, index)
			if err != nil {
				return nil, err
			}
			user = su.User
		}
		if user == nil {
			return nil, incomplete("user info")
		}
		rendered, err := s.renderer.RenderSimUniverse(ctx, user, record, striders, lang)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to generate card").WithCause(err)
		}
		return rendered, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Data:     data,
		Filename: fmt.Sprintf("Chronicles_%d_SimUniverse_%s_%d_%s.Qingque.png", creds.UID, kind, index, lang.Name()),
		TTL:      s.imageTTL,
	}, nil
}

// SimUniverseInfo serves the structured dataset for a mode (not indexed).
func (s *HoyolabService) SimUniverseInfo(ctx context.Context, token, kindRaw, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	kind, err := ParseSimUniverseKind(kindRaw)
	if err != nil {
		return nil, err
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.SimUniverseSuffix{UID: creds.UID, LtUID: creds.LtUID, Kind: string(kind), Index: 0, Lang: lang, Info: true}
	key, err := cacheKeyOrDie(transaction.CacheKindSimUniverse, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		var payload any
		if kind == SimUniverseSwarm {
			swarm, err := s.client.GetSimUniverseSwarm(ctx, creds, lang)
			if err != nil {
				return nil, mapUpstreamErr(err, "simulated universe")
			}
			payload = swarm
		} else {
			su, err := s.client.GetSimUniverse(ctx, creds, lang)
			if err != nil {
				return nil, mapUpstreamErr(err, "simulated universe")
			}
			payload = su
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to encode payload").WithCause(err)
		}
		return encoded, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{Data: data, TTL: s.imageTTL}, nil
}

// MoCCard renders one Memory of Chaos floor card. The user-facing floor
// number is remapped as len(floors)-floor: the upstream list is frozen in
// reverse order relative to the floor numbering players see.
func (s *HoyolabService) MoCCard(ctx context.Context, token, kindRaw string, floor int, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	kind, err := ParseMoCKind(kindRaw)
	if err != nil {
		return nil, err
	}
	if floor < 1 {
		return nil, apperror.BadRequest(apperror.CodeInvalidIndex, "invalid index provided, must be more than 1")
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.MoCSuffix{UID: creds.UID, LtUID: creds.LtUID, Kind: string(kind), Floor: floor, Lang: lang}
	key, err := cacheKeyOrDie(transaction.CacheKindMoC, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		hall, err := s.client.GetForgottenHall(ctx, creds, kind == MoCPrevious, lang)
		if err != nil {
			return nil, mapUpstreamErr(err, fmt.Sprintf("profile forgotten hall (%s)", kind))
		}
		idx := len(hall.Floors) - floor
		if idx < 0 || idx >= len(hall.Floors) {
			return nil, apperror.BadRequest(apperror.CodeHoyolabSimuInvalidIndex, "invalid index provided, out of range: %d floor available", len(hall.Floors))
		}
		rendered, err := s.renderer.RenderMoC(ctx, &hall.Floors[idx], lang)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to generate card").WithCause(err)
		}
		return rendered, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Data:     data,
		Filename: fmt.Sprintf("Chronicles_%d_MoC_%s_F%d_%s.Qingque.png", creds.UID, kind, floor, lang.Name()),
		TTL:      s.imageTTL,
	}, nil
}

// MoCInfo serves the full Memory of Chaos dataset for a schedule.
func (s *HoyolabService) MoCInfo(ctx context.Context, token, kindRaw, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	kind, err := ParseMoCKind(kindRaw)
	if err != nil {
		return nil, err
	}
	creds, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	suffix := transaction.MoCSuffix{UID: creds.UID, LtUID: creds.LtUID, Kind: string(kind), Floor: 0, Lang: lang, Info: true}
	key, err := cacheKeyOrDie(transaction.CacheKindMoC, suffix.Suffix())
	if err != nil {
		return nil, err
	}

	data, err := generateCached(ctx, s.genCache, s.logger, token, key, s.imageTTL, nocache, func(ctx context.Context) ([]byte, error) {
		hall, err := s.client.GetForgottenHall(ctx, creds, kind == MoCPrevious, lang)
		if err != nil {
			return nil, mapUpstreamErr(err, fmt.Sprintf("profile forgotten hall (%s)", kind))
		}
		encoded, err := json.Marshal(hall)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to encode payload").WithCause(err)
		}
		return encoded, nil
	})
	if err != nil {
		return nil, err
	}
	return &Artifact{Data: data, TTL: s.imageTTL}, nil
}
