package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/naotimes/qingque-api/configs"
	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
	"github.com/naotimes/qingque-api/internal/core/ports"
)

// MihomoService serves showcase cards. Requests identify a profile either by
// an exchanged token (served from the pinned snapshot, generation-cached) or
// by a raw UID (fetched live, never generation-cached since there is no token
// to scope entries under).
type MihomoService struct {
	registry ports.TransactionRegistry
	genCache ports.GenerationCache
	client   ports.MihomoClient
	renderer ports.CardRenderer
	imageTTL time.Duration
	logger   *logrus.Logger
}

func NewMihomoService(registry ports.TransactionRegistry, genCache ports.GenerationCache, client ports.MihomoClient, renderer ports.CardRenderer, cfg *config.CacheConfig, logger *logrus.Logger) *MihomoService {
	return &MihomoService{
		registry: registry,
		genCache: genCache,
		client:   client,
		renderer: renderer,
		imageTTL: cfg.ImageTTL,
		logger:   logger,
	}
}

// resolvePlayer turns the uid/token pair into a player profile. Token takes
// precedence; an empty token string with an empty uid is a client error.
// The returned token is empty on the raw-uid path.
func (s *MihomoService) resolvePlayer(ctx context.Context, uidRaw, token string, lang i18n.Language) (*mihomo.Player, int64, string, error) {
	if token != "" {
		rec, ok, err := s.registry.GetMihomo(ctx, token)
		if err != nil {
			return nil, 0, "", apperror.Internal(apperror.CodeGenFailure, "failed to resolve transaction").WithCause(err)
		}
		if !ok {
			return nil, 0, "", apperror.Forbidden(apperror.CodeTRInvalidToken, "invalid token provided")
		}
		if rec.Player == nil {
			return nil, 0, "", apperror.Internal(apperror.CodeMihomoError, "data is unavailable (missing snapshot)")
		}
		return rec.Player, rec.UID, token, nil
	}
	if uidRaw == "" {
		return nil, 0, "", apperror.BadRequest(apperror.CodeMissingUIDToken, "missing uid or token")
	}
	uid, err := strconv.ParseInt(uidRaw, 10, 64)
	if err != nil {
		return nil, 0, "", apperror.BadRequest(apperror.CodeMissingUID, "invalid uid: %s", uidRaw)
	}
	player, err := s.client.GetPlayer(ctx, uid, lang)
	if err != nil {
		return nil, 0, "", mapMihomoErr(err)
	}
	return player, uid, "", nil
}

func mapMihomoErr(err error) error {
	if errors.Is(err, mihomo.ErrUIDNotFound) {
		return apperror.Internal(apperror.CodeMihomoUIDNotFound, "uid not found")
	}
	return apperror.Internal(apperror.CodeMihomoError, "error while getting player: %v", err).WithCause(err)
}

// CharacterCard renders one showcased character. index is 1-based over the
// showcase order captured at resolution time.
func (s *MihomoService) CharacterCard(ctx context.Context, uidRaw, token string, index int, detailed bool, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	if index < 1 {
		return nil, apperror.BadRequest(apperror.CodeInvalidIndex, "invalid index provided, must be more than 1")
	}
	player, uid, scopeToken, err := s.resolvePlayer(ctx, uidRaw, token, lang)
	if err != nil {
		return nil, err
	}
	if index > len(player.Characters) {
		return nil, apperror.BadRequest(apperror.CodeMihomoInvalidCharacter, "invalid character index, out of range: %d character available", len(player.Characters))
	}
	char := &player.Characters[index-1]

	produce := func(ctx context.Context) ([]byte, error) {
		rendered, err := s.renderer.RenderCharacterCard(ctx, &player.Player, char, detailed, lang)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to generate card").WithCause(err)
		}
		return rendered, nil
	}

	var data []byte
	if scopeToken == "" {
		data, err = produce(ctx)
	} else {
		suffix := transaction.CharacterSuffix{UID: uid, Character: index, Detailed: detailed, Lang: lang}
		key, kerr := cacheKeyOrDie(transaction.CacheKindMihomo, suffix.Suffix())
		if kerr != nil {
			return nil, kerr
		}
		data, err = generateCached(ctx, s.genCache, s.logger, scopeToken, key, s.imageTTL, nocache, produce)
	}
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Data:     data,
		Filename: fmt.Sprintf("Mihomo_%d_C%d%s.Qingque.png", uid, index, lang.Name()),
		TTL:      s.imageTTL,
	}, nil
}

// PlayerCard renders the profile header card.
func (s *MihomoService) PlayerCard(ctx context.Context, uidRaw, token, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	player, uid, scopeToken, err := s.resolvePlayer(ctx, uidRaw, token, lang)
	if err != nil {
		return nil, err
	}

	produce := func(ctx context.Context) ([]byte, error) {
		rendered, err := s.renderer.RenderPlayerCard(ctx, player, lang)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to generate card").WithCause(err)
		}
		return rendered, nil
	}

	var data []byte
	if scopeToken == "" {
		data, err = produce(ctx)
	} else {
		suffix := transaction.PlayerSuffix{UID: uid, Lang: lang}
		key, kerr := cacheKeyOrDie(transaction.CacheKindMihomoPlayer, suffix.Suffix())
		if kerr != nil {
			return nil, kerr
		}
		data, err = generateCached(ctx, s.genCache, s.logger, scopeToken, key, s.imageTTL, nocache, produce)
	}
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Data:     data,
		Filename: fmt.Sprintf("Mihomo_%d_Player%s.Qingque.png", uid, lang.Name()),
		TTL:      s.imageTTL,
	}, nil
}

// PlayerInfo serves the structured showcase payload.
func (s *MihomoService) PlayerInfo(ctx context.Context, uidRaw, token, langRaw string, nocache bool) (*Artifact, error) {
	lang, err := parseLanguage(langRaw)
	if err != nil {
		return nil, err
	}
	player, uid, scopeToken, err := s.resolvePlayer(ctx, uidRaw, token, lang)
	if err != nil {
		return nil, err
	}

	produce := func(ctx context.Context) ([]byte, error) {
		payload, err := json.Marshal(player)
		if err != nil {
			return nil, apperror.Internal(apperror.CodeGenFailure, "failed to encode payload").WithCause(err)
		}
		return payload, nil
	}

	var data []byte
	if scopeToken == "" {
		data, err = produce(ctx)
	} else {
		suffix := transaction.PlayerSuffix{UID: uid, Lang: lang, Info: true}
		key, kerr := cacheKeyOrDie(transaction.CacheKindMihomoPlayer, suffix.Suffix())
		if kerr != nil {
			return nil, kerr
		}
		data, err = generateCached(ctx, s.genCache, s.logger, scopeToken, key, s.imageTTL, nocache, produce)
	}
	if err != nil {
		return nil, err
	}
	return &Artifact{Data: data, TTL: s.imageTTL}, nil
}
