package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/ports"
)

// Artifact is a served result: rendered PNG bytes or a JSON info payload,
// plus the filename and client cache TTL the HTTP layer advertises.
type Artifact struct {
	Data     []byte
	Filename string
	TTL      time.Duration
}

// parseLanguage maps a raw lang tag onto the closed enumeration, producing
// the stable invalid-language error code on failure.
func parseLanguage(raw string) (i18n.Language, error) {
	if raw == "" {
		raw = string(i18n.LanguageEN)
	}
	lang, err := i18n.Parse(raw)
	if err != nil {
		return "", apperror.BadRequest(apperror.CodeInvalidLang, "invalid language: %s", raw)
	}
	return lang, nil
}

// generateCached runs the shared tail of every artifact pipeline: consult the
// generation cache unless bypassed, otherwise produce the bytes and store
// them. There is deliberately no cross-request deduplication: concurrent
// misses on the same key each produce independently, which is safe because
// production is deterministic and the last completed write wins. A failed
// cache write never fails the response; the write is issued and logged only.
func generateCached(ctx context.Context, cache ports.GenerationCache, logger *logrus.Logger, token, cacheKey string, ttl time.Duration, nocache bool, produce func(context.Context) ([]byte, error)) ([]byte, error) {
	if !nocache {
		data, ok, err := cache.GetGenerated(ctx, token, cacheKey)
		if err != nil {
			logger.WithField("cache_key", cacheKey).WithError(err).Warn("generation cache read failed, regenerating")
		} else if ok {
			logger.WithField("cache_key", cacheKey).Debug("generation cache hit")
			return data, nil
		}
	}

	data, err := produce(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.SetGenerated(ctx, token, cacheKey, data, ttl); err != nil {
		logger.WithField("cache_key", cacheKey).WithError(err).Warn("generation cache write failed")
	}
	return data, nil
}
