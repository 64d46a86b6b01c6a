package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	config "github.com/naotimes/qingque-api/configs"
	"github.com/naotimes/qingque-api/internal/core/domain/apperror"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
	"github.com/naotimes/qingque-api/internal/core/ports"
)

// ExchangeService verifies credentials against the owning upstream with a
// live call, then issues an opaque session token for them. Verification
// failure never stores anything.
type ExchangeService struct {
	registry ports.TransactionRegistry
	hoyolab  ports.HoyolabClient
	mihomo   ports.MihomoClient

	transactionTTL time.Duration
	snapshotTTL    time.Duration

	logger *logrus.Logger
}

func NewExchangeService(registry ports.TransactionRegistry, hoyolab ports.HoyolabClient, mihomo ports.MihomoClient, cfg *config.CacheConfig, logger *logrus.Logger) *ExchangeService {
	return &ExchangeService{
		registry:       registry,
		hoyolab:        hoyolab,
		mihomo:         mihomo,
		transactionTTL: cfg.TransactionTTL,
		snapshotTTL:    cfg.MihomoTTL,
		logger:         logger,
	}
}

// ExchangeHoyolab probes the chronicle API with the submitted credentials and,
// on success, stores them for the transaction TTL (days: the credential is
// long-lived).
func (s *ExchangeService) ExchangeHoyolab(ctx context.Context, rec *transaction.Hoyolab) (string, error) {
	if _, err := s.hoyolab.GetBasicInfo(ctx, rec, i18n.LanguageEN); err != nil {
		s.logger.WithFields(logrus.Fields{"uid": rec.UID, "ltuid": rec.LtUID}).WithError(err).Info("hoyolab credential verification failed")
		return "", apperror.BadRequest(apperror.CodeTRFailedVerification, "error when testing HoYoLAB credentials: %v", err).WithCause(err)
	}

	token, err := s.registry.CreateHoyolab(ctx, rec, s.transactionTTL)
	if err != nil {
		return "", apperror.Internal(apperror.CodeGenFailure, "failed to store transaction").WithCause(err)
	}
	s.logger.WithField("uid", rec.UID).Info("issued hoyolab transaction token")
	return token, nil
}

// ExchangeMihomo fetches the public showcase for uid and stores the whole
// snapshot for the snapshot TTL (minutes: it is a point-in-time capture).
func (s *ExchangeService) ExchangeMihomo(ctx context.Context, uid int64) (string, error) {
	player, err := s.mihomo.GetPlayer(ctx, uid, i18n.LanguageEN)
	if err != nil {
		s.logger.WithField("uid", uid).WithError(err).Info("mihomo verification failed")
		return "", apperror.BadRequest(apperror.CodeTRFailedVerification, "error when testing Mihomo uid: %v", err).WithCause(err)
	}

	token, err := s.registry.CreateMihomo(ctx, &transaction.Mihomo{UID: uid, Player: player}, s.snapshotTTL)
	if err != nil {
		return "", apperror.Internal(apperror.CodeGenFailure, "failed to store transaction").WithCause(err)
	}
	s.logger.WithField("uid", uid).Info("issued mihomo transaction token")
	return token, nil
}
