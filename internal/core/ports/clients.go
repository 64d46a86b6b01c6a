package ports

import (
	"context"

	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
	"github.com/naotimes/qingque-api/internal/core/domain/transaction"
)

// HoyolabClient is the authenticated battle-chronicle API. Every call carries
// the credentials of one exchanged session and a bounded timeout; failures
// surface as the typed errors in the hoyolab domain package.
type HoyolabClient interface {
	GetBasicInfo(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserInfo, error)
	GetOverview(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.UserOverview, error)
	GetNotes(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Notes, error)
	GetCharacters(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.Characters, error)
	GetSimUniverse(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverse, error)
	GetSimUniverseSwarm(ctx context.Context, creds *transaction.Hoyolab, lang i18n.Language) (*hoyolab.SimUniverseSwarm, error)
	GetForgottenHall(ctx context.Context, creds *transaction.Hoyolab, previous bool, lang i18n.Language) (*hoyolab.ForgottenHall, error)
}

// MihomoClient is the public showcase API, keyed by raw game UID.
type MihomoClient interface {
	GetPlayer(ctx context.Context, uid int64, lang i18n.Language) (*mihomo.Player, error)
}
