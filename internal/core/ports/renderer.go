package ports

import (
	"context"

	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
)

// CardRenderer turns structured profile data into PNG bytes. Rendering is
// deterministic: identical inputs always produce byte-identical output, which
// is what makes concurrent duplicate generation of the same cache entry safe.
type CardRenderer interface {
	RenderChronicles(ctx context.Context, overview *hoyolab.UserOverview, notes *hoyolab.Notes, lang i18n.Language) ([]byte, error)
	RenderCharacters(ctx context.Context, info *hoyolab.UserInfo, chars *hoyolab.Characters, lang i18n.Language) ([]byte, error)
	RenderSimUniverse(ctx context.Context, user *hoyolab.UserInfo, record *hoyolab.SimUniverseRecord, striders []hoyolab.SwarmDestiny, lang i18n.Language) ([]byte, error)
	RenderMoC(ctx context.Context, floor *hoyolab.ForgottenHallFloor, lang i18n.Language) ([]byte, error)
	RenderCharacterCard(ctx context.Context, player *mihomo.PlayerInfo, char *mihomo.Character, detailed bool, lang i18n.Language) ([]byte, error)
	RenderPlayerCard(ctx context.Context, player *mihomo.Player, lang i18n.Language) ([]byte, error)
}
