package render

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
)

func newTestRenderer(t *testing.T) *CardRenderer {
	t.Helper()

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	assets, err := NewAssetCache(t.TempDir(), 1<<20, logger)
	require.NoError(t, err)
	t.Cleanup(assets.Close)

	loc, err := i18n.NewLocalizer()
	require.NoError(t, err)

	return NewCardRenderer(assets, loc)
}

func testOverview() *hoyolab.UserOverview {
	return &hoyolab.UserOverview{
		Overview: &hoyolab.Overview{
			Stats: &hoyolab.OverviewStats{
				ActiveDays:     120,
				AvatarNum:      24,
				AchievementNum: 310,
				ChestNum:       450,
			},
		},
		UserInfo: &hoyolab.UserInfo{
			Nickname: "Trailblazer",
			Level:    65,
			Server:   "prod_official_asia",
		},
	}
}

func TestRenderChroniclesDeterministic(t *testing.T) {
	r := newTestRenderer(t)
	notes := &hoyolab.Notes{StaminaCurrent: 180, StaminaMax: 240}

	first, err := r.RenderChronicles(context.Background(), testOverview(), notes, i18n.LanguageEN)
	require.NoError(t, err)
	second, err := r.RenderChronicles(context.Background(), testOverview(), notes, i18n.LanguageEN)
	require.NoError(t, err)

	require.True(t, bytes.Equal(first, second))
}

func TestRenderChroniclesValidPNG(t *testing.T) {
	r := newTestRenderer(t)
	notes := &hoyolab.Notes{StaminaCurrent: 0, StaminaMax: 240}

	data, err := r.RenderChronicles(context.Background(), testOverview(), notes, i18n.LanguageJP)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 900, img.Bounds().Dx())
	require.Equal(t, 500, img.Bounds().Dy())
}

func TestRenderPlayerCardGrowsWithRoster(t *testing.T) {
	r := newTestRenderer(t)
	player := &mihomo.Player{
		Player: mihomo.PlayerInfo{Nickname: "Stelle", UID: "800000001", Level: 70},
		Characters: []mihomo.Character{
			{Name: "Stelle", Level: 80},
			{Name: "Silver Wolf", Level: 80},
			{Name: "Blade", Level: 75},
		},
	}

	data, err := r.RenderPlayerCard(context.Background(), player, i18n.LanguageEN)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 220+36*3, img.Bounds().Dy())
}

func TestRenderCharacterCardDetailedIsTaller(t *testing.T) {
	r := newTestRenderer(t)
	player := &mihomo.PlayerInfo{Nickname: "Stelle", UID: "800000001"}
	char := &mihomo.Character{
		Name:    "Silver Wolf",
		Level:   80,
		Rank:    1,
		Element: "Quantum",
		Path:    "Nihility",
		Attributes: []mihomo.Attribute{
			{Name: "HP", Display: "1047"},
			{Name: "ATK", Display: "640"},
		},
	}

	base, err := r.RenderCharacterCard(context.Background(), player, char, false, i18n.LanguageEN)
	require.NoError(t, err)
	detailed, err := r.RenderCharacterCard(context.Background(), player, char, true, i18n.LanguageEN)
	require.NoError(t, err)

	baseImg, err := png.Decode(bytes.NewReader(base))
	require.NoError(t, err)
	detailedImg, err := png.Decode(bytes.NewReader(detailed))
	require.NoError(t, err)
	require.Greater(t, detailedImg.Bounds().Dy(), baseImg.Bounds().Dy())
}

func TestRenderCancelledContext(t *testing.T) {
	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RenderChronicles(ctx, testOverview(), &hoyolab.Notes{StaminaMax: 240}, i18n.LanguageEN)
	require.ErrorIs(t, err, context.Canceled)
}
