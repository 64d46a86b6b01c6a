// Package render draws the PNG cards served by the gateway. Rendering is
// strictly deterministic: no clocks, no randomness, only the structured input
// and static assets, so regenerating an artifact for identical upstream data
// yields byte-identical output.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/naotimes/qingque-api/internal/core/domain/hoyolab"
	"github.com/naotimes/qingque-api/internal/core/domain/i18n"
	"github.com/naotimes/qingque-api/internal/core/domain/mihomo"
)

var (
	colorBackdrop = color.RGBA{R: 0x12, G: 0x12, B: 0x1C, A: 0xFF}
	colorPanel    = color.RGBA{R: 0x1E, G: 0x1F, B: 0x2E, A: 0xFF}
	colorAccent   = color.RGBA{R: 0xC9, G: 0xA5, B: 0x54, A: 0xFF}
	colorText     = color.RGBA{R: 0xEE, G: 0xEA, B: 0xE0, A: 0xFF}
	colorMuted    = color.RGBA{R: 0x8A, G: 0x8D, B: 0xA0, A: 0xFF}
	colorBar      = color.RGBA{R: 0x5C, G: 0x9E, B: 0xAD, A: 0xFF}
)

// CardRenderer implements ports.CardRenderer with the stdlib image pipeline
// and the shared asset cache.
type CardRenderer struct {
	assets *AssetCache
	loc    *i18n.Localizer
}

func NewCardRenderer(assets *AssetCache, loc *i18n.Localizer) *CardRenderer {
	return &CardRenderer{assets: assets, loc: loc}
}

type canvas struct {
	img *image.RGBA
}

func newCanvas(w, h int) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: colorBackdrop}, image.Point{}, draw.Src)
	return &canvas{img: img}
}

func (c *canvas) fill(x, y, w, h int, col color.Color) {
	draw.Draw(c.img, image.Rect(x, y, x+w, y+h), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

// text draws s at (x, y) with the bitmap font at the given pixel scale.
func (c *canvas) text(x, y int, s string, scale int, col color.Color) {
	cx := x
	for _, r := range s {
		g := glyphFor(r)
		for row := 0; row < 7; row++ {
			for bit := 0; bit < 5; bit++ {
				if g[row]&(1<<(4-bit)) != 0 {
					c.fill(cx+bit*scale, y+row*scale, scale, scale, col)
				}
			}
		}
		cx += 6 * scale
	}
}

// bar draws a progress bar with value/max proportions.
func (c *canvas) bar(x, y, w, h, value, max int, col color.Color) {
	c.fill(x, y, w, h, colorPanel)
	if max <= 0 {
		return
	}
	filled := w * value / max
	if filled > w {
		filled = w
	}
	if filled < 0 {
		filled = 0
	}
	c.fill(x, y, filled, h, col)
}

// backdrop composites the named asset over the full canvas when present.
func (c *canvas) backdrop(assets *AssetCache, name string) {
	if img, ok := assets.Image(name); ok {
		draw.Draw(c.img, c.img.Bounds(), img, img.Bounds().Min, draw.Over)
	}
}

func (c *canvas) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, fmt.Errorf("failed to encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *CardRenderer) RenderChronicles(ctx context.Context, overview *hoyolab.UserOverview, notes *hoyolab.Notes, lang i18n.Language) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := newCanvas(900, 500)
	c.backdrop(r.assets, "backdrops/chronicles.png")
	c.fill(0, 0, 900, 70, colorPanel)
	c.text(24, 20, r.loc.T(lang, "card.chronicles.title"), 3, colorAccent)
	c.text(24, 90, overview.UserInfo.Nickname, 4, colorText)
	c.text(24, 130, fmt.Sprintf("LV %d - %s", overview.UserInfo.Level, overview.UserInfo.Server), 2, colorMuted)

	stats := overview.Overview.Stats
	rows := []struct {
		label string
		value int
	}{
		{r.loc.T(lang, "card.chronicles.active_days"), stats.ActiveDays},
		{r.loc.T(lang, "card.chronicles.characters"), stats.AvatarNum},
		{r.loc.T(lang, "card.chronicles.achievements"), stats.AchievementNum},
		{r.loc.T(lang, "card.chronicles.chests"), stats.ChestNum},
	}
	y := 190
	for _, row := range rows {
		c.text(24, y, row.label, 2, colorMuted)
		c.text(420, y, fmt.Sprintf("%d", row.value), 2, colorText)
		y += 40
	}

	c.text(24, y+10, r.loc.T(lang, "card.chronicles.stamina"), 2, colorMuted)
	c.text(420, y+10, fmt.Sprintf("%d/%d", notes.StaminaCurrent, notes.StaminaMax), 2, colorText)
	c.bar(24, y+40, 852, 16, notes.StaminaCurrent, notes.StaminaMax, colorBar)

	return c.encode()
}

func (r *CardRenderer) RenderCharacters(ctx context.Context, info *hoyolab.UserInfo, chars *hoyolab.Characters, lang i18n.Language) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows := len(chars.List)
	height := 160 + rows*36
	if height < 280 {
		height = 280
	}
	c := newCanvas(760, height)
	c.backdrop(r.assets, "backdrops/characters.png")
	c.fill(0, 0, 760, 70, colorPanel)
	c.text(24, 20, r.loc.T(lang, "card.characters.title"), 3, colorAccent)
	c.text(24, 90, info.Nickname, 3, colorText)

	y := 150
	for _, char := range chars.List {
		c.fill(24, y, 712, 28, colorPanel)
		c.text(32, y+4, char.Name, 2, colorText)
		c.text(420, y+4, fmt.Sprintf("%s%d", r.loc.T(lang, "card.characters.level"), char.Level), 2, colorMuted)
		c.text(560, y+4, fmt.Sprintf("E%d R%d", char.Rank, char.Rarity), 2, colorMuted)
		y += 36
	}
	return c.encode()
}

func (r *CardRenderer) RenderSimUniverse(ctx context.Context, user *hoyolab.UserInfo, record *hoyolab.SimUniverseRecord, striders []hoyolab.SwarmDestiny, lang i18n.Language) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := newCanvas(900, 420)
	c.backdrop(r.assets, "backdrops/simuniverse.png")
	c.fill(0, 0, 900, 70, colorPanel)
	title := r.loc.T(lang, "card.simuniverse.title")
	if striders != nil {
		title = r.loc.T(lang, "card.simuniverse.swarm")
	}
	c.text(24, 20, title, 3, colorAccent)
	c.text(24, 90, user.Nickname, 3, colorText)
	c.text(24, 140, fmt.Sprintf("%s %s", r.loc.T(lang, "card.simuniverse.world"), record.WorldName), 2, colorMuted)
	c.text(24, 180, fmt.Sprintf("%s %d", r.loc.T(lang, "card.simuniverse.score"), record.Score), 2, colorText)
	c.bar(24, 220, 852, 16, record.Progress, 13, colorBar)

	y := 260
	for _, strider := range striders {
		c.text(24, y, fmt.Sprintf("%s %d", strider.Name, strider.Level), 2, colorMuted)
		y += 30
	}
	return c.encode()
}

func (r *CardRenderer) RenderMoC(ctx context.Context, floor *hoyolab.ForgottenHallFloor, lang i18n.Language) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := newCanvas(900, 420)
	c.backdrop(r.assets, "backdrops/moc.png")
	c.fill(0, 0, 900, 70, colorPanel)
	c.text(24, 20, r.loc.T(lang, "card.moc.title"), 3, colorAccent)
	c.text(24, 90, floor.Name, 3, colorText)
	c.text(24, 140, fmt.Sprintf("%s %d", r.loc.T(lang, "card.moc.cycles"), floor.RoundNum), 2, colorMuted)
	c.text(24, 180, fmt.Sprintf("%s %d/3", r.loc.T(lang, "card.moc.stars"), floor.StarNum), 2, colorText)

	y := 230
	for _, node := range []*hoyolab.ForgottenHallNode{floor.FirstHalf, floor.SecondHalf} {
		if node == nil {
			continue
		}
		x := 24
		for _, avatar := range node.Avatars {
			c.fill(x, y, 160, 28, colorPanel)
			c.text(x+8, y+4, fmt.Sprintf("%s %d", avatar.Name, avatar.Level), 1, colorText)
			x += 172
		}
		y += 40
	}
	return c.encode()
}

func (r *CardRenderer) RenderCharacterCard(ctx context.Context, player *mihomo.PlayerInfo, char *mihomo.Character, detailed bool, lang i18n.Language) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	height := 420
	if detailed {
		height += 36 * (len(char.Attributes) + len(char.Additions))
	}
	c := newCanvas(760, height)
	c.backdrop(r.assets, "backdrops/character.png")
	c.fill(0, 0, 760, 70, colorPanel)
	c.text(24, 20, r.loc.T(lang, "card.profile.title"), 3, colorAccent)
	c.text(24, 90, char.Name, 4, colorText)
	c.text(24, 140, fmt.Sprintf("LV %d E%d - %s / %s", char.Level, char.Rank, char.Element, char.Path), 2, colorMuted)
	c.text(24, 180, fmt.Sprintf("%s %s", player.Nickname, player.UID), 2, colorMuted)

	y := 230
	if char.LightCone != nil {
		c.fill(24, y, 712, 28, colorPanel)
		c.text(32, y+4, fmt.Sprintf("%s LV %d S%d", char.LightCone.Name, char.LightCone.Level, char.LightCone.Rank), 2, colorText)
		y += 40
	}
	for _, relic := range char.Relics {
		c.text(24, y, fmt.Sprintf("%s +%d", relic.Name, relic.Level), 1, colorMuted)
		y += 20
	}
	if detailed {
		y += 20
		for _, attr := range append(append([]mihomo.Attribute{}, char.Attributes...), char.Additions...) {
			c.text(24, y, attr.Name, 2, colorMuted)
			c.text(420, y, attr.Display, 2, colorText)
			y += 36
		}
	}
	return c.encode()
}

func (r *CardRenderer) RenderPlayerCard(ctx context.Context, player *mihomo.Player, lang i18n.Language) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := newCanvas(760, 220+36*len(player.Characters))
	c.backdrop(r.assets, "backdrops/player.png")
	c.fill(0, 0, 760, 70, colorPanel)
	c.text(24, 20, r.loc.T(lang, "card.player.title"), 3, colorAccent)
	c.text(24, 90, player.Player.Nickname, 4, colorText)
	c.text(24, 140, fmt.Sprintf("%s %s - LV %d", r.loc.T(lang, "card.player.uid"), player.Player.UID, player.Player.Level), 2, colorMuted)

	y := 190
	for _, char := range player.Characters {
		c.fill(24, y, 712, 28, colorPanel)
		c.text(32, y+4, fmt.Sprintf("%s LV %d", char.Name, char.Level), 2, colorText)
		y += 36
	}
	return c.encode()
}
