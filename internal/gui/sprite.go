package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/flockview/internal/config"
	"github.com/san-kum/flockview/internal/render"
)

var (
	ColBody    = rl.NewColor(173, 216, 230, 255)
	ColOutline = rl.NewColor(0, 0, 139, 255)
	ColAntenna = rl.Red
)

// agentSprite paints the agent texture on the CPU: a body disc with an
// outline ring of width radius/5 and two antennae on the rim at
// +-AntennaSpacing from the heading (+x).
func agentSprite(cfg config.SpriteConfig) render.Sprite {
	img := rl.GenImageColor(cfg.Size, cfg.Size, rl.Blank)
	defer rl.UnloadImage(img)

	c := int32(cfg.Size / 2)
	r := cfg.Radius
	stroke := r * 0.2

	// Outline first; the body disc then covers its inner half.
	rl.ImageDrawCircle(img, c, c, int32(math.Round(r+stroke/2)), ColOutline)
	rl.ImageDrawCircle(img, c, c, int32(math.Round(r-stroke/2)), ColBody)

	ax := int32(math.Round(math.Cos(cfg.AntennaSpacing) * r))
	ay := int32(math.Round(math.Sin(cfg.AntennaSpacing) * r))
	antenna := int32(math.Round(r * 0.2))
	rl.ImageDrawCircle(img, c+ax, c+ay, antenna, ColAntenna)
	rl.ImageDrawCircle(img, c+ax, c-ay, antenna, ColAntenna)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)
	return render.NewSprite(int(img.Width), int(img.Height), colors)
}
