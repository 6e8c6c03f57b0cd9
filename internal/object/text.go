package object

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/physics"
)

// floatSpeed is how fast popup text rises, in units per second.
const floatSpeed = 40.0

// Text is a popup label (e.g. "+30") that rises and disappears.
type Text struct {
	X, Y     float64
	Value    string
	Color    draw.Color
	Lifetime float64
}

// NewText creates a popup centred horizontally on x.
func NewText(x, y float64, value string, c draw.Color, lifetime float64) *Text {
	return &Text{
		X:        x - float64(len(value))*draw.GlyphWidth/2,
		Y:        y,
		Value:    value,
		Color:    c,
		Lifetime: lifetime,
	}
}

// Update moves the text up and counts down its lifetime.
func (t *Text) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()
	t.Lifetime -= dt
	if t.Lifetime <= 0 {
		return true, nil
	}
	t.Y -= floatSpeed * dt
	return false, nil
}

// Draw writes the label.
func (t *Text) Draw(ctx DrawContext) error {
	if t.Value == "" || t.Lifetime <= 0 {
		return nil
	}
	ctx.Surface.Text(t.X, t.Y, t.Value, t.Color)
	return nil
}

// Bounds implements Entity.
func (t *Text) Bounds() physics.Rect {
	return physics.Rect{X: t.X, Y: t.Y, W: float64(len(t.Value)) * draw.GlyphWidth, H: draw.GlyphHeight}
}

// Entity.
func (t *Text) Velocity() (float64, float64) { return 0, -floatSpeed }
func (t *Text) IsAlive() bool { return t.Lifetime > 0 }
