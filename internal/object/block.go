package object

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Block is one destructible cell of a bunker.
type Block struct {
	X, Y      float64
	Size      float64
	Health    int
	destroyed bool
}

// NewBlock creates a block at full health.
func NewBlock(x, y, size float64, health int) *Block {
	return &Block{X: x, Y: y, Size: size, Health: health}
}

// Hit removes one health point and reports whether the block is now gone.
func (b *Block) Hit() bool {
	if b.destroyed {
		return true
	}
	b.Health--
	if b.Health <= 0 {
		b.Health = 0
		b.destroyed = true
	}
	return b.destroyed
}

// MarkDestroyed removes the block regardless of health.
func (b *Block) MarkDestroyed() {
	b.Health = 0
	b.destroyed = true
}

// IsDestroyed returns true once the block has no health left.
func (b *Block) IsDestroyed() bool { return b.destroyed }

// IsAlive implements Entity.
func (b *Block) IsAlive() bool { return !b.destroyed }

// Bounds implements Entity.
func (b *Block) Bounds() physics.Rect {
	return physics.Rect{X: b.X, Y: b.Y, W: b.Size, H: b.Size}
}

// Velocity implements Entity. Blocks never move.
func (b *Block) Velocity() (float64, float64) { return 0, 0 }

// Update implements Entity.
func (b *Block) Update(UpdateContext) (bool, error) {
	return b.destroyed, nil
}

// Draw renders the block, dimmer once damaged.
func (b *Block) Draw(ctx DrawContext) error {
	if b.destroyed {
		return nil
	}
	c := draw.Green
	if b.Health < config.BlockHealth {
		c = draw.Color{R: 40, G: 130, B: 60}
	}
	fillBounds(ctx.Surface, b.Bounds(), c)
	return nil
}

// BuildBunker creates the blocks of one bunker from shape with its top-left
// corner at (x, y). 'x' in shape marks a block.
func BuildBunker(shape []string, x, y, size float64, health int) []*Block {
	var blocks []*Block
	for row, line := range shape {
		for col, ch := range line {
			if ch == 'x' {
				blocks = append(blocks, NewBlock(x+float64(col)*size, y+float64(row)*size, size, health))
			}
		}
	}
	return blocks
}

// BuildBunkers spreads count bunkers evenly across the screen with their top
// edge at y. Blocks are returned bunker by bunker, row-major.
func BuildBunkers(screen Screen, count int, y float64) []*Block {
	if count <= 0 {
		return nil
	}
	width := 0
	for _, line := range config.BunkerShape {
		width = max(width, len(line))
	}
	bunkerWidth := float64(width) * config.BlockSize
	gap := (screen.Width - float64(count)*bunkerWidth) / float64(count+1)

	var blocks []*Block
	for i := 0; i < count; i++ {
		x := gap + float64(i)*(bunkerWidth+gap)
		blocks = append(blocks, BuildBunker(config.BunkerShape, x, y, config.BlockSize, config.BlockHealth)...)
	}
	return blocks
}
