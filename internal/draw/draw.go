// Package draw provides the render target used by the game and its
// terminal implementation.
package draw

// Color is an opaque RGB colour.
type Color struct {
	R, G, B uint8
}

// Palette used by entities and screens.
var (
	White  = Color{255, 255, 255}
	Gray   = Color{140, 140, 140}
	Green  = Color{80, 220, 100}
	Red    = Color{230, 60, 60}
	Yellow = Color{250, 210, 60}
	Gold   = Color{255, 215, 0}
	Cyan   = Color{70, 210, 230}
	Purple = Color{190, 90, 230}
	Orange = Color{245, 150, 50}
	Brown  = Color{160, 110, 40}
)

// Surface is a render target in logical playfield coordinates.
// Text is placed with its top-left corner at (x, y).
type Surface interface {
	Size() (width, height float64)
	FillRect(x, y, w, h float64, c Color)
	Text(x, y float64, s string, c Color)
	// TextWidth returns the logical width s occupies when drawn.
	TextWidth(s string) float64
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)
