// Package ebitendraw implements draw.Surface on an ebiten image for the
// windowed client.
package ebitendraw

import (
	"image/color"
	"unicode/utf8"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/tomz197/invaders/internal/draw"
)

// Surface draws onto an ebiten image whose size is the logical playfield.
type Surface struct {
	img    *ebiten.Image
	face   font.Face
	ascent float64
	glyphW float64
}

// New wraps img. Text uses the 7x13 bitmap face.
func New(img *ebiten.Image) *Surface {
	face := basicfont.Face7x13
	return &Surface{
		img:    img,
		face:   face,
		ascent: float64(face.Ascent),
		glyphW: float64(face.Advance),
	}
}

// Reset points the surface at a new frame image.
func (s *Surface) Reset(img *ebiten.Image) {
	s.img = img
}

// Size returns the image size in pixels.
func (s *Surface) Size() (float64, float64) {
	b := s.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// FillRect fills a rectangle with c.
func (s *Surface) FillRect(x, y, w, h float64, c draw.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	vector.DrawFilledRect(s.img, float32(x), float32(y), float32(w), float32(h), rgba(c), false)
}

// Text draws s with its top-left corner at (x, y).
func (s *Surface) Text(x, y float64, str string, c draw.Color) {
	text.Draw(s.img, str, s.face, int(x), int(y+s.ascent), rgba(c))
}

// TextWidth is exact for the monospaced bitmap face.
func (s *Surface) TextWidth(str string) float64 {
	return float64(utf8.RuneCountInString(str)) * s.glyphW
}

func rgba(c draw.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

var _ draw.Surface = (*Surface)(nil)
