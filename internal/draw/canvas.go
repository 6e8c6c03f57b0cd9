package draw

import (
	"io"
	"math"
	"strconv"
	"unicode/utf8"
)

// Layout size of one text glyph in logical units. Both terminal cells and
// the desktop bitmap font are close to this at the default 1280x720 playfield.
const (
	GlyphWidth  = 8.0
	GlyphHeight = 16.0
)

// cell is one composed terminal character.
type cell struct {
	ch    rune
	fg    Color
	bg    Color
	hasBg bool
}

var blankCell = cell{ch: ' '}

type textItem struct {
	col, row int
	s        string
	c        Color
}

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. It scales from logical coordinates to terminal
// pixels and only rewrites the cells that changed since the last frame.
type Canvas struct {
	termWidth      int     // Actual terminal columns
	termHeight     int     // Actual terminal rows
	subPixelHeight int     // termHeight * 2
	pixels         []Color // Flat slice: [y * termWidth + x]
	lit            []bool  // true if the pixel at the same index is set
	texts          []textItem

	cells       []cell // Frame being composed
	prev        []cell // Frame currently on the terminal
	forceRedraw bool

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	offsetCol int
	offsetRow int
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]Color, c.subPixelHeight*termWidth)
		c.lit = make([]bool, c.subPixelHeight*termWidth)
		c.cells = make([]cell, termWidth*termHeight)
		c.prev = make([]cell, termWidth*termHeight)
		c.forceRedraw = true
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset used by RenderBorder.
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int { return c.termWidth }

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int { return c.termHeight }

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear resets all pixels and text in the canvas.
func (c *Canvas) Clear() {
	clear(c.lit)
	c.texts = c.texts[:0]
}

// Size implements Surface.
func (c *Canvas) Size() (float64, float64) {
	return c.logicalWidth, c.logicalHeight
}

// FillRect implements Surface. Any rect with positive area covers at least
// one pixel so small objects never vanish at low resolutions.
func (c *Canvas) FillRect(x, y, w, h float64, col Color) {
	if w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Floor(x * c.scaleX))
	x1 := int(math.Ceil((x + w) * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	y1 := int(math.Ceil((y + h) * c.scaleY))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	x0, x1 = max(x0, 0), min(x1, c.termWidth)
	y0, y1 = max(y0, 0), min(y1, c.subPixelHeight)

	for py := y0; py < y1; py++ {
		row := py * c.termWidth
		for px := x0; px < x1; px++ {
			c.pixels[row+px] = col
			c.lit[row+px] = true
		}
	}
}

// Text implements Surface. Text is drawn over pixels in whole terminal cells.
func (c *Canvas) Text(x, y float64, s string, col Color) {
	tc, tr := c.LogicalToTerminal(x, y)
	c.texts = append(c.texts, textItem{col: tc - 1, row: tr - 1, s: s, c: col})
}

// TextWidth implements Surface. Each rune takes one terminal column.
func (c *Canvas) TextWidth(s string) float64 {
	if c.scaleX == 0 {
		return 0
	}
	return float64(utf8.RuneCountInString(s)) / c.scaleX
}

// LogicalToTerminal converts logical coordinates to 1-based terminal position (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	return px + 1, py/2 + 1
}

func (c *Canvas) compose() {
	for row := 0; row < c.termHeight; row++ {
		top := row * 2 * c.termWidth
		bottom := top + c.termWidth
		for col := 0; col < c.termWidth; col++ {
			t, b := c.lit[top+col], c.lit[bottom+col]
			tc, bc := c.pixels[top+col], c.pixels[bottom+col]

			var cl cell
			switch {
			case t && b && tc == bc:
				cl = cell{ch: BlockFull, fg: tc}
			case t && b:
				cl = cell{ch: BlockUpperHalf, fg: tc, bg: bc, hasBg: true}
			case t:
				cl = cell{ch: BlockUpperHalf, fg: tc}
			case b:
				cl = cell{ch: BlockLowerHalf, fg: bc}
			default:
				cl = blankCell
			}
			c.cells[row*c.termWidth+col] = cl
		}
	}

	for _, t := range c.texts {
		if t.row < 0 || t.row >= c.termHeight {
			continue
		}
		col := t.col
		for _, r := range t.s {
			if col >= c.termWidth {
				break
			}
			if col >= 0 {
				c.cells[t.row*c.termWidth+col] = cell{ch: r, fg: t.c}
			}
			col++
		}
	}
}

// Render writes the cells that changed since the previous Render to cw.
// Cursor positions are relative to the canvas; cw applies the offset.
func (c *Canvas) Render(cw *ChunkWriter) {
	c.compose()

	var (
		numBuf  [4]byte
		style   cell
		styled  bool
		nextIdx = -1 // index the cursor sits on after the last write
	)
	writeColor := func(prefix string, col Color) {
		cw.WriteString(prefix)
		cw.Write(strconv.AppendUint(numBuf[:0], uint64(col.R), 10))
		cw.WriteString(";")
		cw.Write(strconv.AppendUint(numBuf[:0], uint64(col.G), 10))
		cw.WriteString(";")
		cw.Write(strconv.AppendUint(numBuf[:0], uint64(col.B), 10))
		cw.WriteString("m")
	}

	for i, cl := range c.cells {
		if !c.forceRedraw && cl == c.prev[i] {
			continue
		}
		if i != nextIdx || i%c.termWidth == 0 {
			cw.MoveCursor(i%c.termWidth+1, i/c.termWidth+1)
		}
		if cl.ch != ' ' && (!styled || cl.fg != style.fg) {
			writeColor("\033[38;2;", cl.fg)
			style.fg = cl.fg
		}
		if !styled || cl.hasBg != style.hasBg || (cl.hasBg && cl.bg != style.bg) {
			if cl.hasBg {
				writeColor("\033[48;2;", cl.bg)
			} else {
				cw.WriteString("\033[49m")
			}
			style.bg, style.hasBg = cl.bg, cl.hasBg
		}
		styled = true
		cw.WriteRune(cl.ch)
		nextIdx = i + 1
	}
	if styled {
		cw.WriteString("\033[0m")
	}

	c.cells, c.prev = c.prev, c.cells
	c.forceRedraw = false
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis. Positions are absolute.
func (c *Canvas) RenderBorder(w io.Writer) {
	hasH := c.offsetCol >= 1
	hasV := c.offsetRow >= 1
	if !hasH && !hasV {
		return
	}

	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	line := make([]rune, c.termWidth)
	for i := range line {
		line[i] = '─'
	}
	moveTo := func(col, row int) {
		io.WriteString(w, "\033["+strconv.Itoa(row)+";"+strconv.Itoa(col)+"H")
	}

	if hasV {
		for _, row := range []int{top, bottom} {
			if hasH {
				moveTo(left, row)
				corner1, corner2 := "┌", "┐"
				if row == bottom {
					corner1, corner2 = "└", "┘"
				}
				io.WriteString(w, corner1+string(line)+corner2)
			} else {
				moveTo(c.offsetCol+1, row)
				io.WriteString(w, string(line))
			}
		}
	}
	if hasH {
		for row := c.offsetRow + 1; row <= c.offsetRow+c.termHeight; row++ {
			moveTo(left, row)
			io.WriteString(w, "│")
			moveTo(right, row)
			io.WriteString(w, "│")
		}
	}
}
