package termui

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// hudRows is the number of terminal rows reserved for the status line.
const hudRows = 1

// minAlpha hides translucent paint (flashes, blink phases, shading) that a
// cell grid cannot blend.
const minAlpha = 96

// cellRenderer maps arena pixels onto terminal cells. Each cell covers
// cellW x cellH arena pixels; the arena starts below the HUD rows.
type cellRenderer struct {
	screen       tcell.Screen
	cellW, cellH float64
	cols, rows   int
}

func newCellRenderer(screen tcell.Screen, arena game.Arena) cellRenderer {
	w, h := screen.Size()
	rows := h - hudRows
	if w < 1 {
		w = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cellRenderer{
		screen: screen,
		cellW:  arena.Width / float64(w),
		cellH:  arena.Height / float64(rows),
		cols:   w,
		rows:   rows,
	}
}

func styleFor(clr color.RGBA) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(clr.R), int32(clr.G), int32(clr.B))).
		Background(tcell.ColorBlack)
}

// cell converts an arena point to the cell containing it.
func (c cellRenderer) cell(x, y float64) (int, int) {
	return int(math.Floor(x / c.cellW)), int(math.Floor(y / c.cellH))
}

func (c cellRenderer) set(col, row int, ch rune, style tcell.Style) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return
	}
	c.screen.SetContent(col, row+hudRows, ch, nil, style)
}

// FillRect paints every cell whose centre lies inside r. Rectangles smaller
// than a cell still paint the cell holding their centre.
func (c cellRenderer) FillRect(r game.Rect, clr color.RGBA) {
	if clr.A < minAlpha {
		return
	}
	style := styleFor(clr)
	c0, r0 := c.cell(r.X+c.cellW/2, r.Y+c.cellH/2)
	c1, r1 := c.cell(r.X+r.W-c.cellW/2, r.Y+r.H-c.cellH/2)
	if c1 < c0 || r1 < r0 {
		cx, cy := r.Center()
		col, row := c.cell(cx, cy)
		c.set(col, row, '▪', style)
		return
	}
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			c.set(col, row, '█', style)
		}
	}
}

// StrokeRect and StrokeLine are hairlines: too thin to show on a cell grid.
func (c cellRenderer) StrokeRect(game.Rect, float64, color.RGBA) {}

func (c cellRenderer) StrokeLine(_, _, _, _, _ float64, _ color.RGBA) {}

func (c cellRenderer) FillCircle(cx, cy, radius float64, clr color.RGBA) {
	if clr.A < minAlpha || radius <= 0 {
		return
	}
	style := styleFor(clr)
	if radius < math.Max(c.cellW, c.cellH) {
		col, row := c.cell(cx, cy)
		c.set(col, row, '•', style)
		return
	}
	c0, r0 := c.cell(cx-radius, cy-radius)
	c1, r1 := c.cell(cx+radius, cy+radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			px := (float64(col) + 0.5) * c.cellW
			py := (float64(row) + 0.5) * c.cellH
			if math.Hypot(px-cx, py-cy) <= radius {
				c.set(col, row, '▒', style)
			}
		}
	}
}

// Text writes s starting at the cell holding (x,y). y is a baseline, so the
// row is taken from just above it.
func (c cellRenderer) Text(s string, x, y float64, clr color.RGBA) {
	col, row := c.cell(x, y-1)
	style := styleFor(clr)
	for i, ch := range []rune(s) {
		c.set(col+i, row, ch, style)
	}
}

// clear blanks the arena rows.
func (c cellRenderer) clear() {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			c.screen.SetContent(col, row+hudRows, ' ', nil, tcell.StyleDefault)
		}
	}
}

// printLine writes s on a screen row, padding the rest of the row.
func printLine(screen tcell.Screen, row int, s string, style tcell.Style) {
	w, _ := screen.Size()
	runes := []rune(s)
	for col := 0; col < w; col++ {
		ch := ' '
		if col < len(runes) {
			ch = runes[col]
		}
		screen.SetContent(col, row, ch, nil, style)
	}
}

// printCentered writes s centred on a screen row without touching the rest.
func printCentered(screen tcell.Screen, row int, s string, style tcell.Style) {
	w, _ := screen.Size()
	runes := []rune(s)
	start := (w - len(runes)) / 2
	if start < 0 {
		start = 0
	}
	for i, ch := range runes {
		screen.SetContent(start+i, row, ch, nil, style)
	}
}
