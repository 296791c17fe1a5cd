package ebitenui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/Garsondee/Tank-Arena/internal/game"
)

// imageRenderer paints game primitives onto an ebiten image with the vector
// package. Arena coordinates map 1:1 to image pixels.
type imageRenderer struct {
	dst *ebiten.Image
}

func (r imageRenderer) FillRect(rc game.Rect, clr color.RGBA) {
	vector.FillRect(r.dst, float32(rc.X), float32(rc.Y), float32(rc.W), float32(rc.H), clr, false)
}

func (r imageRenderer) StrokeRect(rc game.Rect, width float64, clr color.RGBA) {
	vector.StrokeRect(r.dst, float32(rc.X), float32(rc.Y), float32(rc.W), float32(rc.H), float32(width), clr, false)
}

func (r imageRenderer) StrokeLine(x0, y0, x1, y1, width float64, clr color.RGBA) {
	vector.StrokeLine(r.dst, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), clr, false)
}

func (r imageRenderer) FillCircle(cx, cy, radius float64, clr color.RGBA) {
	if radius <= 0 {
		return
	}
	vector.FillCircle(r.dst, float32(cx), float32(cy), float32(radius), clr, true)
}

// Text draws s with its baseline at y.
func (r imageRenderer) Text(s string, x, y float64, clr color.RGBA) {
	drawText(r.dst, s, int(x), int(y), clr)
}

// drawText uses the classic text.Draw signature with the 7x13 bitmap face.
func drawText(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	text.Draw(dst, s, basicfont.Face7x13, x, y, clr)
}

// textWidth is the pixel width of s in the bitmap face.
func textWidth(s string) int {
	return len(s) * basicfont.Face7x13.Advance
}

// drawCentered draws s horizontally centred on cx.
func drawCentered(dst *ebiten.Image, s string, cx, y int, clr color.Color) {
	drawText(dst, s, cx-textWidth(s)/2, y, clr)
}
