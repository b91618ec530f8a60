package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Tile is one deck entry on the overview image. A nil Art draws a
// placeholder.
type Tile struct {
	Art   image.Image
	Count int
}

const (
	margin   = 48
	gap      = 8
	tileW    = 200
	tileH    = 300
	pipSize  = 24
	columns  = 8
	qrSide   = 300
	maxPips  = 3
	headerH  = qrSide + margin
	pipRowH  = pipSize + gap
	rowPitch = tileH + pipRowH + gap
)

var (
	background  = color.NRGBA{R: 0x28, G: 0x28, B: 0x28, A: 0xff}
	placeholder = color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 0xff}
	pipColor    = color.NRGBA{R: 0xc8, G: 0xaa, B: 0x6e, A: 0xff}
)

// ComposeDeckImage lays tiles out in rows of eight under a header holding
// the QR code at the top right. Each tile gets up to three count pips below
// it; counts above three get a fourth, wider pip.
func ComposeDeckImage(tiles []Tile, qr image.Image) *image.NRGBA {
	rows := (len(tiles) + columns - 1) / columns
	w := 2*margin + columns*tileW + (columns-1)*gap
	h := headerH + rows*rowPitch + margin
	canvas := imaging.New(w, h, background)

	if qr != nil {
		q := imaging.Resize(qr, qrSide, qrSide, imaging.Lanczos)
		canvas = imaging.Paste(canvas, q, image.Pt(w-margin-qrSide, margin/2))
	}

	for i, t := range tiles {
		x := margin + (i%columns)*(tileW+gap)
		y := headerH + (i/columns)*rowPitch
		var art image.Image = imaging.New(tileW, tileH, placeholder)
		if t.Art != nil {
			art = imaging.Fill(t.Art, tileW, tileH, imaging.Center, imaging.Lanczos)
		}
		canvas = imaging.Paste(canvas, art, image.Pt(x, y))

		n := t.Count
		if n > maxPips {
			n = maxPips + 1
		}
		for p := 0; p < n; p++ {
			pw := pipSize
			if p == maxPips {
				pw = 2 * pipSize
			}
			pip := imaging.New(pw, pipSize, pipColor)
			canvas = imaging.Paste(canvas, pip, image.Pt(x+p*(pipSize+gap), y+tileH+gap))
		}
	}
	return canvas
}
