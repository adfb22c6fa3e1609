// seehuhn.de/go/digitseq - synthetic digit sequence images for OCR training
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package digitseq

import (
	"image"
	"image/color"
)

// Channels is the number of color channels of a [Composite].
const Channels = 3

// Composite is the output of [Compose]: a single row of digit glyphs.
//
// The image is GlyphSize pixels high.  Pixel values are stored row by row,
// with the three channels of a pixel next to each other, so that Pix has
// the layout of a (GlyphSize, Width, 3) array.  All three channels carry
// the same value.
type Composite struct {
	Pix   []uint8
	Width int

	// Digits is the digit sequence shown in the image.
	Digits []int

	// Placements lists the glyphs in the image, from left to right.
	Placements []Placement
}

// Placement records where a glyph was drawn.
type Placement struct {
	Digit int
	Glyph int // index into Corpus.Glyphs
	X     int // left-most column
}

// Bounds returns the glyph's box inside the composite image.
func (p Placement) Bounds() image.Rectangle {
	return image.Rect(p.X, 0, p.X+GlyphSize, GlyphSize)
}

// NewComposite allocates an empty (all zero) image of the given width.
func NewComposite(width int) *Composite {
	return &Composite{
		Pix:   make([]uint8, GlyphSize*width*Channels),
		Width: width,
	}
}

// Shape returns the dimensions of Pix as (height, width, channels).
func (img *Composite) Shape() []int {
	return []int{GlyphSize, img.Width, Channels}
}

func (img *Composite) drawGlyph(x0 int, g *Glyph) {
	stride := img.Width * Channels
	for y := 0; y < GlyphSize; y++ {
		row := g[y*GlyphSize : (y+1)*GlyphSize]
		out := img.Pix[y*stride+x0*Channels : y*stride+(x0+GlyphSize)*Channels]
		for x, v := range row {
			out[x*Channels] = v
			out[x*Channels+1] = v
			out[x*Channels+2] = v
		}
	}
}

// ColorModel implements the [image.Image] interface.
func (img *Composite) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements the [image.Image] interface.
func (img *Composite) Bounds() image.Rectangle {
	return image.Rect(0, 0, img.Width, GlyphSize)
}

// At implements the [image.Image] interface.  All pixels are opaque.
func (img *Composite) At(x, y int) color.Color {
	if x < 0 || x >= img.Width || y < 0 || y >= GlyphSize {
		return color.RGBA{}
	}
	i := (y*img.Width + x) * Channels
	return color.RGBA{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: 0xFF}
}

// Gray returns the first channel of the image.
func (img *Composite) Gray() *image.Gray {
	res := image.NewGray(img.Bounds())
	for i := range res.Pix {
		res.Pix[i] = img.Pix[i*Channels]
	}
	return res
}

// Label returns the digits of the image as a string, for example "31415".
func (img *Composite) Label() string {
	buf := make([]byte, len(img.Digits))
	for i, d := range img.Digits {
		buf[i] = byte('0' + d)
	}
	return string(buf)
}
