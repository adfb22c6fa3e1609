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
	"math/rand/v2"
)

// Compose renders the digits in seq into a single image.
//
// For every digit, a glyph is chosen uniformly at random from c.Index.  The
// glyphs are placed left to right.  After every glyph except the last one, a
// gap of MarginMin pixels plus a random extra width is inserted.  The extra
// widths are drawn from [0, MarginMax-MarginMin) and are clipped so that
// their sum never exceeds the slack of the layout.  The result is exactly
// l.Width pixels wide; columns right of the last glyph are zero.
//
// An *InvalidLayoutError is returned if the layout cannot hold the sequence,
// and a *LabelNotFoundError if a digit has no glyphs.  Both are detected
// before any random numbers are drawn.  If c is nil, ErrNoCorpus is
// returned.
func Compose(rng *rand.Rand, seq []int, l Layout, c *Corpus) (*Composite, error) {
	err := l.Check(len(seq))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNoCorpus
	}
	for _, d := range seq {
		if len(c.Index[d]) == 0 {
			return nil, &LabelNotFoundError{Digit: d}
		}
	}

	res := NewComposite(l.Width)
	res.Digits = append(res.Digits, seq...)
	res.Placements = make([]Placement, 0, len(seq))

	slack := l.Slack(len(seq))
	spread := l.MarginMax - l.MarginMin
	x := 0
	for k, d := range seq {
		candidates := c.Index[d]
		g := candidates[rng.IntN(len(candidates))]
		res.drawGlyph(x, &c.Glyphs[g])
		res.Placements = append(res.Placements, Placement{Digit: d, Glyph: g, X: x})
		x += GlyphSize

		if k == len(seq)-1 {
			break
		}
		gap := 0
		if spread > 0 {
			gap = rng.IntN(spread)
		}
		gap = min(slack, gap)
		slack -= gap
		x += l.MarginMin + gap
	}
	return res, nil
}
