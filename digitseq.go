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
	"context"

	"golang.org/x/exp/slices"
)

// GlyphSize is the side length of a glyph, in pixels.
const GlyphSize = 28

// NumDigits is the number of distinct digit labels.
const NumDigits = 10

// Glyph is a square grayscale digit image, stored row by row.
type Glyph [GlyphSize * GlyphSize]uint8

// LabelIndex maps a digit to the corpus indices of the glyphs which show this
// digit.
type LabelIndex map[int][]int

// Digits returns the digits which have at least one glyph, in increasing
// order.
func (idx LabelIndex) Digits() []int {
	var res []int
	for d, glyphs := range idx {
		if len(glyphs) > 0 {
			res = append(res, d)
		}
	}
	slices.Sort(res)
	return res
}

// Validate checks that all digits are in the range 0-9 and that all entries
// refer to one of the n glyphs of a corpus.
func (idx LabelIndex) Validate(n int) error {
	for _, d := range idx.Digits() {
		if d < 0 || d >= NumDigits {
			return &InvalidIndexError{Digit: d, Pos: -1, Count: n}
		}
		for pos, i := range idx[d] {
			if i < 0 || i >= n {
				return &InvalidIndexError{Digit: d, Pos: pos, Glyph: i, Count: n}
			}
		}
	}
	return nil
}

// Corpus is a collection of digit glyphs, together with the index which
// assigns glyphs to digits.
//
// A Corpus must not be modified after it has been handed to [Compose].
type Corpus struct {
	Glyphs []Glyph
	Index  LabelIndex
}

// Validate checks the label index against the glyph list.
func (c *Corpus) Validate() error {
	return c.Index.Validate(len(c.Glyphs))
}

// Provider gives access to a glyph corpus.
//
// Implementations may download and cache the data on first use.  The
// returned corpus is shared and must be treated as read-only.
type Provider interface {
	Corpus(ctx context.Context) (*Corpus, error)
}

// Static is a Provider which always returns the same, fully loaded corpus.
type Static struct {
	C *Corpus
}

// Corpus implements the [Provider] interface.
func (s Static) Corpus(context.Context) (*Corpus, error) {
	if s.C == nil {
		return nil, ErrNoCorpus
	}
	return s.C, nil
}

// Layout describes the geometry of a composite image.
type Layout struct {
	// Width is the width of the output image, in pixels.
	Width int

	// MarginMin is the minimal gap between two neighbouring glyphs.
	MarginMin int

	// MarginMax is the exclusive upper bound for the random part of a gap,
	// shifted by MarginMin.  Each gap is drawn from [MarginMin, MarginMax),
	// subject to the slack available.  If MarginMax equals MarginMin, all
	// gaps are exactly MarginMin wide.
	MarginMax int
}

// Slack returns the space left over once n glyphs have been placed at
// minimal distance.  The value is negative if the glyphs do not fit.
func (l Layout) Slack(n int) int {
	return l.Width - (n-1)*l.MarginMin - n*GlyphSize
}

// Check verifies that a sequence of n digits can be laid out.
func (l Layout) Check(n int) error {
	var reason string
	switch {
	case l.MarginMax < l.MarginMin:
		reason = "maximum margin is smaller than minimum margin"
	case l.MarginMin < 0:
		reason = "negative minimum margin"
	case n < 1:
		reason = "empty digit sequence"
	case l.Slack(n) < 0:
		reason = "sequence does not fit into the image width"
	default:
		return nil
	}
	return &InvalidLayoutError{Layout: l, Length: n, Reason: reason}
}
