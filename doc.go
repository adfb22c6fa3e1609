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

// Package digitseq synthesizes training images for optical character
// recognition by placing handwritten digit glyphs side by side.
//
// A [Corpus] holds the glyph images of a digit data set (normally MNIST, see
// the corpus package) together with a [LabelIndex] which maps every digit to
// the glyphs showing that digit.  [Compose] takes a digit sequence and a
// [Layout], picks a random glyph for every digit and places the glyphs from
// left to right, separated by random margins:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	img, err := digitseq.Compose(rng, []int{3, 1, 4}, digitseq.Layout{
//	    Width:     200,
//	    MarginMin: 2,
//	    MarginMax: 20,
//	}, c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The total width of the result always equals Layout.Width.  Every gap
// between two glyphs is at least MarginMin pixels wide.  The extra space
// beyond the minimum comes out of a single budget, the slack, which is shared
// by all gaps.  Slack which is not used by any gap is left as background on
// the right-hand side of the image.
//
// Compose only reads from the corpus and uses the random source passed in by
// the caller.  Different goroutines can compose images from the same corpus
// at the same time, as long as each goroutine uses its own random source.
package digitseq
