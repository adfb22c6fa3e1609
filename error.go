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
	"errors"
	"strconv"
)

var (
	errNoDigits = errors.New("no digits found")

	// ErrNoCorpus is returned by [Compose] when no corpus is given.
	ErrNoCorpus = errors.New("digitseq: no corpus")
)

// InvalidLayoutError indicates that a digit sequence cannot be placed using
// the given layout.
type InvalidLayoutError struct {
	Layout Layout
	Length int
	Reason string
}

func (err *InvalidLayoutError) Error() string {
	return "invalid layout (width " + strconv.Itoa(err.Layout.Width) +
		", margins " + strconv.Itoa(err.Layout.MarginMin) +
		"-" + strconv.Itoa(err.Layout.MarginMax) +
		", " + strconv.Itoa(err.Length) + " digits): " + err.Reason
}

// LabelNotFoundError indicates that the label index has no glyphs for a
// requested digit.
type LabelNotFoundError struct {
	Digit int
}

func (err *LabelNotFoundError) Error() string {
	return "no glyphs for digit " + strconv.Itoa(err.Digit)
}

// InvalidIndexError is returned by [LabelIndex.Validate] when the index
// refers to a digit or glyph which does not exist.
type InvalidIndexError struct {
	Digit int
	Pos   int // position inside Index[Digit], or -1 if the digit itself is invalid
	Glyph int
	Count int
}

func (err *InvalidIndexError) Error() string {
	if err.Pos < 0 {
		return "label index: invalid digit " + strconv.Itoa(err.Digit)
	}
	return "label index: digit " + strconv.Itoa(err.Digit) +
		" refers to glyph " + strconv.Itoa(err.Glyph) +
		", corpus has " + strconv.Itoa(err.Count) + " glyphs"
}
