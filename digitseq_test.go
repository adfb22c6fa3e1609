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
	"errors"
	"image"
	"image/color"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSequence(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"0", []int{0}, false},
		{"31415", []int{3, 1, 4, 1, 5}, false},
		{"9876543210", []int{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}, false},
		{"", nil, true},
		{"12a", nil, true},
		{" 1", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseSequence(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSequence(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if d := cmp.Diff(tt.want, got); d != "" {
			t.Errorf("ParseSequence(%q) (-want +got):\n%s", tt.in, d)
		}
	}
}

func TestRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	var seen [NumDigits]bool
	for i := 0; i < 100; i++ {
		seq := RandomSequence(rng, 7)
		if len(seq) != 7 {
			t.Fatalf("got %d digits, want 7", len(seq))
		}
		for _, d := range seq {
			if d < 0 || d >= NumDigits {
				t.Fatalf("invalid digit %d", d)
			}
			seen[d] = true
		}
	}
	for d, ok := range seen {
		if !ok {
			t.Errorf("digit %d never generated", d)
		}
	}
}

func TestLabelIndexValidate(t *testing.T) {
	tests := []struct {
		name  string
		idx   LabelIndex
		n     int
		valid bool
	}{
		{"empty", LabelIndex{}, 0, true},
		{"ok", LabelIndex{0: {0, 2}, 9: {1}}, 3, true},
		{"empty list", LabelIndex{3: nil}, 0, true},
		{"glyph out of range", LabelIndex{1: {0, 3}}, 3, false},
		{"negative glyph", LabelIndex{1: {-1}}, 3, false},
		{"digit out of range", LabelIndex{10: {0}}, 3, false},
	}
	for _, tt := range tests {
		err := tt.idx.Validate(tt.n)
		if tt.valid && err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
		}
		if !tt.valid {
			var idxErr *InvalidIndexError
			if !errors.As(err, &idxErr) {
				t.Errorf("%s: got %v, want *InvalidIndexError", tt.name, err)
			}
		}
	}
}

func TestLabelIndexDigits(t *testing.T) {
	idx := LabelIndex{7: {1}, 2: {0}, 5: nil, 0: {2, 3}}
	if d := cmp.Diff([]int{0, 2, 7}, idx.Digits()); d != "" {
		t.Errorf("Digits (-want +got):\n%s", d)
	}
}

func TestStatic(t *testing.T) {
	c := testCorpus()
	var p Provider = Static{C: c}
	got, err := p.Corpus(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got != c {
		t.Error("Static returned a different corpus")
	}

	_, err = Static{}.Corpus(context.Background())
	if err == nil {
		t.Error("empty Static did not fail")
	}
}

func TestCompositeImage(t *testing.T) {
	c := testCorpus()
	l := Layout{Width: 70, MarginMin: 3, MarginMax: 3}
	img, err := Compose(rand.New(rand.NewPCG(1, 2)), []int{2, 6}, l, c)
	if err != nil {
		t.Fatal(err)
	}

	var _ image.Image = img
	if got := img.Label(); got != "26" {
		t.Errorf("Label() = %q, want %q", got, "26")
	}
	if d := cmp.Diff([]int{GlyphSize, 70, 3}, img.Shape()); d != "" {
		t.Errorf("Shape (-want +got):\n%s", d)
	}

	g := img.Placements[1].Glyph
	v := c.Glyphs[g][5*GlyphSize+4]
	x := GlyphSize + 3 + 4
	if got, want := img.At(x, 5), (color.RGBA{R: v, G: v, B: v, A: 0xFF}); got != want {
		t.Errorf("At(%d, 5) = %v, want %v", x, got, want)
	}
	if got, want := img.At(69, 10), (color.RGBA{A: 0xFF}); got != want {
		t.Errorf("At(69, 10) = %v, want %v", got, want)
	}
	if got := img.At(70, 0); got != (color.RGBA{}) {
		t.Errorf("At(70, 0) = %v, want transparent", got)
	}

	gray := img.Gray()
	if gray.Bounds() != img.Bounds() {
		t.Errorf("Gray bounds %v, want %v", gray.Bounds(), img.Bounds())
	}
	if got := gray.GrayAt(x, 5).Y; got != v {
		t.Errorf("GrayAt(%d, 5) = %d, want %d", x, got, v)
	}

	want := image.Rect(GlyphSize+3, 0, 2*GlyphSize+3, GlyphSize)
	if got := img.Placements[1].Bounds(); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}
