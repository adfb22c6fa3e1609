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

package mnist

import (
	"errors"
	"fmt"
	"io"
	"os"

	"seehuhn.de/go/digitseq"
)

// BuildIndex maps every digit to the positions where it occurs in labels.
// The positions for each digit are in increasing order.
func BuildIndex(labels []uint8) digitseq.LabelIndex {
	idx := make(digitseq.LabelIndex, digitseq.NumDigits)
	for i, l := range labels {
		idx[int(l)] = append(idx[int(l)], i)
	}
	return idx
}

// Load reads a corpus from an image file and a label file.  Both readers
// may provide gzip-compressed data.
func Load(images, labels io.Reader) (*digitseq.Corpus, error) {
	ir, err := Decompress(images)
	if err != nil {
		return nil, &FormatError{Kind: "images", Err: err}
	}
	defer ir.Close()
	glyphs, err := ReadImages(ir)
	if err != nil {
		return nil, err
	}

	lr, err := Decompress(labels)
	if err != nil {
		return nil, &FormatError{Kind: "labels", Err: err}
	}
	defer lr.Close()
	ll, err := ReadLabels(lr)
	if err != nil {
		return nil, err
	}

	if len(ll) != len(glyphs) {
		return nil, &FormatError{Kind: "labels",
			Err: fmt.Errorf("%d labels for %d images", len(ll), len(glyphs))}
	}

	return &digitseq.Corpus{
		Glyphs: glyphs,
		Index:  BuildIndex(ll),
	}, nil
}

// LoadFiles reads a corpus from the named image and label files.
func LoadFiles(imagesPath, labelsPath string) (*digitseq.Corpus, error) {
	fi, err := os.Open(imagesPath)
	if err != nil {
		return nil, err
	}
	defer fi.Close()

	fl, err := os.Open(labelsPath)
	if err != nil {
		return nil, err
	}
	defer fl.Close()

	c, err := Load(fi, fl)
	if err != nil {
		var fmtErr *FormatError
		if errors.As(err, &fmtErr) && fmtErr.Kind == "labels" {
			return nil, fmt.Errorf("%s: %w", labelsPath, err)
		}
		return nil, fmt.Errorf("%s: %w", imagesPath, err)
	}
	return c, nil
}
