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
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"seehuhn.de/go/digitseq"
)

const (
	magicLabels = 0x00000801
	magicImages = 0x00000803
)

// initialCap limits pre-allocation based on the (untrusted) item count in a
// file header.
const initialCap = 1 << 16

// FormatError indicates that an IDX file could not be parsed.
type FormatError struct {
	Kind string // "images" or "labels"
	Err  error
}

func (err *FormatError) Error() string {
	return "malformed MNIST " + err.Kind + " file: " + err.Err.Error()
}

func (err *FormatError) Unwrap() error {
	return err.Err
}

var errTruncated = errors.New("unexpected end of data")

// Decompress returns a reader for the contents of r.  If the data starts
// with a gzip header it is decompressed, otherwise it is returned as is.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err == nil && head[0] == 0x1f && head[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, err
		}
		return zr, nil
	}
	return io.NopCloser(br), nil
}

// ReadImages reads an IDX image file.  All images must have size
// GlyphSize x GlyphSize.
func ReadImages(r io.Reader) ([]digitseq.Glyph, error) {
	var hdr [4]uint32
	err := binary.Read(r, binary.BigEndian, &hdr)
	if err != nil {
		return nil, imagesError(err)
	}
	if hdr[0] != magicImages {
		return nil, &FormatError{Kind: "images",
			Err: errors.New("bad magic number 0x" + strconv.FormatUint(uint64(hdr[0]), 16))}
	}
	n, rows, cols := int(hdr[1]), int(hdr[2]), int(hdr[3])
	if rows != digitseq.GlyphSize || cols != digitseq.GlyphSize {
		return nil, &FormatError{Kind: "images",
			Err: errors.New("unsupported image size " + strconv.Itoa(rows) + "x" + strconv.Itoa(cols))}
	}

	glyphs := make([]digitseq.Glyph, 0, min(n, initialCap))
	var g digitseq.Glyph
	for len(glyphs) < n {
		_, err = io.ReadFull(r, g[:])
		if err != nil {
			return nil, imagesError(err)
		}
		glyphs = append(glyphs, g)
	}
	return glyphs, nil
}

func imagesError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = errTruncated
	}
	return &FormatError{Kind: "images", Err: err}
}

// ReadLabels reads an IDX label file.
func ReadLabels(r io.Reader) ([]uint8, error) {
	var hdr [2]uint32
	err := binary.Read(r, binary.BigEndian, &hdr)
	if err != nil {
		return nil, labelsError(err)
	}
	if hdr[0] != magicLabels {
		return nil, &FormatError{Kind: "labels",
			Err: errors.New("bad magic number 0x" + strconv.FormatUint(uint64(hdr[0]), 16))}
	}

	n := int(hdr[1])
	labels := make([]uint8, 0, min(n, initialCap))
	var buf [4096]byte
	for len(labels) < n {
		k := min(n-len(labels), len(buf))
		_, err = io.ReadFull(r, buf[:k])
		if err != nil {
			return nil, labelsError(err)
		}
		for _, l := range buf[:k] {
			if l >= digitseq.NumDigits {
				return nil, &FormatError{Kind: "labels",
					Err: errors.New("invalid label " + strconv.Itoa(int(l)))}
			}
		}
		labels = append(labels, buf[:k]...)
	}
	return labels, nil
}

func labelsError(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = errTruncated
	}
	return &FormatError{Kind: "labels", Err: err}
}
