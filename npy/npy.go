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

// Package npy reads and writes uint8 arrays in the NumPy ".npy" file format.
//
// Only C-ordered arrays with element type uint8 are supported.  Files are
// written using version 1.0 of the format; versions 1.0 and 2.0 can be read.
package npy

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var magic = []byte("\x93NUMPY")

// ErrFormat is returned (possibly wrapped) when a file is not a supported
// .npy file.
var ErrFormat = errors.New("npy: unsupported file format")

// maxElements limits the size of arrays accepted by [Read].
const maxElements = 1 << 30

// Write writes data as an array with the given shape.  The product of the
// shape entries must equal len(data).
func Write(w io.Writer, shape []int, data []uint8) error {
	size := 1
	for _, n := range shape {
		if n < 0 {
			return fmt.Errorf("npy: negative dimension %d", n)
		}
		size *= n
	}
	if size != len(data) {
		return fmt.Errorf("npy: shape %v does not match %d elements", shape, len(data))
	}

	dims := make([]string, len(shape))
	for i, n := range shape {
		dims[i] = strconv.Itoa(n)
	}
	shapeStr := strings.Join(dims, ", ")
	if len(shape) == 1 {
		shapeStr += ","
	}
	header := "{'descr': '|u1', 'fortran_order': False, 'shape': (" + shapeStr + "), }"

	// The data must start at a multiple of 64 bytes, and the header ends
	// with a newline.
	pre := len(magic) + 2 + 2
	total := (pre + len(header) + 1 + 63) / 64 * 64
	header += strings.Repeat(" ", total-pre-len(header)-1) + "\n"
	if len(header) > 0xFFFF {
		return fmt.Errorf("npy: too many dimensions")
	}

	buf := make([]byte, 0, total)
	buf = append(buf, magic...)
	buf = append(buf, 1, 0)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(header)))
	buf = append(buf, header...)
	_, err := w.Write(buf)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Read reads an array written by [Write], or any other .npy file holding
// a C-ordered uint8 array.
func Read(r io.Reader) (shape []int, data []uint8, err error) {
	var pre [8]byte
	_, err = io.ReadFull(r, pre[:])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if !bytes.Equal(pre[:6], magic) {
		return nil, nil, fmt.Errorf("%w: bad magic", ErrFormat)
	}

	var headerLen int
	switch pre[6] {
	case 1:
		var l uint16
		err = binary.Read(r, binary.LittleEndian, &l)
		headerLen = int(l)
	case 2, 3:
		var l uint32
		err = binary.Read(r, binary.LittleEndian, &l)
		headerLen = int(l)
	default:
		return nil, nil, fmt.Errorf("%w: version %d.%d", ErrFormat, pre[6], pre[7])
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if headerLen > 1<<20 {
		return nil, nil, fmt.Errorf("%w: header too long", ErrFormat)
	}
	header := make([]byte, headerLen)
	_, err = io.ReadFull(r, header)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	shape, err = parseHeader(string(header))
	if err != nil {
		return nil, nil, err
	}
	size := 1
	for _, n := range shape {
		if n > 0 && size > maxElements/n {
			return nil, nil, fmt.Errorf("%w: array too large", ErrFormat)
		}
		size *= n
	}
	data = make([]uint8, size)
	_, err = io.ReadFull(r, data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return shape, data, nil
}

// parseHeader extracts the shape from a header dictionary like
// "{'descr': '|u1', 'fortran_order': False, 'shape': (2, 3), }".
func parseHeader(h string) ([]int, error) {
	h = strings.TrimSpace(h)
	if !strings.HasPrefix(h, "{") || !strings.HasSuffix(h, "}") {
		return nil, fmt.Errorf("%w: malformed header", ErrFormat)
	}

	descr := headerValue(h, "descr")
	switch descr {
	case "'|u1'", "'<u1'", "'>u1'", "'u1'", "'|b1'":
		// pass
	default:
		return nil, fmt.Errorf("%w: element type %s", ErrFormat, descr)
	}
	if v := headerValue(h, "fortran_order"); v != "False" {
		return nil, fmt.Errorf("%w: fortran_order %s", ErrFormat, v)
	}

	shapeStr := headerValue(h, "shape")
	if !strings.HasPrefix(shapeStr, "(") || !strings.HasSuffix(shapeStr, ")") {
		return nil, fmt.Errorf("%w: malformed shape %q", ErrFormat, shapeStr)
	}
	var shape []int
	for _, f := range strings.Split(shapeStr[1:len(shapeStr)-1], ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: malformed shape %q", ErrFormat, shapeStr)
		}
		shape = append(shape, n)
	}
	return shape, nil
}

// headerValue returns the raw text of the value stored under key.
func headerValue(h, key string) string {
	k := strings.Index(h, "'"+key+"'")
	if k < 0 {
		return ""
	}
	rest := strings.TrimSpace(h[k+len(key)+2:])
	rest, ok := strings.CutPrefix(rest, ":")
	if !ok {
		return ""
	}
	rest = strings.TrimSpace(rest)
	end := 0
	if strings.HasPrefix(rest, "(") {
		end = strings.IndexByte(rest, ')') + 1
	} else {
		end = strings.IndexAny(rest, ",}")
	}
	if end <= 0 {
		return ""
	}
	return strings.TrimSpace(rest[:end])
}
