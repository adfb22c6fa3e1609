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

// Package store writes composite digit images to an output directory.
package store

import (
	"bufio"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	"seehuhn.de/go/digitseq"
	"seehuhn.de/go/digitseq/npy"
)

// Format is an output file format.
type Format string

// These are the supported output formats.
const (
	NPY  Format = "npy"
	PNG  Format = "png"
	JPEG Format = "jpg"
	GIF  Format = "gif"
	BMP  Format = "bmp"
	TIFF Format = "tif"
)

// ParseFormat converts a format name or file extension to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "npy":
		return NPY, nil
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	case "bmp":
		return BMP, nil
	case "tif", "tiff":
		return TIFF, nil
	}
	return "", fmt.Errorf("unsupported output format %q", s)
}

// LabelsFile is the name of the ground truth file written by
// [Writer.Close].
const LabelsFile = "labels.txt"

// DefaultPrefix is the file name prefix used when Options.Prefix is empty.
const DefaultPrefix = "mnist_ocr_image_"

// Options control how images are written.
type Options struct {
	// Format is the file format.  The zero value selects PNG.
	Format Format

	// Scale enlarges images by an integer factor, using nearest-neighbour
	// interpolation.  Values below 2 leave the size unchanged.  NPY output
	// is never scaled.
	Scale int

	// Labels enables writing of the ground truth file.
	Labels bool

	// Prefix is prepended to the image number to form file names.
	Prefix string
}

// Writer stores composite images in a directory.
// It is safe to call Save from several goroutines at once.
type Writer struct {
	dir string
	opt Options

	mu     sync.Mutex
	labels map[int]string
}

// Create returns a Writer for the given directory.  The directory is
// created if needed.
func Create(dir string, opt *Options) (*Writer, error) {
	w := &Writer{dir: dir}
	if opt != nil {
		w.opt = *opt
	}
	if w.opt.Format == "" {
		w.opt.Format = PNG
	}
	format, err := ParseFormat(string(w.opt.Format))
	if err != nil {
		return nil, err
	}
	w.opt.Format = format
	if w.opt.Prefix == "" {
		w.opt.Prefix = DefaultPrefix
	}
	if w.opt.Labels {
		w.labels = make(map[int]string)
	}

	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Name returns the file name used for image number i.
func (w *Writer) Name(i int) string {
	return fmt.Sprintf("%s%06d.%s", w.opt.Prefix, i, w.opt.Format)
}

// Save writes image number i.
func (w *Writer) Save(i int, img *digitseq.Composite) error {
	name := w.Name(i)
	f, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return err
	}
	err = w.encode(f, img)
	if err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", name, err)
	}
	err = f.Close()
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.labels != nil {
		w.labels[i] = name + " " + img.Label()
	}
	w.mu.Unlock()
	return nil
}

func (w *Writer) encode(out io.Writer, img *digitseq.Composite) error {
	if w.opt.Format == NPY {
		return npy.Write(out, img.Shape(), img.Pix)
	}

	var src image.Image = img
	if w.opt.Scale > 1 {
		b := img.Bounds()
		src = imaging.Resize(img, b.Dx()*w.opt.Scale, b.Dy()*w.opt.Scale, imaging.NearestNeighbor)
	}

	switch w.opt.Format {
	case TIFF:
		return tiff.Encode(out, src, &tiff.Options{Compression: tiff.Deflate})
	case JPEG:
		return imaging.Encode(out, src, imaging.JPEG, imaging.JPEGQuality(95))
	case GIF:
		return imaging.Encode(out, src, imaging.GIF)
	case BMP:
		return imaging.Encode(out, src, imaging.BMP)
	default:
		return imaging.Encode(out, src, imaging.PNG)
	}
}

// Close writes the ground truth file, if enabled.  Every line holds the
// name of an image file and the digits shown in the image, ordered by image
// number.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.labels == nil {
		return nil
	}
	keys := make([]int, 0, len(w.labels))
	for i := range w.labels {
		keys = append(keys, i)
	}
	sort.Ints(keys)

	f, err := os.Create(filepath.Join(w.dir, LabelsFile))
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)
	for _, i := range keys {
		fmt.Fprintln(bw, w.labels[i])
	}
	err = bw.Flush()
	if err != nil {
		f.Close()
		return err
	}
	w.labels = nil
	return f.Close()
}
