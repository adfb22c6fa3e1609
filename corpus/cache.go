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

package corpus

import (
	"encoding/gob"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"seehuhn.de/go/digitseq"
)

// cacheVersion must be incremented whenever cacheData changes.
const cacheVersion = 1

// cacheData is the gob-encoded content of the cache file.
type cacheData struct {
	Version int
	Count   int
	Pixels  []byte // Count glyphs, each GlyphSize*GlyphSize bytes
	Index   map[int][]int
}

var errCacheVersion = errors.New("unsupported cache version")

// loadCache reads the cache file.  If there is no cache file, the returned
// error wraps fs.ErrNotExist.
func (p *Provider) loadCache() (*digitseq.Corpus, error) {
	fname := p.path(CacheFile)
	f, err := os.Open(fname)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, err
	} else if err != nil {
		return nil, &CorruptCacheError{Path: fname, Err: err}
	}
	defer f.Close()

	p.logf("loading cached corpus from %s", fname)
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, &CorruptCacheError{Path: fname, Err: err}
	}
	defer zr.Close()

	data := &cacheData{}
	err = gob.NewDecoder(zr).Decode(data)
	if err != nil {
		return nil, &CorruptCacheError{Path: fname, Err: err}
	}
	if data.Version != cacheVersion {
		return nil, &CorruptCacheError{Path: fname, Err: errCacheVersion}
	}

	const glyphBytes = digitseq.GlyphSize * digitseq.GlyphSize
	if data.Count < 0 || len(data.Pixels) != data.Count*glyphBytes {
		return nil, &CorruptCacheError{Path: fname, Err: errors.New("glyph data size mismatch")}
	}
	c := &digitseq.Corpus{
		Glyphs: make([]digitseq.Glyph, data.Count),
		Index:  digitseq.LabelIndex(data.Index),
	}
	for i := range c.Glyphs {
		copy(c.Glyphs[i][:], data.Pixels[i*glyphBytes:])
	}
	if c.Index == nil {
		c.Index = digitseq.LabelIndex{}
	}
	err = c.Validate()
	if err != nil {
		return nil, &CorruptCacheError{Path: fname, Err: err}
	}
	return c, nil
}

// saveCache writes c to the cache file.  The file is replaced atomically.
func (p *Provider) saveCache(c *digitseq.Corpus) error {
	const glyphBytes = digitseq.GlyphSize * digitseq.GlyphSize
	data := &cacheData{
		Version: cacheVersion,
		Count:   len(c.Glyphs),
		Pixels:  make([]byte, 0, len(c.Glyphs)*glyphBytes),
		Index:   c.Index,
	}
	for i := range c.Glyphs {
		data.Pixels = append(data.Pixels, c.Glyphs[i][:]...)
	}

	tmp, err := os.CreateTemp(p.Dir, filepath.Base(CacheFile)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		tmp.Close()
		return err
	}
	err = gob.NewEncoder(zw).Encode(data)
	if err != nil {
		zw.Close()
		tmp.Close()
		return err
	}
	err = zw.Close()
	if err != nil {
		tmp.Close()
		return err
	}
	err = tmp.Close()
	if err != nil {
		return err
	}
	return os.Rename(tmpName, p.path(CacheFile))
}
