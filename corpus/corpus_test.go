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
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/digitseq"
	"seehuhn.de/go/digitseq/mnist"
)

var testLabels = []uint8{5, 0, 4, 1, 9, 2, 1, 3, 1, 4}

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := gzip.NewWriter(buf)
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func testFiles(t *testing.T) map[string][]byte {
	t.Helper()

	images := &bytes.Buffer{}
	binary.Write(images, binary.BigEndian, [4]uint32{0x803, uint32(len(testLabels)), 28, 28})
	for i := range testLabels {
		images.Write(bytes.Repeat([]byte{byte(i + 1)}, 28*28))
	}
	labels := &bytes.Buffer{}
	binary.Write(labels, binary.BigEndian, [2]uint32{0x801, uint32(len(testLabels))})
	labels.Write(testLabels)

	return map[string][]byte{
		ImagesFile: gzipped(t, images.Bytes()),
		LabelsFile: gzipped(t, labels.Bytes()),
	}
}

// mirror serves the test data files and counts the requests.
type mirror struct {
	*httptest.Server
	requests atomic.Int32
}

func newMirror(t *testing.T) *mirror {
	t.Helper()
	files := testFiles(t)
	m := &mirror{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.requests.Add(1)
		data, ok := files[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	t.Cleanup(m.Close)
	return m
}

func checkCorpus(t *testing.T, c *digitseq.Corpus) {
	t.Helper()
	require.Len(t, c.Glyphs, len(testLabels))
	require.Equal(t, []int{3, 6, 8}, c.Index[1])
	require.Equal(t, []int{2, 9}, c.Index[4])
	require.Empty(t, c.Index[7])
	require.Equal(t, uint8(4), c.Glyphs[3][100])
	require.NoError(t, c.Validate())
}

func TestDownloadAndCache(t *testing.T) {
	m := newMirror(t)
	dir := filepath.Join(t.TempDir(), "data")
	ctx := context.Background()

	p := New(dir)
	p.Mirror = m.URL + "/mnist/"
	c1, err := p.Corpus(ctx)
	require.NoError(t, err)
	checkCorpus(t, c1)
	require.EqualValues(t, 2, m.requests.Load())
	require.FileExists(t, filepath.Join(dir, CacheFile))
	require.FileExists(t, filepath.Join(dir, ImagesFile))
	require.NoFileExists(t, filepath.Join(dir, ImagesFile+".part"))

	// a second call is served from memory
	c2, err := p.Corpus(ctx)
	require.NoError(t, err)
	require.Same(t, c1, c2)

	// a new provider uses the cache and never touches the network
	q := New(dir)
	q.Mirror = "http://127.0.0.1:1/unreachable/"
	c3, err := q.Corpus(ctx)
	require.NoError(t, err)
	require.Equal(t, c1, c3)
	require.EqualValues(t, 2, m.requests.Load())
}

func TestReuseDownloads(t *testing.T) {
	dir := t.TempDir()
	for name, data := range testFiles(t) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}

	p := New(dir)
	p.Mirror = "http://127.0.0.1:1/unreachable/"
	c, err := p.Corpus(context.Background())
	require.NoError(t, err)
	checkCorpus(t, c)
}

func TestUnreachable(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	for _, mirrorURL := range []string{notFound.URL, closedURL} {
		dir := t.TempDir()
		p := New(dir)
		p.Mirror = mirrorURL
		_, err := p.Corpus(context.Background())

		var resErr *ResourceError
		require.ErrorAs(t, err, &resErr)
		require.Contains(t, resErr.URL, ImagesFile)
		require.NoFileExists(t, filepath.Join(dir, ImagesFile))
		require.NoFileExists(t, filepath.Join(dir, CacheFile))
	}
}

func TestCanceled(t *testing.T) {
	m := newMirror(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(t.TempDir())
	p.Mirror = m.URL
	_, err := p.Corpus(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestCorruptCache(t *testing.T) {
	dir := t.TempDir()
	cacheFile := filepath.Join(dir, CacheFile)
	require.NoError(t, os.WriteFile(cacheFile, []byte("not a cache file"), 0o644))

	p := New(dir)
	p.Mirror = "http://127.0.0.1:1/unreachable/"
	_, err := p.Corpus(context.Background())
	var cacheErr *CorruptCacheError
	require.ErrorAs(t, err, &cacheErr)
	require.Equal(t, cacheFile, cacheErr.Path)
}

func TestCacheValidation(t *testing.T) {
	dir := t.TempDir()
	p := New(dir)

	bad := &digitseq.Corpus{
		Glyphs: make([]digitseq.Glyph, 2),
		Index:  digitseq.LabelIndex{3: {0, 5}},
	}
	require.NoError(t, p.saveCache(bad))

	_, err := p.Corpus(context.Background())
	var cacheErr *CorruptCacheError
	require.ErrorAs(t, err, &cacheErr)
	var idxErr *digitseq.InvalidIndexError
	require.ErrorAs(t, err, &idxErr)
}

func TestRefresh(t *testing.T) {
	m := newMirror(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CacheFile), []byte{0x28, 0xb5}, 0o644))

	p := New(dir)
	p.Mirror = m.URL
	_, err := p.Corpus(context.Background())
	require.Error(t, err)

	c, err := p.Refresh(context.Background())
	require.NoError(t, err)
	checkCorpus(t, c)

	c2, err := New(dir).Corpus(context.Background())
	require.NoError(t, err)
	require.Equal(t, c, c2)
}

func TestBadDownload(t *testing.T) {
	files := testFiles(t)
	var healthy atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !healthy.Load() {
			w.Write([]byte("<html>this is not MNIST</html>"))
			return
		}
		data, ok := files[filepath.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	}))
	defer srv.Close()

	dir := t.TempDir()
	p := New(dir)
	p.Mirror = srv.URL
	_, err := p.Corpus(context.Background())
	var fmtErr *mnist.FormatError
	require.ErrorAs(t, err, &fmtErr)
	var resErr *ResourceError
	require.False(t, errors.As(err, &resErr))
	var cacheErr *CorruptCacheError
	require.False(t, errors.As(err, &cacheErr))
	require.NoFileExists(t, filepath.Join(dir, ImagesFile))
	require.NoFileExists(t, filepath.Join(dir, LabelsFile))

	// once the mirror serves the right data, both paths recover
	healthy.Store(true)
	c, err := p.Corpus(context.Background())
	require.NoError(t, err)
	checkCorpus(t, c)

	healthy.Store(false)
	require.NoError(t, os.Remove(filepath.Join(dir, ImagesFile)))
	_, err = p.Refresh(context.Background())
	require.ErrorAs(t, err, &fmtErr)

	healthy.Store(true)
	c, err = p.Refresh(context.Background())
	require.NoError(t, err)
	checkCorpus(t, c)
}

func TestUnreadableCache(t *testing.T) {
	// the data directory is a regular file, so the cache cannot be opened
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

	p := New(dir)
	p.Mirror = "http://127.0.0.1:1/unreachable/"
	_, err := p.Corpus(context.Background())
	var cacheErr *CorruptCacheError
	require.ErrorAs(t, err, &cacheErr)
	require.Equal(t, filepath.Join(dir, CacheFile), cacheErr.Path)

	// a directory in place of the cache file
	dir = t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, CacheFile), 0o755))
	_, err = New(dir).Corpus(context.Background())
	require.ErrorAs(t, err, &cacheErr)
}
