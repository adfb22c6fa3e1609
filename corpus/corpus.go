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

// Package corpus makes the MNIST training set available as a glyph corpus.
//
// On first use, the data files are downloaded into a local directory,
// parsed, and stored in a compressed cache file.  Later runs load the
// cache file directly.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"seehuhn.de/go/digitseq"
	"seehuhn.de/go/digitseq/mnist"
)

// DefaultMirror is the download location used when Provider.Mirror is empty.
const DefaultMirror = "https://storage.googleapis.com/cvdf-datasets/mnist/"

// Names of the files inside the data directory.
const (
	ImagesFile = "train-images-idx3-ubyte.gz"
	LabelsFile = "train-labels-idx1-ubyte.gz"
	CacheFile  = "mnist.gob.zst"
)

// Provider loads the MNIST corpus, downloading and caching it as needed.
// A Provider is safe for concurrent use.
type Provider struct {
	// Dir is the directory for downloaded files and the cache.
	Dir string

	// Mirror is the base URL of the MNIST data files.
	Mirror string

	// Client is used for downloads.  If nil, http.DefaultClient is used.
	Client *http.Client

	// Log, if non-nil, receives progress messages.
	Log *log.Logger

	mu     sync.Mutex
	corpus *digitseq.Corpus
}

var _ digitseq.Provider = (*Provider)(nil)

// New returns a Provider which keeps its data in dir.
func New(dir string) *Provider {
	return &Provider{
		Dir:    dir,
		Mirror: DefaultMirror,
	}
}

// Corpus returns the MNIST corpus.
//
// If the cache file exists, it is loaded and checked.  Otherwise the data
// files are downloaded (unless already present), parsed and written to the
// cache.  The result is kept in memory, so that later calls return the same
// corpus.
//
// A *ResourceError is returned if a download fails, and a
// *CorruptCacheError if the cache file cannot be used.  If the downloaded
// files cannot be parsed, they are deleted and a *mnist.FormatError is
// returned.
func (p *Provider) Corpus(ctx context.Context) (*digitseq.Corpus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.corpus != nil {
		return p.corpus, nil
	}

	c, err := p.loadCache()
	if errors.Is(err, fs.ErrNotExist) {
		p.logf("no cached corpus in %s, preparing", p.Dir)
		c, err = p.prepare(ctx)
	}
	if err != nil {
		return nil, err
	}
	p.corpus = c
	return c, nil
}

// Refresh discards the cache file and rebuilds it from the downloaded data
// files, fetching them again if they are missing.  Downloads which turn out
// not to be valid MNIST files are deleted, so that a later call fetches them
// again.
func (p *Provider) Refresh(ctx context.Context) (*digitseq.Corpus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.corpus = nil
	err := os.Remove(p.path(CacheFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	c, err := p.prepare(ctx)
	if err != nil {
		return nil, err
	}
	p.corpus = c
	return c, nil
}

func (p *Provider) prepare(ctx context.Context) (*digitseq.Corpus, error) {
	err := os.MkdirAll(p.Dir, 0o755)
	if err != nil {
		return nil, err
	}

	for _, name := range []string{ImagesFile, LabelsFile} {
		err = p.fetch(ctx, name)
		if err != nil {
			return nil, err
		}
	}

	p.logf("parsing %s and %s", ImagesFile, LabelsFile)
	c, err := mnist.LoadFiles(p.path(ImagesFile), p.path(LabelsFile))
	if err != nil {
		var fmtErr *mnist.FormatError
		if errors.As(err, &fmtErr) {
			// get fresh copies next time
			p.logf("removing unusable downloads from %s", p.Dir)
			os.Remove(p.path(ImagesFile))
			os.Remove(p.path(LabelsFile))
		}
		return nil, err
	}

	p.logf("saving %d glyphs to %s", len(c.Glyphs), p.path(CacheFile))
	err = p.saveCache(c)
	if err != nil {
		return nil, fmt.Errorf("cannot write corpus cache: %w", err)
	}
	return c, nil
}

func (p *Provider) path(name string) string {
	return filepath.Join(p.Dir, name)
}

func (p *Provider) logf(format string, args ...any) {
	if p.Log != nil {
		p.Log.Printf(format, args...)
	}
}
