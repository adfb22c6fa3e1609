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

// Package generate produces batches of composite digit images.
//
// Every image is generated from its own random number generator, seeded
// from the base seed and the image number.  The output therefore only
// depends on the configuration, not on the number of worker goroutines or
// on scheduling.
package generate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/digitseq"
)

// Config describes a batch of images.
type Config struct {
	// Count is the number of images to generate.
	Count int

	// Length is the number of digits per image, used when Fixed is empty.
	Length int

	// Fixed, if non-empty, is used as the digit sequence of every image.
	// Otherwise a new random sequence is drawn for each image.
	Fixed []int

	Layout digitseq.Layout

	// Seed is the base seed for the random number generators.
	Seed uint64

	// Workers limits the number of images generated concurrently.
	// Values below 1 select runtime.NumCPU().
	Workers int
}

// SequenceLength returns the number of digits in each image.
func (cfg *Config) SequenceLength() int {
	if len(cfg.Fixed) > 0 {
		return len(cfg.Fixed)
	}
	return cfg.Length
}

// Validate checks the configuration for errors which would make every
// image fail.
func (cfg *Config) Validate() error {
	if cfg.Count < 0 {
		return fmt.Errorf("invalid image count %d", cfg.Count)
	}
	if len(cfg.Fixed) == 0 && cfg.Length < 1 {
		return fmt.Errorf("invalid sequence length %d", cfg.Length)
	}
	for _, d := range cfg.Fixed {
		if d < 0 || d >= digitseq.NumDigits {
			return fmt.Errorf("invalid digit %d", d)
		}
	}
	return cfg.Layout.Check(cfg.SequenceLength())
}

// Sink receives generated images.  Save may be called concurrently from
// several goroutines, with the images in any order.
type Sink interface {
	Save(i int, img *digitseq.Composite) error
}

// SinkFunc adapts an ordinary function to the Sink interface.
type SinkFunc func(i int, img *digitseq.Composite) error

// Save implements the [Sink] interface.
func (f SinkFunc) Save(i int, img *digitseq.Composite) error {
	return f(i, img)
}

// Image generates image number i of the batch.
func Image(cfg *Config, c *digitseq.Corpus, i int) (*digitseq.Composite, error) {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(i)))
	seq := cfg.Fixed
	if len(seq) == 0 {
		seq = digitseq.RandomSequence(rng, cfg.Length)
	}
	return digitseq.Compose(rng, seq, cfg.Layout, c)
}

// Run generates all images of the batch and passes them to sink.
//
// If progress is non-nil, it is called after every saved image with the
// number of images saved so far.  Calls to progress are serialized.
//
// Run stops at the first error and returns it.
func Run(ctx context.Context, cfg *Config, c *digitseq.Corpus, sink Sink, progress func(done int)) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}
	if c == nil {
		return digitseq.ErrNoCorpus
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	done := 0
	for i := 0; i < cfg.Count && gctx.Err() == nil; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img, err := Image(cfg, c, i)
			if err != nil {
				return fmt.Errorf("image %d: %w", i, err)
			}
			err = sink.Save(i, img)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			done++
			if progress != nil {
				progress(done)
			}
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return err
}
