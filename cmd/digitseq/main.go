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

// Digitseq generates images of handwritten digit sequences for training
// OCR models.
//
// Glyphs are taken from the MNIST training set, which is downloaded into
// the data directory on first use.  Each output image is 28 pixels high and
// shows either the digit string given by -s, or a random string of -l
// digits.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"time"

	"seehuhn.de/go/digitseq"
	"seehuhn.de/go/digitseq/corpus"
	"seehuhn.de/go/digitseq/generate"
	"seehuhn.de/go/digitseq/internal/buildinfo"
	"seehuhn.de/go/digitseq/internal/profile"
	"seehuhn.de/go/digitseq/store"
)

type options struct {
	width      int
	marginMin  int
	marginMax  int
	length     int
	digits     string
	count      int
	outDir     string
	dataDir    string
	mirror     string
	format     string
	scale      int
	seed       uint64
	seedSet    bool
	workers    int
	labels     bool
	quiet      bool
	cpuprofile string
	memprofile string
}

func main() {
	opt := &options{}
	intFlag(&opt.width, 200, "width of the resulting image", "w", "width")
	intFlag(&opt.marginMin, 0, "minimum margin between digits", "i", "minmargin")
	intFlag(&opt.marginMax, 100, "maximum margin between digits", "a", "maxmargin")
	intFlag(&opt.length, 5, "number of digits per image", "l", "strlen")
	intFlag(&opt.count, 10, "number of images to generate", "n", "genn")
	stringFlag(&opt.digits, "", "fixed digit string to render (default random)", "s", "numberstring")
	stringFlag(&opt.outDir, "./images", "output directory for generated images", "o", "outputdir")
	flag.StringVar(&opt.dataDir, "data", "./data", "directory for the MNIST download and cache")
	flag.StringVar(&opt.mirror, "mirror", corpus.DefaultMirror, "base URL of the MNIST files")
	flag.StringVar(&opt.format, "format", "png", "output format: npy, png, jpg, gif, bmp or tif")
	flag.IntVar(&opt.scale, "scale", 1, "enlarge output images by this factor")
	flag.Func("seed", "random `seed` (default: time based)", func(s string) error {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return err
		}
		opt.seed, opt.seedSet = v, true
		return nil
	})
	flag.IntVar(&opt.workers, "workers", 0, "number of parallel workers (default: number of CPUs)")
	flag.BoolVar(&opt.labels, "labels", true, "write "+store.LabelsFile+" with the digits of every image")
	flag.BoolVar(&opt.quiet, "q", false, "suppress progress output")
	flag.StringVar(&opt.cpuprofile, "cpuprofile", "", "write cpu profile to `file`")
	flag.StringVar(&opt.memprofile, "memprofile", "", "write memory profile to `file`")
	version := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.Short("digitseq"))
		return
	}
	if flag.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "digitseq: unexpected argument %q\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, opt)
	if err != nil {
		fmt.Fprintln(os.Stderr, "digitseq:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opt *options) error {
	stopProfile, err := profile.Start(opt.cpuprofile, opt.memprofile)
	if err != nil {
		return err
	}
	defer stopProfile()

	logger := log.New(os.Stderr, "digitseq: ", 0)
	if opt.quiet {
		logger.SetOutput(io.Discard)
	}

	cfg := &generate.Config{
		Count:  opt.count,
		Length: opt.length,
		Layout: digitseq.Layout{
			Width:     opt.width,
			MarginMin: opt.marginMin,
			MarginMax: opt.marginMax,
		},
		Seed:    opt.seed,
		Workers: opt.workers,
	}
	if opt.digits != "" {
		cfg.Fixed, err = digitseq.ParseSequence(opt.digits)
		if err != nil {
			return fmt.Errorf("-s: %w", err)
		}
	}
	if !opt.seedSet {
		cfg.Seed = uint64(time.Now().UnixNano())
		logger.Printf("using seed %d", cfg.Seed)
	}
	err = cfg.Validate()
	if err != nil {
		return err
	}

	format, err := store.ParseFormat(opt.format)
	if err != nil {
		return err
	}

	p := corpus.New(opt.dataDir)
	p.Mirror = opt.mirror
	p.Log = logger
	c, err := p.Corpus(ctx)
	if err != nil {
		return err
	}

	w, err := store.Create(opt.outDir, &store.Options{
		Format: format,
		Scale:  opt.scale,
		Labels: opt.labels,
	})
	if err != nil {
		return err
	}

	var bar *progress
	if !opt.quiet {
		bar = newProgress(os.Stderr, cfg.Count)
	}
	err = generate.Run(ctx, cfg, c, w, bar.update)
	bar.finish()
	closeErr := w.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	if !opt.quiet {
		printer(os.Getenv("LANG")).Printf("Saved %d images in %s\n", cfg.Count, opt.outDir)
	}
	return nil
}

// intFlag registers an int flag under several names.
func intFlag(p *int, value int, usage string, names ...string) {
	for i, name := range names {
		if i > 0 {
			usage = "same as -" + names[0]
		}
		flag.IntVar(p, name, value, usage)
	}
}

// stringFlag registers a string flag under several names.
func stringFlag(p *string, value string, usage string, names ...string) {
	for i, name := range names {
		if i > 0 {
			usage = "same as -" + names[0]
		}
		flag.StringVar(p, name, value, usage)
	}
}
