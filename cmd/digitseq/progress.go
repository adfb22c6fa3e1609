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

package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// progress shows a running image count on a terminal.  It does nothing
// if the output is not a terminal.  A nil *progress is valid and silent.
type progress struct {
	out   *os.File
	total int
	last  int
}

func newProgress(out *os.File, total int) *progress {
	if !term.IsTerminal(int(out.Fd())) {
		return nil
	}
	return &progress{out: out, total: total}
}

func (p *progress) update(done int) {
	if p == nil {
		return
	}
	// redraw at most 100 times
	if done < p.total && (done-p.last)*100 < p.total {
		return
	}
	p.last = done
	fmt.Fprintf(p.out, "\r%d/%d images", done, p.total)
}

func (p *progress) finish() {
	if p == nil || p.last == 0 {
		return
	}
	fmt.Fprintln(p.out)
}

// printer returns a message printer for a POSIX locale name like
// "de_DE.UTF-8".  Unknown locales fall back to English.
func printer(locale string) *message.Printer {
	locale, _, _ = strings.Cut(locale, ".")
	locale, _, _ = strings.Cut(locale, "@")
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil || locale == "C" || locale == "POSIX" {
		tag = language.English
	}
	return message.NewPrinter(tag)
}
