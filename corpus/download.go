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
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
)

// fetch downloads the named file from the mirror, unless it is already
// present in the data directory.
func (p *Provider) fetch(ctx context.Context, name string) error {
	fname := p.path(name)
	_, err := os.Stat(fname)
	if err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	mirror := p.Mirror
	if mirror == "" {
		mirror = DefaultMirror
	}
	src, err := url.JoinPath(mirror, name)
	if err != nil {
		return &ResourceError{URL: mirror, Err: err}
	}
	p.logf("downloading %s", src)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return &ResourceError{URL: src, Err: err}
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return &ResourceError{URL: src, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &ResourceError{URL: src, Err: fmt.Errorf("HTTP status %s", resp.Status)}
	}

	// Download into a temporary file, so that an interrupted transfer does
	// not leave a partial file behind under the final name.
	tmpName := fname + ".part"
	out, err := os.Create(tmpName)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, resp.Body)
	if err != nil {
		out.Close()
		os.Remove(tmpName)
		return &ResourceError{URL: src, Err: err}
	}
	err = out.Close()
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, fname)
}
