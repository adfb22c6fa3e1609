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

// ResourceError indicates that a data file could not be downloaded.
type ResourceError struct {
	URL string
	Err error
}

func (err *ResourceError) Error() string {
	return "cannot retrieve " + err.URL + ": " + err.Err.Error()
}

func (err *ResourceError) Unwrap() error {
	return err.Err
}

// CorruptCacheError indicates that the cache file exists but cannot be
// used.  Use Provider.Refresh to rebuild the cache.
type CorruptCacheError struct {
	Path string
	Err  error
}

func (err *CorruptCacheError) Error() string {
	return "corrupted corpus cache " + err.Path + ": " + err.Err.Error()
}

func (err *CorruptCacheError) Unwrap() error {
	return err.Err
}
