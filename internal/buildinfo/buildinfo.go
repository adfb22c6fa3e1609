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

// Package buildinfo describes the version of a running command line tool.
package buildinfo

import (
	"runtime/debug"
)

// Short returns a version string like "digitseq (seehuhn.de/go/digitseq
// v0.1.0)".  For development builds, the VCS revision is shown instead of
// the module version.  If no build information is available, only the tool
// name is returned.
func Short(tool string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return tool
	}
	v := version(info)
	if v == "" {
		return tool
	}
	return tool + " (" + info.Main.Path + " " + v + ")"
}

func version(info *debug.BuildInfo) string {
	if v := info.Main.Version; v != "" && v != "(devel)" {
		return v
	}

	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	rev := settings["vcs.revision"]
	if len(rev) > 8 {
		rev = rev[:8]
	}
	if rev != "" && settings["vcs.modified"] == "true" {
		rev += "+dirty"
	}
	return rev
}
