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

// Package profile collects CPU and memory profiles for the command line
// tools.
package profile

import (
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
)

// Start begins CPU profiling if cpuFile is non-empty.  The returned
// function ends CPU profiling and, if memFile is non-empty, writes an
// allocation profile.  Empty file names disable the corresponding profile,
// so that Start can be called unconditionally.
func Start(cpuFile, memFile string) (stop func(), err error) {
	var cpu *os.File
	if cpuFile != "" {
		cpu, err = os.Create(cpuFile)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			cpu.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
	}

	stop = func() {
		if cpu != nil {
			pprof.StopCPUProfile()
			cpu.Close()
		}
		if memFile != "" {
			err := writeAllocs(memFile)
			if err != nil {
				log.Printf("memory profile: %v", err)
			}
		}
	}
	return stop, nil
}

func writeAllocs(fname string) error {
	runtime.GC()
	allocs := pprof.Lookup("allocs")
	if allocs == nil {
		return fmt.Errorf("no allocs profile")
	}

	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	err = allocs.WriteTo(f, 0)
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
