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

package digitseq

import (
	"fmt"
	"math/rand/v2"
)

// ParseSequence converts a string of decimal digits, like "0451", into a
// digit sequence.
func ParseSequence(s string) ([]int, error) {
	if s == "" {
		return nil, errNoDigits
	}
	res := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("invalid digit %q at position %d", c, i)
		}
		res[i] = int(c - '0')
	}
	return res, nil
}

// RandomSequence returns n digits, each drawn uniformly from 0-9.
func RandomSequence(rng *rand.Rand, n int) []int {
	res := make([]int, n)
	for i := range res {
		res[i] = rng.IntN(NumDigits)
	}
	return res
}
