/*
 * helpers_test.go, part of gochemtraj
 *
 * Copyright 2021 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License  as published by
 * the Free Software Foundation; either version 2.1 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General Public License
 * along with this program; if not, write to the Free Software
 * Foundation, Inc., 51 Franklin Street, Fifth Floor, Boston,
 * MA 02110-1301, USA.
 *
 */

package dcd

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

//The reference trajectory: same size as the ADK test trajectory used by
//other DCD implementations.
const (
	refAtoms  = 3341
	refFrames = 98
)

//rawSpec describes a DCD file built byte by byte, without going through
//the package's encoder.
type rawSpec struct {
	natoms  int
	nframes int
	cell    bool
	order   binary.ByteOrder
	title   []string
	extra   map[int]int32 //control words to set to non-zero values
}

//coordValue is the value stored for a coordinate in the raw test files.
func coordValue(frame, atom, dim int) float32 {
	return float32(frame) + float32(atom%1000)/8 + float32(dim)/4
}

//cellValue is the unit cell of a frame in the raw test files, as A, B, C, alpha, beta, gamma.
func cellValue(frame int) [6]float64 {
	return [6]float64{50 + float64(frame), 60, 70, 90, 100, 120}
}

func rawDCD(s rawSpec) []byte {
	o := s.order
	if o == nil {
		o = binary.LittleEndian
	}
	buf := new(bytes.Buffer)
	w := func(v interface{}) { binary.Write(buf, o, v) }
	var ctl [20]int32
	ctl[0] = int32(s.nframes)
	ctl[1] = 0
	ctl[2] = 1
	ctl[9] = int32(math.Float32bits(0.5))
	if s.cell {
		ctl[10] = 1
	}
	ctl[19] = 24
	for k, v := range s.extra {
		ctl[k] = v
	}
	w(int32(84))
	buf.WriteString("CORD")
	w(ctl)
	w(int32(84))
	title := s.title
	if title == nil {
		title = []string{"REMARKS raw test file"}
	}
	w(int32(4 + 80*len(title)))
	w(int32(len(title)))
	for _, t := range title {
		line := bytes.Repeat([]byte{' '}, 80)
		copy(line, t)
		buf.Write(line)
	}
	w(int32(4 + 80*len(title)))
	w(int32(4))
	w(int32(s.natoms))
	w(int32(4))
	for f := 0; f < s.nframes; f++ {
		if s.cell {
			c := cellValue(f)
			w(int32(48))
			w([6]float64{c[0], c[5], c[1], c[4], c[3], c[2]})
			w(int32(48))
		}
		for dim := 0; dim < 3; dim++ {
			w(int32(4 * s.natoms))
			block := make([]float32, s.natoms)
			for i := range block {
				block[i] = coordValue(f, i, dim)
			}
			w(block)
			w(int32(4 * s.natoms))
		}
	}
	return buf.Bytes()
}

//writeRaw puts the file described by s in the test's temporary directory.
func writeRaw(t *testing.T, name string, s rawSpec) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, rawDCD(s), 0644))
	return path
}

func referenceFile(t *testing.T) string {
	return writeRaw(t, "reference.dcd", rawSpec{natoms: refAtoms, nframes: refFrames})
}

//testCoords returns natoms deterministic coordinates for the given frame.
func testCoords(natoms, frame int) []float32 {
	c := make([]float32, 3*natoms)
	for i := range c {
		c[i] = float32(frame*100) + float32(i)*0.25 - 7
	}
	return c
}
