/*
 * frame.go, part of gochemtraj
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
	"encoding/binary"
	"fmt"
	"math"

	v3 "github.com/rmera/gochemtraj/v3"
)

//NoCell is the unit cell reported for frames of files without unit cell information.
var NoCell = [6]float64{0, 0, 0, 90, 90, 90}

//Frame is one snapshot of the trajectory.
type Frame struct {
	Coords   []float32  //x, y and z for each atom in turn. 3*NAtoms values.
	UnitCell [6]float64 //A, B, C, alpha, beta, gamma. Angles in degrees.
	Step     int        //MD step, from the Istart and Nsavc header fields
	Time     float64    //Step times the header's Delta
}

//NAtoms returns the number of atoms in the frame
func (F Frame) NAtoms() int {
	return len(F.Coords) / 3
}

//At returns the coordinates of atom i.
func (F Frame) At(i int) [3]float32 {
	return [3]float32{F.Coords[3*i], F.Coords[3*i+1], F.Coords[3*i+2]}
}

//Matrix returns a copy of the coordinates as a v3.Matrix.
func (F Frame) Matrix() *v3.Matrix {
	m := v3.Zeros(F.NAtoms())
	m.SetFloat32(F.Coords)
	return m
}

//frameCodec turns frames into the bytes of their file record and back.
//The record is a unit cell block (if present) followed by X, Y and Z blocks, each
//with its size in bytes before and after, Fortran-style.
type frameCodec struct {
	natoms int
	cell   bool
	end    binary.ByteOrder
}

func newFrameCodec(h *Header) frameCodec {
	return frameCodec{natoms: h.NAtoms, cell: h.HasUnitCell, end: h.endian()}
}

func (c frameCodec) size() int {
	s := 3 * (8 + 4*c.natoms)
	if c.cell {
		s += 8 + 6*8
	}
	return s
}

//The file keeps the cell as A, gamma, B, beta, alpha, C.
var cellOrder = [6]int{0, 5, 1, 4, 3, 2}

//encode puts the record for coords and cell in buf, which must be c.size() long.
func (c frameCodec) encode(buf []byte, coords []float32, cell [6]float64) {
	end := c.end
	off := 0
	if c.cell {
		end.PutUint32(buf[off:], 48)
		off += 4
		for _, v := range cellOrder {
			end.PutUint64(buf[off:], math.Float64bits(cell[v]))
			off += 8
		}
		end.PutUint32(buf[off:], 48)
		off += 4
	}
	blocksize := uint32(4 * c.natoms)
	for dim := 0; dim < 3; dim++ {
		end.PutUint32(buf[off:], blocksize)
		off += 4
		for i := 0; i < c.natoms; i++ {
			end.PutUint32(buf[off:], math.Float32bits(coords[3*i+dim]))
			off += 4
		}
		end.PutUint32(buf[off:], blocksize)
		off += 4
	}
}

//decode reads a record from buf. coords, if not nil, must have 3*natoms elements.
//Every block size is checked, so a misaligned or corrupted frame is never
//returned as data.
//cosines is true if the cell angles were stored as cosines.
func (c frameCodec) decode(buf []byte, coords []float32) (cell [6]float64, cosines bool, err error) {
	end := c.end
	off := 0
	cell = NoCell
	if c.cell {
		if s := end.Uint32(buf[off:]); s != 48 {
			return cell, false, fmt.Errorf("unit cell block has size %d, not 48", s)
		}
		off += 4
		var raw [6]float64
		for i := range raw {
			raw[i] = math.Float64frombits(end.Uint64(buf[off:]))
			off += 8
		}
		if s := end.Uint32(buf[off:]); s != 48 {
			return cell, false, fmt.Errorf("unit cell block not terminated by its size")
		}
		off += 4
		for i, v := range cellOrder {
			cell[v] = raw[i]
		}
		cell, cosines = cosines2Angles(cell)
	}
	blocksize := uint32(4 * c.natoms)
	for dim := 0; dim < 3; dim++ {
		if s := end.Uint32(buf[off:]); s != blocksize {
			return cell, false, fmt.Errorf("%c block has size %d, expected %d", 'X'+dim, s, blocksize)
		}
		off += 4
		if coords != nil {
			for i := 0; i < c.natoms; i++ {
				coords[3*i+dim] = math.Float32frombits(end.Uint32(buf[off+4*i:]))
			}
		}
		off += int(blocksize)
		if s := end.Uint32(buf[off:]); s != blocksize {
			return cell, false, fmt.Errorf("%c block not terminated by its size", 'X'+dim)
		}
		off += 4
	}
	return cell, cosines, nil
}

//Newer CHARMM and NAMD versions store the cosines of the angles instead of the angles.
//Angles are assumed to be cosines if all three are in [-1,1].
func cosines2Angles(cell [6]float64) ([6]float64, bool) {
	for _, v := range cell[3:] {
		if v < -1 || v > 1 {
			return cell, false
		}
	}
	for i := 3; i < 6; i++ {
		cell[i] = math.Acos(cell[i]) * 180 / math.Pi
	}
	return cell, true
}
