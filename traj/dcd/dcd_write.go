/*
 * dcd_write.go, part of gochemtraj
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
	"fmt"
	"os"

	v3 "github.com/rmera/gochemtraj/v3"
)

//NewWriter creates a DCD trajectory for writing, with natoms atoms per frame.
func NewWriter(filename string, natoms int) (*File, error) {
	if natoms <= 0 {
		return nil, newError(ErrShape, fmt.Sprintf("invalid number of atoms: %d", natoms), filename, "NewWriter")
	}
	D, err := Open(filename, Write)
	if err != nil {
		return nil, errDecorate(err, "NewWriter")
	}
	D.header.NAtoms = natoms
	D.codec = newFrameCodec(&D.header)
	return D, nil
}

//initWrite creates the file. The header stays in memory until something is written.
func (D *File) initWrite() error {
	var err error
	D.w, err = os.OpenFile(D.filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return openError(err, D.filename, "initWrite")
	}
	D.header = DefaultHeader(0)
	return nil
}

//initAppend opens an existing file so new frames go after the ones
//already there. The header is read and checked as in read mode.
func (D *File) initAppend() error {
	var err error
	D.w, err = os.OpenFile(D.filename, os.O_RDWR, 0)
	if err != nil {
		return openError(err, D.filename, "initAppend")
	}
	size, err := fileSize(D.w, D.filename)
	if err != nil {
		D.w.Close()
		return err
	}
	D.header, err = readHeader(D.w, size)
	if err == nil {
		err = checkLength(&D.header, size)
	}
	if err != nil {
		D.w.Close()
		return wrapError(ErrFormat, err, D.filename, "initAppend")
	}
	D.codec = newFrameCodec(&D.header)
	D.cursor = D.header.NFrames
	D.headerWritten = true
	D.cellFixed = true
	D.timingFixed = true
	return nil
}

//SetHeader replaces the header of a file opened for writing. It is only possible
//while the file has no frames: the number of atoms, the unit cell flag and the title
//determine where every frame is. The NFrames field of h is ignored.
func (D *File) SetHeader(h Header) error {
	if err := D.usable("SetHeader", Write, Append); err != nil {
		return err
	}
	if D.header.NFrames > 0 {
		return newError(ErrInvalidMode, "the header can't be changed once frames have been written", D.filename, "SetHeader")
	}
	h.NFrames = 0
	h.Title = append([]string(nil), h.Title...)
	if h.Endian == nil {
		h.Endian = D.header.endian()
	}
	if err := h.check(); err != nil {
		return wrapError(ErrFormat, err, D.filename, "SetHeader")
	}
	D.header = h
	D.codec = newFrameCodec(&D.header)
	D.cellFixed = true
	D.timingFixed = true
	D.headerDirty = true
	return nil
}

//WriteHeader writes the current header at the begining of the file.
//It fails with ErrInvalidMode for files opened for reading.
func (D *File) WriteHeader() error {
	if err := D.usable("WriteHeader", Write, Append); err != nil {
		return err
	}
	return errDecorate(D.writeHeader(), "WriteHeader")
}

//DCD is silly enough to require the number of frames at the begining, so the header
//is written again after every frame.
func (D *File) writeHeader() error {
	data, err := D.header.MarshalBinary()
	if err != nil {
		return wrapError(ErrFormat, err, D.filename, "writeHeader")
	}
	if _, err := D.w.WriteAt(data, 0); err != nil {
		return wrapError(ErrIO, err, D.filename, "writeHeader")
	}
	if D.header.NFrames == 0 {
		//a header from a previous SetHeader could have been longer.
		if err := D.w.Truncate(int64(len(data))); err != nil {
			return wrapError(ErrIO, err, D.filename, "writeHeader")
		}
	}
	D.headerWritten = true
	D.headerDirty = false
	return nil
}

//Write appends a frame to the file. coords contains x, y and z for each of
//the natoms atoms. box is the unit cell (A, B, C, alpha, beta, gamma) and can be nil.
//The first frame sets the number of atoms if it wasn't set before, and, unless
//SetHeader was used, the presence of unit cells (FlagUnitCell in charmm) and
//the Istart, Nsavc and Delta header fields, from the first two steps and times.
func (D *File) Write(coords []float32, box []float64, step int, time float64, natoms int, charmm Flags) error {
	if err := D.usable("Write", Write, Append); err != nil {
		return err
	}
	shapeErr := func(format string, a ...interface{}) error {
		return newError(ErrShape, fmt.Sprintf(format, a...), D.filename, "Write")
	}
	if charmm&Flag4D != 0 {
		return newError(ErrFormat, "4-dimensional trajectories not supported", D.filename, "Write")
	}
	if coords == nil {
		return shapeErr(NilCoordinates)
	}
	if len(coords) != 3*natoms {
		return shapeErr("%d values given for %d atoms", len(coords), natoms)
	}
	if box != nil && len(box) < 6 {
		return shapeErr("unit cell with %d values", len(box))
	}
	if D.header.NAtoms == 0 {
		if natoms <= 0 {
			return shapeErr("invalid number of atoms: %d", natoms)
		}
		D.header.NAtoms = natoms
	} else if natoms != D.header.NAtoms {
		return shapeErr("%d atoms given, but the trajectory has %d", natoms, D.header.NAtoms)
	}
	withcell := charmm&FlagUnitCell != 0
	if !D.cellFixed {
		D.header.HasUnitCell = withcell && D.header.Charmm != 0
		D.cellFixed = true
	} else if withcell && !D.header.HasUnitCell {
		return shapeErr("unit cell given, but the trajectory has no unit cell records")
	}
	D.setTiming(step, time)
	if D.header.NFrames == 0 {
		D.codec = newFrameCodec(&D.header)
	}
	if len(D.buf) != D.codec.size() {
		D.buf = make([]byte, D.codec.size())
	}
	cell := NoCell
	if box != nil {
		copy(cell[:], box[:6])
	}
	D.codec.encode(D.buf, coords, cell)
	if !D.headerWritten {
		if err := D.writeHeader(); err != nil {
			return errDecorate(err, "Write")
		}
	}
	if _, err := D.w.WriteAt(D.buf, D.header.offset(D.header.NFrames)); err != nil {
		return wrapError(ErrIO, err, D.filename, "Write")
	}
	D.header.NFrames++
	D.cursor = D.header.NFrames
	D.headerDirty = true
	return errDecorate(D.writeHeader(), "Write")
}

//setTiming derives Istart, Nsavc and Delta from the steps and times of the first two frames.
func (D *File) setTiming(step int, time float64) {
	if D.timingFixed {
		return
	}
	h := &D.header
	switch h.NFrames {
	case 0:
		h.Istart = step
		D.firstTime = time
		if step != 0 && time != 0 {
			h.Delta = time / float64(step)
		}
	case 1:
		if step > h.Istart {
			h.Nsavc = step - h.Istart
			if time != D.firstTime {
				h.Delta = (time - D.firstTime) / float64(h.Nsavc)
			}
		}
		D.timingFixed = true
	}
}

//WNext writes the next frame to the trajectory. If box is given, and has at least 6
//values, it is written as the unit cell, provided that the trajectory has unit cells.
func (D *File) WNext(towrite *v3.Matrix, box ...[]float64) error {
	if err := D.usable("WNext", Write, Append); err != nil {
		return err
	}
	if towrite == nil {
		return newError(ErrShape, NilCoordinates, D.filename, "WNext")
	}
	D.coords = towrite.Float32(D.coords)
	flags := FlagCharmm
	var cell []float64
	if len(box) > 0 && len(box[0]) >= 6 {
		cell = box[0]
		if !D.cellFixed || D.header.HasUnitCell {
			flags |= FlagUnitCell
		}
	}
	step := D.header.Istart + D.header.NFrames*D.header.Nsavc
	err := D.Write(D.coords, cell, step, float64(step)*D.header.Delta, towrite.NVecs(), flags)
	return errDecorate(err, "WNext")
}

//closeWrite makes sure the header on disk is up to date and closes the file.
func (D *File) closeWrite() error {
	var err error
	if !D.headerWritten || D.headerDirty {
		err = D.writeHeader()
	}
	if serr := D.w.Sync(); serr != nil && err == nil {
		err = wrapError(ErrIO, serr, D.filename, "Close")
	}
	if cerr := D.w.Close(); cerr != nil && err == nil {
		err = wrapError(ErrIO, cerr, D.filename, "Close")
	}
	return errDecorate(err, "Close")
}
