/*
 * header.go, part of gochemtraj
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
	"io"
	"math"
	"strings"
)

const mAXTITLE int = 80

//The first record is always 84 bytes long: "CORD" plus 20 control words.
const (
	cordMarker  int32 = 84
	nControl          = 20
	firstRecord       = 4 + 4 + 4*nControl + 4
)

//Positions of the control words we know about. The rest are carried through untouched.
const (
	ctlNSet    = 0
	ctlIstart  = 1
	ctlNsavc   = 2
	ctlFixed   = 8
	ctlDelta   = 9
	ctlCell    = 10
	ctl4D      = 11
	ctlVersion = 19
)

//MaxAtoms is the largest number of atoms a frame can hold: the size in bytes
//of each coordinate block has to fit in its int32 marker.
const MaxAtoms = math.MaxInt32 / 4

//DefaultCharmmVersion is what we put in files we create.
const DefaultCharmmVersion = 24

//Flags are the CHARMM bit flags given to Write.
type Flags int

const (
	FlagCharmm   Flags = 0x01 //CHARMM (not X-PLOR) file
	Flag4D       Flags = 0x02 //extra fourth dimension block. Not supported.
	FlagUnitCell Flags = 0x04 //each frame carries a unit cell record
)

//Header contains the file-level information of a DCD trajectory.
type Header struct {
	NAtoms      int     //atoms per frame
	NFrames     int     //frames currently in the file
	Istart      int     //step of the first frame
	Nsavc       int     //steps between frames
	Delta       float64 //time step, in AKMA units. Stored as float32 in CHARMM files.
	HasUnitCell bool    //each frame starts with a 6-value unit cell record
	Charmm      int     //CHARMM version. 0 means an X-PLOR file.
	//Title lines. Each is stored in exactly 80 bytes, padded with spaces
	//or truncated when written, and kept as-is when read.
	Title  []string
	Endian binary.ByteOrder

	control [nControl]int32 //raw control words, as read
}

//DefaultHeader returns the header used for new files.
func DefaultHeader(natoms int) Header {
	return Header{
		NAtoms: natoms,
		Nsavc:  1,
		Delta:  1,
		Charmm: DefaultCharmmVersion,
		Title:  []string{"REMARKS DCD file created by gochemtraj"},
		Endian: binary.LittleEndian,
	}
}

func (h *Header) endian() binary.ByteOrder {
	if h.Endian == nil {
		return binary.LittleEndian
	}
	return h.Endian
}

//Size returns the length in bytes of the encoded header.
func (h *Header) Size() int64 {
	return int64(firstRecord + 4 + 4 + mAXTITLE*len(h.Title) + 4 + 12)
}

//FrameSize returns the length in bytes of each frame
func (h *Header) FrameSize() int64 {
	var cell int64
	if h.HasUnitCell {
		cell = 4 + 6*8 + 4
	}
	return cell + 3*(4+4*int64(h.NAtoms)+4)
}

//offset returns the position in the file where the given frame starts
func (h *Header) offset(frame int) int64 {
	return h.Size() + int64(frame)*h.FrameSize()
}

//TitleString returns the title lines joined by newlines, without the padding.
func (h *Header) TitleString() string {
	lines := make([]string, len(h.Title))
	for i, v := range h.Title {
		lines[i] = strings.TrimRight(v, " \x00")
	}
	return strings.Join(lines, "\n")
}

func (h *Header) check() error {
	if h.NAtoms < 0 || h.NAtoms > MaxAtoms {
		return fmt.Errorf("invalid number of atoms: %d", h.NAtoms)
	}
	if h.NFrames < 0 {
		return fmt.Errorf("negative number of frames: %d", h.NFrames)
	}
	if h.Charmm == 0 && h.HasUnitCell {
		return fmt.Errorf("X-PLOR files can't store unit cells")
	}
	return nil
}

//MarshalBinary encodes the header as the leading records of a DCD file.
func (h *Header) MarshalBinary() ([]byte, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	end := h.endian()
	buf := make([]byte, h.Size())
	ctl := h.control
	ctl[ctlNSet] = int32(h.NFrames)
	ctl[ctlIstart] = int32(h.Istart)
	ctl[ctlNsavc] = int32(h.Nsavc)
	ctl[ctlFixed] = 0
	ctl[ctlVersion] = int32(h.Charmm)
	if h.Charmm != 0 {
		ctl[ctlDelta] = int32(math.Float32bits(float32(h.Delta)))
		ctl[ctlCell] = 0
		if h.HasUnitCell {
			ctl[ctlCell] = 1
		}
		ctl[ctl4D] = 0
	}
	end.PutUint32(buf, uint32(cordMarker))
	copy(buf[4:], "CORD")
	off := 8
	for _, v := range ctl {
		end.PutUint32(buf[off:], uint32(v))
		off += 4
	}
	if h.Charmm == 0 {
		//X-PLOR keeps a double precision delta in words 9 and 10.
		end.PutUint64(buf[8+4*ctlDelta:], math.Float64bits(h.Delta))
	}
	end.PutUint32(buf[off:], uint32(cordMarker))
	off += 4

	//the title
	tsize := uint32(4 + mAXTITLE*len(h.Title))
	end.PutUint32(buf[off:], tsize)
	end.PutUint32(buf[off+4:], uint32(len(h.Title)))
	off += 8
	for _, v := range h.Title {
		line := buf[off : off+mAXTITLE]
		for i := range line {
			line[i] = ' '
		}
		copy(line, v)
		off += mAXTITLE
	}
	end.PutUint32(buf[off:], tsize)
	off += 4

	//ok, this is important, the number of atoms in each snapshot
	end.PutUint32(buf[off:], 4)
	end.PutUint32(buf[off+4:], uint32(h.NAtoms))
	end.PutUint32(buf[off+8:], 4)
	return buf, nil
}

//detectEndian checks the start of the first record, which has to be an 84 in
//the byte order of the file, followed by the "CORD" magic number.
func detectEndian(data []byte) (binary.ByteOrder, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("header too short: %d bytes", len(data))
	}
	var end binary.ByteOrder = binary.LittleEndian
	if int32(end.Uint32(data)) != cordMarker {
		end = binary.BigEndian
		if int32(end.Uint32(data)) != cordMarker {
			return nil, fmt.Errorf("first record marker is %d, not 84", binary.LittleEndian.Uint32(data))
		}
	}
	if string(data[4:8]) != "CORD" {
		return nil, fmt.Errorf("wrong magic number %q", data[4:8])
	}
	return end, nil
}

//UnmarshalBinary decodes a complete header (as long as Size() says). The endianness
//is detected from the first marker.
func (h *Header) UnmarshalBinary(data []byte) error {
	end, err := detectEndian(data)
	if err != nil {
		return err
	}
	if len(data) < firstRecord+8 {
		return fmt.Errorf("header too short: %d bytes", len(data))
	}
	var ctl [nControl]int32
	for i := range ctl {
		ctl[i] = int32(end.Uint32(data[8+4*i:]))
	}
	if int32(end.Uint32(data[firstRecord-4:])) != cordMarker {
		return fmt.Errorf("first record not terminated by 84")
	}
	var n Header
	n.Endian = end
	n.control = ctl
	n.NFrames = int(ctl[ctlNSet])
	n.Istart = int(ctl[ctlIstart])
	n.Nsavc = int(ctl[ctlNsavc])
	n.Charmm = int(ctl[ctlVersion])
	if ctl[ctlFixed] != 0 {
		return fmt.Errorf("fixed atoms (%d) not supported", ctl[ctlFixed])
	}
	//X-plor sets the version to zero, charmm sets it to its version number.
	if n.Charmm != 0 {
		n.Delta = float64(math.Float32frombits(uint32(ctl[ctlDelta])))
		n.HasUnitCell = ctl[ctlCell] != 0
		if ctl[ctl4D] != 0 {
			return fmt.Errorf("4-dimensional trajectories not supported")
		}
	} else {
		n.Delta = math.Float64frombits(end.Uint64(data[8+4*ctlDelta:]))
	}
	if n.NFrames < 0 {
		return fmt.Errorf("negative number of frames: %d", n.NFrames)
	}

	//how many units of mAXTITLE does the title have?
	rest := data[firstRecord:]
	tsize := int64(int32(end.Uint32(rest)))
	ntitle := int64(int32(end.Uint32(rest[4:])))
	if ntitle < 0 || tsize != 4+int64(mAXTITLE)*ntitle {
		return fmt.Errorf("inconsistent title record: size %d, %d lines", tsize, ntitle)
	}
	if need := 4 + tsize + 4 + 12; int64(len(rest)) < need {
		return fmt.Errorf("header too short for %d title lines", ntitle)
	}
	n.Title = make([]string, ntitle)
	for i := range n.Title {
		start := 8 + i*mAXTITLE
		n.Title[i] = string(rest[start : start+mAXTITLE])
	}
	rest = rest[4+tsize:]
	if int64(int32(end.Uint32(rest))) != tsize {
		return fmt.Errorf("title record not terminated by its size")
	}
	rest = rest[4:]
	if end.Uint32(rest) != 4 || end.Uint32(rest[8:]) != 4 { //one must read a 4 before and after the natoms
		return fmt.Errorf("wrong atom number record")
	}
	n.NAtoms = int(int32(end.Uint32(rest[4:])))
	if n.NAtoms <= 0 || n.NAtoms > MaxAtoms {
		return fmt.Errorf("invalid number of atoms: %d", n.NAtoms)
	}
	*h = n
	return nil
}

//readHeader reads and decodes the header at the start of r, which is size bytes long.
func readHeader(r io.ReaderAt, size int64) (Header, error) {
	var h Header
	//enough to get to the number of title lines
	prime := make([]byte, firstRecord+8)
	if size < int64(len(prime)) {
		return h, fmt.Errorf("file too short for a DCD header: %d bytes", size)
	}
	if _, err := r.ReadAt(prime, 0); err != nil {
		return h, fmt.Errorf("can't read header: %w", err)
	}
	end, err := detectEndian(prime)
	if err != nil {
		return h, err
	}
	ntitle := int64(int32(end.Uint32(prime[firstRecord+4:])))
	hsize := int64(firstRecord+4+4+4+12) + int64(mAXTITLE)*ntitle
	if ntitle < 0 || hsize > size {
		return h, fmt.Errorf("invalid number of title lines: %d", ntitle)
	}
	full := make([]byte, hsize)
	if _, err := r.ReadAt(full, 0); err != nil {
		return h, fmt.Errorf("can't read header: %w", err)
	}
	err = h.UnmarshalBinary(full)
	return h, err
}
