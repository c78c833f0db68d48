/*
 * dcd.go, part of gochemtraj
 *
 * Copyright 2012 Raul Mera Adasme <rmera_changeforat_chem-dot-helsinki-dot-fi>
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
 */

package dcd

import (
	"fmt"
	"log"
	"os"

	chem "github.com/rmera/gochemtraj"
	v3 "github.com/rmera/gochemtraj/v3"
)

var (
	_ chem.FrameSeeker = (*File)(nil)
	_ chem.TrajWriter  = (*File)(nil)
)

//File is a Charmm/NAMD binary trajectory file, open either for
//reading or for writing (or appending), never both.
type File struct {
	filename string
	mode     Mode
	closed   bool
	header   Header
	codec    frameCodec
	cursor   int    //next frame to be read, or to be written
	buf      []byte //one frame record
	coords   []float32

	src source   //read mode
	w   *os.File //write and append modes

	headerWritten bool //is there a header on disk?
	headerDirty   bool //does the header on disk lag behind the one in memory?
	cellFixed     bool //has the unit cell flag been decided?
	timingFixed   bool //have Istart, Nsavc and Delta been decided?
	firstTime     float64

	tmp       string //decompressed copy to be removed on Close
	cosWarned bool
}

//Open opens the DCD file filename in the given mode. In Read and Append modes the file
//must exist, and its header is read immediately. In Write mode the file is created, or
//truncated, and the header is written with the first frame, or with WriteHeader, whatever
//comes first.
func Open(filename string, mode Mode) (*File, error) {
	if !mode.valid() {
		return nil, newError(ErrInvalidMode, fmt.Sprintf("unknown mode %s", mode), filename, "Open")
	}
	D := &File{filename: filename, mode: mode}
	var err error
	switch mode {
	case Read:
		err = D.initRead()
	case Write:
		err = D.initWrite()
	case Append:
		err = D.initAppend()
	}
	if err != nil {
		return nil, errDecorate(err, "Open")
	}
	return D, nil
}

//New opens the DCD file filename for reading.
func New(filename string) (*File, error) {
	D, err := Open(filename, Read)
	if err != nil {
		return nil, errDecorate(err, "New")
	}
	return D, nil
}

//With opens filename in the given mode, passes the handle to fn, and closes it when fn
//returns, or panics. The error from Close is returned only if fn didn't fail.
func With(filename string, mode Mode, fn func(*File) error) (err error) {
	D, err := Open(filename, mode)
	if err != nil {
		return errDecorate(err, "With")
	}
	defer func() {
		if cerr := D.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(D)
}

//initRead reads and checks the header, and makes sure that the file is
//exactly as long as the header says.
func (D *File) initRead() error {
	f, err := os.Open(D.filename)
	if err != nil {
		return openError(err, D.filename, "initRead")
	}
	size, err := fileSize(f, D.filename)
	if err != nil {
		f.Close()
		return err
	}
	D.src = openSource(f, size)
	D.header, err = readHeader(D.src, size)
	if err == nil {
		err = checkLength(&D.header, size)
	}
	if err != nil {
		D.src.Close()
		return wrapError(ErrFormat, err, D.filename, "initRead")
	}
	D.codec = newFrameCodec(&D.header)
	D.headerWritten = true
	return nil
}

func fileSize(f *os.File, filename string) (int64, error) {
	st, err := f.Stat()
	if err != nil {
		return 0, wrapError(ErrIO, err, filename, "Stat")
	}
	if st.IsDir() {
		return 0, newError(ErrNotFound, "is a directory", filename, "Stat")
	}
	return st.Size(), nil
}

//checkLength returns an error if the file doesn't have the number of frames the header
//declares. This is what catches truncated files.
func checkLength(h *Header, size int64) error {
	if want := h.offset(h.NFrames); want != size {
		return fmt.Errorf("file is %d bytes long, but %d frames of %d atoms take %d bytes", size, h.NFrames, h.NAtoms, want)
	}
	return nil
}

//usable returns an error if D is closed or if its mode is not one of modes.
func (D *File) usable(caller string, modes ...Mode) error {
	if D.closed {
		return newError(ErrClosed, "handle already closed", D.filename, caller)
	}
	msg := TrajUnIniWrite
	for _, m := range modes {
		if m == D.mode {
			return nil
		}
		if m == Read {
			msg = TrajUnIniRead
		}
	}
	return newError(ErrInvalidMode, fmt.Sprintf("%s: %s not allowed in mode %s", msg, caller, D.mode), D.filename, caller)
}

//Returns true if the object is ready to be read from
//false otherwise. It doesnt guarantee that there is something
//to read.
func (D *File) Readable() bool {
	return !D.closed && D.mode == Read
}

//Mode returns the mode in which D was opened
func (D *File) Mode() Mode { return D.mode }

//Header returns a copy of the current header.
func (D *File) Header() Header {
	h := D.header
	h.Title = append([]string(nil), D.header.Title...)
	return h
}

//NAtoms returns the number of atoms per frame. 0 means that it
//hasn't been set yet (a new file with no frames).
func (D *File) NAtoms() int {
	return D.header.NAtoms
}

//Len returns the number of frames in the file. In write mode, the frames
//written so far.
func (D *File) Len() int {
	return D.header.NFrames
}

//Tell returns the zero-based index of the current frame.
func (D *File) Tell() int {
	return D.cursor
}

//Seek sets the frame that the next call to Read will return. The frame must be
//in [0, Len()); otherwise an ErrRange error is returned and the cursor doesn't move.
func (D *File) Seek(frame int) error {
	if err := D.usable("Seek", Read); err != nil {
		return err
	}
	if frame < 0 || frame >= D.header.NFrames {
		return newError(ErrRange, fmt.Sprintf("frame %d requested, the file has %d", frame, D.header.NFrames), D.filename, "Seek")
	}
	D.cursor = frame
	return nil
}

//Read returns the frame at the cursor and moves the cursor to the next one.
//At the end of the trajectory the error returned satisfies chem.LastFrameError.
func (D *File) Read() (Frame, error) {
	if err := D.usable("Read", Read); err != nil {
		return Frame{}, err
	}
	if D.cursor >= D.header.NFrames {
		return Frame{}, errDecorate(newlastFrameError(D.filename, "readFrame"), "Read")
	}
	fr := Frame{Coords: make([]float32, 3*D.header.NAtoms)}
	step, cell, err := D.readFrame(fr.Coords)
	if err != nil {
		return Frame{}, errDecorate(err, "Read")
	}
	fr.UnitCell = cell
	fr.Step = step
	fr.Time = float64(step) * D.header.Delta
	return fr, nil
}

//Next reads the next frame into keep, which needs space for at least NAtoms() coordinates.
//If keep is nil the frame is skipped. If box is given and has at least 6
//elements, the unit cell is put there.
func (D *File) Next(keep *v3.Matrix, box ...[]float64) error {
	if err := D.usable("Next", Read); err != nil {
		return err
	}
	var coords []float32
	if keep != nil {
		if keep.NVecs() < D.header.NAtoms {
			return newError(ErrShape, fmt.Sprintf("matrix with %d vectors can't hold %d atoms", keep.NVecs(), D.header.NAtoms), D.filename, "Next")
		}
		if D.coords == nil {
			D.coords = make([]float32, 3*D.header.NAtoms)
		}
		coords = D.coords
	}
	_, cell, err := D.readFrame(coords)
	if err != nil {
		return errDecorate(err, "Next")
	}
	if keep != nil {
		keep.View(0, 0, D.header.NAtoms, 3).SetFloat32(coords)
	}
	if len(box) > 0 && len(box[0]) >= 6 {
		copy(box[0], cell[:])
	}
	return nil
}

//readFrame decodes the frame at the cursor into coords (which can be nil) and
//advances the cursor. It returns the MD step of the frame and the unit cell.
func (D *File) readFrame(coords []float32) (int, [6]float64, error) {
	if D.cursor >= D.header.NFrames {
		return 0, NoCell, newlastFrameError(D.filename, "readFrame")
	}
	//checkLength bounded the frames on disk.
	if len(D.buf) != D.codec.size() {
		D.buf = make([]byte, D.codec.size())
	}
	if _, err := D.src.ReadAt(D.buf, D.header.offset(D.cursor)); err != nil {
		return 0, NoCell, wrapError(ErrIO, err, D.filename, "readFrame")
	}
	cell, cosines, err := D.codec.decode(D.buf, coords)
	if err != nil {
		return 0, NoCell, newError(ErrFormat, fmt.Sprintf("%s: frame %d: %s", WrongFormat, D.cursor, err.Error()), D.filename, "readFrame")
	}
	if cosines && !D.cosWarned {
		log.Printf("Unit cell angles in %s are stored as cosines, will convert them to degrees", D.filename)
		D.cosWarned = true
	}
	step := D.header.Istart + D.cursor*D.header.Nsavc
	D.cursor++
	return step, cell, nil
}

//Close flushes the header if needed (write mode) and closes the file.
//Closing an already closed handle does nothing.
func (D *File) Close() error {
	if D == nil || D.closed {
		return nil
	}
	D.closed = true
	var err error
	if D.mode == Read {
		if cerr := D.src.Close(); cerr != nil {
			err = wrapError(ErrIO, cerr, D.filename, "Close")
		}
	} else {
		err = D.closeWrite()
	}
	if D.tmp != "" {
		os.Remove(D.tmp)
	}
	return err
}

//Iter goes through the frames of a file, from the cursor to the end.
//It is not restartable: once it is exhausted, new iterators will be empty
//until the file is sought back.
//	it := D.Frames()
//	for it.Next() {
//		frame := it.Frame()
//	}
//	if err := it.Err(); err != nil {
//		...
//	}
type Iter struct {
	D     *File
	frame Frame
	err   error
	done  bool
}

//Frames returns an iterator over the frames of D, starting at the current frame.
func (D *File) Frames() *Iter {
	return &Iter{D: D}
}

//Next reads the next frame, and returns false when there are no more frames or
//something went wrong. Each step is a call to D.Read.
func (I *Iter) Next() bool {
	if I.done {
		return false
	}
	fr, err := I.D.Read()
	if err != nil {
		I.done = true
		if !IsLastFrame(err) {
			I.err = err
		}
		return false
	}
	I.frame = fr
	return true
}

//Frame returns the last frame read by Next
func (I *Iter) Frame() Frame { return I.frame }

//Err returns the error that stopped the iteration, or nil if it just ran out of frames.
func (I *Iter) Err() error { return I.err }
