/*
 * interfaces.go, part of gochemtraj.
 *
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import v3 "github.com/rmera/gochemtraj/v3"

// Traj is an interface for any trajectory object opened for reading.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into output, or discards it if output is nil.
	//It can also fill the (optional) box with the unit cell, if present in the frame.
	Next(output *v3.Matrix, box ...[]float64) error

	//Returns the number of atoms per frame
	NAtoms() int
}

// TrajWriter is a trajectory opened for writing.
type TrajWriter interface {
	//WNext appends a frame to the trajectory. The box is optional.
	WNext(towrite *v3.Matrix, box ...[]float64) error

	//Returns the number of atoms per frame
	NAtoms() int

	Close() error
}

// FrameSeeker is a trajectory that can be positioned on any frame
// without reading the intervening ones.
type FrameSeeker interface {
	Traj

	//Seek sets the frame that the next call to Next will read.
	Seek(frame int) error

	//Tell returns the zero-based index of the next frame to be read.
	Tell() int

	//Len returns the number of frames in the trajectory.
	Len() int
}

//Errors

//This error predates the "wrapping" error system of Go (i.e. the "%w" directive and the errors package).
//Implementations also support errors.Is/errors.As, which is the preferred way of inspecting them.

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it should just return the current value, not add the empty string to the slice.
	//The decorate slice should contain a list of functions in the calling stack, plus, for each function any relevant information, or nothing. If information is to be added to an element of the slice, it should be in this format: "FunctionName: Extra info"
}

// TrajError is the interface for errors in trajectories
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a useless function to distinguish the harmless errors (i.e. last frame) so  they can be
// filtered in a typeswitch that looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination() //does nothing, just to separate this interface from other TrajError's
}
