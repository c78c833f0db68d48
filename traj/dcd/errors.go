/*
 * errors.go, part of gochemtraj
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
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	chem "github.com/rmera/gochemtraj"
)

//Kinds of errors. Every Error returned by this package matches exactly one
//of them under errors.Is.
var (
	ErrNotFound    = errors.New("file not found")
	ErrInvalidMode = errors.New("operation not allowed in this mode")
	ErrFormat      = errors.New("malformed DCD file")
	ErrRange       = errors.New("frame index out of range")
	ErrClosed      = errors.New("trajectory handle is closed")
	ErrShape       = errors.New("frame does not match the trajectory")
	ErrIO          = errors.New("I/O error")
)

//Error is the general structure for DCD trajectory errors. It fullfills  chem.Error and chem.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
	kind     error
	cause    error //the lower-level error, if any
}

func newError(kind error, message, filename, caller string) Error {
	return Error{message: message, filename: filename, deco: []string{caller}, critical: true, kind: kind}
}

//wrapError builds an Error of the given kind around an error coming from the OS
//or from the binary package.
func wrapError(kind, cause error, filename, caller string) Error {
	E := newError(kind, cause.Error(), filename, caller)
	E.cause = errors.Wrap(cause, caller)
	return E
}

func (err Error) Error() string {
	return fmt.Sprintf("dcd file %s error: %s: %s", err.filename, err.kind, err.message)
}

//Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Even thought this method does not use a pointer as a receiver, and tries to alter the received,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//Trace returns the functions the error went through, innermost first.
func (err Error) Trace() string { return strings.Join(err.deco, " <- ") }

//Filename returns the file to which the failing trajectory was associated
func (err Error) FileName() string { return err.filename }

//Format returns the format of the file (always "dcd") associated to the error
func (err Error) Format() string { return "dcd" }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

//Is reports whether target is the kind of this error.
func (err Error) Is(target error) bool { return target == err.kind }

//Unwrap returns the underlying OS or encoding error, if any.
func (err Error) Unwrap() error { return err.cause }

//Cause returns the underlying error or, if there is none, the kind of the error,
//so errors.Cause from github.com/pkg/errors gets to the root of the problem.
func (err Error) Cause() error {
	if err.cause != nil {
		return err.cause
	}
	return err.kind
}

//errDecorate is a helper function that decorates the error with the caller's name
//before returning it, if the error implements chem.Error. Other errors are returned untouched.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	switch E := err.(type) {
	case Error:
		E.deco = append(E.deco, caller)
		return E
	case *lastFrameError:
		E.deco = append(E.deco, caller)
		return E
	case chem.Error:
		E.Decorate(caller)
	}
	return err
}

//openError reports a file that could not be opened. Missing files and files that
//can't be read (permissions, directories) are both ErrNotFound.
func openError(err error, filename, caller string) Error {
	E := wrapError(ErrNotFound, err, filename, caller)
	if os.IsNotExist(err) {
		E.message = "no such file"
	}
	return E
}

//lastFrameError implements chem.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//lastFrameError does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "dcd" }

//Is makes the end of a trajectory match io.EOF
func (E *lastFrameError) Is(target error) bool { return target == io.EOF }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}

//IsLastFrame returns true if err signals the normal end of a trajectory.
func IsLastFrame(err error) bool {
	var l chem.LastFrameError
	return errors.As(err, &l)
}

//Messages for the most common problems.
const (
	TrajUnIniRead  = "Traj object not opened for reading"
	TrajUnIniWrite = "Traj object not opened for writing"
	NilCoordinates = "Given nil coordinates"
	WrongFormat    = "Wrong format in the DCD file or frame"
)
