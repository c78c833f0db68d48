/*
 * mode.go, part of gochemtraj
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

import "fmt"

//Mode is the way a DCD file is opened.
type Mode int

const (
	Read   Mode = iota //existing file, frames can be read and sought
	Write              //new or truncated file, frames can only be appended
	Append             //existing file, new frames follow the ones already there
)

func (m Mode) String() string {
	switch m {
	case Read:
		return "r"
	case Write:
		return "w"
	case Append:
		return "a"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) valid() bool {
	return m == Read || m == Write || m == Append
}

//ParseMode turns the usual one-letter mode strings ("r", "w", "a") into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "r":
		return Read, nil
	case "w":
		return Write, nil
	case "a":
		return Append, nil
	}
	return Mode(-1), newError(ErrInvalidMode, fmt.Sprintf("unknown mode %q", s), "", "ParseMode")
}
