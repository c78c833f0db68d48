/*
 * doc.go, part of gochemtraj
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

/*Package dcd reads and writes Charmm/NAMD binary (DCD) trajectory files.

A DCD file is a header followed by frames of identical size, so any frame
can be read without going through the previous ones:

	traj, err := dcd.New("traj.dcd")
	if err != nil {
		...
	}
	defer traj.Close()
	traj.Seek(50)
	frame, err := traj.Read() //frame 50

Files are opened either for reading or for writing (dcd.Write creates a new
file, dcd.Append adds frames to an existing one). The number of frames is stored
in the header, which is rewritten after every frame, so a file is valid even if
the program writing it dies. With opens a file and guarantees that it is closed:

	err := dcd.With("out.dcd", dcd.Write, func(D *dcd.File) error {
		return D.Write(coords, box, 0, 0, natoms, dcd.FlagCharmm|dcd.FlagUnitCell)
	})

Only CHARMM (and NAMD>=2.1) and X-PLOR files without fixed atoms or
fourth dimension are supported, in either endianness.
*/
package dcd
