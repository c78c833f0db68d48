/*
 * doc.go, part of gochemtraj.
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

/*Package chem holds the interfaces shared by the trajectory packages of gochemtraj.
The formats themselves live in sub-packages (traj/dcd for CHARMM/NAMD DCD files), and
coordinates are exchanged as v3.Matrix values (package v3) or as raw float32 buffers.

Errors returned by the trajectory packages implement TrajError. The end of a trajectory
is signaled with an error implementing LastFrameError, which is not a failure:

	err := traj.Next(coords)
	if _, ok := err.(chem.LastFrameError); ok {
		//no more frames
	}
*/
package chem
