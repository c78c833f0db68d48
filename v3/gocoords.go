/*
 * gocoords.go, part of gochemtraj.
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

package v3

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//Returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	f := make([]float64, cols*vecs)
	return &Matrix{mat.NewDense(vecs, cols, f)}
}

//NewFromFloat32 returns a Matrix with a float64 copy of data, which holds
//x, y and z for each atom in turn, as binary trajectories store them.
func NewFromFloat32(data []float32) (*Matrix, error) {
	if len(data)%3 != 0 {
		return nil, Error{fmt.Sprintf("Input slice lenght %d not divisible by 3", len(data)), []string{"NewFromFloat32"}, true}
	}
	F := Zeros(len(data) / 3)
	F.SetFloat32(data)
	return F, nil
}

//METHODS

//return the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r

}

//SetFloat32 puts the coordinates in data (x, y, z for each atom) in the receiver.
//Panics if data doesn't have exactly 3 values per vector of F.
func (F *Matrix) SetFloat32(data []float32) {
	r := F.NVecs()
	if len(data) != 3*r {
		panic(ErrShape)
	}
	for i := 0; i < r; i++ {
		F.Set(i, 0, float64(data[3*i]))
		F.Set(i, 1, float64(data[3*i+1]))
		F.Set(i, 2, float64(data[3*i+2]))
	}
}

//Float32 puts the coordinates of F in dst, reallocating it if it is too small,
//and returns it. The precision is of course reduced.
func (F *Matrix) Float32(dst []float32) []float32 {
	r := F.NVecs()
	if cap(dst) < 3*r {
		dst = make([]float32, 3*r)
	}
	dst = dst[:3*r]
	for i := 0; i < r; i++ {
		dst[3*i] = float32(F.At(i, 0))
		dst[3*i+1] = float32(F.At(i, 1))
		dst[3*i+2] = float32(F.At(i, 2))
	}
	return dst
}

//Returns a neat string representation of a Matrix
func (F *Matrix) String() string {
	r, c := F.Dims()
	v := make([]string, r+2)
	v[0] = "\n["
	v[len(v)-1] = " ]"
	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, F.Dense) //now row has a slice with the row i
		if i == 0 {
			v[i+1] = fmt.Sprintf("%6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
			continue
		} else if i == r-1 {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f", row[0], row[1], row[2])
			continue
		} else {
			v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
		}
	}
	v[len(v)-2] = strings.Replace(v[len(v)-2], "\n", "", 1)
	return strings.Join(v, "")
}
