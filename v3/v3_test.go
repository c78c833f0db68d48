/*
 * v3_test.go, part of gochemtraj.
 *
 * Copyright 2013 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, 6.0, A.At(1, 2))

	_, err = NewMatrix([]float64{1, 2, 3, 4})
	assert.Error(Te, err)
}

func TestFloat32RoundTrip(Te *testing.T) {
	data := []float32{1.5, -2.25, 3, 10, 20.5, -30}
	A, err := NewFromFloat32(data)
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, -2.25, A.At(0, 1))
	assert.Equal(Te, 20.5, A.At(1, 1))

	out := A.Float32(nil)
	assert.Equal(Te, data, out)

	//a big enough buffer is reused
	buf := make([]float32, 10)
	out = A.Float32(buf)
	assert.Len(Te, out, 6)
	assert.Equal(Te, &buf[0], &out[0])

	_, err = NewFromFloat32([]float32{1, 2})
	assert.Error(Te, err)
}

func TestViews(Te *testing.T) {
	A := Zeros(3)
	v := A.VecView(1)
	v.Set(0, 2, 7)
	assert.Equal(Te, 7.0, A.At(1, 2))
	w := A.View(1, 0, 2, 3)
	assert.Equal(Te, 2, w.NVecs())
	assert.Equal(Te, 7.0, w.At(0, 2))

	D := Matrix2Dense(A)
	assert.True(Te, mat.Equal(D, Dense2Matrix(D).Dense))
}

func TestSetFloat32Shape(Te *testing.T) {
	A := Zeros(2)
	assert.Panics(Te, func() { A.SetFloat32([]float32{1, 2, 3}) })
	assert.NotEmpty(Te, A.String())
}
