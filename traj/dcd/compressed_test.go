/*
 * compressed_test.go, part of gochemtraj
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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressedFormats(Te *testing.T) {
	src := writeRaw(Te, "plain.dcd", rawSpec{natoms: 40, nframes: 12, cell: true})
	dir := Te.TempDir()
	for _, ext := range []string{"gz", "zst", "lzw", "sz", "deflate", "dcd"} {
		dst := filepath.Join(dir, "traj.dcd."+ext)
		require.NoError(Te, Compress(src, dst, ""), ext)
		D, err := OpenCompressed(dst, "")
		require.NoError(Te, err, ext)
		assert.Equal(Te, 12, D.Len(), ext)
		assert.Equal(Te, 40, D.NAtoms(), ext)
		require.NoError(Te, D.Seek(7))
		f, err := D.Read()
		require.NoError(Te, err, ext)
		assert.Equal(Te, cellValue(7), f.UnitCell, ext)
		assert.Equal(Te, coordValue(7, 39, 2), f.Coords[3*39+2], ext)
		tmp := D.tmp
		require.NoError(Te, D.Close())
		_, err = os.Stat(tmp)
		assert.True(Te, os.IsNotExist(err), ext)
	}
}

func TestCompressLevels(Te *testing.T) {
	src := referenceFile(Te)
	dir := Te.TempDir()
	for _, format := range []string{"gz_9", "gz_1", "zst_19", "deflate_-2", "zst_99"} {
		dst := filepath.Join(dir, "traj."+format)
		require.NoError(Te, Compress(src, dst, format), format)
		D, err := OpenCompressed(dst, format)
		require.NoError(Te, err, format)
		assert.Equal(Te, refFrames, D.Len(), format)
		require.NoError(Te, D.Close())
		//the compressed file itself is left alone
		_, err = os.Stat(dst)
		assert.NoError(Te, err, format)
	}
}

func TestCompressErrors(Te *testing.T) {
	dir := Te.TempDir()
	err := Compress(filepath.Join(dir, "nope.dcd"), filepath.Join(dir, "nope.dcd.gz"), "")
	assert.True(Te, errors.Is(err, ErrNotFound), err)

	bad := filepath.Join(dir, "bad.dcd")
	require.NoError(Te, os.WriteFile(bad, []byte("not a trajectory at all, no, not at all. Not even close to a DCD header, still too short"), 0644))
	err = Compress(bad, filepath.Join(dir, "bad.dcd.gz"), "")
	assert.True(Te, errors.Is(err, ErrFormat), err)

	_, err = OpenCompressed(filepath.Join(dir, "nope.dcd.gz"), "")
	assert.True(Te, errors.Is(err, ErrNotFound), err)

	//a plain file read as gzip
	_, err = OpenCompressed(writeRaw(Te, "plain.dcd", rawSpec{natoms: 3, nframes: 2}), "gz")
	assert.True(Te, errors.Is(err, ErrFormat), err)
}

func TestParseLevel(Te *testing.T) {
	cases := []struct {
		in     string
		format string
		level  int
	}{
		{"gz", "gz", defaultLevel},
		{"gz_9", "gz", 9},
		{"zst_22", "zst", 22},
		{"zst_23", "zst", defaultLevel},
		{"deflate_-2", "deflate", -2},
		{"gz_x", "gz_x", defaultLevel},
		{"a_b_c", "a_b_c", defaultLevel},
	}
	for _, c := range cases {
		f, l := parseLevel(c.in)
		assert.Equal(Te, c.format, f, c.in)
		assert.Equal(Te, c.level, l, c.in)
	}
	f, l := compressionFormat("/some/where/traj.dcd.GZ", "")
	assert.Equal(Te, "gz", f)
	assert.Equal(Te, defaultLevel, l)
	f, _ = compressionFormat("traj.whatever", "sz")
	assert.Equal(Te, "sz", f)
}
