//go:build linux || darwin

/*
 * source_unix.go, part of gochemtraj
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
	"io"
	"log"
	"os"

	"golang.org/x/sys/unix"
)

//mmapSource has the whole file mapped in memory, so going to any frame
//costs nothing but a page fault.
type mmapSource struct {
	f    *os.File
	data []byte
}

//openSource maps f, which is size bytes long. If that is not possible
//it falls back to plain reads.
func openSource(f *os.File, size int64) source {
	if size <= 0 || int64(int(size)) != size {
		return &fileSource{f: f, size: size}
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		log.Printf("Can't map %s in memory (%s), will read it from disk", f.Name(), err.Error())
		return &fileSource{f: f, size: size}
	}
	//frames are read in any order.
	if err := unix.Madvise(data, unix.MADV_RANDOM); err != nil {
		log.Printf("Can't advise random access for %s (%s), will go on anyway", f.Name(), err.Error())
	}
	return &mmapSource{f: f, data: data}
}

func (m *mmapSource) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *mmapSource) Size() int64 { return int64(len(m.data)) }

func (m *mmapSource) Close() error {
	err := unix.Munmap(m.data)
	m.data = nil
	if err2 := m.f.Close(); err == nil {
		err = err2
	}
	return err
}
