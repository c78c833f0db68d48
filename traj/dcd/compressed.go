/*
 * compressed.go, part of gochemtraj
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
	"bufio"
	"compress/lzw"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

const (
	lzwOrder        = lzw.MSB
	lzwLitwidth int = 8
	defaultLevel    = -1
)

//DCD requires random access, so compressed files can't be read in place.
//Compressed trajectories are archive copies: OpenCompressed inflates them to a
//temporary plain DCD file, which is removed when the handle is closed.

//Why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	*zstd.Decoder
}

//Close Closes the object. It can not be used after this call
func (s stdql) Close() error {
	s.Decoder.Close()
	return nil
}

//compressionFormat obtains the compression format and level from the format
//string or, if format is empty, from the extension of fname.
//Formats supported are "dcd" (no compression), "gz" (gzip), "deflate", "zst" (zstandard),
//"lzw" and "sz" (snappy). A compression level can be given as in "gz_6".
func compressionFormat(fname, format string) (string, int) {
	fk := format
	if fk == "" {
		fk = strings.TrimPrefix(filepath.Ext(fname), ".")
	}
	return parseLevel(strings.ToLower(fk))
}

//parselevel parses a string into a compression extension and
//a compression level.
//The string needs to be  in the format: format_level (example: gz_-2)
//if any part of the procedure fails, we will assume that there is no
//"level" and we return the whole string, and the default level.
func parseLevel(f string) (string, int) {
	data := strings.Split(f, "_")
	if len(data) != 2 {
		return f, defaultLevel
	}
	level, err := strconv.Atoi(data[1])
	if err != nil {
		return f, defaultLevel
	}
	if level < -2 || level > 22 {
		return data[0], defaultLevel
	}
	return data[0], level
}

//prepSource returns an object that will read data from r, decompressing it
//according to the format fk. If fk is not supported, a message will be logged and the
//non-compressed dcd format will be assumed.
func prepSource(r io.Reader, fk string, fname string) (io.ReadCloser, error) {
	reader := bufio.NewReader(r)
	switch fk {
	case "dcd":
		return io.NopCloser(reader), nil
	case "lzw":
		return lzw.NewReader(reader, lzwOrder, lzwLitwidth), nil
	case "gz":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "zst":
		d, err := zstd.NewReader(reader)
		if err != nil {
			return nil, err
		}
		return stdql{d}, nil
	case "sz":
		return io.NopCloser(snappy.NewReader(reader)), nil
	default:
		//if it's not a plain DCD, you'll get an error later.
		log.Printf("Format string %s not supported. %s will be assumed to be a plain DCD file", fk, fname)
		return io.NopCloser(reader), nil
	}
}

//prepTarget returns an io.WriteCloser that will write data to w, crude or
//compressed, depending on fk. Closing it doesn't close w.
func prepTarget(w io.Writer, fk string, level int, fname string) (io.WriteCloser, error) {
	switch fk {
	case "dcd":
		return nopWriteCloser{w}, nil
	case "lzw":
		return lzw.NewWriter(w, lzwOrder, lzwLitwidth), nil
	case "gz":
		return gzip.NewWriterLevel(w, level)
	case "deflate":
		return flate.NewWriter(w, level)
	case "zst":
		if level == defaultLevel {
			return zstd.NewWriter(w)
		}
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	case "sz":
		return snappy.NewBufferedWriter(w), nil
	default:
		log.Printf("Format string %s not supported. %s will be written as a plain DCD file", fk, fname)
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

//Compress writes a compressed copy of the DCD file src to dst. The compression
//format is given by format or, if format is empty, by the extension of dst.
//src is checked to be a valid DCD file first.
func Compress(src, dst, format string) error {
	D, err := New(src)
	if err != nil {
		return errDecorate(err, "Compress")
	}
	if err := D.Close(); err != nil {
		return errDecorate(err, "Compress")
	}
	in, err := os.Open(src)
	if err != nil {
		return openError(err, src, "Compress")
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return openError(err, dst, "Compress")
	}
	fk, level := compressionFormat(dst, format)
	zw, err := prepTarget(out, fk, level, dst)
	if err != nil {
		out.Close()
		return wrapError(ErrIO, err, dst, "Compress")
	}
	if _, err := io.Copy(zw, in); err != nil {
		out.Close()
		return wrapError(ErrIO, err, dst, "Compress")
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return wrapError(ErrIO, err, dst, "Compress")
	}
	if err := out.Close(); err != nil {
		return wrapError(ErrIO, err, dst, "Compress")
	}
	return nil
}

//OpenCompressed opens a compressed DCD file for reading. The format is given by
//format or, if format is empty, by the extension of filename.
func OpenCompressed(filename, format string) (*File, error) {
	in, err := os.Open(filename)
	if err != nil {
		return nil, openError(err, filename, "OpenCompressed")
	}
	defer in.Close()
	fk, _ := compressionFormat(filename, format)
	zr, err := prepSource(in, fk, filename)
	if err != nil {
		return nil, wrapError(ErrFormat, err, filename, "OpenCompressed")
	}
	defer zr.Close()
	tmp, err := os.CreateTemp("", "gochemtraj-*.dcd")
	if err != nil {
		return nil, wrapError(ErrIO, err, filename, "OpenCompressed")
	}
	tmpname := tmp.Name()
	_, err = io.Copy(tmp, zr)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpname)
		return nil, wrapError(ErrFormat, err, filename, "OpenCompressed")
	}
	D, err := New(tmpname)
	if err != nil {
		os.Remove(tmpname)
		return nil, errDecorate(err, "OpenCompressed")
	}
	D.tmp = tmpname
	D.filename = filename
	return D, nil
}
