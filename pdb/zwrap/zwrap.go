// Package zwrap takes a file pointer and optionally wraps it so upon
// calling Close, the decompressor will be closed, followed by the
// underlying file.
// Files from the PDB come gzipped. We also take zstd, since it is what we
// use when writing big files ourselves.
// Whether something is compressed is decided by looking at the first
// bytes, not the name. This means it works on http streams which
// cannot seek.

package zwrap

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Format says how a stream is compressed.
type Format int

const (
	Plain Format = iota
	Gzip
	Zstd
)

func (f Format) String() string {
	switch f {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	}
	return "plain"
}

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Sniff looks at the first bytes of something and says how it is
// compressed.
func Sniff(b []byte) Format {
	switch {
	case bytes.HasPrefix(b, gzipMagic):
		return Gzip
	case bytes.HasPrefix(b, zstdMagic):
		return Zstd
	}
	return Plain
}

// FromName guesses the format from a file name suffix.
func FromName(fname string) Format {
	switch {
	case strings.HasSuffix(fname, ".gz"):
		return Gzip
	case strings.HasSuffix(fname, ".zst"):
		return Zstd
	}
	return Plain
}

// FpZ is what we return.
type FpZ struct {
	fp     io.ReadCloser // underlying file or http body
	zrdr   io.Reader     // what we really read from
	zclose func() error  // closes the decompressor, may be nil
	format Format
}

// Close closes the decompressor, then the underlying backing readCloser.
// It should work if the source is a file or an http stream.
func (fz *FpZ) Close() error {
	var errz error
	if fz.zclose != nil {
		errz = fz.zclose()
	}
	return errors.Join(errz, fz.fp.Close())
}

// Read makes sure we read from the decompressed stream and
// not the underlying file stream.
func (fz *FpZ) Read(p []byte) (int, error) { return fz.zrdr.Read(p) }

// Format says what we found when we looked at the start of the stream.
func (fz *FpZ) Format() Format { return fz.format }

// WrapMaybe will decide if the underlying stream is compressed
// and wrap the file pointer if necessary. An empty stream is fine and
// counts as plain.
func WrapMaybe(fp io.ReadCloser) (*FpZ, error) {
	br := bufio.NewReader(fp)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("zwrap: looking at start of stream: %w", err)
	}
	fz := &FpZ{fp: fp, zrdr: br, format: Sniff(head)}
	switch fz.format {
	case Gzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zwrap: %w", err)
		}
		fz.zrdr, fz.zclose = zr, zr.Close
	case Zstd:
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("zwrap: %w", err)
		}
		fz.zrdr = zr
		fz.zclose = func() error { zr.Close(); return nil }
	}
	return fz, nil
}

// fpzw closes the compressor and then the file.
type fpzw struct {
	io.Writer
	closers []io.Closer
}

func (w *fpzw) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// NewWriter wraps w so what is written goes out compressed in format f.
// Closing the result flushes the compressor and closes w.
func NewWriter(w io.WriteCloser, f Format) (io.WriteCloser, error) {
	switch f {
	case Gzip:
		zw := gzip.NewWriter(w)
		return &fpzw{Writer: zw, closers: []io.Closer{zw, w}}, nil
	case Zstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zwrap: %w", err)
		}
		return &fpzw{Writer: zw, closers: []io.Closer{zw, w}}, nil
	}
	return w, nil
}
