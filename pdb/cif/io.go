package cif

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Read slurps everything from r and finds the blocks in it.
// A byte order mark is removed, and UTF-16 with a byte order mark is
// turned into UTF-8. Anything else which is not UTF-8, or has a NUL
// byte in it, is not a CIF file and gives ErrNotText. Compressed input
// has to be unwrapped first, see zwrap.
func Read(r io.Reader) (*File, error) {
	text, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	if err != nil {
		return nil, fmt.Errorf("reading cif: %w", err)
	}
	if err := checkText(text); err != nil {
		return nil, err
	}
	return DeserializeFile(string(text))
}

// checkText is the test for binary input.
func checkText(b []byte) error {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return fmt.Errorf("%w: NUL byte at offset %d", ErrNotText, i)
	}
	if !utf8.Valid(b) {
		return fmt.Errorf("%w: not valid UTF-8", ErrNotText)
	}
	return nil
}

// ReadFile maps the file into memory and reads it from there. It is for
// plain files. The text is copied before the file is unmapped.
func ReadFile(fname string) (*File, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	fi, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 { // mmap will not map nothing
		return NewFile(), nil
	}
	mm, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer mm.Unmap()
	f, err := Read(bytes.NewReader(mm))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return f, nil
}

// Write serializes f and writes it to w. Nothing is written if f cannot
// be serialized.
func (f *File) Write(w io.Writer) error {
	s, err := f.Serialize()
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// WriteFile creates or truncates fname and writes f into it.
func (f *File) WriteFile(fname string) error {
	s, err := f.Serialize()
	if err != nil {
		return err
	}
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(fp)
	if _, err = w.WriteString(s); err == nil {
		err = w.Flush()
	}
	if cerr := fp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return nil
}
