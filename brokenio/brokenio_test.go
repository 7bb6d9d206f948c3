package brokenio_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/pdbx/brokenio"
	"github.com/go-kit/log"
)

var tochop = [][]byte{
	[]byte("a"),
	[]byte("abc"),
	[]byte("abcdefghij"),
	[]byte("abcdefghijklmn"),
}

var longstring = "0123456789012345678901234567890123456789"

// lenNonNull returns the length of byte array up to first null
func lenNonNull(a []byte) int {
	if i := bytes.IndexByte(a, 0); i >= 0 {
		return i
	}
	return len(a)
}

// testFrac - wipe out different fractions of the input buffer.
func testFrac(t *testing.T, inb []byte, frac float32) {
	s := make([]byte, len(inb))
	rdr := brokenio.NewReader(io.NopCloser(bytes.NewReader(inb)))
	rdr.SetProbFail(1)
	rdr.SetFracFail(frac)
	n, err := rdr.Read(s)
	if !bytes.Equal(inb[:lenNonNull(s)], s[:lenNonNull(s)]) {
		t.Error("contents of strings changed with string", string(inb), "frac", frac)
	}
	switch frac {
	case 0.0:
		if n != len(inb) || err != nil {
			t.Errorf("reading from string %q got %d bytes, err %v", inb, n, err)
		}
	case 1.0: // This should be a string with all nulls and an error
		if c := bytes.Count(s, []byte{0}); c != len(s) {
			t.Error("want", len(s), "nulls, got", c)
		}
		if n != 0 || !errors.Is(err, brokenio.ErrInjected) {
			t.Errorf("reading %q got %d bytes, err %v", inb, n, err)
		}
	default:
		if n != lenNonNull(s) {
			t.Errorf("got %d bytes, but %d are left", n, lenNonNull(s))
		}
		if n < len(inb) && !errors.Is(err, brokenio.ErrInjected) {
			t.Errorf("wiped %q without an error", s)
		}
	}
}

// TestTrashing takes strings and removes parts of them
func TestTrashing(t *testing.T) {
	fracs := [3]float32{0, 0.3, 1}
	for _, frac := range fracs {
		for _, inb := range tochop {
			testFrac(t, inb, frac)
		}
	}
}

func TestSilent(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetProbFail(1)
	rdr.SetFracFail(0.25)
	rdr.SetSilent(true)
	s := make([]byte, len(longstring))
	n, err := rdr.Read(s)
	if n != len(longstring) || err != nil {
		t.Fatalf("got %d bytes, err %v", n, err)
	}
	if c := bytes.Count(s, []byte{0}); c != 10 {
		t.Errorf("want 10 nulls, got %d", c)
	}
}

func forZeroFile(prob float32) (n int, err error) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetProbZeroFile(prob)
	tmp := make([]byte, len(longstring))
	n, err = rdr.Read(tmp)
	rdr.Close()
	return n, err
}

func TestZeroFile(t *testing.T) {
	n, err := forZeroFile(1)
	if n > 0 {
		t.Error("should have received zero bytes")
	}
	if err != io.EOF {
		t.Errorf("Should have received EOF")
	}
	n, err = forZeroFile(0)
	if n < len(longstring) {
		t.Error("Wanted", len(longstring), "got", n)
	}
	if err != nil {
		t.Errorf("err reading from string")
	}
}

func TestFailAfter(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetFailAfter(8)
	s := make([]byte, 8)
	if n, err := rdr.Read(s); n != 8 || err != nil {
		t.Fatalf("first read got %d, %v", n, err)
	}
	if _, err := rdr.Read(s); !errors.Is(err, brokenio.ErrInjected) {
		t.Errorf("second read should fail, got %v", err)
	}
	_, err := io.ReadAll(rdr)
	if !errors.Is(err, brokenio.ErrInjected) {
		t.Errorf("ReadAll should fail, got %v", err)
	}
}

// Same seed, same damage.
func TestSeed(t *testing.T) {
	read := func() []byte {
		rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
		rdr.SetSeed(42)
		rdr.SetProbFail(0.5)
		rdr.SetSilent(true)
		var out []byte
		s := make([]byte, 4)
		for {
			n, err := rdr.Read(s)
			out = append(out, s[:n]...)
			if err != nil {
				return out
			}
		}
	}
	if a, b := read(), read(); !bytes.Equal(a, b) {
		t.Errorf("same seed, different results\n%q\n%q", a, b)
	}
}

func TestReaderSimple(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetProbFail(0)
	s := make([]byte, len(longstring))
	if rdr.Read(s); string(s) != longstring {
		t.Errorf("simple read fail got %q wanted %q", s, longstring)
	}
}

func Example_setLogger() {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetLogger(log.NewLogfmtLogger(os.Stdout))
	tmp := make([]byte, len(longstring))
	rdr.Read(tmp)
	rdr.Close()
	// Output: level=debug msg=closing calls=1 bytes=40
}

// TestClose - check if the reader really is calling the correct close method.
func TestClose(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "testclose_test")
	if err := os.WriteFile(fname, []byte(longstring), 0o644); err != nil {
		t.Fatal("Writing temp file failed", err)
	}
	fp, err := os.Open(fname)
	if err != nil {
		t.Fatal("reading from tempfile, err = ", err)
	}
	rdr := brokenio.NewReader(fp)
	s := make([]byte, len(longstring))
	if n, err := rdr.Read(s); n != len(longstring) || err != nil {
		t.Error("Failed reading from tempfile, n, err = ", n, err)
	}
	if err = rdr.Close(); err != nil {
		t.Error("failed on close of reader")
	}
	if err = fp.Close(); err == nil {
		t.Error("file should already be closed")
	}
}
