// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then hand it to the cif reader.

package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/pdbx/pdb/cif"
	"github.com/andrew-torda/pdbx/pdb/zwrap"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Format is our guess of what is in a file.
type Format byte

const (
	OldFmt Format = iota
	MmcifFmt
	UnkFmt
)

func (f Format) String() string {
	switch f {
	case OldFmt:
		return "pdb"
	case MmcifFmt:
		return "mmcif"
	}
	return "unknown"
}

var (
	ErrOldFormat     = errors.New("old pdb format is not read")
	ErrUnknownFormat = errors.New("cannot recognise format")
)

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (Format, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	fp, err := os.Open(fname)
	if err != nil {
		return UnkFmt, err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return UnkFmt, fmt.Errorf("reading %s: %w", fname, err)
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		for _, w := range mmcifWords {
			if strings.HasPrefix(s, w) {
				return MmcifFmt, nil
			}
		}
		for _, w := range pdbWords {
			if strings.HasPrefix(s, w) {
				return OldFmt, nil
			}
		}
	}
	if err := scnnr.Err(); err != nil {
		return UnkFmt, fmt.Errorf("%s: %w", fname, err)
	}
	return UnkFmt, fmt.Errorf("%s: %w", fname, ErrUnknownFormat)
}

// GuessFormat decides what format we will use.
// Maybe it uses the file name or maybe it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func GuessFormat(fname string) (Format, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "cif") {
			return MmcifFmt, nil
		} else if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return OldFmt, nil
		}
	}
	return lookInFile(fname)
}

// LogWhere decides where to send output.
// If outinfo is "", it will be trashed. If outinfo is "stdout", we
// write to standard output. Anything else is a file name which we append
// to. The file stays open for the life of the program.
func LogWhere(outinfo string) (log.Logger, error) {
	var iowriter io.Writer
	switch outinfo { // Decide where to send the logged output
	case "":
		return log.NewNopLogger(), nil
	case "stdout":
		iowriter = os.Stdout
	default:
		var err error
		iowriter, err = os.OpenFile(outinfo, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("%w creating log file", err)
		}
	}
	logger := log.NewLogfmtLogger(log.NewSyncWriter(iowriter))
	return log.With(logger, "ts", log.DefaultTimestampUTC), nil
}

// ReadCif takes a filename and reads it as an mmcif file.
// Compressed files are unpacked on the fly. Plain files are mapped into
// memory. The categories in fast are tokenized without looking for
// quotes, see cif.File.SetFastCategories.
// A nil logger is fine.
func ReadCif(fname string, logger log.Logger, fast ...string) (*cif.File, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	typ, err := GuessFormat(fname)
	if err != nil {
		return nil, err
	}
	if typ == OldFmt {
		return nil, fmt.Errorf("%s: %w", fname, ErrOldFormat)
	}
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	var f *cif.File
	if rdr.Format() == zwrap.Plain {
		rdr.Close()
		f, err = cif.ReadFile(fname)
	} else {
		f, err = cif.Read(rdr)
		if cerr := rdr.Close(); err == nil && cerr != nil {
			err = cerr
		}
		if err != nil {
			err = fmt.Errorf("%s: %w", fname, err)
		}
	}
	if err != nil {
		level.Error(logger).Log("msg", "read failed", "file", fname, "err", err)
		return nil, err
	}
	f.SetFastCategories(fast...)
	level.Debug(logger).Log("msg", "read", "file", fname, "compression", rdr.Format(), "blocks", f.Len())
	return f, nil
}

// WriteCif writes f to fname. A name ending in .gz or .zst gets
// compressed output. Nothing is created if f cannot be serialized.
func WriteCif(fname string, f *cif.File) error {
	s, err := f.Serialize()
	if err != nil {
		return err
	}
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	w, err := zwrap.NewWriter(fp, zwrap.FromName(fname))
	if err != nil {
		fp.Close()
		return err
	}
	bw := bufio.NewWriter(w)
	if _, err = bw.WriteString(s); err == nil {
		err = bw.Flush()
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return nil
}
