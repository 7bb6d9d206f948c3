// 9 Oct 2026

// Package cifcat is the work behind the cifcat command.
package cifcat

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/andrew-torda/pdbx/pdb"
	"github.com/andrew-torda/pdbx/pdb/cif"
	"github.com/andrew-torda/pdbx/pdb/zwrap"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-logfmt/logfmt"
)

// Output formats for a category
const (
	FmtTable  = "table"
	FmtCif    = "cif"
	FmtLogfmt = "logfmt"
)

var ErrFormat = errors.New("unknown output format")

// CmdFlag is literally command line flags after parsing
type CmdFlag struct {
	List   bool     // List blocks and categories
	Cat    string   // Print this category
	Block  string   // from this block. Empty means the only block
	Format string   // table, cif or logfmt
	Out    string   // Write the file back out to here
	Fast   []string // categories for the quick tokenizer
}

// readIn reads from a file or, for "" or "-", standard input.
func readIn(infile string, flags *CmdFlag, logger log.Logger) (*cif.File, error) {
	if infile != "" && infile != "-" {
		return pdb.ReadCif(infile, logger, flags.Fast...)
	}
	rdr, err := zwrap.WrapMaybe(io.NopCloser(os.Stdin))
	if err != nil {
		return nil, err
	}
	f, err := cif.Read(rdr)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	f.SetFastCategories(flags.Fast...)
	return f, nil
}

// list writes the block names and, indented, their categories.
// Nothing gets parsed beyond finding where categories start.
func list(w io.Writer, f *cif.File) error {
	for _, bname := range f.Keys() {
		b, err := f.Get(bname)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "data_%s\n", bname)
		for _, c := range b.Keys() {
			fmt.Fprintf(w, "    %s\n", c)
		}
	}
	return nil
}

// pickBlock gets the named block, or the only one if there is no name.
func pickBlock(f *cif.File, name string) (*cif.Block, error) {
	if name == "" {
		return f.Block()
	}
	return f.Get(name)
}

// writeTable writes a category in aligned columns with a header line.
func writeTable(w io.Writer, c *cif.Category) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	keys := c.Keys()
	cols := make([][]string, len(keys))
	for i, k := range keys {
		col, _ := c.Get(k)
		cols[i] = col.AsStrings()
		fmt.Fprint(tw, k, "\t")
	}
	fmt.Fprintln(tw)
	for r := 0; r < c.RowCount(); r++ {
		for _, col := range cols {
			fmt.Fprint(tw, col[r], "\t")
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// writeLogfmt writes one record per row.
func writeLogfmt(w io.Writer, c *cif.Category) error {
	enc := logfmt.NewEncoder(w)
	keys := c.Keys()
	for r := 0; r < c.RowCount(); r++ {
		row, err := c.Row(r)
		if err != nil {
			return err
		}
		for _, k := range keys {
			if err := enc.EncodeKeyval(k, row[k]); err != nil {
				return err
			}
		}
		if err := enc.EndRecord(); err != nil {
			return err
		}
	}
	return nil
}

// writeCat prints one category in the format asked for.
func writeCat(w io.Writer, c *cif.Category, format string) error {
	switch format {
	case "", FmtTable:
		return writeTable(w, c)
	case FmtLogfmt:
		return writeLogfmt(w, c)
	case FmtCif:
		s, err := c.Serialize()
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, s)
		return err
	}
	return fmt.Errorf("%w %q", ErrFormat, format)
}

// Mymain is the top level main, after parsing the command line.
// With no -l, -c or -o, the whole file goes to w.
func Mymain(flags *CmdFlag, infile string, w io.Writer, logger log.Logger) error {
	f, err := readIn(infile, flags, logger)
	if err != nil {
		return err
	}
	if flags.List {
		if err := list(w, f); err != nil {
			return err
		}
	}
	if flags.Cat != "" {
		b, err := pickBlock(f, flags.Block)
		if err != nil {
			return err
		}
		c, err := b.Get(flags.Cat)
		if err != nil {
			return err
		}
		level.Debug(logger).Log("msg", "category", "name", flags.Cat, "rows", c.RowCount(), "columns", c.Len())
		if err := writeCat(w, c, flags.Format); err != nil {
			return err
		}
	}
	if flags.Out != "" {
		if err := pdb.WriteCif(flags.Out, f); err != nil {
			return err
		}
		level.Info(logger).Log("msg", "wrote", "file", flags.Out)
	}
	if !flags.List && flags.Cat == "" && flags.Out == "" {
		return f.Write(w)
	}
	return nil
}
