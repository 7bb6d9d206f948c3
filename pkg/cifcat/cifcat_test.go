package cifcat_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/pdbx/pdb"
	"github.com/andrew-torda/pdbx/pdb/cif"
	. "github.com/andrew-torda/pdbx/pkg/cifcat"
	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"
)

const infile = "../../pdb/cif/testdata/1tst.cif"

func run(t *testing.T, flags *CmdFlag) string {
	t.Helper()
	var sb strings.Builder
	if err := Mymain(flags, infile, &sb, log.NewNopLogger()); err != nil {
		t.Fatal(err)
	}
	return sb.String()
}

func TestList(t *testing.T) {
	got := run(t, &CmdFlag{List: true})
	want := "data_1TST\n    entry\n    struct\n    chem_comp\n    atom_site\n"
	if got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}
}

func TestTable(t *testing.T) {
	got := run(t, &CmdFlag{Cat: "atom_site", Fast: []string{"atom_site"}})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("want header and 4 rows, got %d lines\n%s", len(lines), got)
	}
	header := strings.Fields(lines[0])
	if header[0] != "group_PDB" || len(header) != 12 {
		t.Errorf("bad header %v", header)
	}
	last := strings.Fields(lines[4])
	if last[0] != "HETATM" || last[7] != "?" {
		t.Errorf("bad last row %v", last)
	}
	// columns line up
	if strings.Index(lines[0], "id") != strings.Index(lines[1], "1") {
		t.Errorf("columns not aligned\n%s", got)
	}
}

func TestLogfmt(t *testing.T) {
	got := run(t, &CmdFlag{Cat: "chem_comp", Format: FmtLogfmt})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 records, got\n%s", got)
	}
	if !strings.HasPrefix(lines[0], "id=GA9 type=non-polymer mon_nstd_flag=. ") {
		t.Errorf("first record %s", lines[0])
	}
	if !strings.Contains(lines[0], `formula="C24 H13 Br2 Cl O4"`) {
		t.Errorf("formula should be quoted in %s", lines[0])
	}
}

func TestCifFormat(t *testing.T) {
	got := run(t, &CmdFlag{Cat: "chem_comp", Format: FmtCif})
	c, err := cif.DeserializeCategory(got, true)
	require.NoError(t, err)
	require.Equal(t, "chem_comp", c.Name())
	require.Equal(t, 3, c.RowCount())
}

func TestWholeFile(t *testing.T) {
	got := run(t, &CmdFlag{})
	back, err := cif.Read(strings.NewReader(got))
	require.NoError(t, err)
	orig, err := cif.ReadFile(infile)
	require.NoError(t, err)
	require.True(t, orig.Equal(back))
}

func TestOut(t *testing.T) {
	out := filepath.Join(t.TempDir(), "1tst.cif.zst")
	if got := run(t, &CmdFlag{Out: out}); got != "" {
		t.Errorf("nothing should go to the writer, got %q", got)
	}
	back, err := pdb.ReadCif(out, nil)
	require.NoError(t, err)
	orig, err := cif.ReadFile(infile)
	require.NoError(t, err)
	require.True(t, orig.Equal(back))
}

func TestErrors(t *testing.T) {
	var sb strings.Builder
	err := Mymain(&CmdFlag{Cat: "entry", Format: "xml"}, infile, &sb, log.NewNopLogger())
	if !errors.Is(err, ErrFormat) {
		t.Errorf("want ErrFormat, got %v", err)
	}
	err = Mymain(&CmdFlag{Cat: "no_such_thing"}, infile, &sb, log.NewNopLogger())
	require.ErrorIs(t, err, cif.ErrNoKey)
	err = Mymain(&CmdFlag{Cat: "entry", Block: "XXXX"}, infile, &sb, log.NewNopLogger())
	require.ErrorIs(t, err, cif.ErrNoKey)
}
