package cif_test

import (
	"strings"
	"testing"

	. "github.com/andrew-torda/pdbx/pdb/cif"
	"github.com/google/go-cmp/cmp"
)

type twostring struct {
	in  string
	out string
}

func TestQuote(t *testing.T) {
	for _, tt := range []twostring{
		{"", "''"},
		{"plain", "plain"},
		{"has space", "'has space'"},
		{"it's", `"it's"`},
		{"_starts_like_a_name", `"_starts_like_a_name"`},
		{`say "hi"`, `'say "hi"'`},
		{"tab\there", "'tab\there'"},
		{"'already'", "'already'"},
		{`"already"`, `"already"`},
		{"#notacomment", "'#notacomment'"},
		{";nottext", "';nottext'"},
		{"loop_x", "'loop_x'"},
		{"data_x", "'data_x'"},
		{".", "."},
		{"C1'", `"C1'"`},
	} {
		if got := Quote(tt.in); got != tt.out {
			t.Errorf("Quote(%q) got %q want %q", tt.in, got, tt.out)
		}
	}
}

func TestMultiline(t *testing.T) {
	for _, tt := range []twostring{
		{"one line", "one line"},
		{"two\nlines", "\n;two\nlines\n;\n"},
	} {
		if got := Multiline(tt.in); got != tt.out {
			t.Errorf("Multiline(%q) got %q want %q", tt.in, got, tt.out)
		}
	}
}

func TestSplitLine(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want []string
	}{
		{"a b  c", []string{"a", "b", "c"}},
		{"\ta\t b ", []string{"a", "b"}},
		{"'a dog's life' x", []string{"a dog's life", "x"}},
		{`"C1'" A`, []string{"C1'", "A"}},
		{"''", []string{""}},
		{"x ''", []string{"x", ""}},
		{"", []string{}},
		// from 2a9w.cif
		{`GA9 non-polymer         . '3,3-BIS(3-BR-4-HYD)-7-CH-1H,3H-BEO[DE]ISO-1-ONE'`,
			[]string{"GA9", "non-polymer", ".", "3,3-BIS(3-BR-4-HYD)-7-CH-1H,3H-BEO[DE]ISO-1-ONE"}},
		{`'4-CHL-3',3"-DIB-1,8-NAPHTH' 'C24 H13 Br2 Cl O4' 560.619`,
			[]string{`4-CHL-3',3"-DIB-1,8-NAPHTH`, "C24 H13 Br2 Cl O4", "560.619"}},
	} {
		got := SplitLine(tt.in, nil)
		if diff := cmp.Diff(tt.want, got); diff != "" && len(tt.want)+len(got) > 0 {
			t.Errorf("SplitLine(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

// A quote which never closes is part of a plain word, as in the fast split.
func TestSplitLineUnterminated(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want []string
	}{
		{"'abc", []string{"'abc"}},
		{"'abc'def", []string{"'abc'def"}},
		{"'O5", []string{"'O5"}},
		{`x "y z`, []string{"x", `"y`, "z"}},
		{"'", []string{"'"}},
		{"a 'b'c", []string{"a", "'b'c"}},
		{"'a b' 'c d", []string{"a b", "'c", "d"}},
		{"'ab 'cd' e", []string{"ab 'cd", "e"}},
	} {
		got := SplitLine(tt.in, nil)
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SplitLine(%q) (-want +got):\n%s", tt.in, diff)
		}
		if diff := cmp.Diff(Fields(tt.in, nil), got); diff != "" && !strings.ContainsAny(tt.in, " ") {
			t.Errorf("SplitLine and Fields disagree on %q:\n%s", tt.in, diff)
		}
	}
}

// Scratch space is reused between calls.
func TestSplitLineReuse(t *testing.T) {
	scrtch := make([]string, 0, 8)
	first := SplitLine("a b c", scrtch)
	second := SplitLine("d", first)
	if len(second) != 1 || second[0] != "d" {
		t.Errorf("got %q", second)
	}
}

func TestFields(t *testing.T) {
	in := `ATOM   3  C "C1'" A GLN 'x' 26.797 `
	want := []string{"ATOM", "3", "C", "C1'", "A", "GLN", "x", "26.797"}
	if diff := cmp.Diff(want, Fields(in, nil)); diff != "" {
		t.Errorf("Fields (-want +got):\n%s", diff)
	}
}

func TestStripQuotes(t *testing.T) {
	for _, tt := range []twostring{
		{"'a'", "a"},
		{`"a b"`, "a b"},
		{"''", ""},
		{"'", "'"},
		{`'a"`, `'a"`},
		{"abc", "abc"},
	} {
		if got := StripQuotes(tt.in); got != tt.out {
			t.Errorf("StripQuotes(%q) got %q want %q", tt.in, got, tt.out)
		}
	}
}

func TestSplitLines(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want []string
	}{
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb", []string{"a", "b"}},
		{"a\n\nb", []string{"a", "", "b"}},
		{"", nil},
	} {
		got := SplitLines(tt.in)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("SplitLines(%q) (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseCategoryName(t *testing.T) {
	for _, tt := range []struct {
		in   string
		name string
		ok   bool
	}{
		{"_atom_site.Cartn_x 1.0", "atom_site", true},
		{"_entry.id", "entry", true},
		{"_nodot value.x", "", false},
		{"atom_site.x", "", false},
		{"", "", false},
	} {
		name, ok := ParseCategoryName(tt.in)
		if name != tt.name || ok != tt.ok {
			t.Errorf("ParseCategoryName(%q) got %q %v want %q %v", tt.in, name, ok, tt.name, tt.ok)
		}
	}
}

func TestToLogical(t *testing.T) {
	text := `_struct.title
;first
 second
;
_struct.entry_id
  1ABC
_struct.x 'a b'`
	got, err := ToLogical(text)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		{"_struct.title", "first\n second"},
		{"_struct.entry_id", "1ABC"},
		{"_struct.x", "a b"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ToLogical (-want +got):\n%s", diff)
	}
	if _, err := ToLogical("value without a name\n_a.b c"); err == nil {
		t.Error("value before any name should fail")
	}
	if _, err := ToLogical("_a.b\n;never closed\n"); err == nil {
		t.Error("unterminated text field should fail")
	}
}
