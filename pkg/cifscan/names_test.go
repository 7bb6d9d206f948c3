package cifscan_test

import (
	"testing"

	. "github.com/andrew-torda/pdbx/pkg/cifscan"
)

func TestIsCif(t *testing.T) {
	for _, tt := range []struct {
		name string
		want bool
	}{
		{"1abc.cif", true},
		{"1ABC.CIF.GZ", true},
		{"1abc.cif.zst", true},
		{"1abc.mmcif", true},
		{"1abc.pdb.gz", false},
		{"cif", false},
		{"1abc.cif.bak", false},
	} {
		if got := IsCif(tt.name); got != tt.want {
			t.Errorf("IsCif(%s) = %v", tt.name, got)
		}
	}
}
