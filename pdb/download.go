// Package pdb covers reading and writing PDB entries.
// Go to a pdb website and download coordinates.
// The main point is to visit the web page and return a reader that
// can be used like the file readers.
package pdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/andrew-torda/pdbx/pdb/cif"
	"github.com/andrew-torda/pdbx/pdb/zwrap"
)

// ErrBadCode is for acquisition codes which are not four characters.
var ErrBadCode = errors.New("acq code should be four characters")

type site struct {
	name      string
	urlBase   string
	urlSuffix string
}

// sites are where we look. Tests point this somewhere else.
var sites = []site{
	{"rcsb", "https://files.rcsb.org/download/", ".cif.gz"},
	{"pdbe", "https://www.ebi.ac.uk/pdbe/entry-files/download/", ".cif"},
	{"pdbj", "https://ftp.pdbj.org/pub/pdb/data/structures/all/mmCIF/", ".cif.gz"},
}

// NSite is the number of sites we know about.
func NSite() int { return len(sites) }

// Fetch is given a four letter pdb code. It goes to the protein data
// bank and returns a reader.
// There are three sites for structures. You can pick which one you want with
// siteNum. If you give a value that is too big, we use a modulo to wrap
// it around, rather than generate an error. Negative values wrap the
// same way, so -1 is the last site. This makes it easier to cycle
// through them or pick one at random.
// Sites return normal or gzipped data. Either way, the reader gives
// plain text.
func Fetch(ctx context.Context, acqCode string, siteNum int) (io.ReadCloser, error) {
	if len(acqCode) != 4 {
		return nil, fmt.Errorf("%w, not %q", ErrBadCode, acqCode)
	}
	n := len(sites)
	s := sites[(siteNum%n+n)%n]
	url := s.urlBase + acqCode + s.urlSuffix

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("wanted %s using %s, got %s", acqCode, url, resp.Status)
	}
	rdr, err := zwrap.WrapMaybe(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%s from %s: %w", acqCode, s.name, err)
	}
	return rdr, nil
}

// FetchCif downloads an entry and reads it.
func FetchCif(ctx context.Context, acqCode string, siteNum int, fast ...string) (*cif.File, error) {
	rdr, err := Fetch(ctx, acqCode, siteNum)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	f, err := cif.Read(rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", acqCode, err)
	}
	f.SetFastCategories(fast...)
	return f, nil
}
