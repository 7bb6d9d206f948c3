package pdb

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/klauspost/compress/gzip"
)

const tstCode = "1TST"

// fakeSites points all three sites at a local server. One of them
// serves compressed data, like rcsb.
func fakeSites(t *testing.T) {
	plain, err := os.ReadFile("cif/testdata/1tst.cif")
	if err != nil {
		t.Fatal(err)
	}
	var zbuf bytes.Buffer
	zw := gzip.NewWriter(&zbuf)
	zw.Write(plain)
	zw.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/gz/"+tstCode+".cif.gz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write(zbuf.Bytes())
	})
	mux.HandleFunc("/plain/"+tstCode+".cif", func(w http.ResponseWriter, _ *http.Request) {
		w.Write(plain)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	old := sites
	sites = []site{
		{"gz", srv.URL + "/gz/", ".cif.gz"},
		{"plain", srv.URL + "/plain/", ".cif"},
		{"empty", srv.URL + "/nothing/", ".cif"},
	}
	t.Cleanup(func() { sites = old })
}

func testSite(t *testing.T, acq string, siteNum int) {
	rdr, err := Fetch(context.Background(), acq, siteNum)
	if err != nil {
		t.Fatal(err)
	}
	defer rdr.Close()
	c, err := io.ReadAll(rdr)
	if len(c) < 100 || err != nil {
		t.Errorf("Reading from http got %v bytes, err = %v", len(c), err)
	}
	if !bytes.HasPrefix(c, []byte("data_1TST")) {
		t.Errorf("site %d gave %.20q", siteNum, c)
	}
}

func TestFetch(t *testing.T) {
	fakeSites(t)
	testSite(t, tstCode, 0)
	testSite(t, tstCode, 1)
	testSite(t, tstCode, 3) // wraps around to 0
	testSite(t, tstCode, -2)
	testSite(t, tstCode, math.MinInt) // -2 after the modulo
	testSite(t, tstCode, math.MaxInt) // 1 after the modulo
	if _, err := Fetch(context.Background(), tstCode, -1); err == nil {
		t.Error("-1 is the empty site, want an error on a 404")
	}
}

func TestFetchErrors(t *testing.T) {
	fakeSites(t)
	if _, err := Fetch(context.Background(), "1TSTX", 0); !errors.Is(err, ErrBadCode) {
		t.Errorf("want ErrBadCode, got %v", err)
	}
	if _, err := Fetch(context.Background(), tstCode, 2); err == nil {
		t.Error("want an error on a 404")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, tstCode, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestFetchCif(t *testing.T) {
	fakeSites(t)
	f, err := FetchCif(context.Background(), tstCode, 0, "atom_site")
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.Get(tstCode)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := b.Get("atom_site")
	if err != nil {
		t.Fatal(err)
	}
	if cat.RowCount() != 4 {
		t.Errorf("want 4 atoms, got %d", cat.RowCount())
	}
}
