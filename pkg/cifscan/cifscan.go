// 14 Oct 2026

// Package cifscan reads every mmcif file under a directory. It is for
// finding files we cannot read and for seeing how fast we are.
package cifscan

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/andrew-torda/pdbx/pdb"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// CmdFlag is literally command line flags after parsing
type CmdFlag struct {
	Workers    int      // files read at once, <= 0 means one per cpu
	Cats       []string // parse these categories in every block
	Fast       []string // categories for the quick tokenizer
	Metrics    string   // write metrics to this file
	CPUProfile string   // write a cpu profile here
}

// Stats is the result of a scan.
type Stats struct {
	Files      int64 // read without error
	Errors     int64
	Bytes      int64
	Blocks     int64
	Categories int64
}

type counts struct {
	files, errors, bytes, blocks, cats atomic.Int64
}

// isCif says if a name looks like an mmcif file, compressed or not.
func isCif(name string) bool {
	name = strings.ToLower(name)
	for _, s := range []string{".gz", ".zst"} {
		name = strings.TrimSuffix(name, s)
	}
	return strings.HasSuffix(name, ".cif") || strings.HasSuffix(name, ".mmcif")
}

// findFiles walks the tree under dir.
func findFiles(dir string) ([]string, error) {
	var fnames []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && isCif(d.Name()) {
			fnames = append(fnames, path)
		}
		return nil
	})
	return fnames, err
}

// scanOne reads a file and parses the categories we were asked for.
// A file which is broken is counted and logged, but is not an error
// for the scan.
func scanOne(fname string, flags *CmdFlag, m *Metrics, c *counts, logger log.Logger) {
	start := time.Now()
	err := func() error {
		f, err := pdb.ReadCif(fname, logger, flags.Fast...)
		if err != nil {
			return err
		}
		for _, bname := range f.Keys() {
			b, err := f.Get(bname)
			if err != nil {
				return err
			}
			c.blocks.Add(1)
			have := make(map[string]bool, b.Len())
			for _, k := range b.Keys() {
				have[k] = true
			}
			for _, cname := range flags.Cats {
				if !have[cname] {
					continue
				}
				if _, err := b.Get(cname); err != nil {
					return err
				}
				c.cats.Add(1)
				m.CatsParsed.WithLabelValues(cname).Inc()
			}
		}
		return nil
	}()
	m.ReadSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		c.errors.Add(1)
		m.FileErrors.Inc()
		level.Warn(logger).Log("msg", "broken file", "file", fname, "err", err)
		return
	}
	c.files.Add(1)
	m.FilesRead.Inc()
	if fi, err := os.Stat(fname); err == nil {
		c.bytes.Add(fi.Size())
		m.BytesRead.Add(float64(fi.Size()))
	}
}

// Scan reads every mmcif file under dir with flags.Workers goroutines.
// The only errors are from walking the directory or a cancelled context.
func Scan(ctx context.Context, dir string, flags *CmdFlag, m *Metrics, logger log.Logger) (Stats, error) {
	fnames, err := findFiles(dir)
	if err != nil {
		return Stats{}, err
	}
	level.Info(logger).Log("msg", "found files", "count", len(fnames), "dir", dir)
	nworker := flags.Workers
	if nworker <= 0 {
		nworker = runtime.NumCPU()
	}
	var c counts
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(nworker)
	for _, fname := range fnames {
		if gctx.Err() != nil {
			break
		}
		fname := fname
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scanOne(fname, flags, m, &c, logger)
			return nil
		})
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return Stats{
		Files:      c.files.Load(),
		Errors:     c.errors.Load(),
		Bytes:      c.bytes.Load(),
		Blocks:     c.blocks.Load(),
		Categories: c.cats.Load(),
	}, err
}

// Write prints the numbers.
func (s Stats) Write(w io.Writer) error {
	_, err := fmt.Fprintf(w, "files      %d\nerrors     %d\nbytes      %d\nblocks     %d\ncategories %d\n",
		s.Files, s.Errors, s.Bytes, s.Blocks, s.Categories)
	return err
}

// Mymain is the top level main, after parsing the command line.
func Mymain(ctx context.Context, flags *CmdFlag, dir string, w io.Writer, logger log.Logger) error {
	if flags.CPUProfile != "" {
		fp, err := os.Create(flags.CPUProfile)
		if err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		defer fp.Close()
		if err := pprof.StartCPUProfile(fp); err != nil {
			return fmt.Errorf("cpu profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	stats, err := Scan(ctx, dir, flags, m, logger)
	if err != nil {
		return err
	}
	if err := stats.Write(w); err != nil {
		return err
	}
	if flags.Metrics != "" {
		if err := prometheus.WriteToTextfile(flags.Metrics, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		level.Info(logger).Log("msg", "wrote metrics", "file", flags.Metrics)
	}
	return nil
}
