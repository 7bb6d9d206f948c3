package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/andrew-torda/pdbx/pdb"
	"github.com/andrew-torda/pdbx/pkg/cifcat"
	. "github.com/andrew-torda/pdbx/pkg/common"
	"github.com/go-kit/log/level"
)

// usage
func usage() int {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[opts] [file.cif]")
	flag.PrintDefaults()
	return ExitUsageError
}

func main() {
	var flags cifcat.CmdFlag
	var fast ArrayFlags
	var logwhere string
	var verbose bool
	flag.BoolVar(&flags.List, "l", false, "list blocks and categories")
	flag.StringVar(&flags.Cat, "c", "", "print this category")
	flag.StringVar(&flags.Block, "block", "", "block to use, if there is more than one")
	flag.StringVar(&flags.Format, "format", cifcat.FmtTable, "category format: table, cif or logfmt")
	flag.StringVar(&flags.Out, "o", "", "write the file out to here")
	flag.Var(&fast, "fast", "category to split without quote handling (repeatable, default atom_site)")
	flag.StringVar(&logwhere, "log", "", `log to "stdout" or a file`)
	flag.BoolVar(&verbose, "v", false, "log what gets read and written")
	flag.Parse()

	if flag.NArg() > 1 {
		os.Exit(usage())
	}
	if len(fast) == 0 {
		fast = ArrayFlags{"atom_site"}
	}
	flags.Fast = fast

	logger := NewLogger(os.Stderr)
	if logwhere != "" {
		var err error
		if logger, err = pdb.LogWhere(logwhere); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitFailure)
		}
	}
	if verbose {
		logger = level.NewFilter(logger, level.AllowDebug())
	} else {
		logger = level.NewFilter(logger, level.AllowWarn())
	}
	if err := cifcat.Mymain(&flags, flag.Arg(0), os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "cifcat failed", "err", err)
		os.Exit(ExitFailure)
	}
	os.Exit(ExitSuccess)
}
