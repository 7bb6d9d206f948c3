package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/andrew-torda/pdbx/pkg/cifscan"
	. "github.com/andrew-torda/pdbx/pkg/common"
	"github.com/go-kit/log/level"
)

// usage
func usage() int {
	fmt.Fprintln(os.Stderr, "usage:", path.Base(os.Args[0]), "[opts] directory")
	flag.PrintDefaults()
	return ExitUsageError
}

func main() {
	var flags cifscan.CmdFlag
	var cats, fast ArrayFlags
	flag.IntVar(&flags.Workers, "n", 0, "number of workers, default one per cpu")
	flag.Var(&cats, "c", "parse this category in every block (repeatable)")
	flag.Var(&fast, "fast", "category to split without quote handling (repeatable, default atom_site)")
	flag.StringVar(&flags.Metrics, "metrics", "", "write prometheus metrics to this file")
	flag.StringVar(&flags.CPUProfile, "cpuprofile", "", "write cpu profile to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		os.Exit(usage())
	}
	if len(fast) == 0 {
		fast = ArrayFlags{"atom_site"}
	}
	flags.Cats, flags.Fast = cats, fast

	logger := level.NewFilter(NewLogger(os.Stderr), level.AllowInfo())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cifscan.Mymain(ctx, &flags, flag.Arg(0), os.Stdout, logger); err != nil {
		level.Error(logger).Log("msg", "cifscan failed", "err", err)
		stop()
		os.Exit(ExitFailure)
	}
	stop()
	os.Exit(ExitSuccess)
}
