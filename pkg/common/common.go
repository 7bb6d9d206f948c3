// Package common has the bits shared by the commands and their tests.
package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-kit/log"
)

const (
	ExitSuccess = iota
	ExitFailure
	ExitUsageError
)

// WrtTemp writes a string to a temporary file and returns
// the filename. It is used all over the place in testing.
func WrtTemp(s string) (string, error) {
	fTmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", fmt.Errorf("tempfile fail: %w", err)
	}
	name := fTmp.Name()
	if _, err := io.WriteString(fTmp, s); err != nil {
		fTmp.Close()
		return "", fmt.Errorf("writing string to temp file %v: %w", name, err)
	}
	if err := fTmp.Close(); err != nil {
		return "", err
	}
	return name, nil
}

// ArrayFlags is a command line flag which can be given more than once.
type ArrayFlags []string

func (a *ArrayFlags) String() string {
	return strings.Join(*a, ",")
}

func (a *ArrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

// NewLogger is what the commands log with. It writes logfmt with a
// timestamp.
func NewLogger(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(logger, "ts", log.DefaultTimestampUTC)
}
