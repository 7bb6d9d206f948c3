// brokenio is a wrapper around an io.ReadCloser. It allows us to set
// rates of failed read operations.
// Typical use: You get a file pointer, a reader from a compressed
// source or an http source. You write
// reader = NewReader(reader) to wrap the old reader. Everything then
// functions as before, but with artificial errors.
// When we introduce an error, we return ErrInjected.
// When we introduce a failure on the first read, we return io.EOF without
// data. This is what one often sees on a zero length file.
// The random numbers come from a seeded source, so a test fails the same
// way every time.

package brokenio

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// ErrInjected is what a read returns when we broke it on purpose.
var ErrInjected = errors.New("brokenio: injected failure")

// A BrknRdrClsr is modelled on the various Readers in the standard library,
// but with variables controlling the frequency of errors.
// These values are the fraction of time an error will take place,
// so a value of 0.05 means failure in 5% of the cases.
type BrknRdrClsr struct {
	rdrOrig      io.ReadCloser // Wrapped reader
	rnd          *rand.Rand
	probZeroFile float32 // Probability of returning a zero length file
	probFail     float32
	fracFail     float32
	failAfter    int  // every read fails once this many bytes are through, -1 for never
	silent       bool // trash bytes without saying so
	nCalled      int
	nByte        int
	logger       log.Logger
}

const dfltSeed = 1637

// NewReader returns a new Reader - a wrapper around the old one
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{
		rdrOrig:   rIn,
		rnd:       rand.New(rand.NewSource(dfltSeed)),
		fracFail:  0.5,
		failAfter: -1,
		logger:    log.NewNopLogger(),
	}
}

// SetSeed restarts the random numbers.
func (r *BrknRdrClsr) SetSeed(seed int64) { r.rnd = rand.New(rand.NewSource(seed)) }

// SetLogger gets a logger which hears about the amount of data when the
// reader is closed.
func (r *BrknRdrClsr) SetLogger(logger log.Logger) { r.logger = logger }

// SetFracFail sets the amount of the bytes which will be trashed
func (r *BrknRdrClsr) SetFracFail(frac float32) { r.fracFail = frac }

// SetProbZeroFile sets the rate at which we simply return 0 bytes on the
// first read. It must be a value from 0 to 1. We do not check if the
// argument is valid.
func (r *BrknRdrClsr) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// SetProbFail set the probability of a file reading failure.
// It must be between zero and 1.
func (r *BrknRdrClsr) SetProbFail(prob float32) { r.probFail = prob }

// SetFailAfter makes every read fail once n bytes have been delivered.
// A negative n switches this off.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetSilent says that trashed bytes should be handed over as if nothing
// happened. The caller gets NUL bytes and no error, which is what a
// corrupt file looks like.
func (r *BrknRdrClsr) SetSilent(silent bool) { r.silent = silent }

// trashSlice wipes out the second part of a slice with NUL bytes.
// The amount to wipe out is given by a fraction, so 0.3
// will wipe out the second 30 % of a slice. It returns the number of
// bytes left alone.
func trashSlice(p []byte, frac float32) int {
	nkeep := int(float32(len(p)) * (1. - frac))
	q := p[nkeep:] // Wipe out slice from this point on
	for i := range q {
		q[i] = 0
	}
	return nkeep
}

// Read wraps the original reader and sums up the amount of data that
// has gone through. It generates an error with a probability given by probFail.
// On the first call, we might return zero data to simulate a zero length file
// which is a rather common occurrence.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.probZeroFile > 0 {
		if r.rnd.Float32() < r.probZeroFile {
			r.nCalled++
			return 0, io.EOF
		}
	}
	if r.failAfter >= 0 && r.nByte >= r.failAfter {
		return 0, fmt.Errorf("%w: after %d bytes", ErrInjected, r.nByte)
	}
	n, err = r.rdrOrig.Read(p)
	r.nCalled++
	r.nByte += n
	if r.probFail > 0 && r.fracFail > 0 && n > 0 && r.rnd.Float32() < r.probFail {
		nkeep := trashSlice(p[:n], r.fracFail)
		if r.silent || nkeep == n {
			return n, err
		}
		return nkeep, fmt.Errorf("%w: wiped out last %d of %d bytes", ErrInjected, n-nkeep, n)
	}
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	level.Debug(r.logger).Log("msg", "closing", "calls", r.nCalled, "bytes", r.nByte)
	return r.rdrOrig.Close()
}
