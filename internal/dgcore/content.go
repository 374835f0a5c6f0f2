// Package dgcore implements the generation engine: the file-content writer
// (C4), the task body (C5), the task generators (C6), the scheduler (C7)
// and the object pools, all as specified in spec.md §4-§5.
package dgcore

import (
	"fmt"
	"io"
	"os"

	"github.com/jdefrancesco/dirgen/internal/dgpath"
	"github.com/jdefrancesco/dirgen/internal/dgrand"
)

// fileMode matches spec §6.1: owner+group read/write, other read.
const fileMode = 0o664

// ContentGenerator is the file-content writer variant (spec C4, "variant").
// Implementations decide, per file, how many bytes to write and where they
// come from.
type ContentGenerator interface {
	// CreateFile creates the file at path and writes its content. fileNum
	// indexes into any pre-defined byte-count slice; retryable marks the
	// very first file-creation attempt of a task, which may need the
	// determinism-preserving double-sample rule (spec §4.4).
	CreateFile(path *dgpath.PathBuf, fileNum int, retryable bool) (bytesWritten uint64, err error)
}

// byteCountsReturner is implemented by content generators that own a
// pool-backed byte-count slice so the scheduler can reclaim it (spec §3
// object pools).
type byteCountsReturner interface {
	ReturnByteCounts() []uint64
}

// NoneContent creates empty regular files via the fastest primitive the
// platform offers (spec §4.4's zero-byte fast path).
type NoneContent struct{}

func (NoneContent) CreateFile(path *dgpath.PathBuf, _ int, _ bool) (uint64, error) {
	return 0, createEmptyFileFast(path)
}

// OnTheFly streams pseudorandom (or fixed fill-byte) bytes sourced from a
// per-task PRNG, sized by sampling a Normal distribution per file (spec C4,
// C6's dynamic generator).
type OnTheFly struct {
	Dist     dgrand.Normal
	Rng      *dgrand.Rand
	FillByte *byte

	// retrySampled/retryBytes cache the kept sample from the task's
	// retryable first file, so a retried attempt (after the missing-parent
	// recovery in RunTask) reuses that value instead of drawing a third
	// time (spec §4.4: "retry is invisible to subsequent PRNG-derived
	// output").
	retrySampled bool
	retryBytes   uint64
}

func (o *OnTheFly) CreateFile(path *dgpath.PathBuf, fileNum int, retryable bool) (uint64, error) {
	if !retryable {
		numBytes := o.Dist.Sample(o.Rng)
		if numBytes == 0 {
			return 0, createEmptyFileFast(path)
		}
		f, err := createFile(path.String())
		if err != nil {
			return 0, err
		}
		defer f.Close()
		if err := writeBytes(f, numBytes, o.FillByte, o.Rng); err != nil {
			return 0, err
		}
		return numBytes, nil
	}

	// Determinism retry rule (spec §4.4): the task's first file creation
	// always consumes two samples regardless of outcome (discarding the
	// first), and always goes through the open+write path rather than the
	// empty-file fast path, since it may need to be retried after the
	// missing-parent recovery.
	if !o.retrySampled {
		_ = o.Dist.Sample(o.Rng)
		o.retryBytes = o.Dist.Sample(o.Rng)
		o.retrySampled = true
	}

	f, err := createFile(path.String())
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := writeBytes(f, o.retryBytes, o.FillByte, o.Rng); err != nil {
		return 0, err
	}
	return o.retryBytes, nil
}

// PreDefined writes an explicit, pre-sampled sequence of per-file byte
// counts (spec C6's static generator, used exclusively in exact-bytes
// mode).
type PreDefined struct {
	ByteCounts []uint64
	Rng        *dgrand.Rand
	FillByte   *byte
}

func (p *PreDefined) CreateFile(path *dgpath.PathBuf, fileNum int, _ bool) (uint64, error) {
	numBytes := p.ByteCounts[fileNum]
	if numBytes == 0 {
		return 0, createEmptyFileFast(path)
	}

	f, err := createFile(path.String())
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := writeBytes(f, numBytes, p.FillByte, p.Rng); err != nil {
		return 0, err
	}
	return numBytes, nil
}

// ReturnByteCounts hands the backing slice back to the scheduler's pool.
func (p *PreDefined) ReturnByteCounts() []uint64 {
	return p.ByteCounts
}

func createFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, fileMode)
}

// fillReader is an io.Reader that produces an endless stream of a single
// repeated byte, used when Configuration.FillByte is set.
type fillReader struct {
	b byte
}

func (r fillReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.b
	}
	return len(p), nil
}

// writeBytes streams exactly num bytes to f, sourced either from rng (the
// standard library's *rand.Rand implements io.Reader) or from a fixed fill
// byte, mirroring the teacher's own pattern of streaming generated content
// straight into a file via io.Copy (tools/genfiles.go's randReader).
func writeBytes(f *os.File, num uint64, fillByte *byte, rng *dgrand.Rand) error {
	var source io.Reader = rng
	if fillByte != nil {
		source = fillReader{b: *fillByte}
	}

	written, err := io.Copy(f, io.LimitReader(source, int64(num)))
	if err != nil {
		return err
	}
	if uint64(written) != num {
		return fmt.Errorf("short write: wrote %d of %d requested bytes", written, num)
	}
	return nil
}
