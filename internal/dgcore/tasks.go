package dgcore

import (
	"os"

	"github.com/jdefrancesco/dirgen/internal/dgerr"
	"github.com/jdefrancesco/dirgen/internal/dgnames"
	"github.com/jdefrancesco/dirgen/internal/dgpath"
)

// dirMode matches spec §6.1's directory permission bits.
const dirMode = 0o775

// TaskParams is everything a single dispatched task needs to run
// independently of the scheduler (spec C5).
type TaskParams struct {
	// Path is owned by the task for its duration and positioned at the
	// directory the task will populate.
	Path *dgpath.PathBuf
	// NumDirs subdirectories are created first, named dgnames.DirName(0..).
	NumDirs uint64
	// NumFiles files are created after, named
	// dgnames.FileName(FileOffset..FileOffset+NumFiles).
	NumFiles   uint64
	FileOffset uint64
	Content    ContentGenerator
}

// TaskOutcome reports what a task actually created plus the pool-owned
// resources it is done with (spec §3 object pools: the path buffer and any
// byte-count slice are returned here for the coordinator to recycle).
type TaskOutcome struct {
	FilesGenerated uint64
	DirsGenerated  uint64
	BytesGenerated uint64

	ReturnPath       *dgpath.PathBuf
	ReturnByteCounts []uint64
}

// RunTask is the task body (C5): create NumDirs subdirectories, then
// NumFiles files, observing the missing-parent retry rule on the very first
// file (spec §4.4, §4.5).
func RunTask(p TaskParams) (TaskOutcome, error) {
	path := p.Path

	for i := uint64(0); i < p.NumDirs; i++ {
		guard := path.Push(dgnames.DirName(int(i)))
		// MkdirAll, not Mkdir (spec §4.5 step 1: "recursive-create-all
		// (ignoring already-exists)"): task dispatch order is unconstrained
		// (spec §5), so this directory's own parent may not have committed
		// yet when this task runs, and a plain Mkdir would fail with
		// ENOENT on valid input.
		err := os.MkdirAll(path.String(), dirMode)
		guard.Pop()
		if err != nil {
			return TaskOutcome{}, dgerr.Wrap(dgerr.Io, "create subdirectory", path.String(), err)
		}
	}

	var bytesWritten uint64
	start := uint64(0)

	if p.NumFiles > 0 {
		guard := path.Push(dgnames.FileName(int(p.FileOffset)))
		n, err := p.Content.CreateFile(path, 0, true)
		if err != nil {
			if !os.IsNotExist(err) {
				guard.Pop()
				return TaskOutcome{}, dgerr.Wrap(dgerr.Io, "create file", path.String(), err)
			}
			// The parent directory hasn't committed yet (spec §4.5): pop
			// back to it, create the whole chain, and retry the same file.
			// Content generators cache whatever they sampled on the first,
			// retryable call, so this second call consumes no further PRNG
			// state (spec §4.4).
			guard.Pop()
			if mkErr := os.MkdirAll(path.String(), dirMode); mkErr != nil {
				return TaskOutcome{}, dgerr.Wrap(dgerr.Io, "create missing parent", path.String(), mkErr)
			}
			guard = path.Push(dgnames.FileName(int(p.FileOffset)))
			n, err = p.Content.CreateFile(path, 0, true)
			if err != nil {
				guard.Pop()
				return TaskOutcome{}, dgerr.Wrap(dgerr.Io, "create file", path.String(), err)
			}
		}
		bytesWritten += n
		start = 1
		guard.Pop()
	}

	for i := start; i < p.NumFiles; i++ {
		guard := path.Push(dgnames.FileName(int(i + p.FileOffset)))
		n, err := p.Content.CreateFile(path, int(i), false)
		guard.Pop()
		if err != nil {
			return TaskOutcome{}, dgerr.Wrap(dgerr.Io, "create file", path.String(), err)
		}
		bytesWritten += n
	}

	var byteCounts []uint64
	if bcr, ok := p.Content.(byteCountsReturner); ok {
		byteCounts = bcr.ReturnByteCounts()
	}

	return TaskOutcome{
		FilesGenerated:   p.NumFiles,
		DirsGenerated:    p.NumDirs,
		BytesGenerated:   bytesWritten,
		ReturnPath:       path,
		ReturnByteCounts: byteCounts,
	}, nil
}
