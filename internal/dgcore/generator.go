package dgcore

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/jdefrancesco/dirgen/internal/dgpath"
	"github.com/jdefrancesco/dirgen/internal/dgrand"
)

// taskResult is what a dispatched task goroutine reports back on its result
// channel.
type taskResult struct {
	outcome TaskOutcome
	err     error
}

// taskHandle is the Go analogue of a joinable task handle: the coordinator
// holds onto these in a FIFO queue and receives from resultCh to collect a
// finished task (spec C7's "task queue").
type taskHandle struct {
	resultCh <-chan taskResult
}

// spawnTask launches params on its own goroutine immediately; the goroutine
// blocks on sem before touching the filesystem, which is what actually
// bounds concurrency to the worker pool size (spec §5's "worker pool of P
// goroutines"), mirroring the teacher's internal/dwalk semaphore-bounded
// walk.
func spawnTask(sem *semaphore.Weighted, params TaskParams) taskHandle {
	ch := make(chan taskResult, 1)
	go func() {
		_ = sem.Acquire(context.Background(), 1)
		// Pin this goroutine to its OS thread and isolate the thread's file
		// descriptor table before any filesystem syscall (spec §5
		// "Per-thread resources"): unshare(2) acts on the thread, not the
		// goroutine, so the pin must happen first and last for the
		// goroutine's lifetime.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		isolateFileDescriptorTable()
		outcome, err := RunTask(params)
		sem.Release(1)
		ch <- taskResult{outcome: outcome, err: err}
	}()
	return taskHandle{resultCh: ch}
}

// QueueResult is what queuing a directory's generation work yields: either a
// dispatched task handle, or nothing to do (in which case the path buffer is
// handed back immediately for the coordinator to recycle). NumFiles and
// NumDirs report what was actually sampled for this directory so the
// scheduler can flow the remaining file-count budget down to whatever
// subdirectories get recursed into (spec §4.7 "File-count flow-down").
type QueueResult struct {
	Handle   *taskHandle
	NumFiles uint64
	NumDirs  uint64
	Done     bool

	ReturnPath *dgpath.PathBuf
}

// TaskGenerator is the C6 variant point: dynamic (non-exact) generation
// resamples independently at every directory, static (exact) generation
// tracks residual file/byte budgets and clamps the final directory so totals
// land exactly on target.
type TaskGenerator interface {
	// QueueGen samples this directory's file and subdirectory counts around
	// filesTarget (the mean handed down from the parent's flow-down
	// arithmetic) and dispatches a task for it, or reports nothing to do.
	QueueGen(filesTarget float64, path *dgpath.PathBuf, genDirs bool) QueueResult
	// MaybeQueueFinalGen is called once the walk's stack has fully drained;
	// the static generator uses it to sweep any residual exact-mode quota
	// into one last task that creates files directly in the root (spec
	// §4.6's "sweep-up task").
	MaybeQueueFinalGen(path *dgpath.PathBuf) QueueResult
}

// DynamicGenerator implements C6's dynamic variant: every directory samples
// its file count around the filesTarget it is handed and its fanout from
// DirsDist, with no budget of its own tracking what previous directories
// created.
type DynamicGenerator struct {
	DirsDist  dgrand.Normal
	BytesDist *dgrand.Normal
	Rng       *dgrand.Rand
	FillByte  *byte
	Sem       *semaphore.Weighted
}

func (g *DynamicGenerator) QueueGen(filesTarget float64, path *dgpath.PathBuf, genDirs bool) QueueResult {
	numFiles := dgrand.Truncatable(filesTarget).Sample(g.Rng)
	numDirs := dgrand.DirsToGen(numFiles, genDirs, g.DirsDist, g.Rng)

	if numFiles == 0 && numDirs == 0 {
		return QueueResult{ReturnPath: path}
	}

	content := g.content(numFiles)
	handle := spawnTask(g.Sem, TaskParams{Path: path, NumFiles: numFiles, NumDirs: numDirs, Content: content})
	return QueueResult{Handle: &handle, NumFiles: numFiles, NumDirs: numDirs}
}

// MaybeQueueFinalGen is a no-op for the dynamic generator: there is no exact
// target to reconcile, so the path buffer is simply returned to the pool.
func (g *DynamicGenerator) MaybeQueueFinalGen(path *dgpath.PathBuf) QueueResult {
	return QueueResult{ReturnPath: path}
}

func (g *DynamicGenerator) content(numFiles uint64) ContentGenerator {
	if numFiles == 0 || g.BytesDist == nil {
		return NoneContent{}
	}
	return &OnTheFly{Dist: *g.BytesDist, Rng: dgrand.New(g.Rng.NextSeed()), FillByte: g.FillByte}
}

// StaticGenerator implements C6's static (exact-mode) variant: it tracks how
// many files and bytes are still owed against the user's exact target and
// clamps generation once the budget is spent (spec §4.6).
type StaticGenerator struct {
	DirsDist  dgrand.Normal
	BytesDist *dgrand.Normal
	Rng       *dgrand.Rand
	FillByte  *byte
	Sem       *semaphore.Weighted
	Pool      *byteCountsPool

	FilesExact bool
	BytesExact bool

	filesRemaining uint64
	bytesRemaining uint64
	done           bool
	// rootOffset is the file-name offset the sweep-up task uses so its names
	// never collide with files already created at the root (spec §4.6).
	rootOffset    uint64
	rootOffsetSet bool
}

// NewStaticGenerator seeds a StaticGenerator's residual counters from the
// planned configuration's exact targets.
func NewStaticGenerator(dirsDist dgrand.Normal, bytesDist *dgrand.Normal, rng *dgrand.Rand, fillByte *byte, sem *semaphore.Weighted, pool *byteCountsPool, filesExact bool, filesTarget uint64, bytesExact bool, bytesTarget uint64) *StaticGenerator {
	return &StaticGenerator{
		DirsDist:       dirsDist,
		BytesDist:      bytesDist,
		Rng:            rng,
		FillByte:       fillByte,
		Sem:            sem,
		Pool:           pool,
		FilesExact:     filesExact,
		BytesExact:     bytesExact,
		filesRemaining: filesTarget,
		bytesRemaining: bytesTarget,
	}
}

func (g *StaticGenerator) QueueGen(filesTarget float64, path *dgpath.PathBuf, genDirs bool) QueueResult {
	numFiles := dgrand.Truncatable(filesTarget).Sample(g.Rng)
	if g.FilesExact {
		if numFiles >= g.filesRemaining {
			numFiles = g.filesRemaining
			g.filesRemaining = 0
			g.done = true
		} else {
			g.filesRemaining -= numFiles
		}
	}
	if !g.rootOffsetSet {
		g.rootOffset = numFiles
		g.rootOffsetSet = true
	}

	numDirs := dgrand.DirsToGen(numFiles, genDirs && !g.done, g.DirsDist, g.Rng)
	return g.queue(path, numFiles, numDirs, 0)
}

func (g *StaticGenerator) queue(path *dgpath.PathBuf, numFiles, numDirs, offset uint64) QueueResult {
	if numFiles == 0 && numDirs == 0 {
		return QueueResult{ReturnPath: path, Done: g.done}
	}

	content := g.content(numFiles)
	handle := spawnTask(g.Sem, TaskParams{Path: path, NumFiles: numFiles, NumDirs: numDirs, FileOffset: offset, Content: content})
	return QueueResult{Handle: &handle, NumFiles: numFiles, NumDirs: numDirs, Done: g.done}
}

func (g *StaticGenerator) content(numFiles uint64) ContentGenerator {
	if numFiles == 0 || g.BytesDist == nil {
		return NoneContent{}
	}
	if !g.BytesExact {
		return &OnTheFly{Dist: *g.BytesDist, Rng: dgrand.New(g.Rng.NextSeed()), FillByte: g.FillByte}
	}
	if g.bytesRemaining == 0 {
		return NoneContent{}
	}

	counts := g.Pool.Get()
	for i := uint64(0); i < numFiles; i++ {
		n := g.BytesDist.Sample(g.Rng)
		if n > g.bytesRemaining {
			n = g.bytesRemaining
		}
		g.bytesRemaining -= n
		counts = append(counts, n)
	}
	if g.done && g.bytesRemaining > 0 {
		// This is the terminal directory for files (spec §4.6): spread any
		// bytes still owed across the files just allocated instead of
		// dropping them, so exact-bytes mode stays exact even when the file
		// budget runs out first.
		base := g.bytesRemaining / numFiles
		leftover := g.bytesRemaining % numFiles
		for i := range counts {
			counts[i] += base
			if leftover > 0 {
				counts[i]++
				leftover--
			}
		}
		g.bytesRemaining = 0
	}
	return &PreDefined{ByteCounts: counts, Rng: dgrand.New(g.Rng.NextSeed()), FillByte: g.FillByte}
}

// MaybeQueueFinalGen sweeps up whatever exact-mode quota the walk's natural
// descent never got around to spending (spec §4.6): any files still owed are
// created directly at the root, named past whatever the root already
// created; failing that, any bytes still owed ride along in a single file
// created at the root.
func (g *StaticGenerator) MaybeQueueFinalGen(path *dgpath.PathBuf) QueueResult {
	if g.done {
		return QueueResult{ReturnPath: path}
	}
	g.done = true

	if g.FilesExact && g.filesRemaining > 0 {
		n := g.filesRemaining
		g.filesRemaining = 0
		return g.queue(path, n, 0, g.rootOffset)
	}
	if g.BytesExact && g.bytesRemaining > 0 {
		return g.queue(path, 1, 0, g.rootOffset)
	}
	return QueueResult{ReturnPath: path}
}
