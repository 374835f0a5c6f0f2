package dgcore

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"

	"github.com/jdefrancesco/dirgen/internal/dgconfig"
	"github.com/jdefrancesco/dirgen/internal/dgnames"
	"github.com/jdefrancesco/dirgen/internal/dgpath"
	"github.com/jdefrancesco/dirgen/internal/dgrand"
)

// taskQueue is a FIFO of in-flight task handles, the Go analogue of the
// reference scheduler's VecDeque<JoinHandle> (spec C7's "task queue"). It
// compacts its backing array once the consumed head grows large instead of
// reslicing on every pop.
type taskQueue struct {
	items []taskHandle
	head  int
}

func (q *taskQueue) push(h taskHandle) { q.items = append(q.items, h) }

func (q *taskQueue) len() int { return len(q.items) - q.head }

func (q *taskQueue) pop() (taskHandle, bool) {
	if q.head >= len(q.items) {
		return taskHandle{}, false
	}
	h := q.items[q.head]
	q.head++
	if q.head > 256 && q.head*2 > len(q.items) {
		q.items = append(q.items[:0], q.items[q.head:]...)
		q.head = 0
	}
	return h, true
}

// stackFrame tracks one not-yet-exhausted directory level of the iterative,
// non-recursive depth-first walk (spec C7): total is the subdirectory
// fanout sampled for the directory this frame belongs to, next is how many
// of those children have been visited so far, depth is the depth of those
// children (0 == root's own depth, so a frame's children sit at depth ==
// parent depth + 1), and filesTarget is the per-child file-count mean
// flowed down from the parent (spec §4.7 "File-count flow-down": each
// child's target is (parent target - files the parent created directly) /
// number of children, so the running total stays aligned with N instead of
// every directory independently aiming for the same mean).
type stackFrame struct {
	total       uint64
	next        uint64
	depth       uint32
	filesTarget float64
}

// flowDown computes the mean each of numChildren subdirectories should
// target, given the parent aimed for parentTarget files and created
// createdHere of them directly.
func flowDown(parentTarget float64, createdHere, numChildren uint64) float64 {
	remaining := parentTarget - float64(createdHere)
	if remaining < 0 {
		remaining = 0
	}
	return remaining / float64(numChildren)
}

// Scheduler is the coordinator (spec C7): it owns the iterative walk, the
// object pools, the worker-pool semaphore and the soft-capped task queue.
type Scheduler struct {
	cfg dgconfig.Configuration

	parallelism  int
	queueCapHint int
}

// NewScheduler builds a Scheduler for cfg. parallelism <= 0 defaults to
// runtime.GOMAXPROCS(0), mirroring the teacher's internal/dwalk sizing its
// semaphore off hardware parallelism (spec §5's "worker pool of P").
func NewScheduler(cfg dgconfig.Configuration, parallelism int) *Scheduler {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	return &Scheduler{cfg: cfg, parallelism: parallelism, queueCapHint: parallelism * 4}
}

// Generate runs the walk to completion and returns the aggregate stats. On
// error, already-dispatched tasks are drained and their results folded in
// (successes counted, failures discarded) before the first error is
// returned, so finished work is never silently lost (spec §7: "fatal to the
// run but not to the process").
func (s *Scheduler) Generate(ctx context.Context) (Stats, error) {
	cfg := s.cfg
	master := dgrand.New(cfg.Seed)
	sem := semaphore.NewWeighted(int64(s.parallelism))

	var bcPool byteCountsPool
	paths := newPathPool()

	gen := s.newGenerator(cfg, master, sem, &bcPool)

	var stats Stats
	var firstErr error
	var tasks taskQueue

	drain := func(n int) {
		for i := 0; i < n; i++ {
			h, ok := tasks.pop()
			if !ok {
				return
			}
			res := <-h.resultCh
			if res.err != nil {
				if firstErr == nil {
					firstErr = res.err
				}
				continue
			}
			stats.FilesGenerated += res.outcome.FilesGenerated
			stats.DirsGenerated += res.outcome.DirsGenerated
			stats.BytesGenerated += res.outcome.BytesGenerated
			paths.Put(res.outcome.ReturnPath)
			bcPool.Put(res.outcome.ReturnByteCounts)
		}
	}

	maybeFlush := func() {
		if tasks.len() < s.queueCapHint {
			return
		}
		drain(tasks.len() / 2)
	}

	enqueue := func(res QueueResult) {
		if res.Handle != nil {
			tasks.push(*res.Handle)
			maybeFlush()
			return
		}
		paths.Put(res.ReturnPath)
	}

	cursor := dgpath.New(cfg.RootDir)

	rootRes := gen.QueueGen(float64(cfg.Files), paths.GetCopy(cursor), cfg.MaxDepth > 0)
	enqueue(rootRes)

	var stack []*stackFrame
	if rootRes.NumDirs > 0 && firstErr == nil {
		stack = append(stack, &stackFrame{
			total:       rootRes.NumDirs,
			depth:       1,
			filesTarget: flowDown(float64(cfg.Files), rootRes.NumFiles, rootRes.NumDirs),
		})
	}

walk:
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			firstErr = ctx.Err()
			break walk
		default:
		}

		top := stack[len(stack)-1]
		if top.next >= top.total {
			stack = stack[:len(stack)-1]
			cursor.Pop()
			continue
		}

		idx := top.next
		top.next++
		depth := top.depth
		filesTarget := top.filesTarget

		cursor.Push(dgnames.DirName(int(idx)))
		clone := paths.GetCopy(cursor)

		genDirs := depth < cfg.MaxDepth
		res := gen.QueueGen(filesTarget, clone, genDirs)
		enqueue(res)

		if res.Done {
			// Spec §4.7: "If the generator reports done=true, break out of
			// generation entirely" — the exact-mode budget is spent, so
			// there is nothing left for any remaining frame (this one's
			// siblings, or any ancestor's) to do.
			cursor.Pop()
			break walk
		}

		if res.NumDirs > 0 && firstErr == nil {
			stack = append(stack, &stackFrame{
				total:       res.NumDirs,
				depth:       depth + 1,
				filesTarget: flowDown(filesTarget, res.NumFiles, res.NumDirs),
			})
		} else {
			cursor.Pop()
		}

		if firstErr != nil {
			break walk
		}
	}

	if firstErr == nil {
		// The walk may have broken early on res.Done while still nested
		// several directories deep; the sweep-up task belongs at the root
		// regardless (spec §4.6), so reset the cursor there explicitly
		// rather than relying on the stack having drained naturally.
		cursor.Reset(cfg.RootDir)
		finalRes := gen.MaybeQueueFinalGen(paths.GetCopy(cursor))
		enqueue(finalRes)
	}

	drain(tasks.len())

	return stats, firstErr
}

func (s *Scheduler) newGenerator(cfg dgconfig.Configuration, master *dgrand.Rand, sem *semaphore.Weighted, bcPool *byteCountsPool) TaskGenerator {
	dirsDist := dgrand.Truncatable(cfg.DirsPerDir)

	var bytesDist *dgrand.Normal
	if cfg.Bytes > 0 {
		d := dgrand.Truncatable(cfg.BytesPerFile)
		bytesDist = &d
	}

	if !cfg.FilesExact && !cfg.BytesExact {
		return &DynamicGenerator{
			DirsDist:  dirsDist,
			BytesDist: bytesDist,
			Rng:       master,
			FillByte:  cfg.FillByte,
			Sem:       sem,
		}
	}

	return NewStaticGenerator(dirsDist, bytesDist, master, cfg.FillByte, sem, bcPool, cfg.FilesExact, cfg.Files, cfg.BytesExact, cfg.Bytes)
}
