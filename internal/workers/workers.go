package workers

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
	"gitlab.com/TitanInd/netcore/internal/lib"
	"gitlab.com/TitanInd/netcore/internal/mining"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Workers run the solver on the current job in several threads. Only one job is mined at a time,
// results found for a replaced job are dropped
type Workers struct {
	threads  int
	solver   mining.Solver
	listener mining.JobResultListener

	job    mining.Job
	donate bool
	hasJob bool
	paused bool
	ctx    context.Context // set while Run is active
	task   *lib.Task
	mu     sync.Mutex

	sequence *atomic.Uint64 // incremented on every job change or pause
	found    *atomic.Uint64
	dropped  *atomic.Uint64

	log interfaces.ILogger
}

// NewWorkers creates workers with given number of threads, non-positive value means one thread per CPU
func NewWorkers(threads int, solver mining.Solver, log interfaces.ILogger) *Workers {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	return &Workers{
		threads:  threads,
		solver:   solver,
		sequence: atomic.NewUint64(0),
		found:    atomic.NewUint64(0),
		dropped:  atomic.NewUint64(0),
		log:      log,
	}
}

// SetListener should be called before Run
func (w *Workers) SetListener(listener mining.JobResultListener) {
	w.listener = listener
}

// Run keeps mining the current job until ctx is cancelled
func (w *Workers) Run(ctx context.Context) error {
	w.mu.Lock()
	w.ctx = ctx
	if w.hasJob && !w.paused {
		w.restart(w.sequence.Load())
	}
	w.mu.Unlock()

	w.log.Infof("workers started, threads %d", w.threads)
	<-ctx.Done()

	w.mu.Lock()
	w.stopTask()
	w.ctx = nil
	w.mu.Unlock()

	w.log.Infof("workers stopped")
	return ctx.Err()
}

func (w *Workers) SetJob(job mining.Job, donate bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.job = job.Copy()
	w.donate = donate
	w.hasJob = true
	w.paused = false

	seq := w.sequence.Inc()
	w.log.Debugf("new job %s diff %d donate %t", job.ID, job.Diff, donate)
	w.restart(seq)
}

func (w *Workers) Pause() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.paused {
		return
	}
	w.paused = true
	w.sequence.Inc()
	w.stopTask()
	w.log.Debugf("paused")
}

func (w *Workers) IsPaused() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paused || !w.hasJob
}

// Job returns the job being mined and whether it came from donate
func (w *Workers) Job() (mining.Job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.job, w.donate
}

func (w *Workers) Threads() int {
	return w.threads
}

// Found returns number of results handed to the listener
func (w *Workers) Found() uint64 {
	return w.found.Load()
}

// Dropped returns number of results that arrived after their job was replaced
func (w *Workers) Dropped() uint64 {
	return w.dropped.Load()
}

// restart is called with mu held
func (w *Workers) restart(seq uint64) {
	w.stopTask()
	if w.ctx == nil {
		return
	}

	w.task = lib.NewTaskFunc(w.mine(w.job, seq), "job "+w.job.ID)
	w.task.Start(w.ctx)
}

// stopTask is called with mu held, solver callbacks never take it
func (w *Workers) stopTask() {
	if w.task == nil {
		return
	}
	<-w.task.Stop()
	w.task = nil
}

func (w *Workers) mine(job mining.Job, seq uint64) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)

		for i := 0; i < w.threads; i++ {
			nonce := uint32(i)
			g.Go(func() error {
				return w.solver.Solve(ctx, job, nonce, uint32(w.threads), func(result mining.JobResult) {
					w.onFound(job, seq, result)
				})
			})
		}

		err := g.Wait()
		if err != nil && !errors.Is(err, context.Canceled) {
			w.log.Errorf("solver failed on job %s: %s", job.ID, err)
		}
		return err
	}
}

func (w *Workers) onFound(job mining.Job, seq uint64, result mining.JobResult) {
	if w.sequence.Load() != seq {
		w.dropped.Inc()
		return
	}

	result.PoolID = job.PoolID
	result.JobID = job.ID
	w.found.Inc()
	w.listener.OnJobResult(result)
}
