package lib

import (
	"context"
	"errors"
	"sync/atomic"

	"gitlab.com/TitanInd/netcore/internal/interfaces"
)

// Task runs a function in a separate goroutine that can be started and stopped multiple times
type Task struct {
	runFunc func(ctx context.Context) error
	name    string

	isRunning atomic.Bool
	stopCh    atomic.Value          // chan struct{}
	doneCh    atomic.Value          // chan struct{}
	cancel    atomic.Value          // context.CancelFunc
	err       atomic.Pointer[error] // error returned by the last run
}

// NewTask creates a new task from Runnable
func NewTask(runnable interfaces.Runnable, name string) *Task {
	return NewTaskFunc(runnable.Run, name)
}

// NewTaskFunc creates a new task from a function
func NewTaskFunc(f func(ctx context.Context) error, name string) *Task {
	t := &Task{
		runFunc: f,
		name:    name,
	}
	t.doneCh.Store(make(chan struct{}))
	return t
}

func (s *Task) Start(ctx context.Context) {
	if !s.isRunning.CompareAndSwap(false, true) {
		panic("task " + s.name + " is already running")
	}
	subCtx, cancel := context.WithCancel(ctx)
	s.cancel.Store(cancel)

	stopCh, doneCh := make(chan struct{}), make(chan struct{})
	s.stopCh.Store(stopCh)
	s.doneCh.Store(doneCh)

	go func() {
		err := s.runFunc(subCtx)
		isContextErr := errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)

		// returned due to calling Stop()
		if ctx.Err() == nil && subCtx.Err() != nil && isContextErr {
			close(stopCh)
			return
		}

		// returned due to parent context cancellation or internal error
		s.err.Store(&err)
		s.isRunning.Store(false)
		close(doneCh)
		close(stopCh)
	}()
}

// Stop cancels the task and returns a channel closed when the task function has returned
func (s *Task) Stop() <-chan struct{} {
	if !s.isRunning.CompareAndSwap(true, false) {
		closedChan := make(chan struct{})
		close(closedChan)
		return closedChan
	}
	if c := s.cancel.Load(); c != nil {
		c.(context.CancelFunc)()
	}
	return s.stopCh.Load().(chan struct{})
}

// Done returns a channel that's closed when task exited by itself or its parent context was cancelled.
// It is not closed when Stop is called
func (s *Task) Done() <-chan struct{} {
	return s.doneCh.Load().(chan struct{})
}

// Err returns error that caused the task to exit
func (s *Task) Err() error {
	e := s.err.Load()
	if e == nil {
		return nil
	}
	return *e
}

func (s *Task) IsRunning() bool {
	return s.isRunning.Load()
}
