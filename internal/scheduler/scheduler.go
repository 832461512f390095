// Package scheduler runs the periodic simulation tasks. Each task owns a
// goroutine and a time.Ticker; stopping a task waits for a call in flight.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rxtech-lab/market-sim/internal/logger"
	"github.com/rxtech-lab/market-sim/pkg/errors"
)

// Handle controls one periodic task.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Every calls fn every interval until ctx is cancelled or the handle is stopped.
// The first call happens one interval after Every returns.
func Every(ctx context.Context, interval time.Duration, fn func(ctx context.Context)) (*Handle, error) {
	if interval <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "interval must be positive, got %s", interval)
	}

	if fn == nil {
		return nil, errors.New(errors.ErrCodeMissingParameter, "task function is required")
	}

	taskCtx, cancel := context.WithCancel(ctx)
	h := &Handle{cancel: cancel, done: make(chan struct{}), once: sync.Once{}}

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-taskCtx.Done():
				return
			case <-ticker.C:
				// a stop racing with the tick wins
				if taskCtx.Err() != nil {
					return
				}

				fn(taskCtx)
			}
		}
	}()

	return h, nil
}

// Stop cancels the task and waits until its goroutine has exited. After Stop
// returns fn is never called again. Stop is safe to call more than once but
// must not be called from inside fn.
func (h *Handle) Stop() {
	h.once.Do(h.cancel)
	<-h.done
}

// Done is closed once the task goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Scheduler keeps named periodic tasks.
type Scheduler struct {
	mu     sync.Mutex
	ctx    context.Context
	tasks  map[string]*Handle
	closed bool
	log    *logger.Logger
}

// New creates a Scheduler whose tasks are bound to ctx.
func New(ctx context.Context, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Scheduler{
		mu:     sync.Mutex{},
		ctx:    ctx,
		tasks:  make(map[string]*Handle),
		closed: false,
		log:    log,
	}
}

// Schedule starts fn under name, replacing and stopping any task already
// registered with that name.
func (s *Scheduler) Schedule(name string, interval time.Duration, fn func(ctx context.Context)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.Newf(errors.ErrCodeSchedulerShutdown, "scheduler is stopped, cannot schedule %q", name)
	}

	h, err := Every(s.ctx, interval, fn)
	if err != nil {
		return errors.Wrapf(errors.GetCode(err), err, "failed to schedule %q", name)
	}

	if old, ok := s.tasks[name]; ok {
		old.Stop()
		s.log.Debug("Replaced task", zap.String("task", name))
	}

	s.tasks[name] = h
	s.log.Debug("Scheduled task", zap.String("task", name), zap.Duration("interval", interval))

	return nil
}

// Cancel stops the named task. It reports whether the task existed.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	h, ok := s.tasks[name]
	delete(s.tasks, name)
	s.mu.Unlock()

	if ok {
		h.Stop()
		s.log.Debug("Cancelled task", zap.String("task", name))
	}

	return ok
}

// Names returns the running task names in sorted order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tasks))
	for name := range s.tasks {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// StopAll stops every task and refuses new ones.
func (s *Scheduler) StopAll() {
	s.mu.Lock()
	tasks := s.tasks
	s.tasks = make(map[string]*Handle)
	s.closed = true
	s.mu.Unlock()

	for _, h := range tasks {
		h.Stop()
	}

	s.log.Debug("Stopped all tasks", zap.Int("count", len(tasks)))
}
