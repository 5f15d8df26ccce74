package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrStopped is returned for work posted after the loop stopped.
var ErrStopped = errors.New("daemon loop stopped")

// Loop runs every core mutation on one goroutine. X callbacks, IPC
// requests, key presses and reloads all go through it.
type Loop struct {
	ops  chan func()
	done chan struct{}
	log  *slog.Logger
}

// NewLoop creates a loop. Nothing runs until Run is called.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		ops:  make(chan func(), 64),
		done: make(chan struct{}),
		log:  logger,
	}
}

// Run executes posted work until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.ops:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	// A panicking handler must not take the window manager down.
	defer func() {
		if err := recover(); err != nil {
			l.log.Error("loop panic recovered", "error", err)
		}
	}()
	fn()
}

// Post queues fn without waiting for it. It reports false once the loop
// has stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	case l.ops <- fn:
		return true
	}
}

// Do runs fn on the loop and waits for its result. It must not be called
// from the loop goroutine itself.
func (l *Loop) Do(fn func() error) error {
	result := make(chan error, 1)
	ok := l.Post(func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
			result <- err
		}()
		err = fn()
	})
	if !ok {
		return ErrStopped
	}
	select {
	case err := <-result:
		return err
	case <-l.done:
		// The op may have run just before the loop stopped.
		select {
		case err := <-result:
			return err
		default:
			return ErrStopped
		}
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} { return l.done }
