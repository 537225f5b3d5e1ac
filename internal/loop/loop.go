// Package loop runs every window manager state transition on one goroutine.
package loop

import (
	"context"
	"errors"
	"log/slog"
)

var ErrClosed = errors.New("loop closed")

type Loop struct {
	postC chan func()
	doneC chan struct{}
	idle  []func()
}

func New() *Loop {
	return &Loop{
		postC: make(chan func(), 64),
		doneC: make(chan struct{}),
	}
}

func (*Loop) String() string {
	return "loop.Loop"
}

// Post queues fn to run on the loop goroutine.
func (l *Loop) Post(fn func()) error {
	if l.closed() {
		return ErrClosed
	}

	select {
	case <-l.doneC:
		return ErrClosed
	case l.postC <- fn:
		return nil
	}
}

// Call runs fn on the loop goroutine and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	errC := make(chan error, 1)
	post := func() { errC <- fn() }

	if l.closed() {
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.doneC:
		return ErrClosed
	case l.postC <- post:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.doneC:
		return ErrClosed
	case err := <-errC:
		return err
	}
}

// InsertIdle queues fn to run once the current batch of posted work is done.
// It must only be called from the loop goroutine.
func (l *Loop) InsertIdle(fn func()) {
	l.idle = append(l.idle, fn)
}

// Dispatch runs idle callbacks until none are left, including ones queued by them.
func (l *Loop) Dispatch() {
	for len(l.idle) > 0 {
		idle := l.idle
		l.idle = nil
		for _, fn := range idle {
			fn()
		}
	}
}

func (l *Loop) Serve(ctx context.Context) error {
	slog := slog.With("func", "loop.Loop.Serve")
	slog.Debug("Started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.postC:
			fn()
			l.drain()
			l.Dispatch()
		}
	}
}

// Close stops accepting work. Pending Call invocations return ErrClosed.
func (l *Loop) Close() {
	select {
	case <-l.doneC:
	default:
		close(l.doneC)
	}
}

func (l *Loop) closed() bool {
	select {
	case <-l.doneC:
		return true
	default:
		return false
	}
}

func (l *Loop) drain() {
	for {
		select {
		case fn := <-l.postC:
			fn()
		default:
			return
		}
	}
}
