package network

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/paulmach/orb"
)

var ErrLoopStopped = errors.New("network loop stopped")

type command struct {
	fn   func(*Controller)
	done chan struct{}
}

// Loop drives a Controller at a fixed frame rate from a single goroutine.
// Other goroutines mutate the controller only through Do and read the most
// recent Snapshot, which is swapped in whole after every change.
type Loop struct {
	ctrl     *Controller
	interval time.Duration

	cmds    chan command
	stopped chan struct{}
	snap    atomic.Pointer[Snapshot]
	frames  atomic.Uint64
}

func NewLoop(c *Controller, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	l := &Loop{
		ctrl:     c,
		interval: interval,
		cmds:     make(chan command),
		stopped:  make(chan struct{}),
	}
	l.publish()
	return l
}

// Run owns the controller until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-l.cmds:
			cmd.fn(l.ctrl)
			l.publish()
			close(cmd.done)
		case <-ticker.C:
			if !l.ctrl.state.Running {
				continue
			}
			l.ctrl.Tick()
			l.frames.Add(1)
			l.publish()
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func(*Controller)) error {
	cmd := command{fn: fn, done: make(chan struct{})}
	select {
	case l.cmds <- cmd:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the state published after the last frame or command.
func (l *Loop) Snapshot() Snapshot {
	return *l.snap.Load()
}

// Graph is immutable and safe to read from any goroutine.
func (l *Loop) Graph() *Graph { return l.ctrl.graph }

// WideBounds is fixed at construction and safe to read from any goroutine.
func (l *Loop) WideBounds() orb.Bound { return l.ctrl.wide }

// Frames is the number of ticks applied so far.
func (l *Loop) Frames() uint64 { return l.frames.Load() }

func (l *Loop) publish() {
	s := l.ctrl.Snapshot()
	l.snap.Store(&s)
}
