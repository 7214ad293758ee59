// Package network drives the staged reveal of the triangulation network:
// the stage graph, the per-frame clock, and the controller state machine
// that renderers observe through snapshots and events.
package network

import (
	"io"
	"log/slog"

	"github.com/paulmach/orb"

	"sagamino/internal/geodesy"
	"sagamino/internal/survey"
)

type Phase int

const (
	Idle Phase = iota
	Running
	AllComplete
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case AllComplete:
		return "complete"
	default:
		return "idle"
	}
}

// Snapshot is a self-consistent copy of the controller state and the
// geometry derived from it. Slices are owned by the snapshot.
type Snapshot struct {
	AnimationState
	Phase       Phase
	Baseline    orb.LineString // partial baseline at Progress
	Edges       []Edge         // EdgesUpTo(Stage)
	Measurement geodesy.Measurement
}

// DefaultWideBounds is the viewport shown before the widest stage is revealed.
var DefaultWideBounds = orb.Bound{Min: orb.Point{139.1, 35.2}, Max: orb.Point{140.0, 35.7}}

type Option func(*Controller)

func WithSpeed(v float64) Option {
	return func(c *Controller) { c.state.Speed = ClampSpeed(v) }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithWideBounds(b orb.Bound) Option {
	return func(c *Controller) { c.wide = b }
}

// Controller owns the AnimationState. It is not safe for concurrent use:
// a single goroutine must call Start, Tick, Reset and SetSpeed.
type Controller struct {
	graph  *Graph
	geo    geodesy.Adapter
	logger *slog.Logger
	wide   orb.Bound

	state       AnimationState
	baseline    orb.LineString
	baselineKm  float64
	partial     orb.LineString
	measurement geodesy.Measurement

	listeners []func(Event)
}

// NewController creates a controller at stage 0, progress 0, not running.
// A nil adapter selects geodesy.Spherical.
func NewController(reg *survey.Registry, geo geodesy.Adapter, opts ...Option) *Controller {
	if geo == nil {
		geo = geodesy.Spherical{}
	}
	c := &Controller{
		graph:  NewGraph(reg),
		geo:    geo,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		wide:   DefaultWideBounds,
		state:  AnimationState{Speed: DefaultSpeed},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseline = c.graph.Baseline()
	c.baselineKm = geo.LineLength(c.baseline)
	if len(c.baseline) == 2 {
		c.measurement = geodesy.Measure(geo, c.baseline[0], c.baseline[1])
		c.measurement.DistanceKm = c.baselineKm
	}
	c.recompute()
	return c
}

func (c *Controller) Graph() *Graph { return c.graph }

// WideBounds is the viewport requested when stage 2 completes.
func (c *Controller) WideBounds() orb.Bound { return c.wide }

// Viewport is the extent a renderer shows at stage: wide once stage 2 has
// completed, initial before that and after a reset.
func Viewport(stage int, initial, wide orb.Bound) orb.Bound {
	if stage > 2 {
		return wide
	}
	return initial
}

// Measurement is the baseline length and bearing, computed from the registry.
func (c *Controller) Measurement() geodesy.Measurement { return c.measurement }

// OnEvent registers a listener invoked synchronously for every event.
func (c *Controller) OnEvent(fn func(Event)) {
	c.listeners = append(c.listeners, fn)
}

// Start begins animating the current stage. It returns false and changes
// nothing while already running or once every stage is complete.
func (c *Controller) Start() bool {
	if c.state.Running || c.state.Stage >= StageDone {
		return false
	}
	c.state.Running = true
	c.state.Progress = 0
	c.recompute()
	c.logger.Info("stage started", "stage", c.state.Stage, "speed", c.state.Speed)
	c.emit(Started{Snapshot: c.Snapshot()})
	return true
}

// Tick advances one frame and reports whether the stage is still running.
func (c *Controller) Tick() bool {
	if !c.state.Running {
		return false
	}
	c.state = Tick(c.state)
	c.recompute()
	c.emit(ProgressAdvanced{Snapshot: c.Snapshot()})
	if c.state.Progress < 100 {
		return true
	}
	c.completeStage()
	return false
}

func (c *Controller) completeStage() {
	from := c.state.Stage
	c.state.Running = false
	c.emit(StageCompleted{Stage: from, Snapshot: c.Snapshot()})
	if from == 2 {
		c.emit(ViewportRequested{Bounds: c.wide, Snapshot: c.Snapshot()})
	}

	to := from + 1
	c.state.Stage = to
	c.state.Progress = 0
	c.recompute()
	c.logger.Info("stage advanced", "from", from, "to", to)

	var revealed []Edge
	if to < StageDone {
		revealed = c.graph.EdgesForStage(to)
	}
	c.emit(StageAdvanced{From: from, To: to, Revealed: revealed, Snapshot: c.Snapshot()})
	if to >= StageDone {
		c.emit(AnimationCompleted{Snapshot: c.Snapshot()})
	}
}

// Reset returns to stage 0 from any state.
func (c *Controller) Reset() {
	c.state.Stage = 0
	c.state.Progress = 0
	c.state.Running = false
	c.recompute()
	c.logger.Info("network reset")
	c.emit(NetworkReset{Snapshot: c.Snapshot()})
}

// SetSpeed clamps v into [MinSpeed, MaxSpeed] and returns the applied value.
func (c *Controller) SetSpeed(v float64) float64 {
	applied := ClampSpeed(v)
	if applied != v {
		c.logger.Debug("speed clamped", "requested", v, "applied", applied)
	}
	c.state.Speed = applied
	return applied
}

func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		AnimationState: c.state,
		Phase:          Idle,
		Baseline:       append(orb.LineString(nil), c.partial...),
		Edges:          c.graph.EdgesUpTo(c.state.Stage),
		Measurement:    c.measurement,
	}
	switch {
	case c.state.Running:
		s.Phase = Running
	case c.state.Stage >= StageDone:
		s.Phase = AllComplete
	}
	return s
}

// Detail lists the revealed connections of the named point. Unknown names
// return survey.ErrNotFound.
func (c *Controller) Detail(name string) (Detail, error) {
	p, err := c.graph.Registry().Lookup(name)
	if err != nil {
		return Detail{}, err
	}
	return DetailFor(c.graph, c.geo, p, c.state.Stage), nil
}

// recompute derives the partial baseline from the current progress.
func (c *Controller) recompute() {
	if len(c.baseline) == 0 {
		c.partial = nil
		return
	}
	at := c.geo.InterpolateAlong(c.baseline, c.baselineKm*c.state.Progress/100)
	c.partial = orb.LineString{c.baseline[0], at}
}

func (c *Controller) emit(e Event) {
	for _, fn := range c.listeners {
		fn(e)
	}
}
