package network

import "github.com/paulmach/orb"

// Event is a notification raised by the Controller. Every event carries the
// snapshot taken after the change it reports.
type Event interface {
	State() Snapshot
}

type Started struct{ Snapshot Snapshot }

// ProgressAdvanced is raised once per frame after the partial baseline has
// been recomputed.
type ProgressAdvanced struct{ Snapshot Snapshot }

// StageCompleted is raised when progress reaches 100 for Stage.
type StageCompleted struct {
	Stage    int
	Snapshot Snapshot
}

// ViewportRequested asks the renderer to show Bounds. The controller never
// moves the viewport itself.
type ViewportRequested struct {
	Bounds   orb.Bound
	Snapshot Snapshot
}

// StageAdvanced reports the move to stage To and the edges it revealed.
type StageAdvanced struct {
	From, To int
	Revealed []Edge
	Snapshot Snapshot
}

type AnimationCompleted struct{ Snapshot Snapshot }

type NetworkReset struct{ Snapshot Snapshot }

func (e Started) State() Snapshot            { return e.Snapshot }
func (e ProgressAdvanced) State() Snapshot   { return e.Snapshot }
func (e StageCompleted) State() Snapshot     { return e.Snapshot }
func (e ViewportRequested) State() Snapshot  { return e.Snapshot }
func (e StageAdvanced) State() Snapshot      { return e.Snapshot }
func (e AnimationCompleted) State() Snapshot { return e.Snapshot }
func (e NetworkReset) State() Snapshot       { return e.Snapshot }
