package network

import (
	"github.com/paulmach/orb"

	"sagamino/internal/survey"
)

// Edge is a measured line between two survey points. From belongs to the
// earlier stage, To to Stage.
type Edge struct {
	Stage int
	From  survey.Point
	To    survey.Point
}

// Key identifies the unordered pair of endpoint names.
func (e Edge) Key() [2]string {
	if e.From.Name < e.To.Name {
		return [2]string{e.From.Name, e.To.Name}
	}
	return [2]string{e.To.Name, e.From.Name}
}

func (e Edge) LineString() orb.LineString {
	return orb.LineString{e.From.Coordinates, e.To.Coordinates}
}

// Graph holds the edges introduced at each stage. It is immutable after
// NewGraph returns.
type Graph struct {
	reg    *survey.Registry
	stages [survey.StageCount][]Edge
}

// NewGraph builds every stage's edges from the registry. Stage 0 joins the
// two baseline points; each later stage joins every point of the previous
// stage to every new point, so the terminal stage only reaches stage 3.
func NewGraph(reg *survey.Registry) *Graph {
	g := &Graph{reg: reg}
	base := reg.PointsForStage(0)
	for i := 0; i < len(base); i++ {
		for j := i + 1; j < len(base); j++ {
			g.stages[0] = append(g.stages[0], Edge{Stage: 0, From: base[i], To: base[j]})
		}
	}
	for s := 1; s < survey.StageCount; s++ {
		prev := reg.PointsForStage(s - 1)
		cur := reg.PointsForStage(s)
		for _, p := range prev {
			for _, c := range cur {
				g.stages[s] = append(g.stages[s], Edge{Stage: s, From: p, To: c})
			}
		}
	}
	return g
}

func (g *Graph) Registry() *survey.Registry { return g.reg }

// EdgesForStage returns the edges first introduced at stage.
func (g *Graph) EdgesForStage(stage int) []Edge {
	stage = clampStage(stage)
	out := make([]Edge, len(g.stages[stage]))
	copy(out, g.stages[stage])
	return out
}

// EdgesUpTo returns the cumulative edge set of stages 0..stage in stage
// order. Stages past the last clamp to the full network.
func (g *Graph) EdgesUpTo(stage int) []Edge {
	stage = clampStage(stage)
	var n int
	for s := 0; s <= stage; s++ {
		n += len(g.stages[s])
	}
	out := make([]Edge, 0, n)
	for s := 0; s <= stage; s++ {
		out = append(out, g.stages[s]...)
	}
	return out
}

// Baseline returns the stage 0 segment.
func (g *Graph) Baseline() orb.LineString {
	if len(g.stages[0]) == 0 {
		return nil
	}
	return g.stages[0][0].LineString()
}

func clampStage(stage int) int {
	if stage < 0 {
		return 0
	}
	if stage >= survey.StageCount {
		return survey.StageCount - 1
	}
	return stage
}
