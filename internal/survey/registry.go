package survey

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// StageCount is the number of triangulation stages, baseline included.
const StageCount = 5

var (
	ErrNotFound      = errors.New("survey point not found")
	ErrDuplicateName = errors.New("duplicate survey point name")
	ErrInvalidStage  = errors.New("invalid stage")
	ErrEmptyStage    = errors.New("stage has no points")
)

// Point is a named triangulation control point.
type Point struct {
	Name        string
	Coordinates orb.Point // lon, lat
	Elevation   float64   // meters
	Stage       int
	Label       string
}

// Registry is a read-only catalogue of survey points grouped by stage.
type Registry struct {
	stages [StageCount][]Point
	byName map[string]Point
}

// NewRegistry validates points and groups them by stage, keeping input order
// within each stage.
func NewRegistry(points []Point) (*Registry, error) {
	r := &Registry{byName: make(map[string]Point, len(points))}
	for _, p := range points {
		if p.Stage < 0 || p.Stage >= StageCount {
			return nil, fmt.Errorf("%s: stage %d: %w", p.Name, p.Stage, ErrInvalidStage)
		}
		if _, dup := r.byName[p.Name]; dup {
			return nil, fmt.Errorf("%q: %w", p.Name, ErrDuplicateName)
		}
		r.byName[p.Name] = p
		r.stages[p.Stage] = append(r.stages[p.Stage], p)
	}
	for s, pts := range r.stages {
		if len(pts) == 0 {
			return nil, fmt.Errorf("stage %d: %w", s, ErrEmptyStage)
		}
	}
	return r, nil
}

// PointsForStage returns the points first introduced at stage, or nil when
// the stage is out of range.
func (r *Registry) PointsForStage(stage int) []Point {
	if stage < 0 || stage >= StageCount {
		return nil
	}
	out := make([]Point, len(r.stages[stage]))
	copy(out, r.stages[stage])
	return out
}

func (r *Registry) AllPoints() []Point {
	out := make([]Point, 0, len(r.byName))
	for _, pts := range r.stages {
		out = append(out, pts...)
	}
	return out
}

func (r *Registry) Lookup(name string) (Point, error) {
	p, ok := r.byName[name]
	if !ok {
		return Point{}, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return p, nil
}

// Bound returns the bounding box of every point in the registry.
func (r *Registry) Bound() orb.Bound {
	var mp orb.MultiPoint
	for _, p := range r.AllPoints() {
		mp = append(mp, p.Coordinates)
	}
	return mp.Bound()
}
