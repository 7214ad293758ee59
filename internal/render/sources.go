// Package render projects controller state onto named geometry sources,
// markers and a viewport, the way a map renderer consumes them.
package render

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const (
	BaselineSource            = "baseline-source"
	MeasuredBaselineSource    = "measured-baseline-source"
	TriangulationSource       = "triangulation-source"
	SecondTriangulationSource = "second-triangulation-source"
	FinalTriangulationSource  = "final-triangulation-source"
)

// SourceIDs lists every source in draw order.
var SourceIDs = []string{
	MeasuredBaselineSource,
	TriangulationSource,
	SecondTriangulationSource,
	FinalTriangulationSource,
	BaselineSource,
}

var ErrNoSource = errors.New("source not registered")

// SourceForStage names the source that holds a stage's edges. Stages 3 and
// 4 share the final source.
func SourceForStage(stage int) string {
	switch stage {
	case 0:
		return MeasuredBaselineSource
	case 1:
		return TriangulationSource
	case 2:
		return SecondTriangulationSource
	default:
		return FinalTriangulationSource
	}
}

// StageColors are the marker and line colors per stage.
var StageColors = [...]string{"#FF0000", "#0000FF", "#00FF00", "#FFA500", "#FFA500"}

func StageColor(stage int) string {
	if stage < 0 || stage >= len(StageColors) {
		return StageColors[len(StageColors)-1]
	}
	return StageColors[stage]
}

// SourceColor is the line color of a source.
func SourceColor(id string) string {
	switch id {
	case BaselineSource, MeasuredBaselineSource:
		return StageColors[0]
	case TriangulationSource:
		return StageColors[1]
	case SecondTriangulationSource:
		return StageColors[2]
	default:
		return StageColors[3]
	}
}

type Marker struct {
	Name        string
	Coordinates orb.Point
	Stage       int
	Color       string
	Text        string
}

// Projector is the rendering side of the animation. SetData replaces the
// whole payload of a source.
type Projector interface {
	HasSource(id string) bool
	SetData(id string, fc *geojson.FeatureCollection) error
	PlaceMarker(m Marker)
	FitBounds(b orb.Bound)
}

// Sources is an in-memory Projector. It is not safe for concurrent use.
type Sources struct {
	data     map[string]*geojson.FeatureCollection
	raw      map[string][]byte
	versions map[string]int

	markers map[string]Marker
	order   []string

	bounds    orb.Bound
	hasBounds bool
}

var _ Projector = (*Sources)(nil)

func NewSources() *Sources {
	return &Sources{
		data:     map[string]*geojson.FeatureCollection{},
		raw:      map[string][]byte{},
		versions: map[string]int{},
		markers:  map[string]Marker{},
	}
}

// AddSource registers an empty source.
func (s *Sources) AddSource(id string) {
	if _, ok := s.data[id]; ok {
		return
	}
	s.data[id] = geojson.NewFeatureCollection()
}

// AddAll registers every source in SourceIDs.
func (s *Sources) AddAll() *Sources {
	for _, id := range SourceIDs {
		s.AddSource(id)
	}
	return s
}

func (s *Sources) HasSource(id string) bool {
	_, ok := s.data[id]
	return ok
}

// SetData replaces the payload of id. Pushing a payload identical to the
// current one leaves the version untouched.
func (s *Sources) SetData(id string, fc *geojson.FeatureCollection) error {
	if !s.HasSource(id) {
		return fmt.Errorf("%s: %w", id, ErrNoSource)
	}
	if fc == nil {
		fc = geojson.NewFeatureCollection()
	}
	raw, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("%s: %w", id, err)
	}
	if bytes.Equal(raw, s.raw[id]) {
		return nil
	}
	s.data[id] = fc
	s.raw[id] = raw
	s.versions[id]++
	return nil
}

func (s *Sources) Data(id string) *geojson.FeatureCollection { return s.data[id] }

// Version counts the payload changes of id.
func (s *Sources) Version(id string) int { return s.versions[id] }

// Lines returns every line of a source's payload.
func (s *Sources) Lines(id string) []orb.LineString {
	fc := s.data[id]
	if fc == nil {
		return nil
	}
	var out []orb.LineString
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			out = append(out, g)
		case orb.MultiLineString:
			out = append(out, g...)
		}
	}
	return out
}

// PlaceMarker adds or replaces the marker with the same name.
func (s *Sources) PlaceMarker(m Marker) {
	if _, ok := s.markers[m.Name]; !ok {
		s.order = append(s.order, m.Name)
	}
	s.markers[m.Name] = m
}

// Markers returns markers in placement order.
func (s *Sources) Markers() []Marker {
	out := make([]Marker, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.markers[name])
	}
	return out
}

func (s *Sources) Marker(name string) (Marker, bool) {
	m, ok := s.markers[name]
	return m, ok
}

func (s *Sources) FitBounds(b orb.Bound) {
	s.bounds = b
	s.hasBounds = true
}

// Bounds returns the last requested viewport.
func (s *Sources) Bounds() (orb.Bound, bool) { return s.bounds, s.hasBounds }

// Collection merges every source and marker into one FeatureCollection.
// Each feature gets a "source" property; markers are Point features. The
// last requested viewport becomes the collection's bbox.
func (s *Sources) Collection() *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	if s.hasBounds {
		out.BBox = geojson.NewBBox(s.bounds)
	}
	for _, id := range SourceIDs {
		fc := s.data[id]
		if fc == nil {
			continue
		}
		for _, f := range fc.Features {
			cp := geojson.NewFeature(f.Geometry)
			for k, v := range f.Properties {
				cp.Properties[k] = v
			}
			cp.Properties["source"] = id
			out.Append(cp)
		}
	}
	for _, m := range s.Markers() {
		f := geojson.NewFeature(m.Coordinates)
		f.Properties["source"] = "markers"
		f.Properties["name"] = m.Name
		f.Properties["stage"] = m.Stage
		f.Properties["marker-color"] = m.Color
		f.Properties["description"] = m.Text
		out.Append(f)
	}
	return out
}
