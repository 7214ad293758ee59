package survey

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a catalogue from a FeatureCollection of Point features.
// Each feature needs "name" and "stage" properties; "elevation" and "label"
// are optional.
func LoadGeoJSON(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	var points []Point
	for i, f := range fc.Features {
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		name, _ := f.Properties["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("feature %d: missing name", i)
		}
		stage, ok := f.Properties["stage"].(float64)
		if !ok {
			return nil, fmt.Errorf("feature %d %q: missing stage", i, name)
		}
		if stage != math.Trunc(stage) {
			return nil, fmt.Errorf("feature %d %q: stage %v is not an integer", i, name, stage)
		}
		elev, _ := f.Properties["elevation"].(float64)
		label, _ := f.Properties["label"].(string)
		points = append(points, Point{
			Name:        name,
			Coordinates: pt,
			Elevation:   elev,
			Stage:       int(stage),
			Label:       label,
		})
	}
	if len(points) == 0 {
		return nil, errors.New("catalogue: no point features found")
	}
	return NewRegistry(points)
}

// FeatureCollection returns every point as a GeoJSON Point feature.
func (r *Registry) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, p := range r.AllPoints() {
		fc.Append(p.Feature())
	}
	return fc
}

func (p Point) Feature() *geojson.Feature {
	f := geojson.NewFeature(p.Coordinates)
	f.Properties["name"] = p.Name
	f.Properties["stage"] = p.Stage
	f.Properties["elevation"] = p.Elevation
	if p.Label != "" {
		f.Properties["label"] = p.Label
	}
	return f
}
