package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"sagamino/internal/geodesy"
	"sagamino/internal/network"
)

// Publisher pushes controller snapshots to a Projector. Every push replaces
// the source payload with geometry recomputed from the snapshot.
type Publisher struct {
	proj    Projector
	graph   *network.Graph
	geo     geodesy.Adapter
	initial orb.Bound
	logger  *slog.Logger
}

func NewPublisher(proj Projector, graph *network.Graph, geo geodesy.Adapter, initial orb.Bound, logger *slog.Logger) *Publisher {
	if geo == nil {
		geo = geodesy.Spherical{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Publisher{proj: proj, graph: graph, geo: geo, initial: initial, logger: logger}
}

// Handle is a network.Controller listener.
func (p *Publisher) Handle(e network.Event) {
	switch ev := e.(type) {
	case network.ProgressAdvanced:
		p.pushBaseline(ev.Snapshot)
	case network.ViewportRequested:
		p.proj.FitBounds(ev.Bounds)
	case network.NetworkReset:
		p.proj.FitBounds(p.initial)
		p.Publish(ev.Snapshot)
	case network.Started, network.StageAdvanced:
		p.Publish(e.State())
	}
}

// Publish pushes every source and marker for s.
func (p *Publisher) Publish(s network.Snapshot) {
	p.pushBaseline(s)
	p.pushEdges(s)
	p.placeMarkers(s)
}

func (p *Publisher) pushBaseline(s network.Snapshot) {
	fc := geojson.NewFeatureCollection()
	if len(s.Baseline) == 2 {
		f := geojson.NewFeature(s.Baseline)
		f.Properties["progress"] = s.Progress
		fc.Append(f)
	}
	p.push(BaselineSource, fc)
}

// pushEdges groups the snapshot's edges by source. The measured baseline
// only appears once stage 0 has been completed.
func (p *Publisher) pushEdges(s network.Snapshot) {
	groups := map[string]*geojson.FeatureCollection{}
	for _, id := range SourceIDs {
		if id != BaselineSource {
			groups[id] = geojson.NewFeatureCollection()
		}
	}
	for _, e := range s.Edges {
		if e.Stage == 0 && s.Stage == 0 {
			continue
		}
		groups[SourceForStage(e.Stage)].Append(p.edgeFeature(e))
	}
	for _, id := range SourceIDs {
		if fc, ok := groups[id]; ok {
			p.push(id, fc)
		}
	}
}

func (p *Publisher) edgeFeature(e network.Edge) *geojson.Feature {
	m := geodesy.Measure(p.geo, e.From.Coordinates, e.To.Coordinates)
	f := geojson.NewFeature(e.LineString())
	f.Properties["from"] = e.From.Name
	f.Properties["to"] = e.To.Name
	f.Properties["stage"] = e.Stage
	f.Properties["distance_km"] = m.DistanceKm
	if !m.Degenerate {
		f.Properties["bearing_deg"] = m.BearingDeg
	}
	return f
}

func (p *Publisher) placeMarkers(s network.Snapshot) {
	for _, pt := range p.graph.Registry().AllPoints() {
		d := network.DetailFor(p.graph, p.geo, pt, s.Stage)
		p.proj.PlaceMarker(Marker{
			Name:        pt.Name,
			Coordinates: pt.Coordinates,
			Stage:       pt.Stage,
			Color:       StageColor(pt.Stage),
			Text:        PopupText(d),
		})
	}
}

// push skips sources the projector has not registered yet; the next
// publish retries them.
func (p *Publisher) push(id string, fc *geojson.FeatureCollection) {
	if !p.proj.HasSource(id) {
		p.logger.Debug("source not registered, skipping push", "source", id)
		return
	}
	if err := p.proj.SetData(id, fc); err != nil {
		level := slog.LevelWarn
		if errors.Is(err, ErrNoSource) {
			level = slog.LevelDebug
		}
		p.logger.Log(context.Background(), level, "push failed", "source", id, "error", err)
	}
}

// PopupText renders the detail text of a marker.
func PopupText(d network.Detail) string {
	var b strings.Builder
	b.WriteString(d.Point.Name + "\n")
	if d.Point.Label != "" {
		b.WriteString(d.Point.Label + "\n")
	}
	fmt.Fprintf(&b, "標高: %.1fm\n", d.Point.Elevation)
	if len(d.Connections) == 0 {
		return b.String()
	}
	b.WriteString("接続点との関係:\n")
	for _, c := range d.Connections {
		fmt.Fprintf(&b, "  %sまで: 距離 %s  方位角 %s\n", c.Name, c.FormatDistance(), c.FormatBearing())
	}
	return b.String()
}

// NoDetail is shown when a requested point is not in the catalogue.
func NoDetail(name string) string {
	return fmt.Sprintf("%s: %s", name, "詳細はありません")
}
