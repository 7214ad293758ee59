package network

import (
	"sagamino/internal/geodesy"
	"sagamino/internal/survey"
)

// Connection is a revealed neighbour of a point with the measurement to it.
type Connection struct {
	Name string
	geodesy.Measurement
}

type Detail struct {
	Point       survey.Point
	Stage       int
	Connections []Connection
}

// DetailFor lists the far endpoint of every edge revealed by stage that
// touches p, in edge order.
func DetailFor(g *Graph, geo geodesy.Adapter, p survey.Point, stage int) Detail {
	d := Detail{Point: p, Stage: stage}
	for _, e := range g.EdgesUpTo(stage) {
		var other survey.Point
		switch p.Name {
		case e.From.Name:
			other = e.To
		case e.To.Name:
			other = e.From
		default:
			continue
		}
		d.Connections = append(d.Connections, Connection{
			Name:        other.Name,
			Measurement: geodesy.Measure(geo, p.Coordinates, other.Coordinates),
		})
	}
	return d
}
