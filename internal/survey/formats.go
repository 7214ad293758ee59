package survey

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

var ErrUnsupportedFormat = errors.New("unsupported catalogue format")

// Load reads a catalogue file, choosing the format by extension:
// .geojson/.json, .csv, or .kml.
func Load(path string) (*Registry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
}

// LoadCSV reads one point per row. Required columns are name, stage, and
// latitude/longitude (lat|latitude|y and lon|lng|long|longitude|x,
// case-insensitive); elevation and label are optional.
func LoadCSV(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv %s: %w", path, err)
	}
	if len(recs) < 2 {
		return nil, fmt.Errorf("csv %s: no rows", path)
	}

	cols := map[string]int{}
	for i, h := range recs[0] {
		key := strings.ToLower(strings.TrimSpace(h))
		switch key {
		case "lat", "latitude", "y":
			key = "lat"
		case "lon", "lng", "long", "longitude", "x":
			key = "lon"
		}
		if _, ok := cols[key]; !ok {
			cols[key] = i
		}
	}
	for _, req := range []string{"name", "stage", "lat", "lon"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("csv %s: missing %q column", path, req)
		}
	}

	field := func(row []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	var pts []Point
	for n, row := range recs[1:] {
		line := n + 2
		lon, err1 := strconv.ParseFloat(field(row, "lon"), 64)
		lat, err2 := strconv.ParseFloat(field(row, "lat"), 64)
		stage, err3 := strconv.Atoi(field(row, "stage"))
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("csv %s line %d: %w", path, line, err)
		}
		if field(row, "name") == "" {
			return nil, fmt.Errorf("csv %s line %d: missing name", path, line)
		}
		p := Point{
			Name:        field(row, "name"),
			Coordinates: orb.Point{lon, lat},
			Stage:       stage,
			Label:       field(row, "label"),
		}
		if s := field(row, "elevation"); s != "" {
			if p.Elevation, err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("csv %s line %d: elevation: %w", path, line, err)
			}
		}
		pts = append(pts, p)
	}
	return NewRegistry(pts)
}

type kmlData struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value"`
}

type kmlPlacemark struct {
	Name        string    `xml:"name"`
	Description string    `xml:"description"`
	Data        []kmlData `xml:"ExtendedData>Data"`
	Point       *struct {
		Coordinates string `xml:"coordinates"`
	} `xml:"Point"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	Top        []kmlPlacemark `xml:"Placemark"`
}

// LoadKML reads Point placemarks. The stage comes from an ExtendedData
// entry named "stage"; "elevation" and "label" entries are optional, and
// the altitude of the coordinates is used when no elevation is given.
func LoadKML(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("kml %s: %w", path, err)
	}

	var pts []Point
	for _, pm := range append(doc.Top, doc.Placemarks...) {
		if pm.Point == nil {
			continue
		}
		p, err := pm.point()
		if err != nil {
			return nil, fmt.Errorf("kml %s placemark %q: %w", path, pm.Name, err)
		}
		pts = append(pts, p)
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("kml %s: no point placemarks", path)
	}
	return NewRegistry(pts)
}

func (pm kmlPlacemark) point() (Point, error) {
	// coordinates are "lon,lat[,alt]"
	vals := strings.Split(strings.TrimSpace(pm.Point.Coordinates), ",")
	if len(vals) < 2 {
		return Point{}, fmt.Errorf("bad coordinates %q", pm.Point.Coordinates)
	}
	lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
	if err := errors.Join(err1, err2); err != nil {
		return Point{}, err
	}
	p := Point{
		Name:        strings.TrimSpace(pm.Name),
		Coordinates: orb.Point{lon, lat},
		Label:       strings.TrimSpace(pm.Description),
	}
	if len(vals) > 2 {
		var err error
		if p.Elevation, err = strconv.ParseFloat(strings.TrimSpace(vals[2]), 64); err != nil {
			return Point{}, fmt.Errorf("altitude: %w", err)
		}
	}

	hasStage := false
	for _, d := range pm.Data {
		v := strings.TrimSpace(d.Value)
		var err error
		switch d.Name {
		case "stage":
			p.Stage, err = strconv.Atoi(v)
			hasStage = true
		case "elevation":
			p.Elevation, err = strconv.ParseFloat(v, 64)
		case "label":
			p.Label = v
		}
		if err != nil {
			return Point{}, fmt.Errorf("%s: %w", d.Name, err)
		}
	}
	if p.Name == "" {
		return Point{}, errors.New("missing name")
	}
	if !hasStage {
		return Point{}, errors.New("missing stage")
	}
	return p, nil
}
