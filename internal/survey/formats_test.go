package survey

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func sagaminoCSV() string {
	var b strings.Builder
	b.WriteString("Name,Longitude,Latitude,Elevation,Stage,Label\n")
	for _, p := range Sagamino().AllPoints() {
		fmt.Fprintf(&b, "%s,%v,%v,%v,%d,%s\n", p.Name, p.Coordinates.Lon(), p.Coordinates.Lat(), p.Elevation, p.Stage, p.Label)
	}
	return b.String()
}

func sagaminoKML() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2"><Document>`)
	for _, p := range Sagamino().AllPoints() {
		fmt.Fprintf(&b, `
<Placemark><name>%s</name><description>%s</description>
<ExtendedData><Data name="stage"><value>%d</value></Data></ExtendedData>
<Point><coordinates>%v,%v,%v</coordinates></Point></Placemark>`,
			p.Name, p.Label, p.Stage, p.Coordinates.Lon(), p.Coordinates.Lat(), p.Elevation)
	}
	b.WriteString("\n</Document></kml>\n")
	return b.String()
}

func TestLoadByExtension(t *testing.T) {
	want := Sagamino().AllPoints()

	data, err := Sagamino().FeatureCollection().MarshalJSON()
	require.NoError(t, err)

	for name, body := range map[string]string{
		"points.geojson": string(data),
		"points.CSV":     sagaminoCSV(),
		"points.kml":     sagaminoKML(),
	} {
		t.Run(name, func(t *testing.T) {
			r, err := Load(writeFile(t, name, body))
			require.NoError(t, err)
			assert.Equal(t, want, r.AllPoints())
		})
	}
}

func TestLoadUnsupported(t *testing.T) {
	_, err := Load(writeFile(t, "points.wkt", "POINT (139.4 35.5)"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadCSVErrors(t *testing.T) {
	cases := map[string]string{
		"no rows":       "name,lon,lat,stage\n",
		"no stage col":  "name,lon,lat\nA,139.4,35.5\n",
		"bad lon":       "name,lon,lat,stage\nA,east,35.5,0\n",
		"bad elevation": "name,lon,lat,stage,elevation\nA,139.4,35.5,0,high\n",
		"empty name":    "name,lon,lat,stage\n,139.4,35.5,0\n",
		"bad stage":     "name,x,y,stage\nA,139.4,35.5,7\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadCSV(writeFile(t, "points.csv", body))
			assert.Error(t, err)
		})
	}
}

func TestLoadKMLElevationOverride(t *testing.T) {
	body := strings.Replace(sagaminoKML(),
		`<Data name="stage"><value>0</value></Data>`,
		`<Data name="stage"><value>0</value></Data><Data name="elevation"><value>1.5</value></Data>`, 1)
	r, err := LoadKML(writeFile(t, "points.kml", body))
	require.NoError(t, err)
	p, err := r.Lookup("下溝村")
	require.NoError(t, err)
	assert.Equal(t, 1.5, p.Elevation)
}

func TestLoadKMLErrors(t *testing.T) {
	noStage := `<kml><Placemark><name>A</name><Point><coordinates>139.4,35.5</coordinates></Point></Placemark></kml>`
	_, err := LoadKML(writeFile(t, "a.kml", noStage))
	assert.ErrorContains(t, err, "missing stage")

	noPoints := `<kml><Document><Placemark><name>A</name></Placemark></Document></kml>`
	_, err = LoadKML(writeFile(t, "b.kml", noPoints))
	assert.Error(t, err)

	_, err = LoadKML(writeFile(t, "c.kml", "<kml>"))
	assert.Error(t, err)

	badAlt := `<kml><Placemark><name>A</name>
<ExtendedData><Data name="stage"><value>0</value></Data></ExtendedData>
<Point><coordinates>139.4,35.5,high</coordinates></Point></Placemark></kml>`
	_, err = LoadKML(writeFile(t, "d.kml", badAlt))
	assert.ErrorContains(t, err, "altitude")
}
