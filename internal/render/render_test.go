package render

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sagamino/internal/geodesy"
	"sagamino/internal/network"
	"sagamino/internal/survey"
)

var initialView = orb.Bound{Min: orb.Point{139.28, 35.44}, Max: orb.Point{139.56, 35.66}}

func setup(t *testing.T) (*network.Controller, *Sources) {
	t.Helper()
	c := network.NewController(survey.Sagamino(), geodesy.Spherical{}, network.WithSpeed(network.MaxSpeed))
	src := NewSources().AddAll()
	pub := NewPublisher(src, c.Graph(), geodesy.Spherical{}, initialView, nil)
	c.OnEvent(pub.Handle)
	pub.Publish(c.Snapshot())
	return c, src
}

func runStage(t *testing.T, c *network.Controller) {
	t.Helper()
	require.True(t, c.Start())
	for i := 0; c.Tick(); i++ {
		require.Less(t, i, 10000)
	}
}

func TestSourceForStage(t *testing.T) {
	assert.Equal(t, MeasuredBaselineSource, SourceForStage(0))
	assert.Equal(t, TriangulationSource, SourceForStage(1))
	assert.Equal(t, SecondTriangulationSource, SourceForStage(2))
	assert.Equal(t, FinalTriangulationSource, SourceForStage(3))
	assert.Equal(t, FinalTriangulationSource, SourceForStage(4))
}

func TestSetDataRequiresSource(t *testing.T) {
	s := NewSources()
	err := s.SetData("nope", geojson.NewFeatureCollection())
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestIdenticalPushIsNoop(t *testing.T) {
	s := NewSources()
	s.AddSource(BaselineSource)

	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.LineString{{139.4, 35.5}, {139.5, 35.6}}))

	require.NoError(t, s.SetData(BaselineSource, fc))
	require.NoError(t, s.SetData(BaselineSource, fc))
	assert.Equal(t, 1, s.Version(BaselineSource))

	other := geojson.NewFeatureCollection()
	require.NoError(t, s.SetData(BaselineSource, other))
	assert.Equal(t, 2, s.Version(BaselineSource))
	assert.Empty(t, s.Lines(BaselineSource))
}

func TestInitialPublish(t *testing.T) {
	_, src := setup(t)

	assert.Empty(t, src.Lines(MeasuredBaselineSource), "baseline not yet measured")
	assert.Empty(t, src.Lines(TriangulationSource))
	require.Len(t, src.Lines(BaselineSource), 1)
	base := src.Lines(BaselineSource)[0]
	assert.Equal(t, base[0], base[1], "zero progress gives a degenerate line")
	assert.Len(t, src.Markers(), 9)

	m, ok := src.Marker("座間村")
	require.True(t, ok)
	assert.Equal(t, "#FF0000", m.Color)
	assert.Contains(t, m.Text, "南端点")
	assert.Contains(t, m.Text, "標高: 86.3m")
}

func TestStagePushesReplace(t *testing.T) {
	c, src := setup(t)

	for i := 0; i < survey.StageCount; i++ {
		runStage(t, c)
	}
	assert.Len(t, src.Lines(MeasuredBaselineSource), 1)
	assert.Len(t, src.Lines(TriangulationSource), 4)
	assert.Len(t, src.Lines(SecondTriangulationSource), 4)
	assert.Len(t, src.Lines(FinalTriangulationSource), 6)

	c.Reset()
	for _, id := range SourceIDs {
		if id == BaselineSource {
			continue
		}
		assert.Empty(t, src.Lines(id), id)
	}
	b, ok := src.Bounds()
	require.True(t, ok)
	assert.Equal(t, initialView, b)

	for i := 0; i < survey.StageCount; i++ {
		runStage(t, c)
	}
	assert.Len(t, src.Lines(FinalTriangulationSource), 6, "replay must not append")
}

func TestWideViewportAfterStageTwo(t *testing.T) {
	c, src := setup(t)
	runStage(t, c)
	runStage(t, c)
	_, ok := src.Bounds()
	assert.False(t, ok)

	runStage(t, c)
	b, ok := src.Bounds()
	require.True(t, ok)
	assert.Equal(t, network.DefaultWideBounds, b)
	assert.Equal(t, geojson.NewBBox(network.DefaultWideBounds), src.Collection().BBox)
	assert.Equal(t, network.DefaultWideBounds, network.Viewport(3, initialView, c.WideBounds()))

	c.Reset()
	b, _ = src.Bounds()
	assert.Equal(t, initialView, b)
	assert.Equal(t, initialView, network.Viewport(c.Snapshot().Stage, initialView, c.WideBounds()))
}

func TestBaselineFollowsProgress(t *testing.T) {
	c, src := setup(t)
	require.True(t, c.Start())
	for i := 0; i < 25; i++ {
		c.Tick()
	}
	line := src.Lines(BaselineSource)[0]
	half := geodesy.Spherical{}.Distance(line[0], line[1])
	assert.InDelta(t, c.Measurement().DistanceKm/2, half, 1e-3)
}

func TestMissingSourceIsSkipped(t *testing.T) {
	c := network.NewController(survey.Sagamino(), nil, network.WithSpeed(network.MaxSpeed))
	src := NewSources()
	src.AddSource(BaselineSource)
	pub := NewPublisher(src, c.Graph(), nil, initialView, nil)
	c.OnEvent(pub.Handle)

	runStage(t, c)
	assert.False(t, src.HasSource(TriangulationSource))

	// registering later picks up the current state on the next publish
	src.AddAll()
	pub.Publish(c.Snapshot())
	assert.Len(t, src.Lines(TriangulationSource), 4)
}

func TestPopupText(t *testing.T) {
	c, _ := setup(t)
	runStage(t, c)

	d, err := c.Detail("鳶尾山")
	require.NoError(t, err)
	text := PopupText(d)

	assert.Contains(t, text, "鳶尾山\n第1段階 一等三角点\n標高: 237.2m")
	assert.Contains(t, text, "接続点との関係:")
	assert.Contains(t, text, "下溝村まで:")
	assert.Contains(t, text, "座間村まで:")
	assert.Regexp(t, `距離 \d+\.\d{3}km`, text)
	assert.Regexp(t, `方位角 \d+\.\d°`, text)
}

func TestCollection(t *testing.T) {
	c, src := setup(t)
	runStage(t, c)

	fc := src.Collection()
	counts := map[string]int{}
	for _, f := range fc.Features {
		counts[f.Properties.MustString("source")]++
	}
	assert.Equal(t, 1, counts[MeasuredBaselineSource])
	assert.Equal(t, 4, counts[TriangulationSource])
	assert.Equal(t, 1, counts[BaselineSource])
	assert.Equal(t, 9, counts["markers"])
}
