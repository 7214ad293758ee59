package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sagamino/internal/network"
	"sagamino/internal/render"
	"sagamino/internal/survey"
)

var testInitial = orb.Bound{Min: orb.Point{139.28, 35.44}, Max: orb.Point{139.56, 35.66}}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := New(Options{Speed: network.MaxSpeed, Frame: time.Millisecond, Initial: testInitial})
	return update(t, m, tea.WindowSizeMsg{Width: 140, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func press(t *testing.T, m Model, k string) (Model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// runStage starts the current stage and feeds frames until it completes.
func runStage(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := press(t, m, "s")
	require.NotNil(t, cmd)
	for i := 0; i < 10000 && m.ctrl.Snapshot().Running; i++ {
		m = update(t, m, frameMsg{gen: m.gen})
	}
	require.False(t, m.ctrl.Snapshot().Running)
	return m
}

func TestStartRunsStageToCompletion(t *testing.T) {
	m := newTestModel(t)
	assert.Empty(t, m.src.Lines(render.MeasuredBaselineSource))

	m = runStage(t, m)

	s := m.ctrl.Snapshot()
	assert.Equal(t, 1, s.Stage)
	assert.Equal(t, 0.0, s.Progress)
	assert.Len(t, m.src.Lines(render.MeasuredBaselineSource), 1)
	assert.Len(t, m.src.Lines(render.TriangulationSource), 4)
	assert.Equal(t, "stage 1  idle", m.status)
}

func TestStartWhileRunningIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "s")
	gen := m.gen

	m, cmd := press(t, m, "s")
	assert.Nil(t, cmd)
	assert.Equal(t, gen, m.gen)
	assert.Equal(t, "already running or complete", m.status)
}

func TestStaleFrameIgnoredAfterReset(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "s")
	stale := m.gen
	m = update(t, m, frameMsg{gen: stale})
	require.Greater(t, m.ctrl.Snapshot().Progress, 0.0)

	m, _ = press(t, m, "r")
	m = update(t, m, frameMsg{gen: stale})

	s := m.ctrl.Snapshot()
	assert.Equal(t, 0, s.Stage)
	assert.Equal(t, 0.0, s.Progress)
	assert.False(t, s.Running)
}

func TestViewportFollowsStages(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, testInitial, m.view)

	for range 3 {
		m = runStage(t, m)
	}
	assert.Equal(t, 3, m.ctrl.Snapshot().Stage)
	assert.Equal(t, network.DefaultWideBounds, m.view)

	m.zoom = 2
	m, _ = press(t, m, "r")
	assert.Equal(t, testInitial, m.view)
	assert.Equal(t, 1.0, m.zoom)
}

func TestAllStagesComplete(t *testing.T) {
	m := newTestModel(t)
	for range network.StageDone {
		m = runStage(t, m)
	}
	assert.Equal(t, network.AllComplete, m.ctrl.Snapshot().Phase)
	assert.Equal(t, "all stages complete", m.status)

	m, cmd := press(t, m, "s")
	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), survey.StartLabel(network.StageDone))
}

func TestSpeedKeysClamp(t *testing.T) {
	m := newTestModel(t)
	for range 30 {
		m, _ = press(t, m, "[")
	}
	assert.InDelta(t, network.MinSpeed, m.ctrl.Snapshot().Speed, 1e-9)

	for range 30 {
		m, _ = press(t, m, "]")
	}
	assert.Equal(t, network.MaxSpeed, m.ctrl.Snapshot().Speed)
	assert.Equal(t, "speed: 2.0x", m.status)
}

func TestSpeedInput(t *testing.T) {
	m := newTestModel(t)
	m.ctrl.SetSpeed(0.5)

	m, _ = press(t, m, "v")
	require.True(t, m.speedMode)
	m.ti.SetValue("fast")
	m, _ = press(t, m, "enter")
	assert.False(t, m.speedMode)
	assert.Equal(t, "speed: not a number", m.status)
	assert.Equal(t, 0.5, m.ctrl.Snapshot().Speed)

	m, _ = press(t, m, "v")
	m.ti.SetValue("5")
	m, _ = press(t, m, "enter")
	assert.Equal(t, network.MaxSpeed, m.ctrl.Snapshot().Speed)

	m, _ = press(t, m, "v")
	m.ti.SetValue("1.2")
	m, _ = press(t, m, "esc")
	assert.Equal(t, network.MaxSpeed, m.ctrl.Snapshot().Speed)
}

func TestDetailFollowsStage(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, PointDetailRequested{Name: "下溝村"})
	require.Equal(t, "下溝村", m.detailName)
	assert.Len(t, m.tbl.Rows(), 1)
	assert.True(t, strings.HasPrefix(m.detailText, "下溝村\n北端点"))

	m = runStage(t, m)
	rows := m.tbl.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "座間村", rows[0][0])
	assert.Contains(t, m.detailText, "鳶尾山まで")

	m = update(t, m, DetailDismissed{})
	assert.Empty(t, m.detailName)
	assert.Empty(t, m.tbl.Rows())
}

func TestDetailUnknownPoint(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, PointDetailRequested{Name: "どこか"})
	assert.Equal(t, render.NoDetail("どこか"), m.detailText)
	assert.Equal(t, m.detailText, m.status)
}

func TestPointListOpensDetail(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, "tab")
	require.True(t, m.showSidebar)

	m, _ = press(t, m, "enter")
	assert.Equal(t, "下溝村", m.detailName)

	m, _ = press(t, m, "esc")
	assert.Empty(t, m.detailName)
}

func TestMouseClickOpensDetail(t *testing.T) {
	m := newTestModel(t)
	lay := m.layout()
	p, err := m.ctrl.Graph().Registry().Lookup("座間村")
	require.NoError(t, err)
	x, y, ok := m.screenXY(p.Coordinates, lay.mapW, lay.mapH)
	require.True(t, ok)

	m = update(t, m, tea.MouseMsg{X: lay.mapX + x, Y: lay.mapY + y, Action: tea.MouseActionMotion})
	assert.Equal(t, "座間村", m.hoverName)
	assert.Empty(t, m.detailName)

	m = update(t, m, tea.MouseMsg{
		X: lay.mapX + x, Y: lay.mapY + y,
		Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	})
	assert.Equal(t, "座間村", m.detailName)

	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.False(t, m.hovering)
}

func TestMethodsPanelNamesPoint(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, PointDetailRequested{Name: "座間村"})
	assert.Contains(t, m.View(), "[m] 測量詳細を表示")

	m, _ = press(t, m, "m")
	require.Equal(t, "座間村", m.notesName)
	v := m.View()
	assert.Contains(t, v, "座間村の測量詳細")
	assert.Contains(t, v, "使用された測量機器")

	m, _ = press(t, m, "m")
	assert.Empty(t, m.notesName)

	m = update(t, m, MethodsRequested{Name: "鳶尾山"})
	assert.Equal(t, "鳶尾山", m.notesName)
	m, _ = press(t, m, "esc")
	assert.Empty(t, m.notesName)
	assert.Empty(t, m.detailName)
}

func TestViewRenders(t *testing.T) {
	m := New(Options{})
	assert.Empty(t, m.View())

	m = newTestModel(t)
	v := m.View()
	assert.Contains(t, v, "基線長: 5.223 km")
	assert.Contains(t, v, survey.StartLabel(0))
	assert.Contains(t, v, "●")

	m, _ = press(t, m, "m")
	assert.NotContains(t, m.View(), "使用された測量機器")
	assert.Equal(t, "methods: select a point first", m.status)
}

func TestRenderRowGroupsColors(t *testing.T) {
	row := []cell{{r: 'a'}, {r: 'b'}, {r: 'c', color: "#FF0000"}, {r: 'd', color: "#FF0000"}}
	out := renderRow(row)
	assert.Contains(t, out, "ab")
	assert.Contains(t, out, "cd")
	assert.Equal(t, "", renderRow(nil))
}

func TestBrailleDash(t *testing.T) {
	solid := newBrailleBuf(4, 1)
	solid.drawLine(0, 0, 7, 0, 0)
	dashed := newBrailleBuf(4, 1)
	dashed.drawLine(0, 0, 7, 0, 2)

	for x := 0; x < 4; x++ {
		assert.False(t, solid.empty(x, 0))
	}
	assert.False(t, dashed.empty(0, 0))
	assert.True(t, dashed.empty(1, 0))
	assert.False(t, dashed.empty(2, 0))
	assert.Equal(t, ' ', dashed.glyph(1, 0))
}
