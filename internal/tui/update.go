package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"sagamino/internal/network"
)

const speedStep = 0.1

// frameMsg drives one animation tick. Frames from an earlier generation
// are ignored.
type frameMsg struct{ gen int }

// PointDetailRequested opens the popup of a point.
type PointDetailRequested struct{ Name string }

// DetailDismissed closes the popup.
type DetailDismissed struct{}

// MethodsRequested opens the survey methods panel of a point.
type MethodsRequested struct{ Name string }

type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

// layout must match what View draws.
func (m Model) layout() layout {
	contentW := max(10, m.width)
	contentH := max(4, m.height-headerHeight-footerHeight)
	mapX := 0
	if m.showSidebar {
		mapX = sidebarWidth + 1
	}
	mapW := max(10, contentW-mapX-panelWidth-1)
	return layout{
		contentW: contentW,
		contentH: contentH,
		mapX:     mapX,
		mapY:     headerHeight,
		mapW:     mapW,
		mapH:     contentH,
	}
}

func (m Model) nextFrame() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.frame, func(time.Time) tea.Msg { return frameMsg{gen: gen} })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		return m, nil
	case frameMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		if m.ctrl.Tick() {
			cmd = m.nextFrame()
		} else {
			m.status = m.stageStatus()
		}
	case PointDetailRequested:
		m.openDetail(msg.Name)
	case DetailDismissed:
		m.closeDetail()
	case MethodsRequested:
		m.notesName = msg.Name
	case tea.KeyMsg:
		var done bool
		m, cmd, done = m.handleKey(msg)
		if done {
			return m, cmd
		}
	case tea.MouseMsg:
		m = m.handleMouse(msg)
	}
	m.syncViewport()
	m.refreshDetail()
	return m, cmd
}

// handleKey reports done when the key was consumed by a focused widget.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if m.speedMode {
		switch msg.String() {
		case "esc":
			m.speedMode = false
			m.ti.Blur()
			m.status = "speed unchanged"
		case "enter":
			m.applySpeedInput()
		default:
			var cmd tea.Cmd
			m.ti, cmd = m.ti.Update(msg)
			return m, cmd, true
		}
		return m, nil, true
	}
	if m.showSidebar && m.l.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd, true
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Start):
		if m.ctrl.Start() {
			m.gen++
			m.status = "running: " + m.stageStatus()
			return m, m.nextFrame(), false
		}
		m.status = "already running or complete"
	case key.Matches(msg, m.keys.Reset):
		m.gen++
		m.ctrl.Reset()
		m.status = "reset"
	case key.Matches(msg, m.keys.Slower):
		m.setSpeed(m.ctrl.Snapshot().Speed - speedStep)
	case key.Matches(msg, m.keys.Faster):
		m.setSpeed(m.ctrl.Snapshot().Speed + speedStep)
	case key.Matches(msg, m.keys.Speed):
		m.speedMode = true
		m.ti.SetValue(strconv.FormatFloat(m.ctrl.Snapshot().Speed, 'f', 1, 64))
		m.ti.Focus()
		m.status = "enter speed"
		return m, nil, true
	case key.Matches(msg, m.keys.ZoomIn):
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case key.Matches(msg, m.keys.ZoomOut):
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case key.Matches(msg, m.keys.Points):
		m.showSidebar = !m.showSidebar
		m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
	case key.Matches(msg, m.keys.Open):
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(pointItem); ok {
				m.openDetail(it.p.Name)
			}
		}
	case key.Matches(msg, m.keys.Notes):
		m.toggleNotes()
	case key.Matches(msg, m.keys.Dismiss):
		m.closeDetail()
		m.notesName = ""
	case key.Matches(msg, m.keys.Help):
		m.helpVisible = !m.helpVisible
	case key.Matches(msg, m.keys.Up):
		if !m.showSidebar {
			m.offsetY--
		}
	case key.Matches(msg, m.keys.Down):
		if !m.showSidebar {
			m.offsetY++
		}
	case key.Matches(msg, m.keys.Left):
		m.offsetX -= 2
	case key.Matches(msg, m.keys.Right):
		m.offsetX += 2
	}
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd, false
	}
	return m, nil, false
}

func (m *Model) applySpeedInput() {
	m.speedMode = false
	m.ti.Blur()
	v, err := strconv.ParseFloat(strings.TrimSpace(m.ti.Value()), 64)
	if err != nil {
		m.status = "speed: not a number"
		return
	}
	m.setSpeed(v)
}

func (m *Model) setSpeed(v float64) {
	applied := m.ctrl.SetSpeed(v)
	m.status = fmt.Sprintf("speed: %.1fx", applied)
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	lay := m.layout()
	cx, cy := msg.X-lay.mapX, msg.Y-lay.mapY
	if cx < 0 || cy < 0 || cx >= lay.mapW || cy >= lay.mapH {
		m.hovering = false
		m.hoverName = ""
		return m
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx, cy
	mk, ok := m.nearestMarker(cx, cy, lay.mapW, lay.mapH, 3)
	m.hoverName = ""
	if ok {
		m.hoverName = mk.Name
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if ok {
			m.openDetail(mk.Name)
		} else {
			m.closeDetail()
		}
	}
	return m
}

// syncViewport follows viewport requests published by the controller.
func (m *Model) syncViewport() {
	b, ok := m.src.Bounds()
	if !ok || b == m.view {
		return
	}
	m.view = b
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
}

func (m Model) stageStatus() string {
	s := m.ctrl.Snapshot()
	if s.Phase == network.AllComplete {
		return "all stages complete"
	}
	return fmt.Sprintf("stage %d  %s", s.Stage, s.Phase)
}
