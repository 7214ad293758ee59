package tui

import (
	"errors"
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"

	"sagamino/internal/render"
	"sagamino/internal/survey"
)

type pointItem struct {
	p survey.Point
}

func (i pointItem) Title() string       { return i.p.Name }
func (i pointItem) Description() string { return fmt.Sprintf("stage %d  %s", i.p.Stage, i.p.Label) }
func (i pointItem) FilterValue() string { return i.p.Name }

func pointItems(reg *survey.Registry) []list.Item {
	pts := reg.AllPoints()
	items := make([]list.Item, 0, len(pts))
	for _, p := range pts {
		items = append(items, pointItem{p: p})
	}
	return items
}

func detailColumns() []table.Column {
	return []table.Column{
		{Title: "接続点", Width: 12},
		{Title: "距離", Width: 10},
		{Title: "方位角", Width: 8},
	}
}

// openDetail selects the point whose popup follows the animation.
func (m *Model) openDetail(name string) {
	m.detailName = name
	m.refreshDetail()
}

// toggleNotes shows the survey methods of the open popup's point, or of the
// sidebar selection when no popup is open.
func (m *Model) toggleNotes() {
	if m.notesName != "" {
		m.notesName = ""
		return
	}
	name := m.detailName
	if name == "" && m.showSidebar {
		if it, ok := m.l.SelectedItem().(pointItem); ok {
			name = it.p.Name
		}
	}
	if name == "" {
		m.status = "methods: select a point first"
		return
	}
	m.notesName = name
}

func (m *Model) closeDetail() {
	m.detailName = ""
	m.detailText = ""
	m.tbl.SetRows(nil)
}

// refreshDetail recomputes the popup of the selected point for the
// current stage.
func (m *Model) refreshDetail() {
	if m.detailName == "" {
		return
	}
	d, err := m.ctrl.Detail(m.detailName)
	if err != nil {
		if errors.Is(err, survey.ErrNotFound) {
			m.detailText = render.NoDetail(m.detailName)
		} else {
			m.detailText = err.Error()
		}
		m.tbl.SetRows(nil)
		m.status = m.detailText
		return
	}
	m.detailText = render.PopupText(d)
	rows := make([]table.Row, 0, len(d.Connections))
	for _, c := range d.Connections {
		rows = append(rows, table.Row{c.Name, c.FormatDistance(), c.FormatBearing()})
	}
	m.tbl.SetRows(rows)
}
