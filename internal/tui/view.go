package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"sagamino/internal/network"
	"sagamino/internal/survey"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	header := titleStyle.Render(" sagamino ─ 相模野基線 三角測量 ")
	header = lipgloss.NewStyle().Width(lay.contentW).Render(header)

	mapView := lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).
		Render(m.renderMap(lay.mapW, lay.mapH))

	panel := lipgloss.NewStyle().Width(panelWidth).Height(lay.contentH).
		Render(m.renderPanel())

	cols := []string{}
	if m.showSidebar {
		cols = append(cols, lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View()), " ")
	}
	cols = append(cols, mapView, " ", panel)
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter(lay))
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

func (m Model) renderPanel() string {
	s := m.ctrl.Snapshot()
	inner := panelWidth - 4

	var sb strings.Builder
	sb.WriteString(labelStyle.Render(stageTitle(s.Stage)))
	if s.Phase != network.Idle {
		sb.WriteString(dimStyle.Render("  " + s.Phase.String()))
	}
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Width(inner).Render(survey.Description(s.Stage)))
	sb.WriteString("\n\n")
	sb.WriteString(progressBar(s.Progress, inner-8))
	sb.WriteString("\n")
	start := "[space] " + survey.StartLabel(s.Stage)
	if s.Phase != network.Idle {
		start = dimStyle.Render(start)
	}
	sb.WriteString(start)
	sb.WriteString("\n")
	if m.speedMode {
		sb.WriteString("速度: " + m.ti.View())
	} else {
		sb.WriteString(fmt.Sprintf("速度: %.1fx", s.Speed))
	}
	sb.WriteString("\n\n")
	sb.WriteString(fmt.Sprintf("基線長: %.3f km\n", s.Measurement.DistanceKm))
	sb.WriteString("方位角: " + s.Measurement.FormatBearing())
	info := boxStyle.Width(panelWidth - 2).Render(sb.String())

	parts := []string{info}
	if m.detailName != "" {
		detail := m.detailText
		if len(m.tbl.Rows()) > 0 {
			m.tbl.SetWidth(inner)
			detail = lipgloss.JoinVertical(lipgloss.Left, detail, "", m.tbl.View())
		}
		detail = lipgloss.JoinVertical(lipgloss.Left, detail, dimStyle.Render("[m] 測量詳細を表示"))
		parts = append(parts, boxStyle.Width(panelWidth-2).Render(detail))
	}
	if m.notesName != "" {
		parts = append(parts, boxStyle.Width(panelWidth-2).Render(renderNotes(m.notesName, inner)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func stageTitle(stage int) string {
	switch {
	case stage <= 0:
		return "基線測量"
	case stage >= network.StageDone:
		return "測量完了"
	}
	return fmt.Sprintf("第%d段階", stage)
}

func renderNotes(name string, width int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(name + "の測量詳細"))
	sb.WriteString("\n")
	for _, sec := range survey.MeasurementNotes() {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render(sec.Title))
		sb.WriteString("\n")
		for _, it := range sec.Items {
			sb.WriteString(lipgloss.NewStyle().Width(width).Render("・" + it))
			sb.WriteString("\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m Model) renderFooter(lay layout) string {
	status := dimStyle.Render(" " + m.status + " ")
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())

	hover := ""
	if m.hovering {
		if p, ok := m.cellToLonLat(m.hoverCellX, m.hoverCellY, lay.mapW, lay.mapH); ok {
			hover = fmt.Sprintf("lon=%.5f lat=%.5f", p[0], p[1])
		}
		if m.hoverName != "" {
			hover = m.hoverName + "  " + hover
		}
		hover = dimStyle.Render("  " + hover + "  ")
	}
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(hover))
	right := lipgloss.Place(spacerW+lipgloss.Width(hover), 1, lipgloss.Right, lipgloss.Center, hover)
	return lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	var keys []string
	for _, b := range m.keys.helpBindings() {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		keys = append(keys, h.Key+" "+h.Desc)
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
