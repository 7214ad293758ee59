package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sagamino/internal/geodesy"
	"sagamino/internal/network"
	"sagamino/internal/render"
)

var measureStage int

var measureCmd = &cobra.Command{
	Use:   "measure",
	Short: "Print the baseline and every edge revealed up to a stage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if measureStage < 0 || measureStage >= network.StageDone {
			return fmt.Errorf("--stage must be between 0 and %d", network.StageDone-1)
		}
		logger, closeLog, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		defer closeLog()

		reg, err := loadRegistry(logger)
		if err != nil {
			return err
		}
		g := network.NewGraph(reg)
		geo := geodesy.Spherical{}

		base := g.Baseline()
		if len(base) == 2 {
			m := geodesy.Measure(geo, base[0], base[1])
			fmt.Fprintf(cmd.OutOrStdout(), "基線: %s  方位角 %s\n\n", m.FormatDistance(), m.FormatBearing())
		}

		rows := [][]string{}
		for _, e := range g.EdgesUpTo(measureStage) {
			m := geodesy.Measure(geo, e.From.Coordinates, e.To.Coordinates)
			rows = append(rows, []string{
				strconv.Itoa(e.Stage), e.From.Name, e.To.Name, m.FormatDistance(), m.FormatBearing(),
			})
		}
		fmt.Fprintln(cmd.OutOrStdout(), edgeTable(rows, useColor()))
		return nil
	},
}

func init() {
	measureCmd.Flags().IntVar(&measureStage, "stage", network.StageDone-1, "Last stage to include")
	rootCmd.AddCommand(measureCmd)
}

// useColor respects NO_COLOR and TTY detection.
func useColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func edgeTable(rows [][]string, color bool) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("段階", "起点", "終点", "距離", "方位角").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if !color || col != 0 {
				return cellStyle
			}
			stage, _ := strconv.Atoi(rows[row][0])
			return cellStyle.Foreground(lipgloss.Color(render.StageColor(stage)))
		})
	return strings.TrimRight(t.Render(), "\n")
}
