package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"sagamino/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal map (default)",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI logs nowhere unless a log file is configured; the terminal
// belongs to the program.
func runTUI(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	reg, err := loadRegistry(logger)
	if err != nil {
		return err
	}

	m := tui.New(tui.Options{
		Registry: reg,
		Speed:    cfg.Animation.Speed,
		Frame:    cfg.Animation.FrameInterval(),
		Initial:  cfg.View.Initial.Bound(),
		Wide:     cfg.View.Wide.Bound(),
		Logger:   logger,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
