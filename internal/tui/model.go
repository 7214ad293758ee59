package tui

import (
	"io"
	"log/slog"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"

	"sagamino/internal/geodesy"
	"sagamino/internal/network"
	"sagamino/internal/render"
	"sagamino/internal/survey"
)

const (
	headerHeight = 1
	footerHeight = 2
	sidebarWidth = 28
	panelWidth   = 40
)

type Options struct {
	Registry *survey.Registry
	Geodesy  geodesy.Adapter
	Speed    float64
	Frame    time.Duration
	Initial  orb.Bound
	Wide     orb.Bound
	Logger   *slog.Logger
}

type Model struct {
	width  int
	height int

	ctrl  *network.Controller
	src   *render.Sources
	frame time.Duration
	gen   int // bumps on start and reset; stale frames are dropped

	keys        keyMap
	helpVisible bool
	showSidebar bool
	notesName   string
	status      string

	// viewport
	view    orb.Bound
	zoom    float64
	offsetX int
	offsetY int

	// point list
	l list.Model

	// speed entry
	speedMode bool
	ti        textinput.Model

	// detail popup
	detailName string
	detailText string
	tbl        table.Model

	// hover state
	hovering   bool
	hoverName  string
	hoverCellX int
	hoverCellY int
}

func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	reg := opts.Registry
	if reg == nil {
		reg = survey.Sagamino()
	}
	if opts.Speed == 0 {
		opts.Speed = network.DefaultSpeed
	}
	if opts.Frame <= 0 {
		opts.Frame = 16 * time.Millisecond
	}
	if opts.Initial.IsZero() {
		opts.Initial = reg.Bound().Pad(0.02)
	}
	if opts.Wide.IsZero() {
		opts.Wide = network.DefaultWideBounds
	}

	ctrl := network.NewController(reg, opts.Geodesy,
		network.WithSpeed(opts.Speed),
		network.WithLogger(logger),
		network.WithWideBounds(opts.Wide),
	)
	src := render.NewSources().AddAll()
	pub := render.NewPublisher(src, ctrl.Graph(), opts.Geodesy, opts.Initial, logger)
	ctrl.OnEvent(pub.Handle)
	src.FitBounds(opts.Initial)
	pub.Publish(ctrl.Snapshot())

	m := Model{
		ctrl:        ctrl,
		src:         src,
		frame:       opts.Frame,
		keys:        defaultKeys(),
		helpVisible: true,
		status:      "ready",
		view:        opts.Initial,
		zoom:        1.0,
	}

	d := list.NewDefaultDelegate()
	m.l = list.New(pointItems(reg), d, 0, 0)
	m.l.Title = "Points"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.l.DisableQuitKeybindings()

	m.ti = textinput.New()
	m.ti.Placeholder = "0.1 - 2.0"
	m.ti.CharLimit = 6
	m.ti.Width = 8

	m.tbl = table.New(table.WithColumns(detailColumns()), table.WithFocused(false))
	m.tbl.SetHeight(6)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Controller exposes the state machine driving the model.
func (m Model) Controller() *network.Controller { return m.ctrl }

// Sources exposes the rendered source payloads.
func (m Model) Sources() *render.Sources { return m.src }
