// ============================================================================
// mcpi - Monte-Carlo-Pi Benchmark
// ============================================================================
//
// Package:     visualizer
// Description: Bubbletea model plotting a live Monte Carlo estimate of π
// Author:      Mike Stoffels
// Created:     2026-09-30
// License:     MIT
// ============================================================================

package visualizer

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	mcerror "github.com/msto63/mcpi/foundation/core/error"
	mclog "github.com/msto63/mcpi/foundation/core/log"
	"github.com/msto63/mcpi/internal/buffon/model"
	"github.com/msto63/mcpi/internal/buffon/visual"
	"github.com/msto63/mcpi/internal/tui"
	"github.com/msto63/mcpi/pkg/core/config"
	"github.com/msto63/mcpi/pkg/core/version"
)

const tickInterval = 100 * time.Millisecond

// Config holds visualizer configuration
type Config struct {
	Points     int64
	Threads    int
	Mode       visual.Mode
	Pace       time.Duration
	Seed       uint64
	MaxThreads int
	Logger     *mclog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Points:     10_000,
		Threads:    4,
		Mode:       visual.Sequential,
		Pace:       time.Millisecond,
		MaxThreads: config.MaxVisualThreads,
	}
}

// Model is the Bubbletea model of the visualizer
type Model struct {
	width  int
	height int

	keys     keyMap
	help     help.Model
	progress progress.Model
	spinner  spinner.Model
	canvas   *canvas

	cfg    Config
	logger *mclog.Logger

	// current or last run
	runID    int
	run      *run
	cancel   context.CancelFunc
	running  bool
	started  time.Time
	elapsed  time.Duration
	snapshot visual.Progress
	status   string
	err      error
}

// New creates a visualizer model
func New(cfg Config) Model {
	if cfg.MaxThreads < 1 {
		cfg.MaxThreads = config.MaxVisualThreads
	}
	cfg.Threads = clamp(cfg.Threads, 1, cfg.MaxThreads)
	if cfg.Logger == nil {
		cfg.Logger = mclog.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(tui.ColorPrimary)

	return Model{
		keys:     defaultKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient()),
		spinner:  sp,
		canvas:   newCanvas(60, 20),
		cfg:      cfg,
		logger:   cfg.Logger.WithName("visualizer"),
		status:   "ready",
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// side panel, borders and the header/help lines
		m.canvas.resize(msg.Width-34, msg.Height-6)
		m.progress.Width = max(10, msg.Width-40)
		m.help.Width = msg.Width

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		if m.running {
			m.elapsed = time.Since(m.started)
			return m, tick()
		}

	case batchMsg:
		if msg.runID != m.runID {
			return m, nil
		}
		m.applyBatch(msg)
		return m, waitForRun(m.run)

	case doneMsg:
		if msg.runID != m.runID {
			return m, nil
		}
		m.finish(msg)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Start):
		if m.running {
			return m, nil
		}
		return m, m.start()

	case key.Matches(msg, m.keys.Stop):
		m.stop()

	case key.Matches(msg, m.keys.Clear):
		if !m.running {
			m.canvas.clear()
			m.snapshot = visual.Progress{}
			m.elapsed = 0
			m.err = nil
			m.status = "ready"
		}

	case key.Matches(msg, m.keys.Mode):
		if !m.running {
			if m.cfg.Mode == visual.Sequential {
				m.cfg.Mode = visual.Parallel
			} else {
				m.cfg.Mode = visual.Sequential
			}
		}

	case key.Matches(msg, m.keys.More):
		if !m.running {
			m.cfg.Threads = min(m.cfg.Threads+1, m.cfg.MaxThreads)
		}

	case key.Matches(msg, m.keys.Less):
		if !m.running {
			m.cfg.Threads = max(m.cfg.Threads-1, 1)
		}
	}

	return m, nil
}

// start launches visual.Run on its own goroutine. Samples collected between
// two progress snapshots travel to the model as one batch.
func (m *Model) start() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.runID++
	r := newRun(m.runID)

	m.run = r
	m.cancel = cancel
	m.running = true
	m.started = time.Now()
	m.elapsed = 0
	m.err = nil
	m.status = "running"
	m.snapshot = visual.Progress{Total: m.cfg.Points}
	m.canvas.clear()

	opts := visual.Options{
		TotalPoints: m.cfg.Points,
		Mode:        m.cfg.Mode,
		Threads:     m.cfg.Threads,
		Seed:        m.cfg.Seed,
		Pace:        m.cfg.Pace,
	}
	m.logger.Debug("visual run started", mclog.Fields{
		"points":  opts.TotalPoints,
		"mode":    opts.Mode.String(),
		"threads": opts.Threads,
	})

	go func() {
		var pending []model.PointSample
		observe := func(p model.PointSample) {
			pending = append(pending, p)
		}
		report := func(p visual.Progress) {
			select {
			case r.updates <- batchMsg{runID: r.id, samples: pending, progress: p}:
			case <-ctx.Done():
			}
			pending = nil
		}

		out, err := visual.Run(ctx, opts, observe, report)
		r.done <- doneMsg{runID: r.id, outcome: out, err: err}
	}()

	return tea.Batch(waitForRun(r), tick())
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Model) applyBatch(msg batchMsg) {
	for _, p := range msg.samples {
		m.canvas.plot(p)
	}
	m.snapshot = msg.progress
}

func (m *Model) finish(msg doneMsg) {
	// batches still buffered when the run returned
	for drained := false; !drained; {
		select {
		case b := <-m.run.updates:
			m.applyBatch(b)
		default:
			drained = true
		}
	}

	m.running = false
	m.elapsed = time.Since(m.started)
	m.cancel()
	m.snapshot.Processed = msg.outcome.Processed
	m.snapshot.Inside = msg.outcome.Inside
	m.snapshot.Estimate = msg.outcome.Estimate

	fields := mclog.Fields{
		"processed":  msg.outcome.Processed,
		"estimate":   msg.outcome.Estimate,
		"elapsed_ms": m.elapsed.Milliseconds(),
	}
	switch {
	case msg.err == nil:
		m.status = "done"
		m.logger.Info("visual run completed", fields)
	case mcerror.HasCode(msg.err, mcerror.CodeCancelled):
		m.status = "stopped"
		m.logger.Info("visual run stopped", fields)
	default:
		m.status = "failed"
		m.err = msg.err
		m.logger.LogError(msg.err, fields)
	}
}

func waitForRun(r *run) tea.Cmd {
	return func() tea.Msg {
		select {
		case b := <-r.updates:
			return b
		case d := <-r.done:
			return d
		}
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(tui.RenderTitle("Monte Carlo π " + tui.SubtitleStyle.Render("v"+version.Visualizer)))
	b.WriteString("\n")

	plot := tui.BoxStyle.Render(m.canvas.render())
	if m.running {
		plot = tui.FocusedBoxStyle.Render(m.canvas.render())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, plot, " ", m.renderPanel()))
	b.WriteString("\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(tui.RenderHelp(m.help.View(m.keys)))

	return b.String()
}

func (m Model) renderPanel() string {
	estimate, absErr := "-", "-"
	if m.snapshot.Processed > 0 {
		estimate = fmt.Sprintf("%.6f", m.snapshot.Estimate)
		absErr = fmt.Sprintf("%.6f", math.Abs(m.snapshot.Estimate-math.Pi))
	}

	rows := []struct{ label, value string }{
		{"π estimate", estimate},
		{"Error", absErr},
		{"Actual π", fmt.Sprintf("%.6f", math.Pi)},
		{"Points", fmt.Sprintf("%d / %d", m.snapshot.Processed, m.cfg.Points)},
		{"Inside", fmt.Sprintf("%d", m.snapshot.Inside)},
		{"Elapsed", m.elapsed.Round(time.Millisecond).String()},
		{"Mode", m.cfg.Mode.String()},
		{"Threads", fmt.Sprintf("%d", m.cfg.Threads)},
	}

	lines := make([]string, 0, len(rows)+2)
	for i, r := range rows {
		value := tui.ValueStyle.Render(r.value)
		if i == 0 {
			value = tui.AccentStyle.Render(r.value)
		}
		lines = append(lines, tui.LabelStyle.Render(fmt.Sprintf("%-11s", r.label))+" "+value)
	}
	lines = append(lines, "",
		tui.InsidePointStyle.Render("•")+" inside  "+tui.OutsidePointStyle.Render("•")+" outside")

	return tui.BoxStyle.Width(30).Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatusBar() string {
	var state string
	switch {
	case m.running:
		state = m.spinner.View() + " " + m.status
	case m.err != nil:
		state = tui.RenderError(m.err.Error())
	default:
		state = tui.StatusOKStyle.Render(m.status)
	}

	fraction := 0.0
	if m.cfg.Points > 0 {
		fraction = float64(m.snapshot.Processed) / float64(m.cfg.Points)
	}
	return tui.StatusBarStyle.Render(m.progress.ViewAs(fraction) + "  " + state)
}

// Run starts the visualizer TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
