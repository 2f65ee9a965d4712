// Package labui provides the Bubble Tea lab interface.
package labui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cartlab/internal/config"
	"cartlab/internal/export"
	"cartlab/internal/model"
	"cartlab/internal/physics"
	"cartlab/internal/playback"
	"cartlab/internal/selection"
	"cartlab/internal/session"
	"cartlab/internal/signal"
	statsPkg "cartlab/internal/stats"
)

const (
	graphForce = iota
	graphVelocity
)

const (
	screenLab = iota
	screenResults
)

const (
	plotHeight     = 8
	frameInterval  = time.Second / 60
	handleHitCells = 1.5
	massStepKg     = 0.010
	minMassKg      = 0.010
	maxMassKg      = 0.500
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7AC97A"))
)

type frameMsg struct {
	generation int
	at         time.Time
}

// Model implements the Bubble Tea lab UI.
type Model struct {
	cfg   model.Config
	store *session.Store

	signals     model.TrialSignals
	measurement model.Measurement
	fit         *model.FitResult
	trialSeed   uint32

	forceSel *selection.Selector
	velSel   *selection.Selector
	cursor   *playback.Cursor

	width  int
	height int

	screen       int
	focusedGraph int
	dragGraph    int
	dragging     bool

	resultsTable table.Model

	errMsg    string
	statusMsg string
}

// NewModel constructs the lab UI and synthesizes the first trial.
func NewModel(cfg model.Config, store *session.Store) *Model {
	m := &Model{
		cfg:       cfg,
		store:     store,
		trialSeed: cfg.Seed,
		cursor:    playback.NewCursor(cfg.DurationS),
	}
	m.forceSel = selection.New(func(*model.Interval) { m.recomputeMeasurement() })
	m.velSel = selection.New(func(*model.Interval) { m.recomputeMeasurement() })
	m.initResultsTable()
	store.Subscribe(func() {
		m.fit = store.FitForScenario(m.cfg.Scenario)
		m.refreshResultsRows()
	})
	m.newTrial()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateHitRadius()
		m.resultsTable.SetWidth(msg.Width)
		return m, nil
	case frameMsg:
		if m.cursor.Advance(msg.at, msg.generation) {
			return m, frameCmd(msg.generation)
		}
		return m, nil
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
		return m, tea.Quit
	}
	m.statusMsg = ""

	if m.screen == screenResults {
		return m.handleResultsKey(msg)
	}

	switch msg.String() {
	case "tab":
		m.focusedGraph = (m.focusedGraph + 1) % 2
	case "o":
		m.screen = screenResults
		m.resultsTable.Focus()
	case "n":
		m.trialSeed++
		m.newTrial()
	case " ":
		if m.cursor.Playing() {
			m.cursor.Pause()
			return m, nil
		}
		return m, frameCmd(m.cursor.Play(time.Now()))
	case "a":
		m.acceptTrial()
	case "x":
		m.cfg.Noise = !m.cfg.Noise
		m.newTrial()
	case "s":
		m.cycleScenario()
	case "[":
		m.cyclePreset(-1)
	case "]":
		m.cyclePreset(1)
	case "-":
		m.stepMass(-massStepKg)
	case "=", "+":
		m.stepMass(massStepKg)
	case "e":
		m.exportRecords()
	case "r":
		m.forceSel.Clear()
		m.velSel.Clear()
	case "left":
		m.focusedSelector().Nudge(false, -m.cfg.NudgeStepS)
	case "right":
		m.focusedSelector().Nudge(false, m.cfg.NudgeStepS)
	case "shift+left":
		m.focusedSelector().Nudge(true, -m.cfg.NudgeStepS)
	case "shift+right":
		m.focusedSelector().Nudge(true, m.cfg.NudgeStepS)
	case "alt+left":
		m.focusedSelector().Nudge(false, -m.cfg.FineStepS)
	case "alt+right":
		m.focusedSelector().Nudge(false, m.cfg.FineStepS)
	case "alt+shift+left":
		m.focusedSelector().Nudge(true, -m.cfg.FineStepS)
	case "alt+shift+right":
		m.focusedSelector().Nudge(true, m.cfg.FineStepS)
	}
	return m, nil
}

func (m *Model) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "o", "esc":
		m.screen = screenLab
		m.resultsTable.Blur()
		return m, nil
	case "d":
		m.removeSelectedRecord()
		return m, nil
	case "e":
		m.exportRecords()
		return m, nil
	default:
		var cmd tea.Cmd
		m.resultsTable, cmd = m.resultsTable.Update(msg)
		return m, cmd
	}
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.screen != screenLab {
		return
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		graph, t, ok := m.locate(msg.X, msg.Y)
		if !ok {
			return
		}
		m.focusedGraph = graph
		m.dragGraph = graph
		m.dragging = true
		m.selector(graph).PointerDown(t)
	case tea.MouseActionMotion:
		if !m.dragging {
			return
		}
		t := m.timeAtColumn(msg.X)
		m.selector(m.dragGraph).PointerMove(t)
	case tea.MouseActionRelease:
		if !m.dragging {
			return
		}
		m.dragging = false
		m.selector(m.dragGraph).PointerUp()
	}
}

// locate maps a screen cell to a graph and a time coordinate. The lab view
// lays out the force graph first, then the velocity graph, each graphHeight
// rows tall.
func (m *Model) locate(x, y int) (int, float64, bool) {
	const graphTop = 2 // tab line + blank line
	graphHeight := plotHeight + 2
	switch {
	case y >= graphTop && y < graphTop+graphHeight:
		return graphForce, m.timeAtColumn(x), true
	case y >= graphTop+graphHeight+1 && y < graphTop+2*graphHeight+1:
		return graphVelocity, m.timeAtColumn(x), true
	default:
		return 0, 0, false
	}
}

func (m *Model) timeAtColumn(x int) float64 {
	t0, t1 := m.domain()
	col := x - statsPkg.AxisWidth
	return statsPkg.TimeAtColumn(t0, t1, col, m.plotWidth())
}

func (m *Model) plotWidth() int {
	return statsPkg.PlotWidthFor(m.width)
}

func (m *Model) domain() (float64, float64) {
	if len(m.signals.TimesS) == 0 {
		return 0, 0
	}
	return m.signals.TimesS[0], m.signals.TimesS[len(m.signals.TimesS)-1]
}

func (m *Model) selector(graph int) *selection.Selector {
	if graph == graphForce {
		return m.forceSel
	}
	return m.velSel
}

func (m *Model) focusedSelector() *selection.Selector {
	return m.selector(m.focusedGraph)
}

func (m *Model) newTrial() {
	result, err := physics.Compute(m.cfg.Scenario, m.cfg.Preset, m.cfg.HangingMassKg)
	if err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.signals = signal.Generate(result, signal.Options{
		Noise:        m.cfg.Noise,
		Seed:         m.trialSeed,
		DurationS:    m.cfg.DurationS,
		SampleRateHz: m.cfg.SampleRateHz,
	})
	t0, t1 := m.domain()
	m.forceSel.SetData(t0, t1, m.signals.MotionWindow)
	m.velSel.SetData(t0, t1, m.signals.MotionWindow)
	m.updateHitRadius()
	m.cursor.Reset(m.cfg.DurationS)
	m.recomputeMeasurement()
}

func (m *Model) updateHitRadius() {
	t0, t1 := m.domain()
	radius := handleHitCells * statsPkg.ColumnTimeSpan(t0, t1, m.plotWidth())
	m.forceSel.SetHitRadius(radius)
	m.velSel.SetHitRadius(radius)
}

// recomputeMeasurement runs synchronously on every selection change, so the
// published scalars always reflect the latest interval.
func (m *Model) recomputeMeasurement() {
	m.measurement = session.Measure(m.signals, m.forceSel.Selection(), m.velSel.Selection())
}

func (m *Model) acceptTrial() {
	if m.measurement.ForceMeanN == nil || m.measurement.AccelerationMps2 == nil {
		m.statusMsg = "cannot accept: insufficient data in one or both windows"
		return
	}
	forceWin := m.forceSel.Selection()
	velWin := m.velSel.Selection()
	rec := m.store.Append(model.TrialRecord{
		Scenario:         m.cfg.Scenario,
		Preset:           m.cfg.Preset,
		HangingMassKg:    m.cfg.HangingMassKg,
		ForceMeanN:       *m.measurement.ForceMeanN,
		AccelerationMps2: *m.measurement.AccelerationMps2,
		ForceWindow:      *forceWin,
		VelocityWindow:   *velWin,
		Noise:            m.cfg.Noise,
		Seed:             m.trialSeed,
	})
	m.statusMsg = fmt.Sprintf("accepted trial #%d", rec.ID)
}

func (m *Model) cycleScenario() {
	scenarios := physics.Scenarios()
	for i, s := range scenarios {
		if s == m.cfg.Scenario {
			m.cfg.Scenario = scenarios[(i+1)%len(scenarios)]
			break
		}
	}
	if list, err := physics.Presets(m.cfg.Scenario); err == nil && len(list) > 0 {
		m.cfg.Preset = list[0].ID
	}
	m.fit = m.store.FitForScenario(m.cfg.Scenario)
	m.trialSeed++
	m.newTrial()
}

func (m *Model) cyclePreset(delta int) {
	list, err := physics.Presets(m.cfg.Scenario)
	if err != nil || len(list) == 0 {
		return
	}
	idx := 0
	for i, p := range list {
		if p.ID == m.cfg.Preset {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(list)) % len(list)
	m.cfg.Preset = list[idx].ID
	m.trialSeed++
	m.newTrial()
}

func (m *Model) stepMass(delta float64) {
	mass := m.cfg.HangingMassKg + delta
	if mass < minMassKg {
		mass = minMassKg
	}
	if mass > maxMassKg {
		mass = maxMassKg
	}
	m.cfg.HangingMassKg = mass
	m.trialSeed++
	m.newTrial()
}

func (m *Model) removeSelectedRecord() {
	row := m.resultsTable.SelectedRow()
	if row == nil {
		return
	}
	var id int64
	if _, err := fmt.Sscanf(row[0], "%d", &id); err != nil {
		return
	}
	if m.store.Remove(id) {
		m.statusMsg = fmt.Sprintf("removed trial #%d", id)
	}
}

func (m *Model) exportRecords() {
	records := m.store.Records()
	if len(records) == 0 {
		m.statusMsg = "no accepted trials to export"
		return
	}
	dir := config.DefaultExportDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.errMsg = fmt.Sprintf("failed to create export dir: %v", err)
		return
	}
	path := filepath.Join(dir, time.Now().Format("trials-20060102-150405.csv"))
	f, err := os.Create(path)
	if err != nil {
		m.errMsg = fmt.Sprintf("failed to create export: %v", err)
		return
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close after a successful write.
			_ = cerr
		}
	}()
	if err := export.WriteRecordsCSV(f, records); err != nil {
		m.errMsg = fmt.Sprintf("failed to write export: %v", err)
		return
	}
	m.statusMsg = "exported " + path
}

func frameCmd(generation int) tea.Cmd {
	return tea.Tick(frameInterval, func(at time.Time) tea.Msg {
		return frameMsg{generation: generation, at: at}
	})
}
