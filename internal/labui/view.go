package labui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"cartlab/internal/physics"
	statsPkg "cartlab/internal/stats"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.screen == screenResults {
		return m.viewResults()
	}
	return m.viewLab()
}

func (m *Model) viewLab() string {
	var b strings.Builder
	b.WriteString(m.renderHeaderLine())
	b.WriteString("\n\n")

	var cursorS *float64
	if m.cursor.Playing() || m.cursor.TimeS() > 0 {
		t := m.cursor.TimeS()
		cursorS = &t
	}

	forceGraph := statsPkg.Graph{
		Title:     "Force",
		Unit:      "N",
		Times:     m.signals.TimesS,
		Values:    m.signals.ForceN,
		Motion:    m.signals.MotionWindow,
		Selection: m.forceSel.Selection(),
		CursorS:   cursorS,
		Focused:   m.focusedGraph == graphForce,
	}
	velGraph := statsPkg.Graph{
		Title:     "Velocity",
		Unit:      "m/s",
		Times:     m.signals.TimesS,
		Values:    m.signals.VelocityMps,
		Motion:    m.signals.MotionWindow,
		Selection: m.velSel.Selection(),
		CursorS:   cursorS,
		Focused:   m.focusedGraph == graphVelocity,
	}
	b.WriteString(forceGraph.Render(m.plotWidth(), plotHeight, true))
	b.WriteString("\n")
	b.WriteString(velGraph.Render(m.plotWidth(), plotHeight, true))
	b.WriteString("\n")
	b.WriteString(m.renderMeasurementLine())
	b.WriteString("\n")
	b.WriteString(m.renderFitLine())
	b.WriteString("\n")
	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	} else if m.statusMsg != "" {
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render(labHelp))
	return b.String()
}

const labHelp = "drag/click: select · ←/→ end · shift+←/→ start · alt: fine · tab: graph · " +
	"n: trial · space: play · a: accept · x: noise · s: scenario · [/]: preset · -/=: mass · " +
	"o: results · e: export · r: clear · q: quit"

func (m *Model) renderHeaderLine() string {
	presetLabel := m.cfg.Preset
	if p, err := physics.LookupPreset(m.cfg.Scenario, m.cfg.Preset); err == nil {
		presetLabel = p.Label
	}
	noise := "off"
	if m.cfg.Noise {
		noise = "on"
	}
	parts := []string{
		titleStyle.Render("cartlab"),
		fmt.Sprintf("%s / %s", m.cfg.Scenario, presetLabel),
		fmt.Sprintf("hanging mass %s", valueStyle.Render(fmt.Sprintf("%.0f g", m.cfg.HangingMassKg*1000))),
		fmt.Sprintf("noise %s", valueStyle.Render(noise)),
		fmt.Sprintf("seed %d", m.trialSeed),
	}
	return strings.Join(parts, mutedStyle.Render("  ·  "))
}

func (m *Model) renderMeasurementLine() string {
	force := "insufficient data"
	if m.measurement.ForceMeanN != nil {
		force = fmt.Sprintf("%.3f N", *m.measurement.ForceMeanN)
	}
	accel := "insufficient data"
	if m.measurement.AccelerationMps2 != nil {
		accel = fmt.Sprintf("%.3f m/s²", *m.measurement.AccelerationMps2)
	}
	return fmt.Sprintf("mean force: %s    acceleration slope: %s",
		valueStyle.Render(force), valueStyle.Render(accel))
}

func (m *Model) renderFitLine() string {
	count := len(m.store.ForScenario(m.cfg.Scenario))
	if m.fit == nil {
		return mutedStyle.Render(fmt.Sprintf("fit (%s): need at least 2 accepted trials, have %d", m.cfg.Scenario, count))
	}
	eq := fmt.Sprintf("F = %.3f·a %+.3f  (R²=%.4f, n=%d)",
		m.fit.Slope, m.fit.Intercept, m.fit.R2, m.fit.Count)
	return fmt.Sprintf("fit (%s): %s", m.cfg.Scenario, valueStyle.Render(eq))
}

func (m *Model) viewResults() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Accepted trials"))
	b.WriteString("\n\n")
	b.WriteString(m.resultsTable.View())
	b.WriteString("\n\n")
	for _, scenario := range physics.Scenarios() {
		fit := m.store.FitForScenario(scenario)
		if fit == nil {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("%-10s no fit yet", scenario)))
		} else {
			b.WriteString(fmt.Sprintf("%-10s F = %.3f·a %+.3f  (R²=%.4f, n=%d)",
				scenario, fit.Slope, fit.Intercept, fit.R2, fit.Count))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.statusMsg != "" {
		b.WriteString(statusStyle.Render(m.statusMsg))
		b.WriteString("\n")
	}
	b.WriteString(footerStyle.Render("↑/↓: select · d: remove · e: export · o/esc: back · q: quit"))
	return b.String()
}

func (m *Model) initResultsTable() {
	columns := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "Scenario", Width: 10},
		{Title: "Preset", Width: 10},
		{Title: "Mass (g)", Width: 9},
		{Title: "Force (N)", Width: 10},
		{Title: "Accel (m/s²)", Width: 13},
		{Title: "Noise", Width: 6},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#4A4A4A"))
	t.SetStyles(styles)
	m.resultsTable = t
	m.refreshResultsRows()
}

func (m *Model) refreshResultsRows() {
	records := m.store.Records()
	rows := make([]table.Row, 0, len(records))
	for _, rec := range records {
		noise := "off"
		if rec.Noise {
			noise = "on"
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", rec.ID),
			rec.Scenario,
			rec.Preset,
			fmt.Sprintf("%.0f", rec.HangingMassKg*1000),
			fmt.Sprintf("%.3f", rec.ForceMeanN),
			fmt.Sprintf("%.3f", rec.AccelerationMps2),
			noise,
		})
	}
	m.resultsTable.SetRows(rows)
}
