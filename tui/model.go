package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"rbf-calc/domain"
	"rbf-calc/repository"
	"rbf-calc/service"
)

// urlWrittenMsg tells the model the address bar changed.
type urlWrittenMsg struct{}

type urlState struct {
	values   domain.VariableSet
	selector domain.Variable
}

// urlSync mirrors the calculator state into the address bar. It is shared
// by every copy of Model.
type urlSync struct {
	address  *repository.AddressBar
	location service.Location
	notify   func(tea.Msg)

	edits     *service.Debouncer[urlState]
	selectors *service.Throttler[urlState]
}

func newURLSync(address *repository.AddressBar, loc service.Location, clock service.Clock) *urlSync {
	s := &urlSync{address: address, location: loc}
	s.edits = service.NewDebouncer(clock, service.EditDebounce, s.write)
	s.selectors = service.NewThrottler(clock, service.SelectorThrottle, s.write)
	return s
}

func (s *urlSync) write(st urlState) {
	service.ApplyURL(s.address, s.location, st.values.Values(), st.selector)
	// Writes can happen inside Update, where a blocking Send would deadlock.
	if s.notify != nil {
		go s.notify(urlWrittenMsg{})
	}
}

// Model is the interactive calculator.
type Model struct {
	values   domain.VariableSet
	solveFor domain.Variable
	inputs   []textinput.Model
	focus    int
	width    int

	sync *urlSync
}

// NewModel seeds the calculator from a share-link query string, falling
// back to the defaults.
func NewModel(address *repository.AddressBar, loc service.Location, rawQuery string, clock service.Clock) Model {
	params := service.DecodeURL(rawQuery)

	m := Model{
		values:   params.VariableSet(),
		solveFor: params.Selector(),
		inputs:   make([]textinput.Model, len(domain.Solvable)),
		sync:     newURLSync(address, loc, clock),
	}
	for i, v := range domain.Solvable {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 20
		ti.Width = 16
		ti.SetValue(formatInput(m.values.Get(v)))
		m.inputs[i] = ti
	}

	m.recompute()
	m.focus = m.nextEditable(-1, 1)
	m.inputs[m.focus].Focus()
	m.sync.selectors.Call(urlState{values: m.values, selector: m.solveFor})
	return m
}

// SetNotifier routes address bar writes back into the program so the view
// refreshes.
func (m Model) SetNotifier(notify func(tea.Msg)) {
	m.sync.notify = notify
}

func (m Model) Values() domain.VariableSet { return m.values }

func (m Model) SolveFor() domain.Variable { return m.solveFor }

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case urlWrittenMsg:
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.sync.edits.Flush()
			m.sync.selectors.Flush()
			return m, tea.Quit
		case "tab", "down", "enter":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "ctrl+n":
			m.cycleSolveFor(1)
			return m, nil
		case "ctrl+p":
			m.cycleSolveFor(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.inputs[m.focus].Value()
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	if m.inputs[m.focus].Value() != before {
		m.edit(domain.Solvable[m.focus], m.inputs[m.focus].Value())
	}
	return m, cmd
}

// edit applies a keystroke-level change. Unparsable text counts as 0.
func (m *Model) edit(v domain.Variable, raw string) {
	m.values = m.values.With(v, parseInput(raw))
	m.recompute()
	m.sync.edits.Call(urlState{values: m.values, selector: m.solveFor})
}

// commit normalizes the focused field to two decimals, as leaving a field
// does.
func (m *Model) commit() {
	v := domain.Solvable[m.focus]
	if v == m.solveFor {
		return
	}
	value := math.Round(parseInput(m.inputs[m.focus].Value())*100) / 100
	m.inputs[m.focus].SetValue(formatInput(value))
	m.values = m.values.With(v, value)
	m.recompute()
	m.sync.edits.Call(urlState{values: m.values, selector: m.solveFor})
}

func (m *Model) moveFocus(dir int) tea.Cmd {
	m.commit()
	m.inputs[m.focus].Blur()
	m.focus = m.nextEditable(m.focus, dir)
	return m.inputs[m.focus].Focus()
}

// nextEditable steps from i in direction dir, skipping the solved field.
func (m *Model) nextEditable(i, dir int) int {
	n := len(domain.Solvable)
	for step := 0; step < n; step++ {
		i = ((i+dir)%n + n) % n
		if domain.Solvable[i] != m.solveFor {
			return i
		}
	}
	return 0
}

func (m *Model) cycleSolveFor(dir int) {
	idx := 0
	for i, v := range domain.Solvable {
		if v == m.solveFor {
			idx = i
		}
	}
	n := len(domain.Solvable)
	m.solveFor = domain.Solvable[((idx+dir)%n+n)%n]
	m.recompute()

	if domain.Solvable[m.focus] == m.solveFor {
		m.inputs[m.focus].Blur()
		m.focus = m.nextEditable(m.focus, 1)
		m.inputs[m.focus].Focus()
	}
	m.sync.selectors.Call(urlState{values: m.values, selector: m.solveFor})
}

// recompute overwrites the solved field and its input.
func (m *Model) recompute() {
	m.values = service.Recompute(m.values, m.solveFor)
	for i, v := range domain.Solvable {
		if v == m.solveFor {
			m.inputs[i].SetValue(formatInput(m.values.Get(v)))
		}
	}
}

func parseInput(raw string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func formatInput(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Revenue-Based Financing Calculator"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Solving for: %s\n\n", SolvedStyle.Render(m.solveFor.Label())))

	for i, v := range domain.Solvable {
		label := LabelStyle.Render(v.Label())
		if i == m.focus {
			label = FocusedLabelStyle.Render(v.Label())
		}

		var field string
		switch {
		case v == m.solveFor:
			field = SolvedStyle.Render(service.Format(v, m.values.Get(v)))
		case v == domain.FactorRate && service.IsFactorRateLow(m.values.FactorRate):
			field = WarningStyle.Render(m.inputs[i].View())
		default:
			field = m.inputs[i].View()
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, label, field))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(BoxStyle.Render(m.summary()))
	b.WriteString("\n")
	b.WriteString(StatusBarStyle.Render(m.sync.address.Current()))
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("tab/↑↓ move • ctrl+n/ctrl+p change solved variable • esc quit"))

	return b.String()
}

func (m Model) summary() string {
	derived := m.values.Derived()
	lines := []string{
		fmt.Sprintf("Repayment Obligation: %s", service.Format(domain.RepaymentObligation, derived.RepaymentObligation)),
		fmt.Sprintf("Cost of Capital:      %s", service.Format(domain.CostOfCapital, derived.CostOfCapital)),
		fmt.Sprintf("Monthly Revenue:      $%.2f", service.MonthlyRevenue(m.values)),
		fmt.Sprintf("Monthly Payment:      $%.2f", service.MonthlyPayment(m.values)),
		fmt.Sprintf("Repayment Period:     %s years", service.RepaymentYears(m.values.RepaymentPeriod)),
		fmt.Sprintf("Effective Annual Rate: %.2f%%",
			service.EffectiveAnnualRate(m.values.FactorRate, m.values.RepaymentPeriod)),
	}
	if service.IsFactorRateLow(m.values.FactorRate) {
		lines = append(lines, WarningStyle.Render("Factor rate at or below 1.00x"))
	}
	return strings.Join(lines, "\n")
}
