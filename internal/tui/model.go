// Package tui is a terminal front end over the scoring service.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	json "github.com/goccy/go-json"

	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/internal/domain/realm"
	"github.com/okian/realm/internal/domain/types"
)

const (
	barWidth      = 25
	bigStep       = 10
	historyLines  = 5
	dispatchLimit = 5 * time.Second
)

// Port is the slice of the service the terminal UI drives.
type Port interface {
	State() realm.State
	SetScore(ctx context.Context, d model.Dimension, value int) (realm.State, error)
	SaveSnapshot(ctx context.Context, requestID string) (model.Snapshot, bool, error)
	AddOpportunity(ctx context.Context, requestID string, d model.Draft) (model.Opportunity, bool, error)
	EditDraft(ctx context.Context, d model.Draft) (realm.State, error)
}

// StateMsg carries the outcome of one dispatched action.
type StateMsg struct {
	State realm.State
	Note  string
	Err   error
}

// row identifies the focused line: the five sliders, then the form.
type row int

const (
	rowIdea row = iota + row(len(model.Dimensions))
	rowImpact
	rowNovelty
	rowAlignment
	rowCount
)

// Model is the Bubble Tea model for the scoring screen.
type Model struct {
	port    Port
	state   types.StateView
	focus   row
	editing bool
	idea    textinput.Model
	status  string
	err     error
	width   int

	// Actions run one at a time in key order. While one is in flight the
	// rest wait in pending and state holds the locally predicted values.
	inFlight bool
	pending  []tea.Cmd
}

// New creates a Model showing the port's current state.
func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "New idea"
	ti.CharLimit = 200
	ti.Width = 40

	st := port.State()
	ti.SetValue(st.Draft.Idea)
	return Model{port: port, state: types.View(st), idea: ti}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case StateMsg:
		m.err = msg.Err
		if msg.Err == nil && msg.Note != "" {
			m.status = msg.Note
		}
		if len(m.pending) > 0 {
			next := m.pending[0]
			m.pending = m.pending[1:]
			return m, next
		}
		m.inFlight = false
		st := msg.State
		if msg.Err != nil {
			// Drop predictions that did not land.
			st = m.port.State()
		}
		m.state = types.View(st)
		if !m.editing {
			m.idea.SetValue(m.state.Draft.Idea)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.editing = false
		m.idea.Blur()
		return m.send(m.editDraft(m.draft()))
	case "enter":
		m.editing = false
		m.idea.Blur()
		return m.send(m.addOpportunity())
	}
	var cmd tea.Cmd
	m.idea, cmd = m.idea.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.focus = (m.focus + rowCount - 1) % rowCount
	case "down", "j", "tab":
		m.focus = (m.focus + 1) % rowCount
	case "left", "h":
		return m.adjust(-1)
	case "right", "l":
		return m.adjust(1)
	case "shift+left", "H":
		return m.adjust(-bigStep)
	case "shift+right", "L":
		return m.adjust(bigStep)
	case "s":
		return m.send(m.saveSnapshot())
	case "i":
		m.focus = rowIdea
		m.editing = true
		return m, m.idea.Focus()
	case "enter":
		if m.focus == rowIdea {
			m.editing = true
			return m, m.idea.Focus()
		}
		if m.focus > rowIdea {
			return m.send(m.addOpportunity())
		}
	}
	return m, nil
}

// adjust moves the focused slider or rating by delta, clamped to its range.
// The new value is shown at once so a following key builds on it.
func (m Model) adjust(delta int) (Model, tea.Cmd) {
	if int(m.focus) < len(model.Dimensions) {
		d := model.Dimensions[m.focus]
		v := min(max(m.state.Scores.Get(d)+delta, model.MinScore), model.MaxScore)
		scores, err := m.state.Scores.With(d, v)
		if err != nil {
			return m, nil
		}
		m.state.Scores = scores
		return m.send(m.dispatch(func(ctx context.Context) (realm.State, string, error) {
			st, err := m.port.SetScore(ctx, d, v)
			return st, "", err
		}))
	}

	draft := m.draft()
	var r *int
	switch m.focus {
	case rowImpact:
		r = &draft.Impact
	case rowNovelty:
		r = &draft.Novelty
	case rowAlignment:
		r = &draft.Alignment
	default:
		return m, nil
	}
	*r = min(max(*r+delta, model.MinRating), model.MaxRating)
	m.state.Draft = draft
	return m.send(m.editDraft(draft))
}

// send starts cmd, or queues it behind the action in flight.
func (m Model) send(cmd tea.Cmd) (Model, tea.Cmd) {
	if m.inFlight {
		m.pending = append(m.pending, cmd)
		return m, nil
	}
	m.inFlight = true
	return m, cmd
}

func (m Model) draft() model.Draft {
	d := m.state.Draft
	d.Idea = m.idea.Value()
	return d
}

func (m Model) editDraft(d model.Draft) tea.Cmd {
	return m.dispatch(func(ctx context.Context) (realm.State, string, error) {
		st, err := m.port.EditDraft(ctx, d)
		return st, "", err
	})
}

func (m Model) saveSnapshot() tea.Cmd {
	id := uuid.NewString()
	return m.dispatch(func(ctx context.Context) (realm.State, string, error) {
		snap, _, err := m.port.SaveSnapshot(ctx, id)
		if err != nil {
			return realm.State{}, "", err
		}
		return m.port.State(), "Snapshot saved for " + snap.Date, nil
	})
}

func (m Model) addOpportunity() tea.Cmd {
	d, id := m.draft(), uuid.NewString()
	return m.dispatch(func(ctx context.Context) (realm.State, string, error) {
		opp, _, err := m.port.AddOpportunity(ctx, id, d)
		if err != nil {
			return realm.State{}, "", err
		}
		return m.port.State(), fmt.Sprintf("Added %q (%.1f)", opp.Idea, opp.Score), nil
	})
}

func (m Model) dispatch(fn func(ctx context.Context) (realm.State, string, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchLimit)
		defer cancel()
		st, note, err := fn(ctx)
		return StateMsg{State: st, Note: note, Err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("REALM Brand Health"))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Scores"))
	b.WriteString("\n")
	for i, p := range m.state.Chart {
		b.WriteString(m.cursor(row(i)))
		fmt.Fprintf(&b, "%-11s %s %3d\n", p.Dimension.Name(), bar(p.Score), p.Score)
	}

	if len(m.state.Recommendations) > 0 {
		b.WriteString(headerStyle.Render("Recommendations"))
		b.WriteString("\n")
		b.WriteString(adviceStyle.Render(strings.Join(m.state.Recommendations, "\n")))
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("History (%d)", len(m.state.History))))
	b.WriteString("\n")
	hist := m.state.History
	if len(hist) > historyLines {
		hist = hist[len(hist)-historyLines:]
	}
	for _, s := range hist {
		scores, _ := json.Marshal(s.Scores)
		fmt.Fprintf(&b, "  %s → %s\n", s.Date, scores)
	}
	if len(hist) == 0 {
		b.WriteString(mutedStyle.Render("  no snapshots yet"))
		b.WriteString("\n")
	}

	b.WriteString(headerStyle.Render("Opportunities"))
	b.WriteString("\n")
	b.WriteString(m.cursor(rowIdea))
	b.WriteString(m.idea.View())
	b.WriteString("\n")
	for _, r := range []struct {
		row   row
		label string
		value int
	}{
		{rowImpact, "Impact", m.state.Draft.Impact},
		{rowNovelty, "Novelty", m.state.Draft.Novelty},
		{rowAlignment, "Alignment", m.state.Draft.Alignment},
	} {
		b.WriteString(m.cursor(r.row))
		fmt.Fprintf(&b, "%-10s %2d\n", r.label, r.value)
	}
	for _, o := range m.state.Opportunities {
		fmt.Fprintf(&b, "  ⭐ %s → Score: %.1f\n", o.Idea, o.Score)
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(help())
	return b.String()
}

func (m Model) cursor(r row) string {
	if m.focus == r {
		return focusStyle.Render("> ")
	}
	return "  "
}

func bar(score int) string {
	filled := score * barWidth / model.MaxScore
	s := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	if score < 40 {
		return lowBarStyle.Render(s)
	}
	return okBarStyle.Render(s)
}

func help() string {
	keys := []string{"↑/↓ move", "←/→ adjust", "H/L ±10", "s snapshot", "i idea", "enter add", "q quit"}
	for i, k := range keys {
		key, desc, _ := strings.Cut(k, " ")
		keys[i] = helpKeyStyle.Render(key) + " " + mutedStyle.Render(desc)
	}
	return strings.Join(keys, "  ")
}

// Run starts the full-screen program and blocks until the user quits.
func Run(port Port, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(New(port), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...).Run()
	return err
}
