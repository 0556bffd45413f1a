package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	terrors "github.com/matzehuels/termmap/pkg/errors"
	"github.com/matzehuels/termmap/pkg/highlight"
	"github.com/matzehuels/termmap/pkg/lambda"
	"github.com/matzehuels/termmap/pkg/termmap"
)

// Explorer styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)

	highlightColours = map[highlight.Colour]lipgloss.Color{
		highlight.Red:    colorRed,
		highlight.Blue:   colorBlue,
		highlight.Green:  colorGreen,
		highlight.Orange: lipgloss.Color("208"),
		highlight.Violet: lipgloss.Color("141"),
	}
)

// exploreCommand creates the explore command, an interactive redex browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var f termFlags

	cmd := &cobra.Command{
		Use:   "explore [term...]",
		Short: "Step through the redexes of a term interactively",
		Long: `Browse the beta-redexes of a term in the terminal.

Moving the cursor highlights the redex under it through the same highlight
queue the web view uses: unhighlights are applied first and at most one redex
is shown at a time. Enter contracts the selected redex, n takes a normal-order
step and b goes back.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := f.readTerm(cmd, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			term, lctx, err := lambda.Parse(src, lambda.WithFree(f.free...), lambda.WithMacros(c.loadMacros(ctx)))
			if err != nil {
				return err
			}
			opts := f.options(c, cmd, "", src)
			model, err := newExploreModel(ctx, term, lctx, exploreOptions{
				Map:   opts.MapOptions(),
				Delay: time.Duration(c.Config.Highlight.Delay),
			})
			if err != nil {
				return err
			}
			defer model.close()

			_, err = tea.NewProgram(model, tea.WithContext(ctx)).Run()
			return err
		},
	}

	f.register(cmd, false)
	return cmd
}

// =============================================================================
// exploreModel - Interactive redex browser
// =============================================================================

type exploreOptions struct {
	Map    termmap.Options
	Delay  time.Duration
	Manual bool // Drive the highlight queue with Step; used by tests
}

// highlightMsg carries one applied highlight change into the update loop.
type highlightMsg highlight.Event

// exploreModel is the bubbletea model of the explore command.
type exploreModel struct {
	ctx     context.Context
	opts    exploreOptions
	lctx    *lambda.Context
	history []lambda.Term

	m      *termmap.Map
	cursor int
	queue  *highlight.Queue
	state  *highlight.State
	events chan highlight.Event

	status string
	height int
}

func newExploreModel(ctx context.Context, term lambda.Term, lctx *lambda.Context, opts exploreOptions) (*exploreModel, error) {
	m := &exploreModel{
		ctx:    ctx,
		opts:   opts,
		lctx:   lctx,
		events: make(chan highlight.Event, 64),
		height: 15,
	}
	if err := m.load(term); err != nil {
		return nil, err
	}
	return m, nil
}

// load builds the map of term and makes it current.
func (m *exploreModel) load(term lambda.Term) error {
	built, err := termmap.Build(term, m.lctx.Clone(), m.opts.Map)
	if err != nil {
		return err
	}
	if m.queue != nil {
		m.queue.Close()
	}

	m.history = append(m.history, term)
	m.m = built
	m.cursor = 0
	m.state = highlight.NewState()
	state, events := m.state, m.events
	m.queue = highlight.New(built, highlight.SinkFunc(func(e highlight.Event) {
		state.Apply(e)
		select {
		case events <- e:
		default:
		}
	}), highlight.Options{Delay: m.opts.Delay, Manual: m.opts.Manual})

	if id := m.selected(); id != "" {
		_ = m.queue.Highlight(id)
	}
	return nil
}

func (m *exploreModel) close() {
	if m.queue != nil {
		m.queue.Close()
	}
}

func (m *exploreModel) term() lambda.Term { return m.history[len(m.history)-1] }

// selected returns the redex under the cursor, or "".
func (m *exploreModel) selected() string {
	if m.cursor < len(m.m.Redexes) {
		return m.m.Redexes[m.cursor].ID
	}
	return ""
}

func (m *exploreModel) waitForHighlight() tea.Cmd {
	events := m.events
	return func() tea.Msg { return highlightMsg(<-events) }
}

func (m *exploreModel) Init() tea.Cmd {
	return m.waitForHighlight()
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter", "r":
			m.contract()
		case "n":
			m.step()
		case "b", "backspace":
			m.back()
		}
	case highlightMsg:
		return m, m.waitForHighlight()
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
	}
	return m, nil
}

// move shifts the cursor and moves the highlight with it.
func (m *exploreModel) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.m.Redexes) {
		return
	}
	_ = m.queue.Unhighlight(m.selected())
	m.cursor = next
	_ = m.queue.Highlight(m.selected())
}

// contract reduces the selected redex.
func (m *exploreModel) contract() {
	r, ok := m.m.Redex(m.selected())
	if !ok {
		return
	}
	app, ok := m.m.Node(r.Application)
	if !ok {
		m.status = "redex has no application node"
		return
	}
	next, err := lambda.ReduceAt(m.term(), app.Path)
	if err != nil {
		m.status = terrors.UserMessage(err)
		return
	}
	m.advance(next, "contracted "+r.ID)
}

// step takes one normal-order step.
func (m *exploreModel) step() {
	next, ok := lambda.NormalStep(m.term())
	if !ok {
		m.status = "normal form reached"
		return
	}
	m.advance(next, "normal-order step")
}

func (m *exploreModel) advance(next lambda.Term, status string) {
	if err := m.load(next); err != nil {
		m.status = terrors.UserMessage(err)
		return
	}
	m.status = status
}

// back returns to the previous term.
func (m *exploreModel) back() {
	if len(m.history) < 2 {
		return
	}
	prev := m.history[len(m.history)-2]
	m.history = m.history[:len(m.history)-2]
	if err := m.load(prev); err != nil {
		m.status = terrors.UserMessage(err)
		return
	}
	m.status = "back"
}

func (m *exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("termmap explore"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  step %d", len(m.history)-1)))
	b.WriteString("\n")
	b.WriteString(StyleValue.Render(lambda.Print(m.term(), m.lctx)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ select  ⏎ contract  n normal step  b back  q quit"))
	b.WriteString("\n\n")

	if len(m.m.Redexes) == 0 {
		b.WriteString(StyleSuccess.Render("normal form"))
		b.WriteString("\n")
	}

	offset := 0
	if m.cursor >= m.height {
		offset = m.cursor - m.height + 1
	}
	end := min(offset+m.height, len(m.m.Redexes))
	for i := offset; i < end; i++ {
		r := m.m.Redexes[i]
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		id := r.ID
		if r.ID == m.state.Active() {
			colour := m.queue.Colour(r.ID)
			id = lipgloss.NewStyle().Bold(true).Foreground(highlightColours[colour]).Render(r.ID)
		}
		b.WriteString(cursor + id + "  " + style.Render(m.label(r)))
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d elements", len(r.Elements))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	stats := m.m.Stats()
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d nodes · %d edges · %d redexes · %d highlighted",
		len(m.m.Nodes), len(m.m.Edges), stats.BetaRedexes, m.state.Highlighted())))
	if m.status != "" {
		b.WriteString("\n  " + StyleDim.Render(m.status))
	}
	return b.String()
}

// label prints the redex with names.
func (m *exploreModel) label(r termmap.Redex) string {
	app, ok := m.m.Node(r.Application)
	if !ok {
		return r.Application
	}
	for _, lr := range lambda.Redexes(m.term()) {
		if lr.Path == app.Path {
			return truncate(lr.Label(m.term(), m.lctx), 60)
		}
	}
	return r.Application
}
