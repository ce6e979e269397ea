package cli

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"

	"github.com/dualsubstrate/web4r-go/internal/graph"
	"github.com/dualsubstrate/web4r-go/internal/models"
)

// hopMsg carries one assembled hop from the build goroutine.
type hopMsg graph.HopUpdate

// buildDoneMsg carries the finished graph.
type buildDoneMsg struct {
	graph *graph.Graph
}

// walkModel is the bubbletea model for walk assembly. The graph builder
// runs in a goroutine and streams hop updates through the channel; the
// model only renders what has arrived so far.
type walkModel struct {
	updates  <-chan tea.Msg
	progress progress.Model
	theme    Theme
	total    int
	hops     []graph.HopUpdate
	graph    *graph.Graph
	done     bool
	quitting bool
}

func newWalkModel(updates <-chan tea.Msg, total int) walkModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)

	return walkModel{
		updates:  updates,
		progress: prog,
		theme:    defaultTheme,
		total:    total,
	}
}

func (m walkModel) Init() tea.Cmd {
	return tea.Batch(
		m.waitForUpdate(),
		m.progress.Init(),
	)
}

func (m walkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		}

	case hopMsg:
		m.hops = append(m.hops, graph.HopUpdate(msg))
		return m, m.waitForUpdate()

	case buildDoneMsg:
		m.graph = msg.graph
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m walkModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m walkModel) renderContent() string {
	if m.done {
		return m.theme.completedStyle().Render("✓ Walk assembled") + "\n"
	}
	if m.quitting {
		return m.theme.hintStyle().Render("\nWalk assembly cancelled.\n")
	}

	var pct float64
	if m.total > 0 {
		pct = float64(len(m.hops)) / float64(m.total)
	}

	current := "resolving start..."
	if n := len(m.hops); n > 0 {
		current = m.hops[n-1].Coord
	}

	progressBar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d hops", len(m.hops), m.total)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to cancel")

	return fmt.Sprintf("%s %s\n%s\n%s\n",
		progressBar, counts,
		m.theme.metricValueStyle().Render("→ "+current),
		hint)
}

// waitForUpdate blocks on the build channel until the next hop arrives.
func (m walkModel) waitForUpdate() tea.Cmd {
	return func() tea.Msg {
		return <-m.updates
	}
}

// runWalkProgress assembles the walk graph with an interactive progress
// display. The builder resolves each hop against the ledger, so on slow
// links the bar shows which coordinate is holding things up.
func runWalkProgress(result *models.WalkResult, maxHops int, resolve graph.DetailResolver, opts ...graph.Option) (*graph.Graph, error) {
	total := len(result.Steps)
	if total > maxHops {
		total = maxHops
	}

	// Buffered so the builder never blocks if the user quits early.
	updates := make(chan tea.Msg, total+1)

	go func() {
		opts := append(opts, graph.WithObserver(func(u graph.HopUpdate) {
			updates <- hopMsg(u)
		}))
		g := graph.Build(result.Path, result.Steps, maxHops, resolve, opts...)
		updates <- buildDoneMsg{graph: g}
	}()

	p := tea.NewProgram(newWalkModel(updates, total))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("progress UI error: %w", err)
	}

	m, ok := finalModel.(walkModel)
	if !ok || m.graph == nil {
		return nil, fmt.Errorf("walk assembly cancelled")
	}
	return m.graph, nil
}
