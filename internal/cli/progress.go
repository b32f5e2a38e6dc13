package cli

import (
	"fmt"

	"charm.land/bubbles/v2/progress"
	tea "charm.land/bubbletea/v2"
	"github.com/raphaelgruber/cligue-go/internal/session"
)

// progressMsg carries pipeline progress into the UI.
type progressMsg session.Progress

// analysisDoneMsg signals the end of the pipeline run.
type analysisDoneMsg struct {
	sess *session.Session
	err  error
}

// analyzeModel is the bubbletea model for analysis progress.
type analyzeModel struct {
	path     string
	progress progress.Model
	theme    Theme
	current  session.Progress
	started  bool
	done     bool
	quitting bool
	err      error
	sess     *session.Session
	cancel   func()
}

// newAnalyzeModel creates the progress UI for one video.
func newAnalyzeModel(path string, cancel func()) analyzeModel {
	prog := progress.New(
		progress.WithDefaultBlend(),
		progress.WithWidth(40),
	)
	return analyzeModel{
		path:     path,
		progress: prog,
		theme:    defaultTheme,
		cancel:   cancel,
	}
}

// Init returns the initial command.
func (m analyzeModel) Init() tea.Cmd {
	return m.progress.Init()
}

// Update handles messages and returns the updated model.
func (m analyzeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case progressMsg:
		m.started = true
		m.current = session.Progress(msg)
		return m, nil

	case analysisDoneMsg:
		m.done = true
		m.sess = msg.sess
		m.err = msg.err
		return m, tea.Quit

	case progress.FrameMsg:
		var cmd tea.Cmd
		m.progress, cmd = m.progress.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the progress display.
func (m analyzeModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m analyzeModel) renderContent() string {
	if m.done {
		return m.finalView()
	}
	if !m.started {
		return fmt.Sprintf("%s probing %s...\n",
			m.theme.statusLabel("analyzing"), m.path)
	}

	var pct float64
	if m.current.FramesTotal > 0 {
		pct = float64(m.current.FramesDone) / float64(m.current.FramesTotal)
	}

	bar := m.progress.ViewAs(pct)
	counts := fmt.Sprintf("%d/%d frames, %d events",
		m.current.FramesDone, m.current.FramesTotal, m.current.EventsFound)
	hint := m.theme.hintStyle().Render("Press Ctrl+C to abort")

	return fmt.Sprintf("%s %s %s\n%s\n",
		m.theme.statusLabel("analyzing"), bar, counts, hint)
}

func (m analyzeModel) finalView() string {
	if m.quitting {
		return m.theme.hintStyle().Render("\nAnalysis aborted.\n")
	}
	if m.err != nil {
		return m.theme.errorStyle().Render(fmt.Sprintf("\n✗ Analysis failed: %s\n", m.err))
	}
	return m.theme.successStyle().Render("✓ Analysis complete") + "\n"
}

func (t Theme) statusLabel(s string) string {
	return t.headerStyle().Render("[" + s + "]")
}
