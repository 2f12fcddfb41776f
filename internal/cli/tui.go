package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/extraction"
	"github.com/geosect/geosect/pkg/observability"
	"github.com/geosect/geosect/pkg/pipeline"
)

// =============================================================================
// Extraction Progress - per-page bubbletea display
// =============================================================================

// pageStartMsg reports that a page was sent to the oracle.
type pageStartMsg struct {
	page int
}

// pageDoneMsg reports one completed page.
type pageDoneMsg struct {
	page      int
	fragments int
	err       error
}

// extractDoneMsg carries the final extraction result.
type extractDoneMsg struct {
	fragments []borehole.Fragment
	cacheHit  bool
	err       error
}

// extractModel renders a page-by-page progress bar while the oracle works.
type extractModel struct {
	total     int
	completed int
	fragments int
	current   int
	cancel    context.CancelFunc

	result extractDoneMsg
	done   bool
}

func newExtractModel(total int, cancel context.CancelFunc) extractModel {
	return extractModel{total: total, cancel: cancel}
}

func (m extractModel) Init() tea.Cmd {
	return nil
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.cancel()
			return m, nil // wait for extractDoneMsg so the pipeline unwinds
		}
	case pageStartMsg:
		m.current = msg.page
	case pageDoneMsg:
		m.completed++
		m.fragments += msg.fragments
	case extractDoneMsg:
		m.result = msg
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m extractModel) View() string {
	if m.done {
		return ""
	}

	const barWidth = 30
	filled := 0
	if m.total > 0 {
		filled = m.completed * barWidth / m.total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Extracting borehole logs"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s %d/%d pages",
		styleIconSpinner.Render(bar), m.completed, m.total)
	if m.fragments > 0 {
		b.WriteString(StyleDim.Render(fmt.Sprintf(" · %d fragments", m.fragments)))
	}
	if m.current > 0 && m.completed < m.total {
		b.WriteString(StyleDim.Render(fmt.Sprintf(" · page %d in flight", m.current)))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("  q cancel"))
	b.WriteString("\n")
	return b.String()
}

// teaProgressHooks forwards pipeline extraction events to the bubbletea
// program.
type teaProgressHooks struct {
	observability.NoopPipelineHooks
	program *tea.Program
}

func (h *teaProgressHooks) OnExtractStart(_ context.Context, page int) {
	h.program.Send(pageStartMsg{page: page})
}

func (h *teaProgressHooks) OnExtractComplete(_ context.Context, page, fragmentCount int, _ time.Duration, err error) {
	h.program.Send(pageDoneMsg{page: page, fragments: fragmentCount, err: err})
}

// extractWithProgress runs the extraction stage behind a page progress
// display. Cancelling the display cancels the underlying context.
func extractWithProgress(ctx context.Context, runner *pipeline.Runner, images []extraction.PageImage, opts pipeline.Options) ([]borehole.Fragment, bool, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program := tea.NewProgram(newExtractModel(len(images), cancel), tea.WithOutput(os.Stderr))

	prev := observability.Pipeline()
	observability.SetPipelineHooks(&teaProgressHooks{program: program})
	defer observability.SetPipelineHooks(prev)

	go func() {
		frags, hit, err := runner.ExtractWithCacheInfo(ctx, images, opts)
		program.Send(extractDoneMsg{fragments: frags, cacheHit: hit, err: err})
	}()

	final, err := program.Run()
	if err != nil {
		// Terminal trouble; the extraction goroutine still finishes, but the
		// progress display is gone.
		return nil, false, err
	}

	result := final.(extractModel).result
	return result.fragments, result.cacheHit, result.err
}
