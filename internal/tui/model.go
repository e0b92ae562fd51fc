package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/webchat/internal/api"
	"github.com/diogo/webchat/internal/chat"
	"github.com/diogo/webchat/internal/models"
	"github.com/diogo/webchat/internal/render"
	"github.com/diogo/webchat/internal/transcript"
)

// Fixed rows around the transcript
const (
	headerHeight = 3 // header panel with border
	statusHeight = 2 // status bar and notice line
	panelChrome  = 2 // transcript panel border
	inputRows    = 2
)

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

// Message types for the TUI
type (
	historyLoadedMsg struct {
		err error
	}
	transcriptChangedMsg struct{}
	dispatchDoneMsg      struct {
		result chat.Result
	}
	// focusSettledMsg arrives focus_delay after the terminal regains focus
	focusSettledMsg struct{}
)

// gauge is a height shared between the TUI loop and session goroutines
type gauge struct {
	v atomic.Int64
}

func (g *gauge) Height() int { return int(g.v.Load()) }
func (g *gauge) set(h int)   { g.v.Store(int64(h)) }

// Options configures the chat TUI
type Options struct {
	ServerURL     string
	Transport     string
	SuppressEmpty bool
	FocusDelay    time.Duration
	Render        render.Options
	Logger        *zap.Logger
}

// Model represents the TUI state
type Model struct {
	session    *chat.Session
	transcript *transcript.Transcript
	opts       Options
	log        *zap.Logger

	// Heights the layout adjuster reads
	viewGauge  *gauge
	inputGauge *gauge

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// In-flight requests share ctx; esc cancels them all
	ctx    context.Context
	cancel context.CancelFunc

	// State
	pending int
	ready   bool
	version uint64
	stale   bool // redraw even if the transcript did not change
	notice  string
	err     error

	// rendered caches terminal output per node for the current width
	rendered map[string]string

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model
func NewChatModel(client api.ChatClientInterface, opts Options) (Model, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.FocusDelay <= 0 {
		opts.FocusDelay = 300 * time.Millisecond
	}
	if opts.Render.Style == "" {
		opts.Render = render.DefaultOptions()
	}

	tr := transcript.New()
	viewGauge, inputGauge := &gauge{}, &gauge{}

	session, err := chat.NewSession(chat.Options{
		Client:        client,
		Container:     tr,
		Viewport:      viewGauge,
		InputArea:     inputGauge,
		Transport:     opts.Transport,
		SuppressEmpty: opts.SuppressEmpty,
		Logger:        opts.Logger,
	})
	if err != nil {
		return Model{}, err
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 8000
	ta.ShowLineNumbers = false
	ta.SetHeight(inputRows)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		session:    session,
		transcript: tr,
		opts:       opts,
		log:        opts.Logger,
		viewGauge:  viewGauge,
		inputGauge: inputGauge,
		textarea:   ta,
		spinner:    s,
		ctx:        ctx,
		cancel:     cancel,
		rendered:   make(map[string]string),
	}, nil
}

// Init loads history and starts watching the transcript
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.startSession(),
		waitForTranscript(m.transcript),
	)
}

func (m Model) startSession() tea.Cmd {
	session, ctx := m.session, m.ctx
	return func() tea.Msg {
		return historyLoadedMsg{err: session.Start(ctx)}
	}
}

// waitForTranscript blocks until the transcript changes
func waitForTranscript(tr *transcript.Transcript) tea.Cmd {
	return func() tea.Msg {
		<-tr.Changes()
		return transcriptChangedMsg{}
	}
}

func (m Model) dispatch(text string) tea.Cmd {
	sender, ctx := m.session.Sender, m.ctx
	return func() tea.Msg {
		return dispatchDoneMsg{result: sender.Dispatch(ctx, text)}
	}
}

func focusSettled(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return focusSettledMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentWidth := m.contentWidth()

		if !m.ready {
			m.viewport = viewport.New(contentWidth, 1)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.rendered = make(map[string]string)
		m.stale = true

		m.viewGauge.set(m.height - headerHeight - statusHeight)
		m.inputGauge.set(m.inputPanelHeight())
		m.session.Layout.AdjustHeight()
		m.syncViewport()

	case tea.FocusMsg:
		cmds = append(cmds, focusSettled(m.opts.FocusDelay))

	case focusSettledMsg:
		m.session.Layout.AdjustHeight()

	case historyLoadedMsg:
		if msg.err != nil {
			m.notice = "Could not load history"
		}

	case transcriptChangedMsg:
		m.syncViewport()
		cmds = append(cmds, waitForTranscript(m.transcript))

	case dispatchDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.err = nil
		if msg.result.State == chat.StateFailed && !msg.result.Cancelled {
			m.err = msg.result.Err
		}
		m.syncViewport()

	case spinner.TickMsg:
		if m.pending > 0 {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.pending > 0 {
				m.cancelPending()
				return m, nil
			}
			m.cancel()
			return m, tea.Quit

		case "enter":
			return m.submit()
		}
	}

	// Only pass KeyMsg to textarea to prevent escape sequence leaks
	if _, ok := msg.(tea.KeyMsg); ok {
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// cancelPending abandons every in-flight request and starts a fresh context
func (m *Model) cancelPending() {
	m.cancel()
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.notice = "Cancelling..."
}

// submit handles the enter key
func (m Model) submit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.textarea.Value())
	m.notice = ""

	if strings.HasPrefix(input, "/") || input == "exit" || input == "quit" {
		if handled, model, cmd := m.runCommand(input); handled {
			return model, cmd
		}
	}

	text, ok := m.session.Sender.Begin(&m.textarea)
	if !ok {
		return m, nil
	}

	m.pending++
	m.err = nil
	return m, tea.Batch(m.dispatch(text), m.spinner.Tick)
}

// runCommand handles client-side slash commands. Anything it does not know,
// such as the server's "/chat reset", is sent to the server.
func (m Model) runCommand(input string) (bool, tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "exit", "quit", "/exit", "/quit":
		m.cancel()
		return true, m, tea.Quit

	case "/copy":
		m.textarea.Reset()
		m.notice = m.copyLast()
		return true, m, nil

	case "/clear":
		m.textarea.Reset()
		m.rendered = make(map[string]string)
		session, ctx := m.session, m.ctx
		return true, m, func() tea.Msg {
			session.Reload(ctx)
			return historyLoadedMsg{}
		}

	case "/export":
		m.textarea.Reset()
		m.notice = m.export(arg)
		return true, m, nil
	}

	return false, m, nil
}

// copyLast copies the newest assistant message as plain text
func (m Model) copyLast() string {
	n, ok := m.transcript.Last(models.RoleAI)
	if !ok {
		return "Nothing to copy"
	}
	if err := clipboardWrite(render.Text(n.HTML)); err != nil {
		m.log.Warn("clipboard write failed", zap.Error(err))
		return fmt.Sprintf("Copy failed: %v", err)
	}
	return "Copied last reply to clipboard"
}

// export writes the transcript to path, choosing the format by extension
func (m Model) export(path string) string {
	if path == "" {
		return "Usage: /export <file.md|file.json|file.html>"
	}
	out, err := transcript.Export(m.transcript.Nodes(), transcript.FormatForPath(path))
	if err != nil {
		return fmt.Sprintf("Export failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Sprintf("Export failed: %v", err)
	}
	return fmt.Sprintf("Exported %d messages to %s", m.transcript.Len(), path)
}

func (m Model) contentWidth() int {
	w := m.width - 2
	if w < 20 {
		w = 20
	}
	return w
}

// inputPanelHeight is the label, textarea and border of the input panel
func (m Model) inputPanelHeight() int {
	return 1 + m.textarea.Height() + 2
}

// syncViewport applies the transcript height and redraws when it changed
func (m *Model) syncViewport() {
	if !m.ready {
		return
	}

	h := m.transcript.Height() - panelChrome
	if h < 1 {
		h = 1
	}
	m.viewport.Height = h

	if v := m.transcript.Version(); v != m.version || m.stale {
		m.version = v
		m.stale = false
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
	}
}

// renderTranscript draws every node with its role label and bubble
func (m *Model) renderTranscript() string {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 8
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	for i, n := range m.transcript.Nodes() {
		if i > 0 {
			content.WriteString("\n")
		}
		content.WriteString(m.renderNode(n, bubbleWidth))
		content.WriteString("\n")
	}
	return content.String()
}

func (m *Model) renderNode(n transcript.Node, width int) string {
	if cached, ok := m.rendered[n.ID]; ok {
		return cached
	}

	body, err := render.Terminal(n.HTML, m.opts.Render.WithWidth(width-4))
	if err != nil {
		m.log.Debug("terminal render failed", zap.String("node", n.ID), zap.Error(err))
		body = render.Text(n.HTML)
	}

	labelStyle, bubbleStyle := roleStyles(n.Role)
	out := labelStyle.Render(n.Role.Label()) + "\n" + bubbleStyle.Width(width).Render(body)
	m.rendered[n.ID] = out
	return out
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.contentWidth()
	var sections []string

	// Header
	headerParts := []string{
		titleStyle.Render("✦ Web Chat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.opts.ServerURL),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.session.Sender.Transport()),
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	// Messages area
	messagesContent := m.viewport.View()
	if m.transcript.Len() == 0 {
		messagesContent = m.renderWelcome()
	}
	sections = append(sections, messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent))

	// Input area
	label := inputLabelStyle.Render("You")
	if m.pending > 0 {
		label += " " + m.spinner.View() + loadingStyle.Render(" waiting for reply")
	}
	inputContent := lipgloss.JoinVertical(lipgloss.Left, label, m.textarea.View())
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	switch {
	case m.err != nil:
		sections = append(sections, FormatError(m.err))
	case m.notice != "":
		sections = append(sections, noticeStyle.Render(m.notice))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		welcomeIconStyle.Width(width).Render("✦"),
		"",
		welcomeTitleStyle.Width(width).Render("No messages yet"),
		welcomeStyle.Width(width).Render("Start a conversation by typing a message below"),
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}
	return strings.Repeat("\n", topPadding) + content
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Esc", "Cancel/Quit"},
		{"/copy", "Copy"},
		{"/export", "Save"},
		{"/clear", "Reload"},
	}

	var items []string
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// RunChat starts the chat TUI
func RunChat(client api.ChatClientInterface, opts Options) error {
	m, err := NewChatModel(client, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()
	return err
}
