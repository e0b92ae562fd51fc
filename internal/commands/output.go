package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	apierrors "github.com/diogo/webchat/internal/errors"
	"github.com/diogo/webchat/internal/models"
	"github.com/diogo/webchat/internal/render"
	"github.com/diogo/webchat/internal/transcript"
)

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
	colorSuccess  = lipgloss.Color("#9ece6a")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorWarning  = lipgloss.Color("#e0af68")
)

// Styles matching the chat TUI
var (
	aiLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	aiBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			MarginBottom(1)

	systemStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(colorWarning).
			BorderLeft(true).
			BorderRight(false).
			BorderTop(false).
			BorderBottom(false).
			Foreground(colorTextDim).
			PaddingLeft(1).
			Italic(true)
)

// printer writes transcript nodes, decorated on a terminal and as plain text otherwise
type printer struct {
	out   io.Writer
	tty   bool
	width int
	opts  render.Options
}

func newPrinter(out io.Writer, opts render.Options) *printer {
	p := &printer{out: out, opts: opts, width: 80}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.tty = true
		p.width = getTerminalWidth(f)
	}
	return p
}

// print writes nodes separated by blank lines
func (p *printer) print(nodes []transcript.Node) {
	for _, n := range nodes {
		if !p.tty {
			fmt.Fprintln(p.out, render.Text(n.HTML))
			continue
		}
		fmt.Fprintln(p.out, p.decorate(n))
	}
}

func (p *printer) decorate(n transcript.Node) string {
	bubbleWidth := p.width - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	body, err := render.Terminal(n.HTML, p.opts.WithWidth(bubbleWidth-4))
	if err != nil {
		body = render.Text(n.HTML)
	}

	switch n.Role {
	case models.RoleSystem:
		return systemStyle.Width(bubbleWidth).Render(body)
	case models.RoleUser:
		return lipgloss.NewStyle().Foreground(colorSuccess).Bold(true).Render("You") + "\n" + body
	default:
		return aiLabelStyle.Render("✦ "+n.Role.Label()) + "\n" + aiBubbleStyle.Width(bubbleWidth).Render(body)
	}
}

// success prints a check-marked message
func (p *printer) success(msg string) {
	fmt.Fprintln(p.out, lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ "+msg))
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth(f *os.File) int {
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return 80 // default width
	}
	return width
}

// formatErrorMessage formats an error with additional context from structured errors
func formatErrorMessage(err error, context string) string {
	if err == nil {
		return ""
	}

	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	dimStyle := lipgloss.NewStyle().Foreground(colorTextDim)

	var sb strings.Builder
	sb.WriteString(errorStyle.Render(fmt.Sprintf("✗ %s: %v", context, err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	if endpoint := apierrors.GetEndpoint(err); endpoint != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  Endpoint: %s", endpoint)))
	}

	if body := apierrors.GetResponseBody(err); body != "" {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n\n  %s", strings.ReplaceAll(body, "\n", "\n  "))))
	} else {
		switch {
		case apierrors.IsNetworkError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Check that the chat server is running and --server points at it"))
		case apierrors.IsTimeoutError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: Request timed out. Try again or raise request_timeout"))
		case apierrors.IsStreamError(err):
			sb.WriteString(dimStyle.Render("\n  Hint: The stream broke off. Try --transport json"))
		}
	}

	return sb.String()
}
