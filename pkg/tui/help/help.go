// Package help renders markdown documents, the key reference included, for
// display inside a framed viewport.
package help

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/shelf/pkg/key"
	"tableflip.dev/shelf/pkg/tui/overlay"
)

// Keys returns the key reference as markdown.
func Keys() string {
	return key.Markdown()
}

// Model renders a markdown document inside a bordered viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	markdown string
	style    string

	frame lipgloss.Style
	err   error
}

// New constructs a model sized to the provided bounds. style is a glamour
// standard style name; "" picks "dark".
func New(markdown string, width, height int, style string) *Model {
	if style == "" {
		style = "dark"
	}
	m := &Model{
		viewport: viewport.New(1, 1),
		markdown: markdown,
		style:    style,
		frame: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1),
	}
	m.SetSize(width, height)
	return m
}

// Update forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return cmd
}

// View renders the content inside a rounded frame.
func (m *Model) View() string {
	body := m.viewport.View()
	if body == "" && m.err != nil {
		body = "unavailable: " + m.err.Error()
	}
	return m.frame.Render(body)
}

// Err reports the last markdown rendering failure.
func (m *Model) Err() error { return m.err }

// SetSize configures the dimensions and re-renders the markdown to fit.
func (m *Model) SetSize(width, height int) {
	minWidth, minHeight := 32, 8
	width = max(width, minWidth)
	height = max(height, minHeight)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(width-m.frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-m.frame.GetVerticalFrameSize(), 1)
	m.viewport.Width = innerWidth
	m.viewport.Height = innerHeight

	m.renderContent(innerWidth)
}

func (m *Model) renderContent(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(max(wrap, 10)),
	)
	if err != nil {
		m.setErr(err)
		return
	}
	content, err := renderer.Render(strings.TrimSpace(m.markdown))
	if err != nil {
		m.setErr(err)
		return
	}
	if m.style == "notty" {
		content = overlay.StripANSI(content)
	}
	m.err = nil
	m.viewport.SetContent(content)
	m.viewport.SetYOffset(0)
}

func (m *Model) setErr(err error) {
	m.err = err
	m.viewport.SetContent("unavailable: " + err.Error())
}
