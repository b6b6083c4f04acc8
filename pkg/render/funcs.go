package render

import (
	"embed"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

//go:embed templates/*.tmpl
var templates embed.FS

// DefaultName is the card template in the built-in set.
const DefaultName = "card"

var (
	boldStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// Funcs are available to every card template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"wrap":   func(width int, s string) string { return wordwrap.String(s, width) },
		"bold":   func(s string) string { return boldStyle.Render(s) },
		"faint":  func(s string) string { return faintStyle.Render(s) },
		"accent": func(s string) string { return accentStyle.Render(s) },
		"tags": func(tags []string) string {
			out := make([]string, 0, len(tags))
			for _, t := range tags {
				out = append(out, "#"+t)
			}
			return strings.Join(out, " ")
		},
	}
}

// Parse builds a template set from text with Funcs installed.
func Parse(name, text string) (*template.Template, error) {
	return template.New(name).Funcs(Funcs()).Parse(text)
}

// ParseFiles builds a template set from files with Funcs installed.
func ParseFiles(paths ...string) (*template.Template, error) {
	return template.New("cards").Funcs(Funcs()).ParseFiles(paths...)
}

// Default returns the built-in template set.
func Default() *template.Template {
	return template.Must(template.New("cards").Funcs(Funcs()).ParseFS(templates, "templates/*.tmpl"))
}
