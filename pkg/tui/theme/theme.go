package theme

import "github.com/charmbracelet/lipgloss"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	List   ListTheme
	Footer FooterTheme
	Modal  ModalTheme
}

// HeaderTheme styles the route tabs at the top of the screen.
type HeaderTheme struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	User      lipgloss.Style
}

// ListTheme styles rendered result rows.
type ListTheme struct {
	Row      lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
	Error    lipgloss.Style
	Spinner  lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
}

// ModalTheme styles centered modal overlays (search dialog, detail, help).
type ModalTheme struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Body  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	tab := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("244"))
	row := lipgloss.NewStyle().PaddingLeft(2)

	return Theme{
		Header: HeaderTheme{
			Tab:       tab,
			ActiveTab: tab.Foreground(lipgloss.Color("212")).Bold(true).Underline(true),
			User:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true),
		},
		List: ListTheme{
			Row: row,
			Selected: row.
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(lipgloss.Color("212")).
				PaddingLeft(1),
			Empty:   lipgloss.NewStyle().Faint(true).Italic(true).PaddingLeft(2),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).PaddingLeft(2),
			Spinner: lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1),
			Title: lipgloss.NewStyle().Bold(true),
			Body:  lipgloss.NewStyle(),
		},
	}
}
