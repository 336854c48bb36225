package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	items []key.Binding
}

func (m Model) helpSections() []helpSection {
	k := m.keys
	return []helpSection{
		{title: "Navigate", items: []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.PrevPage, k.NextPage, k.GotoPage}},
		{title: "List", items: []key.Binding{k.Search, k.CycleSort, k.FavoritesOnly, k.ToggleFavorite, k.Open, k.Retry}},
		{title: "Details", items: []key.Binding{k.Back, k.ToggleFavorite, k.OpenBrowser, k.Copy}},
		{title: "General", items: []key.Binding{k.Copy, k.CycleTheme, k.Help, k.Quit}},
	}
}

// renderHelp lays the sections out as titled columns of the full help view,
// centered in a bordered modal.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()

	h := m.help
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Warning))
	h.Styles.FullDesc = styles.Text
	h.Styles.FullSeparator = styles.FaintText

	sections := m.helpSections()
	columns := make([]string, 0, len(sections))
	for _, s := range sections {
		col := lipgloss.JoinVertical(lipgloss.Left,
			styles.AccentText.Bold(true).Render(s.title),
			h.FullHelpView([][]key.Binding{s.items}),
		)
		columns = append(columns, lipgloss.NewStyle().MarginRight(3).Render(col))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		styles.Text.Bold(true).Render("Keyboard Shortcuts"),
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, columns...),
		"",
		styles.FaintText.Render("Press any key to close"),
	)

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.Accent)).
		Padding(1, 2)

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal.Render(body))
}
