package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) renderMain() string {
	body := m.renderList()
	if m.view == ViewDetail {
		body = m.renderDetail()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		body,
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	left := styles.Logo.Render("Pokédex")
	if m.view == ViewDetail && m.detail.name != "" {
		left += styles.MutedText.Render("  ›  ") + styles.Text.Render(displayName(m.detail.name))
	}

	favs := 0
	if m.favorites != nil {
		favs = m.favorites.Len()
	}
	right := styles.Favorite.Render("★ ") + styles.MutedText.Render(strconv.Itoa(favs))
	if m.listReq.InFlight() || m.detailReq.InFlight() {
		right = m.spinner.View() + " " + right
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()

	loc := styles.InfoText.Render(truncate(m.history.Current().String(), m.width/2))
	status := ""
	if m.status != "" {
		if m.statusOK {
			status = styles.SuccessText.Render(m.status)
		} else {
			status = styles.DangerText.Render(m.status)
		}
	}
	gap := m.width - lipgloss.Width(loc) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	line := styles.Footer.Width(m.width).Render(loc + strings.Repeat(" ", gap) + status)

	var hints string
	if m.view == ViewDetail {
		hints = m.help.View(detailHelp{m.keys})
	} else {
		hints = m.help.View(listHelp{m.keys})
	}
	return line + "\n" + hints
}
