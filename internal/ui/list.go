package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pokedex/internal/route"
)

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.list.Rows()

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue(m.list.Search())
		m.search.CursorEnd()
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.resetCursor()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		if len(rows) > 0 {
			m.cursor = len(rows) - 1
		}
		m.scrollToCursor()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		if !m.list.PrevPage() {
			return m, nil
		}
		m.resetCursor()
		return m, m.fetchList()

	case key.Matches(msg, m.keys.NextPage):
		if !m.list.NextPage() {
			return m, nil
		}
		m.resetCursor()
		return m, m.fetchList()

	case key.Matches(msg, m.keys.GotoPage):
		m.editingPage = true
		m.pageInput.SetValue(strconv.Itoa(m.list.Query().Page))
		m.pageInput.CursorEnd()
		return m, m.pageInput.Focus()

	case key.Matches(msg, m.keys.CycleSort):
		sortKey := m.list.CycleSort()
		m.syncLocation()
		m.clampCursor()
		return m, m.setStatus("Sorted by "+strings.ToLower(sortKey.Label()), true)

	case key.Matches(msg, m.keys.FavoritesOnly):
		on := m.list.ToggleFavoritesOnly()
		m.clampCursor()
		var cmd tea.Cmd
		if !m.list.ShouldFetch() {
			m.listReq.Cancel()
			m.syncLocation()
		} else if m.list.Stale() && !m.listReq.InFlight() {
			cmd = m.fetchList()
		} else {
			m.syncLocation()
		}
		label := "Showing all Pokémon"
		if on {
			label = "Showing favorites only"
		}
		return m, tea.Batch(cmd, m.setStatus(label, true))

	case key.Matches(msg, m.keys.ToggleFavorite):
		if len(rows) == 0 {
			return m, nil
		}
		name := rows[m.cursor].Name
		return m, m.toggleFavorite(name)

	case key.Matches(msg, m.keys.Open):
		if len(rows) == 0 {
			return m, nil
		}
		return m, m.openDetail(rows[m.cursor].Name)

	case key.Matches(msg, m.keys.Retry):
		if m.list.Err() == nil {
			return m, nil
		}
		return m, m.fetchList()

	case key.Matches(msg, m.keys.Copy):
		loc := m.history.Current().String()
		return m, copyCmd(m.copyText, loc, loc)
	}

	return m, nil
}

// handleSearchKey routes keys to the search box. The text is echoed right
// away and the fetch waits for the debounce to settle. Enter settles at once.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.search.Blur()
		m.debouncer.Cancel()
		return m, m.settleSearch(m.search.Value())

	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.search.Blur()
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != before {
		m.list.SetSearch(value)
		return m, tea.Batch(cmd, m.debouncer.Push(value))
	}
	return m, cmd
}

// handlePageInputKey edits the typed page number. Invalid input reverts
// silently to the current page.
func (m Model) handlePageInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.editingPage = false
		m.pageInput.Blur()
		n, ok := m.list.ParsePageInput(m.pageInput.Value())
		m.pageInput.SetValue(strconv.Itoa(m.list.Query().Page))
		if !ok || !m.list.SetPage(n) {
			return m, nil
		}
		m.resetCursor()
		return m, m.fetchList()

	case key.Matches(msg, m.keys.Cancel):
		m.editingPage = false
		m.pageInput.Blur()
		m.pageInput.SetValue(strconv.Itoa(m.list.Query().Page))
		return m, nil
	}

	var cmd tea.Cmd
	m.pageInput, cmd = m.pageInput.Update(msg)
	return m, cmd
}

// settleSearch applies a debounced search term. A changed term resets the
// page and fetches.
func (m *Model) settleSearch(value string) tea.Cmd {
	m.list.SetSearch(value)
	if !m.list.Settle(value) {
		return nil
	}
	m.resetCursor()
	return m.fetchList()
}

func (m *Model) toggleFavorite(name string) tea.Cmd {
	if m.favorites == nil {
		return nil
	}
	display := displayName(name)
	if m.favorites.Toggle(name) {
		return m.setStatus("Added "+display+" to favorites", true)
	}
	m.clampCursor()
	return m.setStatus("Removed "+display+" from favorites", true)
}

func (m *Model) openDetail(name string) tea.Cmd {
	m.history.Push(route.Detail(name))
	m.view = ViewDetail
	m.detail = detailState{name: strings.ToLower(name)}
	m.refreshDetailContent()
	return m.fetchDetail()
}

func (m *Model) resetCursor() {
	m.cursor = 0
	m.offset = 0
}

func (m *Model) clampCursor() {
	n := len(m.list.Rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// visibleRows is the number of list rows that fit between header and footer.
func (m Model) visibleRows() int {
	rows := m.height - listChromeHeight
	if rows < 1 {
		return 1
	}
	return rows
}

// Header, search line, summary, blank, footer status and help.
const listChromeHeight = 7

func (m Model) renderList() string {
	styles := m.theme.Styles()
	var b strings.Builder

	switch {
	case m.searching:
		b.WriteString(m.search.View())
	case m.list.Search() != "":
		b.WriteString(styles.MutedText.Render("Search: ") + styles.Text.Render(m.list.Search()))
		if m.list.Search() != m.list.Query().Search {
			b.WriteString(" " + styles.FaintText.Render(m.spinner.View()))
		}
	default:
		b.WriteString(styles.FaintText.Render("Press / to search"))
	}
	b.WriteString("\n")

	b.WriteString(m.renderSummary(styles))
	b.WriteString("\n\n")
	b.WriteString(m.renderRows(styles))
	return b.String()
}

func (m Model) renderSummary(styles Styles) string {
	q := m.list.Query()
	parts := []string{}

	if m.editingPage {
		parts = append(parts, m.pageInput.View())
	} else if pages := m.list.TotalPages(); pages > 0 {
		parts = append(parts, fmt.Sprintf("Page %d of %d", q.Page, pages))
	} else {
		parts = append(parts, fmt.Sprintf("Page %d", q.Page))
	}

	if from, to := m.list.Range(); to > 0 {
		parts = append(parts, fmt.Sprintf("Showing %d-%d of %d", from, to, m.list.Total()))
	}
	parts = append(parts, "Sort: "+q.Sort.Label())
	if q.FavoritesOnly {
		parts = append(parts, styles.Favorite.Render("★ favorites only"))
	}
	return styles.MutedText.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderRows(styles Styles) string {
	if m.list.Query().FavoritesOnly && !m.list.ShouldFetch() {
		return styles.MutedText.Render("No favorites yet") + "\n" +
			styles.FaintText.Render("Press f on any Pokémon to add it, or F to show everything.")
	}

	if err := m.list.Err(); err != nil {
		return styles.DangerText.Render("Could not load Pokémon") + "\n" +
			styles.Text.Render(err.Error()) + "\n\n" +
			styles.MutedText.Render("Press r to retry.")
	}

	if m.list.Stale() {
		return m.spinner.View() + " " + styles.MutedText.Render("Loading Pokémon...")
	}

	rows := m.list.Rows()
	if len(rows) == 0 {
		var b strings.Builder
		b.WriteString(styles.MutedText.Render("No Pokémon found"))
		if suggestions := m.list.Suggestions(); len(suggestions) > 0 {
			display := make([]string, len(suggestions))
			for i, s := range suggestions {
				display[i] = styles.AccentText.Render(s)
			}
			b.WriteString("\n" + styles.FaintText.Render("Did you mean: ") + strings.Join(display, ", ") + "?")
		}
		return b.String()
	}

	end := m.offset + m.visibleRows()
	if end > len(rows) {
		end = len(rows)
	}
	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		r := rows[i]
		star := "  "
		if m.favorites != nil && m.favorites.IsFavorite(r.Name) {
			star = "★ "
		}
		number := "     "
		if id := r.ID(); id > 0 {
			number = fmt.Sprintf("#%04d", id)
		}
		line := fmt.Sprintf("%s%s  %s", star, number, displayName(r.Name))
		if i == m.cursor {
			lines = append(lines, styles.Selected.Render(padRight(line, m.width-2)))
			continue
		}
		if star != "  " {
			lines = append(lines, styles.Favorite.Render(star)+styles.Text.Render(strings.TrimPrefix(line, star)))
			continue
		}
		lines = append(lines, styles.Text.Render(line))
	}
	return strings.Join(lines, "\n")
}
