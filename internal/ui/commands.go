package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pokedex/internal/catalog"
	"github.com/five82/pokedex/internal/pokeapi"
)

const statusTimeout = 3 * time.Second

type pageMsg struct {
	seq   uint64
	query catalog.Query
	page  catalog.Page
	err   error
}

type detailMsg struct {
	seq  uint64
	name string
	mon  *pokeapi.Pokemon
	err  error
}

type favoritesMsg []string

// actionMsg reports the outcome of a clipboard or browser action.
type actionMsg struct {
	action string
	done   string
	err    error
}

type clearStatusMsg struct{ id int }

// fetchList starts a page request for the current list state. The previous
// request, if any, is cancelled. No request is made when favorites-only is on
// and there are no favorites.
func (m *Model) fetchList() tea.Cmd {
	m.syncLocation()
	if !m.list.ShouldFetch() {
		m.listReq.Cancel()
		return nil
	}
	if m.catalog == nil {
		return nil
	}
	seq, ctx := m.listReq.Begin(m.ctx)
	q := m.list.Request()
	src := m.catalog
	m.logger.Debug("fetch page", "seq", seq, "offset", q.Offset, "limit", q.Limit, "search", q.Search)
	return func() tea.Msg {
		page, err := src.Page(ctx, q)
		return pageMsg{seq: seq, query: q, page: page, err: err}
	}
}

func (m Model) handlePage(msg pageMsg) (tea.Model, tea.Cmd) {
	if !m.listReq.Current(msg.seq) {
		m.logger.Debug("stale page dropped", "seq", msg.seq, "offset", msg.query.Offset, "search", msg.query.Search)
		return m, nil
	}
	m.listReq.Done(msg.seq)

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.logger.Warn("page fetch failed", "offset", msg.query.Offset, "search", msg.query.Search, "error", msg.err)
		m.list.Fail(msg.err)
		return m, nil
	}

	if m.list.Apply(msg.query, msg.page) {
		m.logger.Debug("page out of range, clamped", "page", m.list.Query().Page, "total", msg.page.Total)
		m.resetCursor()
		return m, m.fetchList()
	}
	m.syncLocation()
	m.clampCursor()
	return m, nil
}

// fetchDetail starts a detail request for the current detail name.
func (m *Model) fetchDetail() tea.Cmd {
	name := m.detail.name
	if name == "" || m.catalog == nil {
		return nil
	}
	seq, ctx := m.detailReq.Begin(m.ctx)
	src := m.catalog
	m.logger.Debug("fetch detail", "seq", seq, "name", name)
	return func() tea.Msg {
		mon, err := src.Detail(ctx, name)
		return detailMsg{seq: seq, name: name, mon: mon, err: err}
	}
}

func (m Model) handleDetail(msg detailMsg) (tea.Model, tea.Cmd) {
	if !m.detailReq.Current(msg.seq) {
		m.logger.Debug("stale detail dropped", "seq", msg.seq, "name", msg.name)
		return m, nil
	}
	m.detailReq.Done(msg.seq)

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.logger.Warn("detail fetch failed", "name", msg.name, "error", msg.err)
		m.detail.err = msg.err
		m.detail.mon = nil
	} else {
		m.detail.err = nil
		m.detail.mon = msg.mon
	}
	m.refreshDetailContent()
	m.detailViewport.GotoTop()
	return m, nil
}

func (m Model) handleFavorites(msg favoritesMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitForFavorites(m.favCh)}
	m.refreshDetailContent()
	if m.list.Query().FavoritesOnly {
		if m.list.ShouldFetch() && m.list.Stale() && !m.listReq.InFlight() {
			cmds = append(cmds, m.fetchList())
		}
		m.clampCursor()
	}
	return m, tea.Batch(cmds...)
}

// waitForFavorites blocks until the favorites store publishes a change.
func waitForFavorites(ch <-chan []string) tea.Cmd {
	return func() tea.Msg {
		names, ok := <-ch
		if !ok {
			return nil
		}
		return favoritesMsg(names)
	}
}

func (m *Model) setStatus(text string, ok bool) tea.Cmd {
	m.statusID++
	m.status = text
	m.statusOK = ok
	return clearStatusCmd(m.statusID)
}

func clearStatusCmd(id int) tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func copyCmd(copyText func(string) error, text, what string) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: "copy", done: "Copied " + what, err: copyText(text)}
	}
}

func openCmd(openURL func(string) error, url string) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{action: "open", done: "Opened " + url, err: openURL(url)}
	}
}

// syncLocation mirrors the list state into the current history entry.
func (m *Model) syncLocation() {
	if m.view == ViewList {
		m.history.Replace(m.list.Location())
	}
}
