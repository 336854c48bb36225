package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/pokedex/internal/catalog"
	"github.com/five82/pokedex/internal/debounce"
	"github.com/five82/pokedex/internal/explorer"
	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/prefs"
	"github.com/five82/pokedex/internal/route"
	"github.com/five82/pokedex/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewList View = iota
	ViewDetail
)

// Catalog is the data source behind both views.
type Catalog interface {
	Page(ctx context.Context, q catalog.Query) (catalog.Page, error)
	Detail(ctx context.Context, name string) (*pokeapi.Pokemon, error)
}

// Favorites is the shared favorites store.
type Favorites interface {
	explorer.FavoriteSet
	Toggle(name string) bool
	Subscribe(fn func([]string)) (unsubscribe func())
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Catalog   Catalog
	Favorites Favorites
	Logger    *slog.Logger
	PageSize  int
	Debounce  time.Duration
	ThemeName string
	PrefsPath string
	Start     route.Location

	// OpenURL and CopyText default to the system browser and clipboard.
	OpenURL  func(string) error
	CopyText func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	catalog   Catalog
	favorites Favorites
	logger    *slog.Logger
	prefsPath string
	openURL   func(string) error
	copyText  func(string) error

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	history  *route.History

	// List state
	list        *explorer.Controller
	listReq     *state.Tracker
	debouncer   *debounce.Debouncer
	search      textinput.Model
	searching   bool
	pageInput   textinput.Model
	editingPage bool
	cursor      int
	offset      int

	// Detail state
	detail         detailState
	detailReq      *state.Tracker
	detailViewport viewport.Model

	// Transient status line
	status   string
	statusOK bool
	statusID int

	favCh       chan []string
	unsubscribe func()
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Dracula"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	openURL := opts.OpenURL
	if openURL == nil {
		openURL = openInBrowser
	}
	copyText := opts.CopyText
	if copyText == nil {
		copyText = clipboard.WriteAll
	}

	delay := opts.Debounce
	if delay < 0 {
		delay = debounce.DefaultDelay
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search Pokémon"
	search.CharLimit = 64

	pageInput := textinput.New()
	pageInput.Prompt = "Page: "
	pageInput.CharLimit = 6

	m := Model{
		ctx:            ctx,
		catalog:        opts.Catalog,
		favorites:      opts.Favorites,
		logger:         logger,
		prefsPath:      prefsPath,
		openURL:        openURL,
		copyText:       copyText,
		theme:          GetTheme(themeName),
		keys:           DefaultKeyMap(),
		help:           help.New(),
		spinner:        spinner.New(spinner.WithSpinner(spinner.Dot)),
		list:           explorer.New(opts.PageSize, opts.Favorites),
		listReq:        &state.Tracker{},
		detailReq:      &state.Tracker{},
		debouncer:      debounce.New(delay),
		search:         search,
		pageInput:      pageInput,
		detailViewport: viewport.New(0, 0),
		favCh:          make(chan []string, 8),
	}

	history := route.NewHistory(route.List(nil))
	if name, ok := opts.Start.DetailName(); ok {
		history.Push(opts.Start)
		m.view = ViewDetail
		m.detail = detailState{name: name}
	} else {
		m.list.Seed(explorer.FromValues(opts.Start.Query))
		m.search.SetValue(m.list.Query().Search)
		history.Replace(m.list.Location())
	}
	m.history = history

	if m.favorites != nil {
		ch := m.favCh
		m.unsubscribe = m.favorites.Subscribe(func(names []string) {
			select {
			case ch <- names:
			default:
			}
		})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, waitForFavorites(m.favCh)}
	cmds = append(cmds, m.fetchList())
	if m.view == ViewDetail {
		cmds = append(cmds, m.fetchDetail())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resizeDetail()
		m.clampCursor()
		return m, nil

	case pageMsg:
		return m.handlePage(msg)

	case detailMsg:
		return m.handleDetail(msg)

	case debounce.SettledMsg:
		value, ok := m.debouncer.Settled(msg)
		if !ok {
			return m, nil
		}
		return m, m.settleSearch(value)

	case favoritesMsg:
		return m.handleFavorites(msg)

	case actionMsg:
		if msg.err != nil {
			m.logger.Warn(msg.action+" failed", "error", msg.err)
			return m, m.setStatus(msg.action+" failed: "+msg.err.Error(), false)
		}
		return m, m.setStatus(msg.done, true)

	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// Location returns the current location string state.
func (m Model) Location() route.Location {
	return m.history.Current()
}

// Close releases the favorites subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.listReq.Cancel()
	m.detailReq.Cancel()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.editingPage {
		return m.handlePageInputKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "T":
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.refreshDetailContent()
		if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = m.theme.Name }); err != nil {
			m.logger.Warn("save theme preference failed", "path", m.prefsPath, "error", err)
		}
		return m, m.setStatus("Theme: "+m.theme.Name, true)
	}

	if m.view == ViewDetail {
		return m.handleDetailKey(msg)
	}
	return m.handleListKey(msg)
}

// Run starts the program and returns the location the user ended on.
func Run(opts Options) (route.Location, error) {
	m := New(opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	final, err := p.Run()
	if fm, ok := final.(Model); ok {
		m = fm
	}
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		err = nil
	}
	return m.Location(), err
}
