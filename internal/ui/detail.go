package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/pokedex/internal/pokeapi"
)

// detailState holds the record shown by the detail view.
type detailState struct {
	name string
	mon  *pokeapi.Pokemon
	err  error
}

// notFound reports whether the last fetch was a 404.
func (d detailState) notFound() bool {
	return d.err != nil && errors.Is(d.err, pokeapi.ErrNotFound)
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, m.goBack()

	case key.Matches(msg, m.keys.ToggleFavorite):
		if m.detail.name == "" {
			return m, nil
		}
		cmd := m.toggleFavorite(m.detail.name)
		m.refreshDetailContent()
		return m, cmd

	case key.Matches(msg, m.keys.Retry):
		if m.detail.err == nil {
			return m, nil
		}
		m.detail.err = nil
		m.refreshDetailContent()
		return m, m.fetchDetail()

	case key.Matches(msg, m.keys.Copy):
		if m.detail.mon == nil {
			loc := m.history.Current().String()
			return m, copyCmd(m.copyText, loc, loc)
		}
		art := m.artworkURL()
		if art == "" {
			return m, m.setStatus("No artwork available", false)
		}
		return m, copyCmd(m.copyText, art, "artwork URL")

	case key.Matches(msg, m.keys.OpenBrowser):
		art := m.artworkURL()
		if art == "" {
			return m, m.setStatus("No artwork available", false)
		}
		return m, openCmd(m.openURL, art)
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m Model) artworkURL() string {
	if m.detail.mon == nil {
		return ""
	}
	if art := m.detail.mon.ArtworkURL(); art != "" {
		return art
	}
	return pokeapi.SpriteURL(m.detail.mon.ID)
}

// goBack returns to the previous location. The list keeps its state, so it is
// only fetched again when it never loaded.
func (m *Model) goBack() tea.Cmd {
	m.detailReq.Cancel()
	loc, ok := m.history.Back()
	if !ok || loc.IsList() {
		m.view = ViewList
		m.detail = detailState{}
		if !ok {
			m.history.Replace(m.list.Location())
		}
		m.clampCursor()
		if m.list.Stale() && m.list.Err() == nil && !m.listReq.InFlight() {
			return m.fetchList()
		}
		return nil
	}
	name, _ := loc.DetailName()
	m.detail = detailState{name: name}
	m.refreshDetailContent()
	return m.fetchDetail()
}

// Header, footer status and help.
const detailChromeHeight = 4

func (m *Model) resizeDetail() {
	m.detailViewport.Width = m.width
	h := m.height - detailChromeHeight
	if h < 1 {
		h = 1
	}
	m.detailViewport.Height = h
	m.refreshDetailContent()
}

func (m *Model) refreshDetailContent() {
	if m.view != ViewDetail {
		return
	}
	m.detailViewport.SetContent(m.renderDetailContent())
}

func (m Model) renderDetail() string {
	if m.detail.mon == nil && m.detail.err == nil {
		return m.spinner.View() + " " + m.theme.Styles().MutedText.Render("Loading "+displayName(m.detail.name)+"...")
	}
	return m.detailViewport.View()
}

func (m Model) renderDetailContent() string {
	styles := m.theme.Styles()

	if m.detail.err != nil {
		var b strings.Builder
		if m.detail.notFound() {
			b.WriteString(styles.DangerText.Render("Pokémon not found"))
			b.WriteString("\n")
			b.WriteString(styles.MutedText.Render(fmt.Sprintf("Nothing is listed under %q.", m.detail.name)))
		} else {
			b.WriteString(styles.DangerText.Render("Could not load " + displayName(m.detail.name)))
			b.WriteString("\n")
			b.WriteString(styles.Text.Render(m.detail.err.Error()))
		}
		b.WriteString("\n\n")
		b.WriteString(styles.AccentText.Render("esc") + styles.MutedText.Render(" Go back   "))
		b.WriteString(styles.AccentText.Render("r") + styles.MutedText.Render(" Retry"))
		return b.String()
	}

	mon := m.detail.mon
	if mon == nil {
		return ""
	}

	var b strings.Builder

	// Title
	title := styles.Logo.Render(displayName(mon.Name)) + "  " + styles.MutedText.Render(fmt.Sprintf("#%03d", mon.ID))
	if m.favorites != nil && m.favorites.IsFavorite(mon.Name) {
		title += "  " + styles.Favorite.Render("★ Favorite")
	}
	b.WriteString(title)
	b.WriteString("\n\n")

	// Types
	badges := make([]string, 0, len(mon.Types))
	for _, name := range mon.TypeNames() {
		badges = append(badges, styles.TypeBadge(name))
	}
	if len(badges) > 0 {
		b.WriteString(strings.Join(badges, " "))
		b.WriteString("\n\n")
	}

	// Facts
	favCount := 0
	if m.favorites != nil {
		favCount = m.favorites.Len()
	}
	facts := [][2]string{
		{"Height", fmt.Sprintf("%.1f m", mon.HeightMeters())},
		{"Weight", fmt.Sprintf("%.1f kg", mon.WeightKilograms())},
		{"Base experience", fmt.Sprintf("%d", mon.BaseExperience)},
		{"Favorites", fmt.Sprintf("%d", favCount)},
	}
	for _, f := range facts {
		b.WriteString(styles.MutedText.Width(18).Render(f[0]))
		b.WriteString(styles.Text.Render(f[1]))
		b.WriteString("\n")
	}

	// Stats
	if len(mon.Stats) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Base stats"))
		b.WriteString("\n")
		barWidth := m.width - 32
		if barWidth > 40 {
			barWidth = 40
		}
		if barWidth < 10 {
			barWidth = 10
		}
		for _, s := range mon.Stats {
			bar := progress.New(
				progress.WithSolidFill(m.statColor(s.BaseStat)),
				progress.WithWidth(barWidth),
				progress.WithoutPercentage(),
			)
			b.WriteString(styles.MutedText.Width(18).Render(statLabel(s.Stat.Name)))
			b.WriteString(styles.Text.Width(5).Render(fmt.Sprintf("%d", s.BaseStat)))
			b.WriteString(bar.ViewAs(s.Fraction()))
			b.WriteString("\n")
		}
	}

	// Abilities
	if len(mon.Abilities) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentText.Bold(true).Render("Abilities"))
		b.WriteString("\n")
		for _, a := range mon.Abilities {
			line := "• " + displayName(a.Ability.Name)
			b.WriteString(styles.Text.Render(line))
			if a.IsHidden {
				b.WriteString(" " + styles.WarningText.Render("(Hidden)"))
			}
			b.WriteString("\n")
		}
	}

	// Artwork
	if art := m.artworkURL(); art != "" {
		b.WriteString("\n")
		b.WriteString(styles.MutedText.Render("Artwork  "))
		b.WriteString(styles.InfoText.Render(art))
		b.WriteString("\n")
	}

	return lipgloss.NewStyle().Padding(0, 1).Render(b.String())
}

func (m Model) statColor(value int) string {
	switch {
	case value >= 100:
		return m.theme.Success
	case value >= 60:
		return m.theme.Info
	default:
		return m.theme.Warning
	}
}

var statLabels = map[string]string{
	"hp":              "HP",
	"attack":          "Attack",
	"defense":         "Defense",
	"special-attack":  "Sp. Attack",
	"special-defense": "Sp. Defense",
	"speed":           "Speed",
}

func statLabel(name string) string {
	if label, ok := statLabels[name]; ok {
		return label
	}
	return displayName(name)
}
