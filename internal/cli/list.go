package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/pokedex/internal/config"
	"github.com/five82/pokedex/internal/explorer"
)

type listRow struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Favorite bool   `json:"favorite"`
}

type listOutput struct {
	Location      string    `json:"location"`
	Page          int       `json:"page"`
	TotalPages    int       `json:"totalPages"`
	Total         int       `json:"total"`
	Search        string    `json:"search,omitempty"`
	Sort          string    `json:"sort"`
	FavoritesOnly bool      `json:"favoritesOnly"`
	Rows          []listRow `json:"rows"`
	Suggestions   []string  `json:"suggestions,omitempty"`
}

func newListCmd(a *App) *cobra.Command {
	var (
		page     int
		search   string
		favsOnly bool
		sortName string
		jsonOut  bool
		pageSize int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sortKey, ok := explorer.ParseSort(sortName)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown sort %q (want name or id)", sortName))
			}
			if page < 1 {
				return writeErr(cmd, fmt.Errorf("page must be >= 1, got %d", page))
			}
			if cmd.Flags().Changed("page-size") && (pageSize < 1 || pageSize > config.MaxPageSize) {
				return writeErr(cmd, fmt.Errorf("page-size must be between 1 and %d, got %d", config.MaxPageSize, pageSize))
			}

			svc, err := a.open(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = svc.Close() }()

			if pageSize <= 0 {
				pageSize = svc.Config.PageSize
			}
			ctl := explorer.New(pageSize, svc.Favorites)
			ctl.Seed(explorer.Query{Search: search, Sort: sortKey, FavoritesOnly: favsOnly, Page: page})

			if ctl.ShouldFetch() {
				// A page past the end is clamped and fetched once more.
				for attempt := 0; attempt < 2; attempt++ {
					req := ctl.Request()
					res, err := svc.Catalog.Page(cmd.Context(), req)
					if err != nil {
						return writeErr(cmd, err)
					}
					if !ctl.Apply(req, res) {
						break
					}
				}
			}

			out := listOutput{
				Location:      ctl.Location().String(),
				Page:          ctl.Query().Page,
				TotalPages:    ctl.TotalPages(),
				Total:         ctl.Total(),
				Search:        ctl.Query().Search,
				Sort:          string(ctl.Query().Sort),
				FavoritesOnly: ctl.Query().FavoritesOnly,
				Rows:          []listRow{},
				Suggestions:   ctl.Suggestions(),
			}
			for _, r := range ctl.Rows() {
				out.Rows = append(out.Rows, listRow{ID: r.ID(), Name: r.Name, Favorite: svc.Favorites.IsFavorite(r.Name)})
			}

			if jsonOut {
				return writeJSON(cmd, out)
			}
			return writeListTable(cmd, out, ctl)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "Page number (1-based)")
	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive name filter")
	cmd.Flags().BoolVar(&favsOnly, "favorites", false, "Only show favorites on the page")
	cmd.Flags().StringVar(&sortName, "sort", string(explorer.SortName), "Sort rows by name or id")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Write JSON instead of a table")
	return cmd
}

func writeListTable(cmd *cobra.Command, out listOutput, ctl *explorer.Controller) error {
	w := cmd.OutOrStdout()
	if out.FavoritesOnly && !ctl.ShouldFetch() {
		_, err := fmt.Fprintln(w, "No favorites yet.")
		return err
	}
	if len(out.Rows) == 0 {
		fmt.Fprintln(w, "No Pokémon found.")
		if len(out.Suggestions) > 0 {
			fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(out.Suggestions, ", "))
		}
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "NAME", "★").
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return s.Bold(true)
			}
			if col == 0 {
				return s.Align(lipgloss.Right)
			}
			return s
		})
	for _, r := range out.Rows {
		star := ""
		if r.Favorite {
			star = "★"
		}
		t.Row(strconv.Itoa(r.ID), r.Name, star)
	}
	fmt.Fprintln(w, t.Render())

	from, to := ctl.Range()
	_, err := fmt.Fprintf(w, "Page %d of %d · Showing %d-%d of %d · %s\n", out.Page, out.TotalPages, from, to, out.Total, out.Location)
	return err
}

