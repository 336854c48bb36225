package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/route"
)

type showOutput struct {
	*pokeapi.Pokemon
	Favorite bool   `json:"favorite"`
	Location string `json:"location"`
	Artwork  string `json:"artwork"`
}

func newShowCmd(a *App) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the full record for one Pokémon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = svc.Close() }()

			mon, err := svc.Catalog.Detail(cmd.Context(), args[0])
			if errors.Is(err, pokeapi.ErrNotFound) {
				return writeErr(cmd, fmt.Errorf("pokémon %q not found", strings.ToLower(strings.TrimSpace(args[0]))))
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			out := showOutput{
				Pokemon:  mon,
				Favorite: svc.Favorites.IsFavorite(mon.Name),
				Location: route.Detail(mon.Name).String(),
				Artwork:  mon.ArtworkURL(),
			}
			if out.Artwork == "" {
				out.Artwork = pokeapi.SpriteURL(mon.ID)
			}
			if jsonOut {
				return writeJSON(cmd, out)
			}
			return writeShow(cmd, out)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Write JSON instead of text")
	return cmd
}

func writeShow(cmd *cobra.Command, out showOutput) error {
	w := cmd.OutOrStdout()
	mon := out.Pokemon

	title := fmt.Sprintf("%s #%03d", mon.Name, mon.ID)
	if out.Favorite {
		title += " ★"
	}
	fmt.Fprintln(w, lipgloss.NewStyle().Bold(true).Render(title))
	fmt.Fprintf(w, "Types:           %s\n", strings.Join(mon.TypeNames(), ", "))
	fmt.Fprintf(w, "Height:          %.1f m\n", mon.HeightMeters())
	fmt.Fprintf(w, "Weight:          %.1f kg\n", mon.WeightKilograms())
	fmt.Fprintf(w, "Base experience: %d\n", mon.BaseExperience)

	if len(mon.Stats) > 0 {
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("STAT", "BASE", "EFFORT")
		for _, s := range mon.Stats {
			t.Row(s.Stat.Name, strconv.Itoa(s.BaseStat), strconv.Itoa(s.Effort))
		}
		fmt.Fprintln(w, t.Render())
	}

	if len(mon.Abilities) > 0 {
		names := make([]string, 0, len(mon.Abilities))
		for _, ab := range mon.Abilities {
			name := ab.Ability.Name
			if ab.IsHidden {
				name += " (hidden)"
			}
			names = append(names, name)
		}
		fmt.Fprintf(w, "Abilities:       %s\n", strings.Join(names, ", "))
	}
	if out.Artwork != "" {
		fmt.Fprintf(w, "Artwork:         %s\n", out.Artwork)
	}
	_, err := fmt.Fprintf(w, "Location:        %s\n", out.Location)
	return err
}
