package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/pokedex/internal/favorites"
)

func newFavoritesCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"favs"},
		Short:   "Manage the local favorites set",
	}

	var jsonOut bool
	list := &cobra.Command{
		Use:   "list",
		Short: "Print favorites in the order they were added",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.open(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = svc.Close() }()

			names := svc.Favorites.List()
			if jsonOut {
				return writeJSON(cmd, map[string]any{"favorites": names})
			}
			if len(names) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No favorites yet.")
				return err
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
	list.Flags().BoolVar(&jsonOut, "json", false, "Write JSON instead of text")

	cmd.AddCommand(list)
	cmd.AddCommand(newFavoritesEditCmd(a, "add", "Add a name to favorites", func(s *favorites.Store, name string) string {
		if s.IsFavorite(name) {
			return name + " is already a favorite"
		}
		s.Add(name)
		return "Added " + name
	}))
	cmd.AddCommand(newFavoritesEditCmd(a, "remove", "Remove a name from favorites", func(s *favorites.Store, name string) string {
		if !s.IsFavorite(name) {
			return name + " is not a favorite"
		}
		s.Remove(name)
		return "Removed " + name
	}))
	cmd.AddCommand(newFavoritesEditCmd(a, "toggle", "Add or remove a name", func(s *favorites.Store, name string) string {
		if s.Toggle(name) {
			return "Added " + name
		}
		return "Removed " + name
	}))
	return cmd
}

func newFavoritesEditCmd(a *App, use, short string, edit func(*favorites.Store, string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := favorites.ValidateName(args[0])
			if errors.Is(err, favorites.ErrEmptyName) {
				return writeErr(cmd, fmt.Errorf("%s: name must not be empty", use))
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			svc, err := a.open(cmd)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = svc.Close() }()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), edit(svc.Favorites, name))
			return err
		},
	}
}
