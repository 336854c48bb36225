package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/pokedex/internal/app"
)

// App carries the global flags shared by every command.
type App struct {
	ConfigPath string
	PrefsPath  string
	Resume     bool
}

func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "pokedex [location]",
		Short:        "Browse the PokeAPI catalog in the terminal",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  pokedex

  # Open at a location copied from the footer
  pokedex '/?q=char&page=2'
  pokedex /pokemon/pikachu

  # Reopen wherever you quit last time
  pokedex --resume

  # Scriptable commands
  pokedex list --search saur --json
  pokedex show eevee
  pokedex favorites add pikachu
  pokedex logs -n 20 --level warn
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := ""
			if len(args) == 1 {
				location = args[0]
			}
			return app.Run(cmd.Context(), a.options(nil), location, a.Resume)
		},
	}

	cmd.PersistentFlags().StringVar(&a.ConfigPath, "config", "", "Path to config.toml (default ~/.config/pokedex/config.toml)")
	cmd.PersistentFlags().StringVar(&a.PrefsPath, "prefs", "", "Path to prefs.toml (default ~/.config/pokedex/prefs.toml)")
	cmd.Flags().BoolVar(&a.Resume, "resume", false, "Open at the location saved when the TUI last exited")

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newShowCmd(a))
	cmd.AddCommand(newFavoritesCmd(a))
	cmd.AddCommand(newLogsCmd(a))

	return cmd
}

func (a *App) options(cmd *cobra.Command) app.Options {
	opts := app.Options{ConfigPath: a.ConfigPath, PrefsPath: a.PrefsPath}
	if cmd != nil {
		opts.LogWriter = cmd.ErrOrStderr()
	}
	return opts
}

// open wires the services for a subcommand. Logs go to stderr.
func (a *App) open(cmd *cobra.Command) (*app.Services, error) {
	return app.Open(a.options(cmd))
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
