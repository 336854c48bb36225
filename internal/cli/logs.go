package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/pokedex/internal/config"
	"github.com/five82/pokedex/internal/logtail"
)

func newLogsCmd(a *App) *cobra.Command {
	var (
		lines int
		level string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the end of the TUI log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			minLevel, err := config.ParseLevel(level)
			if err != nil {
				return writeErr(cmd, err)
			}
			cfg, err := config.Load(a.ConfigPath)
			if err != nil {
				return writeErr(cmd, fmt.Errorf("load config: %w", err))
			}

			entries, err := logtail.Tail(cfg.LogPath, lines, minLevel)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no log entries in %s\n", cfg.LogPath)
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), e.Render())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to print")
	cmd.Flags().StringVar(&level, "level", "DEBUG", "Minimum level (DEBUG, INFO, WARN, ERROR)")
	return cmd
}
