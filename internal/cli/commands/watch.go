package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/configkeys/internal/manager"
	"github.com/conduit-lang/configkeys/internal/watch"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the keys file whenever the store changes",
		Long: `Watch the configuration store and regenerate the keys file after every
change to its content. Bursts of writes are coalesced. Runs until
interrupted.

Examples:
  configkeys watch
  configkeys watch --debounce 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment()
			if err != nil {
				return err
			}

			m := manager.New(env.cfg.ManagerOptions(), env.log)
			w, err := watch.NewStoreWatcher(m.Store(), m, debounce, env.log.Named("watch"))
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			infoColor := color.New(color.FgCyan)
			infoColor.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", env.cfg.ConfigPath)

			if err := w.Run(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nStopped after %d regenerations\n", w.Reloads())
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating")

	return cmd
}
