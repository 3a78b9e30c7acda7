// ABOUTME: Interactive terminal UI command
// ABOUTME: Runs the full-screen client with logs redirected to a file in the config dir

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/chikadol/rev-frontend-sub000/internal/config"
	"github.com/chikadol/rev-frontend-sub000/internal/tui"
	"github.com/chikadol/rev-frontend-sub000/internal/tui/debuglog"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse boards and notifications interactively",
	Long: `Start the full-screen terminal UI.

Boards and threads can be browsed without logging in. Replying, reacting,
bookmarking and the notification inbox need a session; log in from the menu.
Logs go to debug.log in the config directory while the UI is running.`,
	Args: cobra.NoArgs,
	Run: runCommand(func(ctx context.Context, w io.Writer, _ []string) int {
		return runTUI(ctx, w)
	}),
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// fileLog sends logs to the debug log so they don't corrupt the screen
func fileLog(cfg *config.Config, level string) (*slog.Logger, error) {
	log, err := debuglog.Init(cfg.ConfigDir, level)
	if err != nil {
		return nil, fmt.Errorf("open debug log: %w", err)
	}
	slog.SetDefault(log)
	return log, nil
}

func runTUI(ctx context.Context, w io.Writer) int {
	if !interactive() {
		fmt.Fprintln(w, "Error: the terminal UI needs an interactive terminal")
		return exitError
	}

	env, err := newEnvWithLog(fileLog)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer env.Close()
	defer debuglog.Close()

	if err := tui.Run(ctx, env.api, env.session); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
