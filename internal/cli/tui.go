package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/app"
	"github.com/nhle/taskboard/internal/logger"
)

func tuiCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive board",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(env)
		},
	}
}

func runTUI(env *Env) error {
	// The TUI owns the terminal, so logs only go to the file.
	if err := logger.Init(env.Config.Log, logger.OutputFile); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	sess, client, err := env.session()
	if err != nil {
		return err
	}

	m := app.New(app.Options{
		Config:     env.Config,
		API:        client,
		Session:    sess,
		ConfigPath: env.ConfigPath,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running tui: %w", err)
	}
	return nil
}
