package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/devserver"
	"github.com/nhle/taskboard/internal/logger"
	"github.com/nhle/taskboard/internal/store"
)

func clearCmd(env *Env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every project and task on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				err := huh.NewConfirm().
					Title("Delete every project and task?").
					Affirmative("Delete").
					Negative("Cancel").
					Value(&yes).
					Run()
				if err != nil {
					return err
				}
				if !yes {
					return errors.New("aborted")
				}
			}
			_, client, err := env.loggedIn(cmd.Context())
			if err != nil {
				return err
			}
			if err := client.ClearAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), "All projects and tasks cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func devserverCmd(env *Env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run the bundled development backend",
		Long: `Run a local REST backend backed by SQLite.

A demo account (` + devserver.DemoEmail + ` / ` + devserver.DemoPassword + `) is created on start.
Verification codes are logged, or written as .eml files when devserver.outbox is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := env.Config
			if addr != "" {
				cfg.DevServer.Addr = addr
			}
			if err := logger.Init(cfg.Log, logger.OutputStderr); err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := store.NewSQLiteStore(cfg.DevServer.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			var mailer devserver.Mailer = devserver.LogMailer{}
			if cfg.DevServer.Outbox != "" {
				mailer = devserver.OutboxMailer{Dir: cfg.DevServer.Outbox}
			}

			srv := devserver.New(db, mailer)
			if err := srv.Seed(cmd.Context()); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, cfg.DevServer.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (defaults to devserver.addr)")
	return cmd
}

