// Package cli implements the taskboard command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/session"
)

// Env carries what every command shares. Tests build one by hand.
type Env struct {
	ConfigPath string
	JSON       bool
	Config     *model.AppConfig

	// OpenTokens opens the token store. Defaults to the system keyring.
	OpenTokens func(cfg model.CredentialConfig) (session.TokenStore, error)
	// OpenSecrets opens the store for the IMAP password.
	OpenSecrets func(cfg model.CredentialConfig) (Secrets, error)
	// NewMailbox builds the inbox reader. Defaults to IMAP.
	NewMailbox func(cfg model.MailboxConfig, password string) CodeFinder
}

func openKeyring(cfg model.CredentialConfig) (session.TokenStore, error) {
	store, err := credential.Open(cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// session opens the token store and returns a session plus a client that
// authenticates with it.
func (e *Env) session() (*session.Session, *api.Client, error) {
	open := e.OpenTokens
	if open == nil {
		open = openKeyring
	}
	tokens, err := open(e.Config.Credential)
	if err != nil {
		return nil, nil, err
	}
	sess := session.New(tokens)
	client := api.NewClient(e.Config.API.BaseURL, sess, e.Config.API.Timeout())
	return sess, client, nil
}

// loggedIn restores the saved session and fails when there is none.
func (e *Env) loggedIn(ctx context.Context) (*session.Session, *api.Client, error) {
	sess, client, err := e.session()
	if err != nil {
		return nil, nil, err
	}
	ok, err := sess.Restore(ctx, client.Me)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, session.ErrNotLoggedIn
	}
	return sess, client, nil
}

// NewRootCmd builds the command tree around env.
func NewRootCmd(env *Env) *cobra.Command {
	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Taskboard - a terminal client for the task backend",
		Long: `Taskboard manages projects and tasks on a REST backend.

Run without a subcommand to open the interactive board.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if env.Config != nil {
				return nil
			}
			cfg, err := model.LoadConfig(env.ConfigPath)
			if err != nil {
				return err
			}
			env.Config = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(env)
		},
	}

	root.PersistentFlags().StringVar(&env.ConfigPath, "config", model.DefaultConfigPath(), "Path to the config file")
	root.PersistentFlags().BoolVar(&env.JSON, "json", false, "Print results as JSON")

	root.AddCommand(tuiCmd(env))
	root.AddCommand(loginCmd(env))
	root.AddCommand(logoutCmd(env))
	root.AddCommand(sendCodeCmd(env))
	root.AddCommand(registerCmd(env))
	root.AddCommand(fetchCodeCmd(env))
	root.AddCommand(whoamiCmd(env))
	root.AddCommand(profileCmd(env))
	root.AddCommand(projectsCmd(env))
	root.AddCommand(tasksCmd(env))
	root.AddCommand(statsCmd(env))
	root.AddCommand(clearCmd(env))
	root.AddCommand(devserverCmd(env))

	return root
}

// Execute runs the command line.
func Execute(version string) error {
	root := NewRootCmd(&Env{})
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
