package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/mailbox"
	"github.com/nhle/taskboard/internal/model"
)

// Secrets holds values other than the session token.
type Secrets interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// CodeFinder looks up the newest verification code mailed to an address.
type CodeFinder interface {
	FindCode(ctx context.Context, to string, since time.Time) (string, error)
}

func openSecrets(cfg model.CredentialConfig) (Secrets, error) {
	store, err := credential.Open(cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}

func newMailbox(cfg model.MailboxConfig, password string) CodeFinder {
	return mailbox.New(cfg, password)
}

// inbox returns a finder for the configured mailbox, prompting for the
// IMAP password the first time and keeping it in the keyring.
func (e *Env) inbox() (CodeFinder, error) {
	cfg := e.Config.Mailbox
	if cfg.Host == "" || cfg.Username == "" {
		return nil, errors.New("mailbox.host and mailbox.username must be set in the config")
	}

	open := e.OpenSecrets
	if open == nil {
		open = openSecrets
	}
	secrets, err := open(e.Config.Credential)
	if err != nil {
		return nil, err
	}
	password, err := secrets.Get(mailbox.PasswordKey)
	if err != nil {
		return nil, err
	}
	if password == "" {
		input := huh.NewInput().
			Title("IMAP password for " + cfg.Username).
			EchoMode(huh.EchoModePassword).
			Value(&password)
		if err := huh.NewForm(huh.NewGroup(input)).Run(); err != nil {
			return nil, err
		}
		if err := secrets.Set(mailbox.PasswordKey, password); err != nil {
			return nil, err
		}
	}

	dial := e.NewMailbox
	if dial == nil {
		dial = newMailbox
	}
	return dial(cfg, password), nil
}

// awaitCode polls the inbox for a code mailed to addr after since.
func (e *Env) awaitCode(ctx context.Context, addr string, since time.Time, wait time.Duration) (string, error) {
	inbox, err := e.inbox()
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	return mailbox.WaitForCode(ctx, e.Config.Mailbox.PollInterval(), func(ctx context.Context) (string, error) {
		return inbox.FindCode(ctx, addr, since)
	})
}

func fetchCodeCmd(env *Env) *cobra.Command {
	var wait time.Duration
	var within time.Duration

	cmd := &cobra.Command{
		Use:   "fetch-code <email>",
		Short: "Read the newest registration code from your inbox",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := env.awaitCode(cmd.Context(), args[0], time.Now().Add(-within), wait)
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), code)
			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 2*time.Minute, "How long to keep checking the inbox")
	cmd.Flags().DurationVar(&within, "within", 24*time.Hour, "Only consider mail this recent")

	return cmd
}
