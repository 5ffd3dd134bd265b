package cli

import (
	"context"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/credential"
	"github.com/nhle/taskboard/internal/mailbox"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/tests/testutil"
)

// backendInbox reads codes straight from the test backend's outbox.
type backendInbox struct {
	t       *testing.T
	b       *testutil.Backend
	checked int
}

func (i *backendInbox) FindCode(_ context.Context, to string, _ time.Time) (string, error) {
	i.checked++
	return i.b.LastCode(i.t, to), nil
}

func withInbox(t *testing.T, env *Env, b *testutil.Backend) (*backendInbox, *credential.Store) {
	t.Helper()

	env.Config.Mailbox.Host = "imap.example.com"
	env.Config.Mailbox.Username = "me@example.com"
	secrets := credential.NewStore(keyring.NewArrayKeyring(nil))
	require.NoError(t, secrets.Set(mailbox.PasswordKey, "imap-pw"))
	env.OpenSecrets = func(model.CredentialConfig) (Secrets, error) { return secrets, nil }

	inbox := &backendInbox{t: t, b: b}
	env.NewMailbox = func(cfg model.MailboxConfig, password string) CodeFinder {
		assert.Equal(t, "imap.example.com", cfg.Host)
		assert.Equal(t, "imap-pw", password)
		return inbox
	}
	return inbox, secrets
}

func TestFetchCode_NeedsMailboxConfig(t *testing.T) {
	env, _ := newEnv(t)

	_, err := run(t, env, "fetch-code", "new@example.com")
	assert.EqualError(t, err, "mailbox.host and mailbox.username must be set in the config")
}

func TestFetchCode_PrintsCode(t *testing.T) {
	env, b := newEnv(t)
	inbox, _ := withInbox(t, env, b)

	mustRun(t, env, "send-code", "new@example.com")
	got := mustRun(t, env, "fetch-code", "new@example.com")

	assert.Equal(t, b.LastCode(t, "new@example.com")+"\n", got)
	assert.Equal(t, 1, inbox.checked)
}

func TestRegister_FromMailbox(t *testing.T) {
	env, b := newEnv(t)
	withInbox(t, env, b)

	got := mustRun(t, env, "register", "-e", "new@example.com", "-p", "pw1", "--from-mailbox")
	assert.Contains(t, got, "Registered new@example.com")

	mustRun(t, env, "login", "-e", "new@example.com", "-p", "pw1")
}
