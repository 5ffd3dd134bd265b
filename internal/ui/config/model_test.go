package config

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

func TestStart_FillsFieldsFromConfig(t *testing.T) {
	cfg := *model.DefaultAppConfig()
	cfg.Mailbox.Host = "imap.example.com"

	m := New(80, 24)
	require.NotNil(t, m.Start(cfg))
	assert.Equal(t, cfg.API.BaseURL, m.fields.baseURL)
	assert.Equal(t, "imap.example.com", m.fields.imapHost)
	assert.True(t, m.fields.imapTLS)
	assert.Contains(t, m.View(), "Settings")
}

func TestConfig_AppliesEditedFields(t *testing.T) {
	cfg := *model.DefaultAppConfig()
	cfg.Display.Theme = "light"

	m := New(80, 24)
	m.Start(cfg)
	m.fields.baseURL = " http://backend:9000/api/ "
	m.fields.timeoutSec = "30"
	m.fields.toastMs = "500"
	m.fields.imapHost = "imap.example.com"
	m.fields.imapUser = "me@example.com"
	m.fields.imapTLS = false

	got := m.Config()
	assert.Equal(t, "http://backend:9000/api", got.API.BaseURL)
	assert.Equal(t, 30, got.API.TimeoutSec)
	assert.Equal(t, 500, got.Notify.ToastMs)
	assert.Equal(t, cfg.Notify.IntervalSec, got.Notify.IntervalSec)
	assert.Equal(t, model.MailboxConfig{Host: "imap.example.com", Port: "993", Username: "me@example.com", PollSec: 5}, got.Mailbox)
	assert.Equal(t, "light", got.Display.Theme, "fields outside the form are kept")
}

func TestEsc_Cancels(t *testing.T) {
	m := New(80, 24)
	m.Start(*model.DefaultAppConfig())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, CancelMsg{}, cmd())
	assert.Nil(t, m.form)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, validateURL("http://localhost:8080/api"))
	assert.Error(t, validateURL("localhost"))
	assert.Error(t, validateURL(""))

	assert.NoError(t, validatePort("993"))
	assert.EqualError(t, validatePort("99a"), "port must be a number")
	assert.EqualError(t, validatePort(""), "port is required")

	assert.NoError(t, validatePositive("timeout")("15"))
	assert.EqualError(t, validatePositive("timeout")("0"), "timeout must be a positive number")
}
