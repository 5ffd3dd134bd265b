package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nhle/taskboard/internal/api"
	"github.com/nhle/taskboard/internal/devserver"
)

// Backend is a running in-memory dev backend.
type Backend struct {
	Server *devserver.Server
	Mailer *devserver.MemoryMailer
	URL    string
}

// NewBackend starts a seeded dev backend on an httptest server. It is shut
// down when the test completes.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	mailer := devserver.NewMemoryMailer()
	srv := devserver.New(NewTestStore(t), mailer)
	if err := srv.Seed(context.Background()); err != nil {
		t.Fatalf("seeding dev backend: %v", err)
	}

	hs := httptest.NewServer(srv.Handler())
	t.Cleanup(hs.Close)

	return &Backend{Server: srv, Mailer: mailer, URL: hs.URL + "/api"}
}

// Client returns an API client for the backend using tokens.
func (b *Backend) Client(tokens api.TokenSource) *api.Client {
	return api.NewClient(b.URL, tokens, 5*time.Second)
}

// LoginDemo logs in as the seeded demo account and returns a client
// carrying its token.
func (b *Backend) LoginDemo(t *testing.T) *api.Client {
	t.Helper()

	resp, err := b.Client(nil).Login(context.Background(), api.Credentials{
		Email:    devserver.DemoEmail,
		Password: devserver.DemoPassword,
	})
	if err != nil {
		t.Fatalf("logging in as demo user: %v", err)
	}
	return b.Client(api.StaticToken(resp.Token))
}

// LastCode returns the verification code most recently mailed to email.
func (b *Backend) LastCode(t *testing.T, email string) string {
	t.Helper()

	raw, ok := b.Mailer.Last(email)
	if !ok {
		t.Fatalf("no mail sent to %s", email)
	}
	_, code, err := devserver.ParseCodeMail(raw)
	if err != nil {
		t.Fatalf("parsing mail to %s: %v", email, err)
	}
	return code
}
