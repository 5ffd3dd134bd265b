// Package mailbox reads registration codes from the user's IMAP inbox.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/nhle/taskboard/internal/devserver"
	"github.com/nhle/taskboard/internal/model"
)

// PasswordKey is the keyring entry holding the IMAP password.
const PasswordKey = "imap_password"

// ErrNoCode is returned while the inbox holds no matching verification mail.
var ErrNoCode = errors.New("no verification mail yet")

// Client searches one IMAP inbox for verification mail.
type Client struct {
	host     string
	port     string
	username string
	password string
	tls      bool
}

// New returns a client for the inbox described by cfg.
func New(cfg model.MailboxConfig, password string) *Client {
	return &Client{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: password,
		tls:      cfg.TLS,
	}
}

// connect dials and authenticates. The caller logs out.
func (c *Client) connect() (*imapclient.Client, error) {
	if c.host == "" {
		return nil, errors.New("mailbox.host is not configured")
	}
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error
	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("IMAP login as %s: %w", c.username, err)
	}
	return client, nil
}

// senderAddress is the bare address verification mail is sent from.
func senderAddress() string {
	addr, err := mail.ParseAddress(devserver.From)
	if err != nil {
		return devserver.From
	}
	return addr.Address
}

// searchCriteria matches verification mail to addr received since.
func searchCriteria(to string, since time.Time) *imap.SearchCriteria {
	return &imap.SearchCriteria{
		Since: since,
		Header: []imap.SearchCriteriaHeaderField{
			{Key: "From", Value: senderAddress()},
			{Key: "To", Value: to},
		},
	}
}

// newest returns the highest uid, or false when there is none.
func newest(uids []imap.UID) (imap.UID, bool) {
	var top imap.UID
	for _, uid := range uids {
		if uid > top {
			top = uid
		}
	}
	return top, top != 0
}

// FindCode returns the code in the newest verification mail sent to addr
// since the given time, or ErrNoCode.
func (c *Client) FindCode(_ context.Context, to string, since time.Time) (string, error) {
	client, err := c.connect()
	if err != nil {
		return "", err
	}
	defer func() { _ = client.Logout().Wait() }()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return "", fmt.Errorf("selecting INBOX: %w", err)
	}

	found, err := client.UIDSearch(searchCriteria(to, since), nil).Wait()
	if err != nil {
		return "", fmt.Errorf("searching messages: %w", err)
	}
	uid, ok := newest(found.AllUIDs())
	if !ok {
		return "", ErrNoCode
	}

	section := &imap.FetchItemBodySection{Peek: true}
	fetch := client.Fetch(imap.UIDSetNum(uid), &imap.FetchOptions{
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{section},
	})
	defer fetch.Close()

	msg := fetch.Next()
	if msg == nil {
		return "", fmt.Errorf("message UID %d not found", uid)
	}
	buf, err := msg.Collect()
	if err != nil {
		return "", fmt.Errorf("collecting message UID %d: %w", uid, err)
	}
	raw := buf.FindBodySection(section)
	if raw == nil {
		return "", fmt.Errorf("message UID %d has no body", uid)
	}

	_, code, err := devserver.ParseCodeMail(raw)
	if err != nil {
		return "", err
	}
	return code, nil
}

// WaitForCode calls find every interval until it returns a code, fails
// with something other than ErrNoCode, or ctx ends.
func WaitForCode(ctx context.Context, interval time.Duration, find func(context.Context) (string, error)) (string, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		code, err := find(ctx)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, ErrNoCode) {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for verification mail: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
