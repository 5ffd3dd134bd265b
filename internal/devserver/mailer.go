package devserver

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/nhle/taskboard/internal/logger"
)

// Mailer delivers verification codes.
type Mailer interface {
	SendCode(to, code string) error
}

// From is the sender address on verification mail.
const From = "taskboard <no-reply@taskboard.local>"

// ComposeCodeMail renders an RFC 5322 message carrying code.
func ComposeCodeMail(to, code string, now time.Time) ([]byte, error) {
	var h mail.Header
	h.SetDate(now)
	h.SetSubject("Your taskboard verification code")
	h.SetMessageID(uuid.NewString() + "@taskboard.local")

	fromAddr, err := mail.ParseAddress(From)
	if err != nil {
		return nil, fmt.Errorf("parsing sender address: %w", err)
	}
	h.SetAddressList("From", []*mail.Address{fromAddr})
	h.SetAddressList("To", []*mail.Address{{Address: to}})
	h.SetContentType("text/plain", map[string]string{"charset": "utf-8"})

	var buf bytes.Buffer
	w, err := mail.CreateSingleInlineWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("creating message writer: %w", err)
	}
	fmt.Fprintf(w, "Your verification code is %s. It is valid for %d minutes.\r\n", code, int(CodeTTL.Minutes()))
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing message writer: %w", err)
	}
	return buf.Bytes(), nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

// ParseCodeMail extracts the recipient and the verification code from a
// message produced by ComposeCodeMail.
func ParseCodeMail(raw []byte) (to, code string, err error) {
	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return "", "", fmt.Errorf("reading message: %w", err)
	}
	defer mr.Close()

	if addrs, err := mr.Header.AddressList("To"); err == nil && len(addrs) > 0 {
		to = addrs[0].Address
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("reading message part: %w", err)
		}
		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, _ := h.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return "", "", fmt.Errorf("reading message body: %w", err)
		}
		if m := codePattern.FindSubmatch(body); m != nil {
			return to, string(m[1]), nil
		}
	}
	return to, "", fmt.Errorf("no verification code in message")
}

// LogMailer writes codes to the log instead of sending them.
type LogMailer struct{}

// SendCode implements Mailer.
func (LogMailer) SendCode(to, code string) error {
	logger.L().Sugar().Infof("verification code for %s: %s", to, code)
	return nil
}

// OutboxMailer writes each message as an .eml file into Dir.
type OutboxMailer struct {
	Dir string
}

// SendCode implements Mailer.
func (m OutboxMailer) SendCode(to, code string) error {
	raw, err := ComposeCodeMail(to, code, time.Now())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(m.Dir, 0o755); err != nil {
		return fmt.Errorf("creating outbox %s: %w", m.Dir, err)
	}
	name := fmt.Sprintf("%d-%s.eml", time.Now().UnixNano(), sanitize(to))
	path := filepath.Join(m.Dir, name)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.L().Sugar().Infof("verification mail for %s written to %s", to, path)
	return nil
}

// MemoryMailer keeps the last message per recipient. Tests read codes back
// from it.
type MemoryMailer struct {
	mu   sync.Mutex
	sent map[string][]byte
}

// NewMemoryMailer returns an empty MemoryMailer.
func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{sent: make(map[string][]byte)}
}

// SendCode implements Mailer.
func (m *MemoryMailer) SendCode(to, code string) error {
	raw, err := ComposeCodeMail(to, code, time.Now())
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[normalizeEmail(to)] = raw
	return nil
}

// Last returns the most recent raw message sent to addr.
func (m *MemoryMailer) Last(addr string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.sent[normalizeEmail(addr)]
	return raw, ok
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}
