package devserver

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier(t *testing.T) {
	v := NewVerifier()
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	v.now = func() time.Time { return now }

	code := v.Issue("Ann@Example.com")
	require.Len(t, code, 6)

	assert.False(t, v.Verify("ann@example.com", "nope"))
	assert.True(t, v.Verify("ann@example.com", " "+code+" "), "email and whitespace are normalized")
	assert.False(t, v.Verify("ann@example.com", code), "consumed")

	code = v.Issue("ann@example.com")
	now = now.Add(CodeTTL + time.Second)
	assert.False(t, v.Verify("ann@example.com", code), "expired")
}

func TestComposeAndParseCodeMail(t *testing.T) {
	raw, err := ComposeCodeMail("ann@example.com", "123456", time.Now())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Subject: Your taskboard verification code")

	to, code, err := ParseCodeMail(raw)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", to)
	assert.Equal(t, "123456", code)
}

func TestOutboxMailer(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "outbox")
	require.NoError(t, OutboxMailer{Dir: dir}.SendCode("a@b.c", "654321"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	_, code, err := ParseCodeMail(raw)
	require.NoError(t, err)
	assert.Equal(t, "654321", code)
}

func TestParseSort(t *testing.T) {
	field, asc := parseSort("createdAt,DESC")
	assert.Equal(t, "createdAt", field)
	assert.False(t, asc)

	field, asc = parseSort("title,asc")
	assert.Equal(t, "title", field)
	assert.True(t, asc)

	field, asc = parseSort("dueAt")
	assert.Equal(t, "dueAt", field)
	assert.False(t, asc)
}

func TestCompressBody(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CompressBody([]byte("{\n  \"a\": 1\n}")))
	assert.Empty(t, CompressBody(nil))
}
