package mailbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
)

func TestSearchCriteria(t *testing.T) {
	since := time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC)
	c := searchCriteria("me@example.com", since)

	assert.Equal(t, since, c.Since)
	assert.Equal(t, []imap.SearchCriteriaHeaderField{
		{Key: "From", Value: "no-reply@taskboard.local"},
		{Key: "To", Value: "me@example.com"},
	}, c.Header)
}

func TestNewest(t *testing.T) {
	_, ok := newest(nil)
	assert.False(t, ok)

	uid, ok := newest([]imap.UID{4, 9, 2})
	require.True(t, ok)
	assert.Equal(t, imap.UID(9), uid)
}

func TestFindCode_NeedsHost(t *testing.T) {
	c := New(model.MailboxConfig{Port: "993", TLS: true}, "pw")
	_, err := c.FindCode(context.Background(), "me@example.com", time.Now())
	assert.EqualError(t, err, "mailbox.host is not configured")
}

func TestWaitForCode_PollsUntilMailArrives(t *testing.T) {
	calls := 0
	find := func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", ErrNoCode
		}
		return "123456", nil
	}

	code, err := WaitForCode(context.Background(), time.Millisecond, find)
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
	assert.Equal(t, 3, calls)
}

func TestWaitForCode_StopsOnOtherErrors(t *testing.T) {
	boom := errors.New("login failed")
	calls := 0
	_, err := WaitForCode(context.Background(), time.Millisecond, func(context.Context) (string, error) {
		calls++
		return "", boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestWaitForCode_GivesUpWithContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := WaitForCode(ctx, 5*time.Millisecond, func(context.Context) (string, error) {
		return "", ErrNoCode
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
