package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/ui/taskform"
)

func TestValidateLogin(t *testing.T) {
	assert.NoError(t, ValidateLogin("a@b.c", "secret"))
	assert.Error(t, ValidateLogin("", "secret"))
	assert.Error(t, ValidateLogin("a@b.c", "  "))

	var verr *ValidationError
	assert.True(t, errors.As(ValidateLogin("", ""), &verr))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail(" user@example.com "))
	assert.EqualError(t, ValidateEmail(""), "enter your email first")
	assert.EqualError(t, ValidateEmail("user.example.com"), "email address looks wrong")
}

func TestValidateRegistration(t *testing.T) {
	assert.NoError(t, ValidateRegistration("a@b.c", "pw", "pw", "123456"))
	assert.EqualError(t, ValidateRegistration("a@b.c", "pw", "px", "123456"), "passwords do not match")
	assert.EqualError(t, ValidateRegistration("a@b.c", "pw", "pw", " "), "enter the verification code")
	assert.Error(t, ValidateRegistration("", "pw", "pw", "1"))
}

func TestValidateProjectName(t *testing.T) {
	assert.NoError(t, ValidateProjectName("Inbox"))
	assert.Error(t, ValidateProjectName("   "))
}

func TestParseWhen(t *testing.T) {
	got, err := ParseWhen("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ParseWhen("2024-03-14 09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 14, 9, 30, 0, 0, time.Local), *got)

	got, err = ParseWhen("2024-03-14")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.March, 14, 23, 59, 0, 0, time.Local), *got)

	_, err = ParseWhen("tomorrow")
	assert.EqualError(t, err, "dates must look like YYYY-MM-DD HH:MM")
}

func TestSplitTags_KeepsOrderAndDuplicates(t *testing.T) {
	assert.Equal(t, []string{"ui", "api", "ui"}, SplitTags(" ui, api,, ui ,"))
	assert.Empty(t, SplitTags(""))
}

func TestRetag(t *testing.T) {
	got, changed := Retag([]string{"ui", "API", "ui"}, "ui", "frontend")
	assert.True(t, changed)
	assert.Equal(t, []string{"frontend", "API", "frontend"}, got)

	got, changed = Retag([]string{"ui", "API"}, "api", "")
	assert.True(t, changed)
	assert.Equal(t, []string{"ui"}, got)

	_, changed = Retag([]string{"ui"}, "docs", "x")
	assert.False(t, changed)
}

func TestParseDraft(t *testing.T) {
	_, err := ParseDraft(taskform.Draft{Title: "  "})
	assert.EqualError(t, err, "title is required")

	_, err = ParseDraft(taskform.Draft{Title: "Ship", Due: "soon"})
	assert.Error(t, err)

	in, err := ParseDraft(taskform.Draft{Title: " Ship ", Tags: "release, qa", Due: "2024-03-14 10:00"})
	require.NoError(t, err)
	assert.Equal(t, "Ship", in.Title)
	assert.Equal(t, model.StatusTodo, in.Status)
	assert.Equal(t, model.PriorityMedium, in.Priority)
	assert.Equal(t, []string{"release", "qa"}, in.Tags)
	require.NotNil(t, in.DueAt)
	assert.Nil(t, in.RemindAt)

	in, err = ParseDraft(taskform.Draft{Title: "Fix", Status: model.StatusDoing, Priority: model.PriorityCritical})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDoing, in.Status)
	assert.Equal(t, model.PriorityCritical, in.Priority)
}

func TestPatchFrom_SetsEveryField(t *testing.T) {
	in, err := ParseDraft(taskform.Draft{Title: "Fix", Tags: "a"})
	require.NoError(t, err)

	p := PatchFrom(in)
	require.NotNil(t, p.Title)
	assert.Equal(t, "Fix", *p.Title)
	require.NotNil(t, p.Description)
	assert.Equal(t, "", *p.Description)
	require.NotNil(t, p.Tags)
	assert.Equal(t, []string{"a"}, *p.Tags)
	assert.Nil(t, p.DueAt)
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, model.StatusDoing, NextStatus(model.StatusTodo))
	assert.Equal(t, model.StatusDone, NextStatus(model.StatusDoing))
	assert.Equal(t, model.StatusTodo, NextStatus(model.StatusDone))
	assert.Equal(t, model.StatusTodo, NextStatus(model.StatusArchived))
}

func TestNextPriority(t *testing.T) {
	assert.Equal(t, model.PriorityMedium, NextPriority(model.PriorityLow))
	assert.Equal(t, model.PriorityLow, NextPriority(model.PriorityCritical))
	assert.Equal(t, model.PriorityMedium, NextPriority("bogus"))
}
