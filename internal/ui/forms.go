package ui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/huh"
)

// FormKeyMap is the huh keymap shared by every form: esc aborts as well as
// ctrl+c.
func FormKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
	return km
}

// FormWidth fits a form into a content area width wide.
func FormWidth(width int) int {
	return min(max(width-4, 40), 100)
}

// FormHeight fits a form into a content area height tall.
func FormHeight(height int) int {
	return max(height-4, 10)
}

// NewForm builds a form sized for the content area with FormKeyMap.
func NewForm(width, height int, groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithKeyMap(FormKeyMap()).
		WithWidth(FormWidth(width)).
		WithHeight(FormHeight(height))
}

// Cursor is a selection index that wraps around a list of n items.
type Cursor int

// Next moves down one item.
func (c *Cursor) Next(n int) {
	if n > 0 {
		*c = Cursor((int(*c) + 1) % n)
	}
}

// Prev moves up one item.
func (c *Cursor) Prev(n int) {
	if n > 0 {
		*c = Cursor((int(*c) - 1 + n) % n)
	}
}

// Clamp keeps the cursor inside a list of n items.
func (c *Cursor) Clamp(n int) {
	if int(*c) >= n {
		*c = Cursor(max(n-1, 0))
	}
}
