// Package menu keeps the user-defined context menu entries.
package menu

import (
	"strings"
	"sync"
)

// Context is a bit set of the page elements an item applies to.
type Context uint8

const (
	Document Context = 1 << iota
	Link
	Image
	Editable
)

// String returns the menu context name used in command names and listings.
func (c Context) String() string {
	var parts []string
	if c&Document != 0 {
		parts = append(parts, "document")
	}
	if c&Link != 0 {
		parts = append(parts, "link")
	}
	if c&Image != 0 {
		parts = append(parts, "image")
	}
	if c&Editable != 0 {
		parts = append(parts, "editable")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Item is one menu entry. Separators have no command.
type Item struct {
	Name      string
	Command   string
	Separator bool
	Context   Context
}

// Menu is an ordered list of items, safe for concurrent use.
type Menu struct {
	mu    sync.RWMutex
	items []Item
}

// New creates an empty menu.
func New() *Menu {
	return &Menu{}
}

// Add appends an item that runs command when chosen.
func (m *Menu) Add(name, command string, ctx Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, Item{Name: name, Command: command, Context: ctx})
}

// AddSeparator appends a separator.
func (m *Menu) AddSeparator(name string, ctx Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, Item{Name: name, Separator: true, Context: ctx})
}

// Remove deletes every item called name within ctx and returns how many were removed.
func (m *Menu) Remove(name string, ctx Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.items[:0]
	removed := 0
	for _, item := range m.items {
		if item.Name == name && item.Context == ctx {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return removed
}

// Items returns the entries that apply to any context in mask, in insertion order.
func (m *Menu) Items(mask Context) []Item {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Item
	for _, item := range m.items {
		if item.Context&mask != 0 {
			out = append(out, item)
		}
	}
	return out
}

// Lookup returns the command for the first non-separator item called name within mask.
func (m *Menu) Lookup(name string, mask Context) (string, bool) {
	for _, item := range m.Items(mask) {
		if item.Name == name && !item.Separator {
			return item.Command, true
		}
	}
	return "", false
}

// Len returns the number of entries.
func (m *Menu) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
