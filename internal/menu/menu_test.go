package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenu_AddAndFilter(t *testing.T) {
	m := New()
	m.Add("Reload", "reload", Document)
	m.AddSeparator("-", Document)
	m.Add("Open link", "uri @SELECTED_URI", Link)
	m.Add("Save image", "sh 'save'", Image)

	doc := m.Items(Document)
	require.Len(t, doc, 2)
	assert.Equal(t, "Reload", doc[0].Name)
	assert.True(t, doc[1].Separator)
	assert.Empty(t, doc[1].Command)

	both := m.Items(Link | Image)
	require.Len(t, both, 2)
	assert.Equal(t, "Open link", both[0].Name)
	assert.Equal(t, "Save image", both[1].Name)

	assert.Empty(t, m.Items(Editable))
	assert.Equal(t, 4, m.Len())
}

func TestMenu_Remove(t *testing.T) {
	m := New()
	m.Add("Copy", "js copy()", Document)
	m.Add("Copy", "js copyLink()", Link)
	m.Add("Copy", "js copy2()", Document)

	assert.Equal(t, 2, m.Remove("Copy", Document))
	assert.Equal(t, 0, m.Remove("Copy", Document))
	assert.Equal(t, 0, m.Remove("Missing", Link))

	items := m.Items(Document | Link)
	require.Len(t, items, 1)
	assert.Equal(t, Link, items[0].Context)
}

func TestMenu_Lookup(t *testing.T) {
	m := New()
	m.AddSeparator("Back", Document)
	m.Add("Back", "back", Document)

	cmd, ok := m.Lookup("Back", Document)
	assert.True(t, ok)
	assert.Equal(t, "back", cmd)

	_, ok = m.Lookup("Back", Link)
	assert.False(t, ok)
}

func TestContext_String(t *testing.T) {
	assert.Equal(t, "document", Document.String())
	assert.Equal(t, "link|editable", (Link | Editable).String())
	assert.Equal(t, "none", Context(0).String())
}
