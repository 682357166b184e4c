package variables

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggle_IntWithoutCandidates(t *testing.T) {
	var forward int64
	r, em := newTestRegistry(t)
	require.NoError(t, r.Define(Definition{Name: "forward_keys", Kind: KindInt, Slot: IntSlot(&forward)}))

	assert.True(t, r.Toggle("forward_keys", nil))
	assert.Equal(t, int64(1), forward)

	assert.True(t, r.Toggle("forward_keys", nil))
	assert.Equal(t, int64(0), forward)

	assert.Equal(t, []string{
		"VARIABLE_SET forward_keys int 1",
		"VARIABLE_SET forward_keys int 0",
	}, em.events)
}

func TestToggle_IntWithCandidates(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.Define(Definition{Name: "forward_keys", Kind: KindInt}))

	candidates := []string{"1", "2"}
	want := []int64{1, 2, 1}
	for _, w := range want {
		assert.True(t, r.Toggle("forward_keys", candidates))
		assert.Equal(t, w, r.GetInt("forward_keys"))
	}
}

func TestToggle_StringWithoutCandidates(t *testing.T) {
	r, em := newTestRegistry(t)
	r.Set("useragent", "something interesting")
	em.events = nil

	assert.True(t, r.Toggle("useragent", nil))
	assert.Equal(t, "", r.GetString("useragent"))

	// already empty: nothing to do
	assert.False(t, r.Toggle("useragent", nil))
	assert.Equal(t, []string{"VARIABLE_SET useragent str ''"}, em.events)
}

func TestToggle_StringWithCandidates(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Set("useragent", "something interesting")

	for _, want := range []string{"x", "y", "x"} {
		assert.True(t, r.Toggle("useragent", []string{"x", "y"}))
		assert.Equal(t, want, r.GetString("useragent"))
	}
}

func TestToggle_NewVariable(t *testing.T) {
	r, em := newTestRegistry(t)

	assert.True(t, r.Toggle("new_variable", []string{"x", "y"}))
	assert.Equal(t, "x", r.GetString("new_variable"))
	assert.Equal(t, []string{"VARIABLE_SET new_variable str 'x'"}, em.events)

	assert.False(t, r.Toggle("other_new", nil))
	assert.Equal(t, "", r.GetString("other_new"))
	assert.False(t, r.Toggle("empty_candidate", []string{""}))

	// a toggle that changes nothing does not leave a variable behind
	for _, name := range []string{"other_new", "empty_candidate"} {
		_, ok := r.Lookup(name)
		assert.False(t, ok, name)
		assert.NotContains(t, r.Names(), name)
	}
	assert.Len(t, em.events, 1)
}

func TestToggle_Float(t *testing.T) {
	r, _ := newTestRegistry(t)
	require.NoError(t, r.Define(Definition{Name: "zoom", Kind: KindFloat, Initial: FloatValue(0.5)}))

	assert.True(t, r.Toggle("zoom", nil))
	assert.Equal(t, 0.0, r.GetFloat("zoom"))
	assert.True(t, r.Toggle("zoom", nil))
	assert.Equal(t, 1.0, r.GetFloat("zoom"))

	assert.True(t, r.Toggle("zoom", []string{"1", "1.5"}))
	assert.Equal(t, 1.5, r.GetFloat("zoom"))
}

func TestToggle_NoChangeEmitsNothing(t *testing.T) {
	r, em := newTestRegistry(t)
	r.Set("mode", "only")
	em.events = nil

	assert.False(t, r.Toggle("mode", []string{"only"}))
	assert.Empty(t, em.events)
}

func TestToggle_Constant(t *testing.T) {
	r, em := newTestRegistry(t)
	require.NoError(t, r.Define(Definition{Name: "PID", Kind: KindInt, Constant: true, Initial: IntValue(42)}))

	assert.False(t, r.Toggle("PID", nil))
	assert.False(t, r.Toggle("PID", []string{"1", "2"}))
	assert.Equal(t, int64(42), r.GetInt("PID"))
	assert.Empty(t, em.events)
}
