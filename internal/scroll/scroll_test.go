package scroll

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_Sequence(t *testing.T) {
	adj := NewAdjustment(0, 100, 5)

	steps := []struct {
		spec string
		want float64
	}{
		{"end", 95},
		{"begin", 0},
		{"15", 15},
		{"-10", 5},
		{"100%", 10},
		{"150%", 17.5},
	}

	for _, step := range steps {
		assert.NoError(t, Apply(adj, step.spec), step.spec)
		assert.Equal(t, step.want, adj.Value(), step.spec)
	}
}

func TestApply_Clamping(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		spec  string
		want  float64
	}{
		{name: "below lower", start: 5, spec: "-50", want: 0},
		{name: "past end", start: 90, spec: "20", want: 95},
		{name: "percent past end", start: 90, spec: "1000%", want: 95},
		{name: "negative percent", start: 10, spec: "-100%", want: 5},
		{name: "explicit plus", start: 10, spec: "+5", want: 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := NewAdjustment(0, 100, 5)
			adj.SetValue(tt.start)
			assert.NoError(t, Apply(adj, tt.spec))
			assert.Equal(t, tt.want, adj.Value())
		})
	}
}

func TestApply_PageLargerThanRange(t *testing.T) {
	adj := NewAdjustment(10, 20, 50)
	assert.NoError(t, Apply(adj, "end"))
	assert.Equal(t, 10.0, adj.Value())
}

func TestApply_InvalidSpec(t *testing.T) {
	adj := NewAdjustment(0, 100, 5)
	adj.SetValue(30)

	for _, spec := range []string{"", "middle", "abc%", "%"} {
		assert.Error(t, Apply(adj, spec), spec)
	}
	assert.Equal(t, 30.0, adj.Value(), "invalid specs leave the position alone")
}

func TestAdjustment_SetBounds(t *testing.T) {
	adj := NewAdjustment(0, 10, 1)
	adj.SetValue(4)
	adj.SetBounds(0, 1000, 200)
	assert.Equal(t, 4.0, adj.Value())
	assert.Equal(t, 1000.0, adj.Upper())
	assert.Equal(t, 200.0, adj.PageSize())
}
