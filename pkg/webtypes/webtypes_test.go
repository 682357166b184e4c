package webtypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_NilIsDiscardSink(t *testing.T) {
	var r *Result

	assert.NotPanics(t, func() {
		r.WriteString("ignored")
		r.Reset()
	})
	n, err := r.Write([]byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "", r.String())
	assert.Equal(t, 0, r.Len())
}

func TestResult_WriteAndReset(t *testing.T) {
	r := NewResult()
	r.WriteString("hello ")
	_, err := r.Write([]byte("world"))
	require.NoError(t, err)

	assert.Equal(t, "hello world", r.String())
	assert.Equal(t, 11, r.Len())

	r.Reset()
	assert.Equal(t, "", r.String())
}

func TestParseAxis(t *testing.T) {
	tests := []struct {
		input   string
		want    Axis
		wantErr bool
	}{
		{input: "vertical", want: AxisVertical},
		{input: "Horizontal", want: AxisHorizontal},
		{input: "v", want: AxisVertical},
		{input: "x", want: AxisHorizontal},
		{input: "diagonal", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAxis(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
