package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantOK   bool
		wantName string
		wantArgs string
	}{
		{name: "empty", input: "", wantOK: false},
		{name: "whitespace only", input: "  \t ", wantOK: false},
		{name: "comment", input: "# set x = 1", wantOK: false},
		{name: "indented comment", input: "   # note", wantOK: false},
		{name: "bare command", input: "reload", wantOK: true, wantName: "reload"},
		{name: "command with args", input: "set x = 1", wantOK: true, wantName: "set", wantArgs: "x = 1"},
		{name: "tab separator", input: "js\t1 + 1", wantOK: true, wantName: "js", wantArgs: "1 + 1"},
		{name: "surrounding whitespace", input: "  print   hello  world \n", wantOK: true, wantName: "print", wantArgs: "hello  world"},
		{name: "args kept raw", input: "print @(echo hi)@", wantOK: true, wantName: "print", wantArgs: "@(echo hi)@"},
		{name: "hash inside args", input: "print #1", wantOK: true, wantName: "print", wantArgs: "#1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := ParseCommand(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				assert.Nil(t, cmd)
				return
			}
			require.NotNil(t, cmd)
			assert.Equal(t, tt.wantName, cmd.Name)
			assert.Equal(t, tt.wantArgs, cmd.Args)
		})
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "reload", (&Command{Name: "reload"}).String())
	assert.Equal(t, "set a = b", (&Command{Name: "set", Args: "a = b"}).String())
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []string
		wantErr bool
	}{
		{name: "empty", input: "", want: []string{}},
		{name: "plain words", input: "1 2  3", want: []string{"1", "2", "3"}},
		{name: "single quotes", input: "'js 1' 'js \\@_ + 1'", want: []string{"js 1", `js \@_ + 1`}},
		{name: "double quotes", input: `"a b" c`, want: []string{"a b", "c"}},
		{name: "unterminated", input: "'open", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitArgs(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, got)
			if len(tt.want) > 0 {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestQuoteArgs(t *testing.T) {
	words := []string{"echo", "it's", "a b"}
	got, err := SplitArgs(QuoteArgs(words))
	require.NoError(t, err)
	assert.Equal(t, words, got)
}

func TestParseAssignment(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantValue string
		wantErr   bool
	}{
		{name: "spaced", input: "useragent = Uzbl browser kthxbye!", wantName: "useragent", wantValue: "Uzbl browser kthxbye!"},
		{name: "compact", input: "zoom_level=0.25", wantName: "zoom_level", wantValue: "0.25"},
		{name: "empty value", input: "x =", wantName: "x", wantValue: ""},
		{name: "value with equals", input: "x = a=b", wantName: "x", wantValue: "a=b"},
		{name: "missing equals", input: "x 1", wantErr: true},
		{name: "missing name", input: " = 1", wantErr: true},
		{name: "bad name", input: "a b = 1", wantErr: true},
		{name: "non-ascii name", input: "café = x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, value, err := ParseAssignment(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestIsName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "uri", want: true},
		{input: "_private2", want: true},
		{input: "ENGINE_MAJOR", want: true},
		{input: "", want: false},
		{input: "a-b", want: false},
		{input: "café", want: false},
		{input: "名前", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsName(tt.input))
		})
	}
}
