// Package parser splits command lines into a command name and its raw argument text.
package parser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kballard/go-shellquote"
)

// Command is one parsed command line. Args is the raw remainder, not yet expanded.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a single line. Blank lines and lines starting with '#'
// return ok=false.
func ParseCommand(line string) (*Command, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false
	}

	idx := strings.IndexFunc(line, unicode.IsSpace)
	if idx < 0 {
		return &Command{Name: line}, true
	}

	return &Command{
		Name: line[:idx],
		Args: strings.TrimLeftFunc(line[idx:], unicode.IsSpace),
	}, true
}

// String renders the command back into line form.
func (c *Command) String() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// SplitArgs splits text into words using shell quoting rules.
func SplitArgs(text string) ([]string, error) {
	words, err := shellquote.Split(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split arguments: %w", err)
	}
	return words, nil
}

// QuoteArgs joins words so that SplitArgs returns them unchanged.
func QuoteArgs(words []string) string {
	return shellquote.Join(words...)
}

// ParseAssignment parses "NAME = VALUE". Whitespace around '=' is optional and
// VALUE may be empty.
func ParseAssignment(text string) (string, string, error) {
	eq := strings.IndexByte(text, '=')
	if eq < 0 {
		return "", "", fmt.Errorf("missing '=' in %q", text)
	}

	name := strings.TrimSpace(text[:eq])
	if !IsName(name) {
		return "", "", fmt.Errorf("invalid variable name %q", name)
	}

	return name, strings.TrimSpace(text[eq+1:]), nil
}

// IsName reports whether s is a valid variable name: ASCII letters, digits
// and underscores, the same set the expander reads after '@'.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}
