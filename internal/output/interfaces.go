// Package output renders human-facing console text for webshell.
// Command results sent to sockets and pipes are never styled; only the
// interactive console and the CLI go through a Printer.
package output

// StyleProvider supplies a TextStyle for each semantic type.
type StyleProvider interface {
	// GetStyle returns the style for a semantic type such as "error" or "event".
	GetStyle(semantic string) TextStyle

	// IsAvailable reports whether the provider can render styles right now.
	IsAvailable() bool
}

// TextStyle renders text.
type TextStyle interface {
	Render(text string) string
}

// SemanticType is the meaning of a piece of output.
type SemanticType string

const (
	SemanticPlain    SemanticType = "plain"
	SemanticInfo     SemanticType = "info"
	SemanticWarning  SemanticType = "warning"
	SemanticError    SemanticType = "error"
	SemanticCommand  SemanticType = "command"
	SemanticVariable SemanticType = "variable"
	SemanticEvent    SemanticType = "event"
	SemanticResult   SemanticType = "result"
)
