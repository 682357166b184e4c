package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// PlainTextStyle renders text with an optional prefix and no escape codes.
type PlainTextStyle struct {
	prefix string
}

// NewPlainTextStyle creates a new plain text style with an optional prefix.
func NewPlainTextStyle(prefix string) *PlainTextStyle {
	return &PlainTextStyle{prefix: prefix}
}

// Render implements TextStyle.
func (p *PlainTextStyle) Render(text string) string {
	if p.prefix != "" {
		return p.prefix + text
	}
	return text
}

// PlainStyleProvider is used when styling is unavailable or disabled.
type PlainStyleProvider struct{}

// NewPlainStyleProvider creates a new plain style provider.
func NewPlainStyleProvider() *PlainStyleProvider {
	return &PlainStyleProvider{}
}

// GetStyle implements StyleProvider. Only warnings carry a marker; errors
// already start with "Error:".
func (p *PlainStyleProvider) GetStyle(semantic string) TextStyle {
	switch SemanticType(semantic) {
	case SemanticWarning:
		return NewPlainTextStyle("⚠ ")
	default:
		return NewPlainTextStyle("")
	}
}

// IsAvailable implements StyleProvider.
func (p *PlainStyleProvider) IsAvailable() bool {
	return true
}

// lipglossStyle adapts the variadic lipgloss.Style.Render to TextStyle.
type lipglossStyle struct {
	style lipgloss.Style
}

func (s lipglossStyle) Render(text string) string {
	return s.style.Render(text)
}

// LipglossStyleProvider styles text with the same palette as the logger.
// lipgloss drops colors by itself when stdout is not a terminal.
type LipglossStyleProvider struct {
	styles map[SemanticType]lipgloss.Style
}

// NewLipglossStyleProvider creates the console palette.
func NewLipglossStyleProvider() *LipglossStyleProvider {
	return &LipglossStyleProvider{
		styles: map[SemanticType]lipgloss.Style{
			SemanticInfo:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
			SemanticWarning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			SemanticError:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
			SemanticCommand:  lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
			SemanticVariable: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
			SemanticEvent:    lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
			SemanticResult:   lipgloss.NewStyle(),
		},
	}
}

// GetStyle implements StyleProvider. Unknown semantics render unstyled.
func (l *LipglossStyleProvider) GetStyle(semantic string) TextStyle {
	if style, ok := l.styles[SemanticType(semantic)]; ok {
		return lipglossStyle{style: style}
	}
	return lipglossStyle{style: lipgloss.NewStyle()}
}

// IsAvailable implements StyleProvider.
func (l *LipglossStyleProvider) IsAvailable() bool {
	return l != nil && l.styles != nil
}

// String returns a string representation for debugging.
func (l *LipglossStyleProvider) String() string {
	return fmt.Sprintf("LipglossStyleProvider{styles: %d}", len(l.styles))
}
