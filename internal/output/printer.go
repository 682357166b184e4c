package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Printer writes semantic console output, styled when a StyleProvider is
// available and plain otherwise.
type Printer struct {
	styleProvider StyleProvider
	writer        io.Writer
	forcePlain    bool
	silent        bool

	mu sync.Mutex
}

// NewPrinter creates a Printer writing to os.Stdout.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{writer: os.Stdout}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// NewConsolePrinter creates a Printer using the lipgloss palette.
func NewConsolePrinter(options ...Option) *Printer {
	return NewPrinter(append([]Option{WithStyles(NewLipglossStyleProvider())}, options...)...)
}

// Print outputs text without any semantic styling.
func (p *Printer) Print(text string) {
	p.output(SemanticPlain, text, false)
}

// Printf outputs formatted text without any semantic styling.
func (p *Printer) Printf(format string, args ...interface{}) {
	p.output(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println outputs text followed by a newline.
func (p *Printer) Println(text string) {
	p.output(SemanticPlain, text, true)
}

// Info outputs informational text.
func (p *Printer) Info(text string) {
	p.output(SemanticInfo, text, true)
}

// Warning outputs warning text.
func (p *Printer) Warning(text string) {
	p.output(SemanticWarning, text, true)
}

// Error outputs error text.
func (p *Printer) Error(text string) {
	p.output(SemanticError, text, true)
}

// Render returns text styled for semantic without writing it.
func (p *Printer) Render(semantic SemanticType, text string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render(semantic, text)
}

func (p *Printer) output(semantic SemanticType, text string, addNewline bool) {
	if p.silent {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	finalText := p.render(semantic, text)
	if addNewline && !strings.HasSuffix(finalText, "\n") {
		finalText += "\n"
	}

	_, _ = fmt.Fprint(p.writer, finalText) // Ignore write errors for output operations
}

func (p *Printer) render(semantic SemanticType, text string) string {
	var provider StyleProvider = NewPlainStyleProvider()
	if p.stylable() {
		provider = p.styleProvider
	}
	return provider.GetStyle(string(semantic)).Render(text)
}

func (p *Printer) stylable() bool {
	if p.forcePlain {
		return false
	}
	return p.styleProvider != nil && p.styleProvider.IsAvailable()
}

// IsStylable returns true if the printer can apply styles.
func (p *Printer) IsStylable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stylable()
}

// String returns a string representation for debugging.
func (p *Printer) String() string {
	hasStyles := "no"
	if p.IsStylable() {
		hasStyles = "yes"
	}
	return fmt.Sprintf("Printer{styles: %s, silent: %t, writer: %T}", hasStyles, p.silent, p.writer)
}
