// Package expansion resolves the embedded expressions that command arguments may carry.
//
// Recognised forms:
//
//	@name, @{name}   variable value
//	@(command)@      stdout of a shell command, trailing newlines removed
//	@<script>@       result of evaluating script in the rendering engine
//	@[text]@         text with markup characters escaped
//	\@               a literal '@'
//
// Expansion is a single left-to-right pass: substituted results are never scanned again.
// The body of a bracketed form is expanded before it is evaluated.
package expansion

import (
	"context"
	"html"
	"strings"

	"github.com/charmbracelet/log"

	"webshell/internal/logger"
	"webshell/pkg/webtypes"
)

// VariableSource resolves variable names; unknown names must yield "".
type VariableSource interface {
	GetString(name string) string
}

// Expander substitutes embedded expressions using the variable table, the shell and the engine.
type Expander struct {
	vars   VariableSource
	shell  webtypes.Shell
	engine webtypes.Engine
	logger *log.Logger
}

// New creates an expander. shell and engine may be nil, in which case their forms expand to "".
func New(vars VariableSource, shell webtypes.Shell, engine webtypes.Engine) *Expander {
	return &Expander{
		vars:   vars,
		shell:  shell,
		engine: engine,
		logger: logger.NewStyledLogger("Expander"),
	}
}

// SetShell replaces the shell capability.
func (e *Expander) SetShell(shell webtypes.Shell) {
	e.shell = shell
}

// SetEngine replaces the engine capability.
func (e *Expander) SetEngine(engine webtypes.Engine) {
	e.engine = engine
}

// HasExpressions reports whether text contains anything Expand would act on.
func HasExpressions(text string) bool {
	return strings.Contains(text, "@")
}

// Expand returns text with every recognised expression substituted.
func (e *Expander) Expand(ctx context.Context, text string) string {
	if !HasExpressions(text) {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	for i := 0; i < len(text); {
		c := text[i]

		if c == '\\' && i+1 < len(text) && text[i+1] == '@' {
			out.WriteByte('@')
			i += 2
			continue
		}

		if c != '@' || i+1 >= len(text) {
			out.WriteByte(c)
			i++
			continue
		}

		consumed, replacement, ok := e.expandAt(ctx, text, i)
		if !ok {
			out.WriteByte('@')
			i++
			continue
		}
		out.WriteString(replacement)
		i += consumed
	}

	result := out.String()
	logger.Debug("Expanded", "input", text, "output", result)
	return result
}

// expandAt handles the expression starting at text[i] == '@'. It returns how many bytes
// the expression spans and its replacement, or ok=false when nothing valid starts here.
func (e *Expander) expandAt(ctx context.Context, text string, i int) (int, string, bool) {
	switch text[i+1] {
	case '(':
		return e.bracketed(ctx, text, i, "@(", ")@", e.shellOutput)
	case '<':
		return e.bracketed(ctx, text, i, "@<", ">@", e.scriptOutput)
	case '[':
		return e.bracketed(ctx, text, i, "@[", "]@", func(_ context.Context, body string) string {
			return html.EscapeString(body)
		})
	case '{':
		end := strings.IndexByte(text[i+2:], '}')
		if end < 0 {
			return 0, "", false
		}
		name := text[i+2 : i+2+end]
		if !isName(name) {
			return 0, "", false
		}
		return end + 3, e.vars.GetString(name), true
	}

	j := i + 1
	for j < len(text) && isNameByte(text[j]) {
		j++
	}
	if j == i+1 {
		return 0, "", false
	}
	return j - i, e.vars.GetString(text[i+1 : j]), true
}

func (e *Expander) bracketed(ctx context.Context, text string, i int, open, closer string, eval func(context.Context, string) string) (int, string, bool) {
	start := i + len(open)
	end := findClose(text, start, open, closer)
	if end < 0 {
		return 0, "", false
	}
	body := e.Expand(ctx, text[start:end])
	return end + len(closer) - i, eval(ctx, body), true
}

func (e *Expander) shellOutput(ctx context.Context, command string) string {
	if e.shell == nil {
		e.logger.Warn("No shell available for substitution", "command", command)
		return ""
	}
	out, err := e.shell.Run(ctx, command)
	if err != nil {
		e.logger.Warn("Shell substitution failed", "command", command, "error", err)
	}
	return strings.TrimRight(out, "\n")
}

func (e *Expander) scriptOutput(ctx context.Context, script string) string {
	if e.engine == nil {
		e.logger.Warn("No engine available for substitution", "script", script)
		return ""
	}
	out, err := e.engine.EvaluateScript(ctx, script)
	if err != nil {
		e.logger.Warn("Script substitution failed", "script", script, "error", err)
	}
	return out
}

// findClose returns the index of the closer matching an opener that ends just before
// start, honouring nested openers of the same form, or -1.
func findClose(text string, start int, open, closer string) int {
	depth := 1
	for k := start; k < len(text); k++ {
		if text[k] == '\\' && k+1 < len(text) && text[k+1] == '@' {
			k++
			continue
		}
		if strings.HasPrefix(text[k:], closer) {
			depth--
			if depth == 0 {
				return k
			}
			k += len(closer) - 1
			continue
		}
		if strings.HasPrefix(text[k:], open) {
			depth++
			k += len(open) - 1
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isNameByte(s[i]) {
			return false
		}
	}
	return true
}
