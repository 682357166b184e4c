// Package orchestration runs command files, such as the startup configuration,
// through the installed dispatcher.
package orchestration

import (
	"bufio"
	"fmt"
	"io"
	"os"

	webcontext "webshell/internal/context"
	"webshell/internal/logger"
	"webshell/internal/parser"
	"webshell/pkg/webtypes"
)

// ExecuteScript loads a command file and dispatches every line in order on
// result. Blank lines and comments are skipped. Failing commands are logged by
// the dispatcher and do not stop the script.
//
// It returns the number of commands dispatched.
func ExecuteScript(scriptPath string, ctx *webcontext.Context, result *webtypes.Result) (int, error) {
	logger.Debug("Starting script execution", "script", scriptPath)

	f, err := os.Open(scriptPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load script: %w", err)
	}
	defer f.Close()

	count, err := ExecuteReader(f, ctx, result)
	if err != nil {
		return count, fmt.Errorf("failed to read script %s: %w", scriptPath, err)
	}

	logger.Info("Script execution completed", "script", scriptPath, "commands_executed", count)
	return count, nil
}

// ExecuteReader dispatches every command line read from r.
func ExecuteReader(r io.Reader, ctx *webcontext.Context, result *webtypes.Result) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	count := 0
	for scanner.Scan() {
		line := scanner.Text()
		if _, ok := parser.ParseCommand(line); !ok {
			continue
		}

		count++
		logger.Debug("Executing command", "number", count, "command", line)
		ctx.Dispatch(line, result)
	}
	return count, scanner.Err()
}
