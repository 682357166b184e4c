package comm

import (
	"errors"
	"fmt"
	"io"
)

// ServeReader executes every line read from r and writes non-empty output to
// w. It returns when r is exhausted or the loop stops.
func ServeReader(host *Host, r io.Reader, w io.Writer) error {
	err := readLines(r, func(line string) bool {
		out, err := host.Execute(line)
		if errors.Is(err, ErrStopped) {
			return false
		}
		if text := reply(out); text != "" && w != nil {
			if _, err := io.WriteString(w, text); err != nil {
				return false
			}
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}
	return nil
}
