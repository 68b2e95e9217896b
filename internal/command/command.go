// Package command parses operator commands from the serial-console
// stand-in (stdin): one integer token per line setting the lock duration.
package command

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sweeney/timebox/internal/logic"
)

// Parse extracts the lock duration from one command line. Only the first
// whitespace-separated token is consumed; anything after it is discarded.
// Out-of-range or non-numeric input is an error and must not change state.
func Parse(line string) (int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty command")
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", fields[0])
	}
	if n < logic.MinDuration || n > logic.MaxDuration {
		return 0, fmt.Errorf("lock duration %d out of range [%d,%d]", n, logic.MinDuration, logic.MaxDuration)
	}
	return n, nil
}

// Reader feeds command lines from an io.Reader into a channel so the
// control loop can drain them without blocking.
type Reader struct {
	lines chan string
}

// NewReader starts reading lines from r. The channel closes when r is
// exhausted.
func NewReader(r io.Reader) *Reader {
	cr := &Reader{lines: make(chan string, 4)}
	go func() {
		defer close(cr.lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			cr.lines <- scanner.Text()
		}
	}()
	return cr
}

// Lines returns the channel of raw command lines.
func (r *Reader) Lines() <-chan string {
	return r.lines
}
