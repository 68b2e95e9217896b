package command

import (
	"strings"
	"testing"
	"time"
)

func TestParseValid(t *testing.T) {
	cases := []struct {
		line string
		want int
	}{
		{"1", 1},
		{"15", 15},
		{"99", 99},
		{"  42  ", 42},
		{"30 trailing garbage", 30}, // trailing tokens discarded
	}
	for _, c := range cases {
		got, err := Parse(c.line)
		if err != nil {
			t.Errorf("Parse(%q): %v", c.line, err)
			continue
		}
		if got != c.want {
			t.Errorf("Parse(%q): got %d, want %d", c.line, got, c.want)
		}
	}
}

func TestParseRejected(t *testing.T) {
	for _, line := range []string{"", "   ", "0", "-5", "100", "150", "abc", "1x", "4.5"} {
		if _, err := Parse(line); err == nil {
			t.Errorf("Parse(%q): expected error", line)
		}
	}
}

func TestReaderDeliversLines(t *testing.T) {
	r := NewReader(strings.NewReader("15\n150\nabc\n"))

	var lines []string
	timeout := time.After(time.Second)
	for {
		select {
		case line, ok := <-r.Lines():
			if !ok {
				if len(lines) != 3 {
					t.Fatalf("lines: got %v", lines)
				}
				if lines[0] != "15" || lines[1] != "150" || lines[2] != "abc" {
					t.Errorf("lines: got %v", lines)
				}
				return
			}
			lines = append(lines, line)
		case <-timeout:
			t.Fatal("timed out waiting for lines")
		}
	}
}
