package command

import (
	"bufio"
	"io"
	"strings"
)

// Outcome pairs one replayed line with what it produced.
type Outcome struct {
	Line   string
	Result Result
	Err    error
}

// Replay executes each line in order and stops after a quit. Blank lines and lines
// starting with '#' are skipped.
//
// Postcondition: Identical worlds and identical lines produce identical outcomes.
func Replay(d *Dispatcher, lines []string) []Outcome {
	var out []Outcome
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		res, err := d.Execute(trimmed)
		out = append(out, Outcome{Line: trimmed, Result: res, Err: err})
		if res.Quit {
			break
		}
	}
	return out
}

// ReadScript reads a command script, one command per line.
func ReadScript(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}
