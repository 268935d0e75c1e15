package command

import "strings"

// ParseResult holds the parsed command name and arguments from a text line.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
	// RawArgs is the raw text after the command.
	RawArgs string
	// Line is the whole trimmed input, used when the first word is an exit word.
	Line string
}

// Parse splits a text line into a command and arguments.
//
// Postcondition: Returns a ParseResult. If line is empty or blank, Command is empty.
func Parse(line string) ParseResult {
	line = strings.TrimSpace(line)
	if line == "" {
		return ParseResult{}
	}

	spaceIdx := strings.IndexAny(line, " \t")
	if spaceIdx < 0 {
		return ParseResult{
			Command: strings.ToLower(line),
			Line:    line,
		}
	}

	rest := strings.TrimSpace(line[spaceIdx+1:])
	var args []string
	if rest != "" {
		args = strings.Fields(rest)
	}

	return ParseResult{
		Command: strings.ToLower(line[:spaceIdx]),
		Args:    args,
		RawArgs: rest,
		Line:    line,
	}
}

// Object returns the arguments joined by single spaces, so "leather   armor" names
// the same item as "leather armor".
func (p ParseResult) Object() string {
	return strings.Join(p.Args, " ")
}

// SplitAt splits the arguments around the last occurrence of any of the given
// keywords, so "take coin from chest" yields ("coin", "chest", true).
//
// Postcondition: found is false when no keyword occurs between two non-empty phrases;
// before is then the whole argument phrase.
func (p ParseResult) SplitAt(keywords ...string) (before, after string, found bool) {
	for i := len(p.Args) - 2; i >= 1; i-- {
		for _, kw := range keywords {
			if strings.EqualFold(p.Args[i], kw) {
				return strings.Join(p.Args[:i], " "), strings.Join(p.Args[i+1:], " "), true
			}
		}
	}
	return p.Object(), "", false
}
