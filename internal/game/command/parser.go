package command

import "strings"

// ParseResult holds the parsed command word and its arguments.
type ParseResult struct {
	// Command is the first word of the input, lowercased.
	Command string
	// Args are the remaining words after the command.
	Args []string
}

// Parse splits a line typed at the prompt into a command word and arguments.
//
// Postcondition: If line holds no words, Command is empty and Args is nil.
func Parse(line string) ParseResult {
	words := strings.Fields(line)
	if len(words) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Command: strings.ToLower(words[0])}
	if len(words) > 1 {
		res.Args = words[1:]
	}
	return res
}
