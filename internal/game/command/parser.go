package command

import "strings"

// ParseResult holds the tokenized form of one input line.
type ParseResult struct {
	// Command is the first token, lowercased.
	Command string
	// Tokens are all whitespace-separated tokens, including the first, as typed.
	Tokens []string
	// Args are the tokens after the first.
	Args []string
}

// Parse splits a line into whitespace-separated tokens.
//
// Postcondition: Returns a ParseResult. If line has no tokens, Command is empty and Tokens is nil.
func Parse(line string) ParseResult {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return ParseResult{}
	}
	var args []string
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return ParseResult{
		Command: strings.ToLower(tokens[0]),
		Tokens:  tokens,
		Args:    args,
	}
}

// Join re-joins tokens with single spaces.
func Join(tokens []string) string {
	return strings.Join(tokens, " ")
}
