// Package input parses the board's slash-command prompt.
package input

import "strings"

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
}

// BoardCommands lists the commands the board prompt understands.
var BoardCommands = []PromptCommand{
	{Name: "/column", Description: "Add a column: /column <label>"},
	{Name: "/rename", Description: "Rename the current column: /rename <label>"},
	{Name: "/drop", Description: "Remove the current column if it is empty"},
	{Name: "/seat", Description: "Seat a queued customer at the cursor: /seat <id>"},
	{Name: "/split", Description: "Split services off the booking at the cursor: /split <service>..."},
	{Name: "/date", Description: "Open another day: /date <day>"},
	{Name: "/help", Description: "Show the key bindings"},
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// ParseCommand splits a prompt value into a lower-cased command name and its
// arguments. The name keeps its leading slash. Values that do not start with
// a slash return an empty name.
func ParseCommand(value string) (name string, args []string) {
	fields := strings.Fields(value)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}
