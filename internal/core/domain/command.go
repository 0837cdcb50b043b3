package domain

import "strings"

// Command is a single recipe line, already split into a program and its arguments.
type Command struct {
	Program string
	Args    []string
	// Silent suppresses echoing the command before it runs ("@" prefix).
	Silent bool
	Line   int
}

// String renders the command the way it is echoed before execution.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Program
	}
	return c.Program + " " + strings.Join(c.Args, " ")
}

// IsEmpty reports whether the recipe line carried no program.
func (c Command) IsEmpty() bool {
	return c.Program == ""
}
