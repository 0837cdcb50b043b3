// Package lexer turns makefile text into a lazy stream of tokens.
package lexer

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	// EOF marks the end of the input.
	EOF Kind = iota
	// Identifier is a bare word: a target, prerequisite or assignment operand.
	Identifier
	// Colon is the rule separator.
	Colon
	// SemiColon introduces an inline recipe.
	SemiColon
	// Tab introduces a recipe line.
	Tab
	// NewLine ends a logical line.
	NewLine
	// UserVariable is a $(name) reference.
	UserVariable
	// ConfigVariable is a .NAME directive.
	ConfigVariable
)

var kindNames = [...]string{
	EOF:            "EOF",
	Identifier:     "Identifier",
	Colon:          "Colon",
	SemiColon:      "SemiColon",
	Tab:            "Tab",
	NewLine:        "NewLine",
	UserVariable:   "UserVariable",
	ConfigVariable: "ConfigVariable",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Token is one lexical unit.
// Text holds the word for Identifier and the name for UserVariable and ConfigVariable.
type Token struct {
	Kind Kind
	Text string
	Line int
}

func (t Token) String() string {
	switch t.Kind {
	case Identifier, UserVariable, ConfigVariable:
		return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
	default:
		return t.Kind.String()
	}
}
