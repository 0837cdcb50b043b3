// Package parser builds a Program of statements from the lexer's token stream.
package parser

import (
	"strings"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/remake/internal/engine/lexer"
	"go.trai.ch/zerr"
)

// assignOps are the operators that can end a word; ":" variants never do
// since ':' terminates a word.
var assignOps = []string{"+=", "?=", "!=", "="}

// specialTargets are the dot-prefixed names that make gives a meaning of its
// own. They parse as directives; any other dot-prefixed name is an ordinary word.
var specialTargets = map[string]struct{}{
	"PHONY": {}, "SUFFIXES": {}, "DEFAULT": {}, "PRECIOUS": {}, "INTERMEDIATE": {},
	"NOTINTERMEDIATE": {}, "SECONDARY": {}, "SECONDEXPANSION": {}, "DELETE_ON_ERROR": {},
	"IGNORE": {}, "LOW_RESOLUTION_TIME": {}, "SILENT": {}, "EXPORT_ALL_VARIABLES": {},
	"NOTPARALLEL": {}, "ONESHELL": {}, "POSIX": {},
}

// Parser consumes a lexer and produces a Program.
// A Parser is single-use: the lexer it wraps cannot be rewound.
type Parser struct {
	lex *lexer.Lexer
}

// New creates a Parser reading from lex.
func New(lex *lexer.Lexer) *Parser {
	return &Parser{lex: lex}
}

// Parse lexes and parses input in one step.
func Parse(input string) (*domain.Program, error) {
	return New(lexer.New(input)).Parse()
}

// Parse reads statements until the end of input.
// The first lex or parse error aborts parsing; no partial program is returned.
func (p *Parser) Parse() (*domain.Program, error) {
	prog := &domain.Program{}
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return nil, err
		}

		var stmt domain.Statement
		switch tok.Kind {
		case lexer.EOF:
			return prog, nil
		case lexer.NewLine:
			continue
		case lexer.Identifier:
			stmt, err = p.parseIdentifier(tok)
		case lexer.ConfigVariable:
			stmt, err = p.parseDotted(tok)
		case lexer.Tab:
			err = parseError("recipe commences before first target", tok)
		case lexer.UserVariable:
			err = parseError("variable expansion is not supported", tok)
		default:
			err = parseError("unexpected token at start of statement", tok)
		}
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
}

// parseIdentifier decides between a rule and an assignment for a statement
// starting with name.
func (p *Parser) parseIdentifier(name lexer.Token) (domain.Statement, error) {
	if i := strings.IndexByte(name.Text, '='); i >= 0 {
		return p.parseAssign(name, name.Text[:i]+"=")
	}

	next, err := p.lex.Peek()
	if err != nil {
		return domain.Statement{}, err
	}

	switch {
	case next.Kind == lexer.Colon:
		if _, err := p.lex.Next(); err != nil {
			return domain.Statement{}, err
		}
		return p.parseAfterColon(name)
	case next.Kind == lexer.Identifier && strings.HasPrefix(next.Text, "="):
		if _, err := p.lex.Next(); err != nil {
			return domain.Statement{}, err
		}
		return p.assign(name.Text, "=", name.Line)
	case next.Kind == lexer.Identifier && isOpPrefix(next.Text):
		if _, err := p.lex.Next(); err != nil {
			return domain.Statement{}, err
		}
		return p.assign(name.Text, next.Text[:2], name.Line)
	default:
		return domain.Statement{}, parseError("missing separator", name)
	}
}

// parseAfterColon handles the token following "name:" which may still turn
// the statement into a := or ::= assignment.
func (p *Parser) parseAfterColon(name lexer.Token) (domain.Statement, error) {
	next, err := p.lex.Peek()
	if err != nil {
		return domain.Statement{}, err
	}

	switch {
	case next.Kind == lexer.Identifier && strings.HasPrefix(next.Text, "="):
		if _, err := p.lex.Next(); err != nil {
			return domain.Statement{}, err
		}
		return p.assign(name.Text, ":=", name.Line)
	case next.Kind == lexer.Colon:
		if _, err := p.lex.Next(); err != nil {
			return domain.Statement{}, err
		}
		op, err := p.lex.Peek()
		if err != nil {
			return domain.Statement{}, err
		}
		if op.Kind == lexer.Identifier && strings.HasPrefix(op.Text, "=") {
			if _, err := p.lex.Next(); err != nil {
				return domain.Statement{}, err
			}
			return p.assign(name.Text, "::=", name.Line)
		}
		return domain.Statement{}, parseError("double-colon rules are not supported", name)
	default:
		return p.parseRule(name)
	}
}

// parseAssign handles an assignment written without blanks, e.g. "CC=gcc".
func (p *Parser) parseAssign(tok lexer.Token, head string) (domain.Statement, error) {
	name, op := head, "="
	for _, candidate := range assignOps {
		if strings.HasSuffix(head, candidate) {
			name, op = strings.TrimSuffix(head, candidate), candidate
			break
		}
	}
	if name == "" {
		return domain.Statement{}, parseError("empty variable name", tok)
	}
	return p.assign(name, op, tok.Line)
}

func (p *Parser) assign(name, op string, line int) (domain.Statement, error) {
	if err := p.lex.SkipLine(); err != nil {
		return domain.Statement{}, err
	}
	return domain.NewAssignStatement(&domain.AssignStmt{Name: name, Op: op, Line: line}), nil
}

// parseRule reads the prerequisites and recipe of a rule whose "target:" was consumed.
func (p *Parser) parseRule(target lexer.Token) (domain.Statement, error) {
	rule := &domain.RuleStmt{Target: target.Text, Line: target.Line}

	inline, err := p.parsePrerequisites(rule)
	if err != nil {
		return domain.Statement{}, err
	}
	if inline {
		if err := p.readRecipeLine(rule); err != nil {
			return domain.Statement{}, err
		}
	}

	for {
		next, err := p.lex.Peek()
		if err != nil {
			return domain.Statement{}, err
		}
		if next.Kind != lexer.Tab {
			break
		}
		if _, err := p.lex.Next(); err != nil {
			return domain.Statement{}, err
		}
		if err := p.readRecipeLine(rule); err != nil {
			return domain.Statement{}, err
		}
	}

	return domain.NewRuleStatement(rule), nil
}

// parsePrerequisites reads names up to the end of the dependency line.
// It reports whether the line continues with an inline ";" recipe.
func (p *Parser) parsePrerequisites(rule *domain.RuleStmt) (bool, error) {
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return false, err
		}
		switch tok.Kind {
		case lexer.NewLine, lexer.EOF:
			return false, nil
		case lexer.SemiColon:
			return true, nil
		case lexer.Tab:
			continue
		case lexer.Identifier:
			rule.Prerequisites = append(rule.Prerequisites, tok.Text)
		case lexer.ConfigVariable:
			rule.Prerequisites = append(rule.Prerequisites, "."+tok.Text)
		case lexer.UserVariable:
			return false, parseError("variable expansion is not supported", tok)
		default:
			return false, parseError("unexpected token in prerequisite list", tok)
		}
	}
}

// readRecipeLine captures one command and consumes the line end.
func (p *Parser) readRecipeLine(rule *domain.RuleStmt) error {
	cmd, err := p.lex.ReadCommand()
	if err != nil {
		return err
	}
	if !cmd.IsEmpty() {
		rule.Commands = append(rule.Commands, cmd)
	}

	end, err := p.lex.Next()
	if err != nil {
		return err
	}
	if end.Kind != lexer.NewLine && end.Kind != lexer.EOF {
		return parseError("unterminated recipe line", end)
	}
	return nil
}

// parseDotted parses a statement starting with a dot-prefixed name:
// a directive for special targets, a rule or assignment for anything else.
func (p *Parser) parseDotted(name lexer.Token) (domain.Statement, error) {
	if _, ok := specialTargets[name.Text]; ok {
		return p.parseDirective(name)
	}
	name.Text = "." + name.Text
	return p.parseIdentifier(name)
}

// parseDirective reads a ".NAME: args" line.
func (p *Parser) parseDirective(name lexer.Token) (domain.Statement, error) {
	dir := &domain.DirectiveStmt{Name: name.Text, Line: name.Line}
	for {
		tok, err := p.lex.Next()
		if err != nil {
			return domain.Statement{}, err
		}
		switch tok.Kind {
		case lexer.NewLine, lexer.EOF:
			return domain.NewDirectiveStatement(dir), nil
		case lexer.Colon, lexer.Tab:
			continue
		case lexer.Identifier:
			dir.Args = append(dir.Args, tok.Text)
		case lexer.ConfigVariable:
			dir.Args = append(dir.Args, "."+tok.Text)
		default:
			return domain.Statement{}, parseError("unexpected token in directive", tok)
		}
	}
}

func isOpPrefix(text string) bool {
	return strings.HasPrefix(text, "+=") || strings.HasPrefix(text, "?=") || strings.HasPrefix(text, "!=")
}

func parseError(msg string, tok lexer.Token) error {
	err := zerr.With(zerr.Wrap(domain.ErrParse, msg), "line", tok.Line)
	return zerr.With(err, "token", tok.String())
}
