package lexer

import (
	"iter"
	"strings"

	"go.trai.ch/remake/internal/core/domain"
	"go.trai.ch/zerr"
)

const eof = -1

// wordTerminators end an identifier or directive name.
const wordTerminators = " \t\n\r:;"

// Lexer is a forward-only tokenizer with one token of lookahead.
// It is not safe for concurrent use and cannot be rewound.
type Lexer struct {
	input string
	pos   int
	line  int

	peeked  *Token
	peekErr error
	err     error
}

// New creates a Lexer over input.
func New(input string) *Lexer {
	return &Lexer{input: input, line: 1}
}

// Next consumes and returns the next token.
// Once an error is returned, every further call returns the same error.
func (l *Lexer) Next() (Token, error) {
	if l.peeked != nil {
		tok, err := *l.peeked, l.peekErr
		l.peeked, l.peekErr = nil, nil
		return tok, err
	}
	return l.scan()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() (Token, error) {
	if l.peeked == nil {
		tok, err := l.scan()
		l.peeked, l.peekErr = &tok, err
	}
	return *l.peeked, l.peekErr
}

// All yields the remaining tokens up to, but not including, EOF.
// Iteration stops after the first error.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)
				return
			}
			if tok.Kind == EOF {
				return
			}
			if !yield(tok, nil) {
				return
			}
		}
	}
}

// ReadCommand reads the rest of the physical line as one recipe command.
// The trailing newline is left for the token stream. The line is split on
// blanks with empty fields dropped; a leading '@' marks the command silent.
// A line whose first field starts with '#' is a comment and yields an empty command.
// It must only be called right after a Tab or SemiColon token was consumed.
func (l *Lexer) ReadCommand() (domain.Command, error) {
	if l.err != nil {
		return domain.Command{}, l.err
	}
	if l.peeked != nil {
		return domain.Command{}, zerr.With(
			zerr.Wrap(domain.ErrLex, "recipe read with a buffered token"),
			"line", l.peeked.Line,
		)
	}

	cmd := domain.Command{Line: l.line}
	fields := strings.FieldsFunc(l.restOfLine(), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r'
	})
	if len(fields) > 0 && strings.HasPrefix(fields[0], "@") {
		cmd.Silent = true
		fields[0] = strings.TrimLeft(fields[0], "@")
		if fields[0] == "" {
			fields = fields[1:]
		}
	}
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return cmd, nil
	}
	cmd.Program = fields[0]
	cmd.Args = fields[1:]
	return cmd, nil
}

// SkipLine discards the rest of the physical line without classifying it.
// The trailing newline is left for the token stream.
func (l *Lexer) SkipLine() error {
	if l.err != nil {
		return l.err
	}
	if l.peeked != nil {
		return zerr.With(zerr.Wrap(domain.ErrLex, "line skipped with a buffered token"), "line", l.peeked.Line)
	}
	l.restOfLine()
	return nil
}

func (l *Lexer) restOfLine() string {
	return l.readUntil("\n")
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	c := l.input[l.pos]
	l.pos++
	return rune(c)
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	return rune(l.input[l.pos])
}

func (l *Lexer) readUntil(stop string) string {
	start := l.pos
	for l.pos < len(l.input) && !strings.ContainsRune(stop, rune(l.input[l.pos])) {
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *Lexer) fail(msg string, line int) (Token, error) {
	l.err = zerr.With(zerr.Wrap(domain.ErrLex, msg), "line", line)
	return Token{Kind: EOF, Line: line}, l.err
}

func (l *Lexer) scan() (Token, error) {
	if l.err != nil {
		return Token{Kind: EOF, Line: l.line}, l.err
	}
	for {
		line := l.line
		switch c := l.next(); c {
		case eof:
			return Token{Kind: EOF, Line: line}, nil
		case ' ', '\r':
			continue
		case '#':
			l.restOfLine()
			continue
		case ':':
			return Token{Kind: Colon, Line: line}, nil
		case ';':
			return Token{Kind: SemiColon, Line: line}, nil
		case '\t':
			return Token{Kind: Tab, Line: line}, nil
		case '\n':
			l.line++
			return Token{Kind: NewLine, Line: line}, nil
		case '$':
			if l.peek() != '(' {
				return l.fail("unsupported variable/wildcard syntax", line)
			}
			l.next()
			name := l.readUntil(")\n")
			if l.peek() != ')' {
				return l.fail("unterminated variable reference", line)
			}
			l.next()
			return Token{Kind: UserVariable, Text: name, Line: line}, nil
		case '.':
			return Token{Kind: ConfigVariable, Text: l.readUntil(wordTerminators), Line: line}, nil
		default:
			l.pos--
			return Token{Kind: Identifier, Text: l.readUntil(wordTerminators), Line: line}, nil
		}
	}
}
