package domain

import "iter"

// StmtKind identifies which variant a Statement holds.
type StmtKind int

const (
	// StmtRule is a "target: prerequisites" block with its recipe.
	StmtRule StmtKind = iota
	// StmtAssign is a variable assignment. Its body is not interpreted.
	StmtAssign
	// StmtDirective is a line starting with a "." directive such as .PHONY.
	StmtDirective
)

// String returns the statement kind name.
func (k StmtKind) String() string {
	switch k {
	case StmtRule:
		return "rule"
	case StmtAssign:
		return "assign"
	case StmtDirective:
		return "directive"
	default:
		return "unknown"
	}
}

// Statement is a closed union over the statement kinds.
// Exactly one of Rule, Assign and Directive is set, matching Kind.
type Statement struct {
	Kind      StmtKind
	Rule      *RuleStmt
	Assign    *AssignStmt
	Directive *DirectiveStmt
}

// RuleStmt declares a target, its prerequisites and its recipe.
type RuleStmt struct {
	Target        string
	Prerequisites []string
	Commands      []Command
	Line          int
}

// AssignStmt is a placeholder for a variable assignment.
type AssignStmt struct {
	Name string
	Op   string
	Line int
}

// DirectiveStmt is a placeholder for a special target such as .PHONY.
type DirectiveStmt struct {
	Name string
	Args []string
	Line int
}

// NewRuleStatement wraps a rule in a Statement.
func NewRuleStatement(r *RuleStmt) Statement {
	return Statement{Kind: StmtRule, Rule: r}
}

// NewAssignStatement wraps an assignment in a Statement.
func NewAssignStatement(a *AssignStmt) Statement {
	return Statement{Kind: StmtAssign, Assign: a}
}

// NewDirectiveStatement wraps a directive in a Statement.
func NewDirectiveStatement(d *DirectiveStmt) Statement {
	return Statement{Kind: StmtDirective, Directive: d}
}

// Line returns the source line the statement starts on.
func (s Statement) Line() int {
	switch s.Kind {
	case StmtRule:
		return s.Rule.Line
	case StmtAssign:
		return s.Assign.Line
	case StmtDirective:
		return s.Directive.Line
	default:
		return 0
	}
}

// Program is the ordered list of statements parsed from a makefile.
type Program struct {
	Statements []Statement
}

// Rules yields the rule statements in source order.
func (p *Program) Rules() iter.Seq[*RuleStmt] {
	return func(yield func(*RuleStmt) bool) {
		for _, stmt := range p.Statements {
			if stmt.Kind != StmtRule {
				continue
			}
			if !yield(stmt.Rule) {
				return
			}
		}
	}
}
