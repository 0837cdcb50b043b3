package domain

import "go.trai.ch/zerr"

var (
	// ErrLex is returned when the tokenizer meets a character sequence it cannot classify.
	ErrLex = zerr.New("lex error")

	// ErrParse is returned when the token sequence does not form a valid statement.
	ErrParse = zerr.New("parse error")

	// ErrDuplicateTarget is returned when two rules define the same target.
	ErrDuplicateTarget = zerr.New("duplicate target definition")

	// ErrFileTargetConflict is returned when a rule defines a target that names an existing
	// filesystem entry and the conflict policy forbids overriding it.
	ErrFileTargetConflict = zerr.New("target conflicts with existing file")

	// ErrUnsupportedStatement is returned when an assignment or directive reaches the graph builder.
	ErrUnsupportedStatement = zerr.New("unsupported statement")

	// ErrUnresolvedPrerequisite is returned when a prerequisite was never defined by a rule
	// nor found on disk.
	ErrUnresolvedPrerequisite = zerr.New("no rule to make prerequisite")

	// ErrCycleDetected is returned when a cycle is detected in the dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrCommandFailed is returned when a recipe command exits non-zero or cannot be spawned.
	ErrCommandFailed = zerr.New("command failed")

	// ErrMakefileNotFound is returned when no makefile could be located.
	ErrMakefileNotFound = zerr.New("no makefile found")

	// ErrDanglingContinuation is returned when the last line of a makefile ends with a backslash.
	ErrDanglingContinuation = zerr.New("last line cannot end with a line continuation")

	// ErrTargetNotFound is returned when the requested target is not in the graph.
	ErrTargetNotFound = zerr.New("no rule to make target")

	// ErrNoRules is returned when no target is requested and the makefile defines no rules.
	ErrNoRules = zerr.New("no targets")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrInvalidSettings is returned when the settings file cannot be decoded or holds invalid values.
	ErrInvalidSettings = zerr.New("invalid settings")
)
