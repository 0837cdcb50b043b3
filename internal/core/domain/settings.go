package domain

// ConflictPolicy decides what happens when a rule defines a target that is also a filesystem entry.
type ConflictPolicy string

const (
	// ConflictRuleWins upgrades the file node into a target in place.
	ConflictRuleWins ConflictPolicy = "rule"
	// ConflictError rejects the rule.
	ConflictError ConflictPolicy = "error"
)

// DefaultMakefiles are the makefile names searched, in order, when none is given explicitly.
var DefaultMakefiles = []string{"GNUmakefile", "makefile", "Makefile"}

// Settings holds the tool configuration read from .remake.yaml.
type Settings struct {
	// Makefiles lists candidate makefile names in lookup order.
	Makefiles []string
	// Ignore holds gitignore-style patterns excluded from the filesystem snapshot.
	Ignore []string
	// Journal is the path of the run journal. Empty keeps the journal in memory.
	Journal        string
	OnFileConflict ConflictPolicy
	// Progress records each run with progrock and prints a status line per node.
	// When false, recipe output is passed through as is.
	Progress bool
	// ProgressLog is the path the progrock status stream is written to as JSON lines.
	// Empty writes no file.
	ProgressLog string
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	makefiles := make([]string, len(DefaultMakefiles))
	copy(makefiles, DefaultMakefiles)
	return Settings{
		Makefiles:      makefiles,
		OnFileConflict: ConflictRuleWins,
		Progress:       true,
	}
}
