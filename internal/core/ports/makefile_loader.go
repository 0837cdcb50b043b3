package ports

// MakefileLoader locates a makefile and returns its preprocessed text.
//
//go:generate go run go.uber.org/mock/mockgen -source=makefile_loader.go -destination=mocks/mock_makefile_loader.go -package=mocks
type MakefileLoader interface {
	// Load reads the makefile at path, or the first existing candidate in cwd when path is empty.
	// Backslash line continuations are joined before the text is returned.
	Load(cwd, path string, candidates []string) (text string, resolved string, err error)
}
