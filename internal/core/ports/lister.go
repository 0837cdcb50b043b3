package ports

// EntryLister takes a snapshot of the filesystem entries in the working directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=lister.go -destination=mocks/mock_lister.go -package=mocks
type EntryLister interface {
	// ListEntries returns slash-separated paths relative to root.
	ListEntries(root string, ignore []string) ([]string, error)
}
