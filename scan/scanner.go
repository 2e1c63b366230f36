package scan

// Entry is one raw physical index entry: the column name the store sorts
// by, and its value.
type Entry struct {
	Name  []byte
	Value []byte
}

// Scanner pages one physical range scan. Entries come in the declared
// direction, within and across pages. Every call may block on storage.
type Scanner interface {
	HasNext() (bool, error)
	Next() ([]Entry, error)
	// Reset restarts the scan from its original start.
	Reset() error
	PageSize() int
	Reversed() bool
}
