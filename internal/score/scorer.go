package score

type Store interface {
	Init(path string) error
	Deinit()

	// Save a finished session
	Save(result Result) error

	// Load the most recent sessions, newest first
	Load(limit int) ([]Result, error)

	Totals() (Totals, error)
}
