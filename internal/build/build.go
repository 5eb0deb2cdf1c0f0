package build

// Info carries the values stamped into the binary at link time.
type Info struct {
	Version string
	Commit  string
	Date    string
}

type Key struct{}

var InfoKey = Key{}
