package meta

const (
	CLIName = "leadctl"
)
