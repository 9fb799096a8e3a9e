// Package exitcodes defines process exit codes shared by the binaries.
package exitcodes

const (
	Success         = 0
	OperationFailed = 1
	InvalidConfig   = 2
	Blocked         = 3
)
