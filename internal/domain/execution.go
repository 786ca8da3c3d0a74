package domain

// Execution carries the per-request flags every tool call sees. It is
// passed by value so concurrent requests never share it.
type Execution struct {
	RequestID string
	DryRun    bool
	Verbose   bool
}
