package mcp

const (
	// DefaultRowLimit is applied when reading entire sheets without a range
	DefaultRowLimit = 1000

	// MaxOutputBytes is the maximum size of JSON output (5MB)
	MaxOutputBytes = 5 * 1024 * 1024
)
