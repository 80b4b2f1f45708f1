package dataset

import "sync"

var (
	defaultOnce   sync.Once
	defaultTables *Tables
)

// Load returns the process-wide tables built from DefaultOptions. They are
// generated on first call and shared afterwards.
func Load() *Tables {
	defaultOnce.Do(func() {
		defaultTables = Generate(DefaultOptions())
	})
	return defaultTables
}
