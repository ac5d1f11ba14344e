//go:build race

package opt

// Race_ reports whether the race detector is enabled. Stress tests scale
// their workload down under -race.
const Race_ = true
