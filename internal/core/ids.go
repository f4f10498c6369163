package core

import "strconv"

// DefaultIDPrefix is used by IDGenerator.Next when no prefix is given.
const DefaultIDPrefix = "id"

// IDGenerator hands out ids of the form "<prefix>-<n>". The counter is
// shared by all prefixes and starts at 1. The zero value is ready to use;
// each owner (a rendered page, a session) keeps its own generator.
type IDGenerator struct {
	n int
}

// Next returns the next id for prefix.
func (g *IDGenerator) Next(prefix string) string {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	g.n++
	return prefix + "-" + strconv.Itoa(g.n)
}

// Reset restarts numbering from 1.
func (g *IDGenerator) Reset() {
	g.n = 0
}
