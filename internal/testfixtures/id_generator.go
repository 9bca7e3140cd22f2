package testfixtures

import (
	"fmt"
	"sync"
)

// IDGenerator hands out "<prefix>-<n>" record ids so tests can predict the
// id of the next outpass, complaint or announcement a store creates.
type IDGenerator struct {
	mu     sync.Mutex
	prefix string
	issued int
}

// NewIDGenerator returns a generator for prefix, or "id" when prefix is empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.issued++
	return g.format(g.issued)
}

// Last returns the most recently issued id, or "" before the first call.
func (g *IDGenerator) Last() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.issued == 0 {
		return ""
	}
	return g.format(g.issued)
}

// NextFunc adapts Next to the id source the stores accept.
func (g *IDGenerator) NextFunc() func() string {
	if g == nil {
		return func() string { return "" }
	}
	return g.Next
}

func (g *IDGenerator) format(n int) string {
	return fmt.Sprintf("%s-%d", g.prefix, n)
}
