package cluster

import (
	"context"
	"sync"
	"sync/atomic"
)

type (
	// Listener is notified with the new members after a change.
	Listener func(nodes []Node)

	// Membership is an in-memory set of nodes selected round-robin.
	Membership struct {
		lock      sync.RWMutex
		nodes     []Node
		listeners []Listener
		next      atomic.Uint64
	}
)

// NewMembership creates a Membership with the initial nodes.
func NewMembership(nodes ...Node) *Membership {
	m := &Membership{}
	m.nodes = dedupe(nodes)
	return m
}

// Nodes returns a copy of the current members.
func (m *Membership) Nodes() []Node {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return append([]Node(nil), m.nodes...)
}

// Update replaces the members and notifies listeners if they changed.
func (m *Membership) Update(nodes []Node) bool {
	nodes = dedupe(nodes)
	m.lock.Lock()
	if equal(m.nodes, nodes) {
		m.lock.Unlock()
		return false
	}
	m.nodes = nodes
	listeners := append([]Listener(nil), m.listeners...)
	m.lock.Unlock()

	snapshot := append([]Node(nil), nodes...)
	for _, listener := range listeners {
		listener(snapshot)
	}
	return true
}

// OnChange registers a Listener for membership changes.
func (m *Membership) OnChange(listener Listener) {
	if listener == nil {
		panic("listener cannot be nil")
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	m.listeners = append(m.listeners, listener)
}

// Discover returns the next member in round-robin order.
func (m *Membership) Discover() (Node, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if len(m.nodes) == 0 {
		return Node{}, ErrNoNodes
	}
	i := m.next.Add(1) - 1
	return m.nodes[i%uint64(len(m.nodes))], nil
}

// Watch blocks until ctx is done since the members only
// change through Update.
func (m *Membership) Watch(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func dedupe(nodes []Node) []Node {
	seen := make(map[string]struct{}, len(nodes))
	out  := make([]Node, 0, len(nodes))
	for _, node := range nodes {
		key := node.ID
		if key == "" {
			key = node.Address()
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, node)
	}
	return out
}

func equal(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
