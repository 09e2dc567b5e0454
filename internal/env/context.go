// Package env implements the immutable, persistent name bindings shared by
// type judgments and evaluation.
package env

import (
	"hash/fnv"
	"sort"
)

// Persistent Hash Array Mapped Trie (HAMT) keyed by name.
// Add copies only the path from the root to the changed slot.

const (
	hamtBits = 5
	hamtSize = 1 << hamtBits // 32
	hamtMask = hamtSize - 1
)

// Lookup is a lazily consulted source of bindings underneath a Context.
// It is used for host-backed records whose keys are reflected on demand.
type Lookup[T any] interface {
	Lookup(name string) (T, bool)
	Names() []string
}

// Context maps names to bindings. The zero value is the empty context.
// A Context is never mutated: Add returns a new Context sharing structure
// with the receiver.
type Context[T any] struct {
	root  *hamtNode[T]
	count int
	base  Lookup[T]
}

type hamtNode[T any] struct {
	bitmap uint32
	nodes  []any // hamtEntry[T] or *hamtNode[T]
}

type hamtEntry[T any] struct {
	hash  uint32
	name  string
	value T
}

// Empty returns the context with no bindings.
func Empty[T any]() Context[T] {
	return Context[T]{}
}

// FromLookup returns a context whose bindings are served by base until
// shadowed by Add.
func FromLookup[T any](base Lookup[T]) Context[T] {
	return Context[T]{base: base}
}

// FromMap builds a context from a Go map.
func FromMap[T any](bindings map[string]T) Context[T] {
	c := Empty[T]()
	for name, value := range bindings {
		c = c.Add(name, value)
	}
	return c
}

// Has reports whether name is bound.
func (c Context[T]) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Top returns the most recent binding of name, or the zero value.
func (c Context[T]) Top(name string) T {
	v, _ := c.Lookup(name)
	return v
}

// Lookup returns the most recent binding of name.
func (c Context[T]) Lookup(name string) (T, bool) {
	if c.root != nil {
		if v, ok := c.root.get(hashName(name), name, 0); ok {
			return v, true
		}
	}
	if c.base != nil {
		return c.base.Lookup(name)
	}
	var zero T
	return zero, false
}

// Add returns a new context in which name is bound to value, shadowing any
// previous binding.
func (c Context[T]) Add(name string, value T) Context[T] {
	hash := hashName(name)
	root := c.root
	if root == nil {
		root = &hamtNode[T]{}
	}
	newRoot, added := root.put(hash, name, value, 0)
	count := c.count
	if added {
		count++
	}
	return Context[T]{root: newRoot, count: count, base: c.base}
}

// Names returns the bound names in sorted order, each once.
func (c Context[T]) Names() []string {
	seen := make(map[string]bool, c.count)
	names := make([]string, 0, c.count)
	if c.root != nil {
		c.root.collect(func(name string) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		})
	}
	if c.base != nil {
		for _, name := range c.base.Names() {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of distinct bound names.
func (c Context[T]) Len() int {
	if c.base == nil {
		return c.count
	}
	return len(c.Names())
}

// Each calls fn for every name in sorted order with its current binding.
func (c Context[T]) Each(fn func(name string, value T)) {
	for _, name := range c.Names() {
		fn(name, c.Top(name))
	}
}

// Map converts every binding with fn, materialising host-backed bindings.
func Map[T, U any](c Context[T], fn func(T) U) Context[U] {
	out := Empty[U]()
	c.Each(func(name string, value T) {
		out = out.Add(name, fn(value))
	})
	return out
}

// --- hamtNode methods ---

func (n *hamtNode[T]) get(hash uint32, name string, shift uint) (T, bool) {
	var zero T
	if shift >= 32 {
		// Collision bucket search
		for _, node := range n.nodes {
			if entry, ok := node.(hamtEntry[T]); ok && entry.name == name {
				return entry.value, true
			}
		}
		return zero, false
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx
	if n.bitmap&bit == 0 {
		return zero, false
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := n.nodes[pos].(type) {
	case hamtEntry[T]:
		if v.hash == hash && v.name == name {
			return v.value, true
		}
	case *hamtNode[T]:
		return v.get(hash, name, shift+hamtBits)
	}
	return zero, false
}

func (n *hamtNode[T]) put(hash uint32, name string, value T, shift uint) (*hamtNode[T], bool) {
	newNode := &hamtNode[T]{
		bitmap: n.bitmap,
		nodes:  make([]any, len(n.nodes)),
	}
	copy(newNode.nodes, n.nodes)

	if shift >= 32 {
		for i, node := range newNode.nodes {
			if entry, ok := node.(hamtEntry[T]); ok && entry.name == name {
				newNode.nodes[i] = hamtEntry[T]{hash: hash, name: name, value: value}
				return newNode, false
			}
		}
		newNode.nodes = append(newNode.nodes, hamtEntry[T]{hash: hash, name: name, value: value})
		return newNode, true
	}

	idx := (hash >> shift) & hamtMask
	bit := uint32(1) << idx

	if n.bitmap&bit == 0 {
		newNode.bitmap |= bit
		pos := popcount(newNode.bitmap & (bit - 1))
		newNode.nodes = append(newNode.nodes, nil)
		copy(newNode.nodes[pos+1:], newNode.nodes[pos:])
		newNode.nodes[pos] = hamtEntry[T]{hash: hash, name: name, value: value}
		return newNode, true
	}

	pos := popcount(n.bitmap & (bit - 1))
	switch v := newNode.nodes[pos].(type) {
	case hamtEntry[T]:
		if v.hash == hash && v.name == name {
			newNode.nodes[pos] = hamtEntry[T]{hash: hash, name: name, value: value}
			return newNode, false
		}
		// Two names share this slot: push both one level down.
		child := &hamtNode[T]{}
		child, _ = child.put(v.hash, v.name, v.value, shift+hamtBits)
		child, _ = child.put(hash, name, value, shift+hamtBits)
		newNode.nodes[pos] = child
		return newNode, true
	case *hamtNode[T]:
		newChild, added := v.put(hash, name, value, shift+hamtBits)
		newNode.nodes[pos] = newChild
		return newNode, added
	}
	return newNode, false
}

func (n *hamtNode[T]) collect(fn func(name string)) {
	for _, node := range n.nodes {
		switch v := node.(type) {
		case hamtEntry[T]:
			fn(v.name)
		case *hamtNode[T]:
			v.collect(fn)
		}
	}
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(name))
	return h.Sum32()
}

// popcount counts set bits
func popcount(x uint32) int {
	x = x - ((x >> 1) & 0x55555555)
	x = (x & 0x33333333) + ((x >> 2) & 0x33333333)
	x = (x + (x >> 4)) & 0x0f0f0f0f
	x = x + (x >> 8)
	x = x + (x >> 16)
	return int(x & 0x3f)
}
