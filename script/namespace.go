package script

import (
	"sort"
	"sync"
)

// Namespace holds the global variables of an executed module.
// It is safe for concurrent use, so that functions defined by one module may run in parallel.
type Namespace struct {
	mu   sync.RWMutex
	vars map[string]Value
}

// NewNamespace creates a namespace pre-populated with vars.
func NewNamespace(vars map[string]Value) *Namespace {
	ns := &Namespace{vars: make(map[string]Value, len(vars))}
	for name, v := range vars {
		ns.vars[name] = v
	}
	return ns
}

// Get looks up a global variable.
func (ns *Namespace) Get(name string) (Value, bool) {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	v, ok := ns.vars[name]
	return v, ok
}

// Set assigns a global variable.
func (ns *Namespace) Set(name string, v Value) {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	ns.vars[name] = v
}

// Delete removes a global variable and reports whether it existed.
func (ns *Namespace) Delete(name string) bool {
	ns.mu.Lock()
	defer ns.mu.Unlock()
	_, ok := ns.vars[name]
	delete(ns.vars, name)
	return ok
}

// Names returns the sorted names of all globals.
func (ns *Namespace) Names() []string {
	ns.mu.RLock()
	defer ns.mu.RUnlock()
	names := make([]string, 0, len(ns.vars))
	for name := range ns.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
