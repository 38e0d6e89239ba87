package module

import (
	"sort"
	"sync"
)

// The registry is process-global: the gateway composes exactly one set of
// modules, and tests call Reset between scenarios.
var (
	regMu sync.RWMutex
	reg   = map[string]any{}
)

// Register publishes a module's port bundle under its name
func Register(name string, ports any) {
	regMu.Lock()
	defer regMu.Unlock()
	reg[name] = ports
}

// PortsAs looks up name and asserts its bundle to T
func PortsAs[T any](name string) (T, bool) {
	regMu.RLock()
	v, found := reg[name]
	regMu.RUnlock()

	var zero T
	if !found {
		return zero, false
	}
	out, ok := v.(T)
	return out, ok
}

// Names lists the registered modules in stable order
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()

	out := make([]string, 0, len(reg))
	for name := range reg {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Reset empties the registry
func Reset() {
	regMu.Lock()
	defer regMu.Unlock()
	reg = map[string]any{}
}
