package macro

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	registry   = make(map[string]*Macro)
	registryMu sync.RWMutex
)

// Register adds m under its lowercased name. Registering a name twice is an
// error.
func Register(m *Macro) error {
	if m == nil || m.Name == "" || m.Run == nil {
		return fmt.Errorf("macro: invalid registration")
	}
	name := strings.ToLower(m.Name)
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		return fmt.Errorf("macro: %q already registered", name)
	}
	registry[name] = m
	return nil
}

func mustRegister(m *Macro) {
	if err := Register(m); err != nil {
		panic(err)
	}
}

// Lookup returns the macro registered as name, case-insensitive.
func Lookup(name string) (*Macro, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	m, ok := registry[strings.ToLower(name)]
	return m, ok
}

// List returns all registered macros sorted by name.
func List() []*Macro {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]*Macro, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, strings.ToLower(name))
}
