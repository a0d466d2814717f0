package ops

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Constructor builds a fresh Operation instance with the given collaborators.
// Operations carry per-run output-type metadata, so the engine constructs a
// new instance per recipe run rather than sharing one.
type Constructor func(deps Deps) (Operation, error)

var (
	mu       sync.RWMutex
	registry = map[string]Constructor{}
)

// Register registers a named operation constructor. Registering the same name
// twice overwrites the previous constructor.
func Register(name string, ctor Constructor) {
	if name == "" || ctor == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	registry[name] = ctor
}

// New constructs the named operation. It returns an error if the name has not
// been registered.
func New(name string, deps Deps) (Operation, error) {
	mu.RLock()
	ctor, ok := registry[name]
	mu.RUnlock()
	if !ok || ctor == nil {
		return nil, fmt.Errorf("operation %q not registered: available operations=%v", name, List())
	}

	op, err := ctor(deps)
	if err != nil {
		return nil, fmt.Errorf("failed to construct operation %q: %w", name, err)
	}
	if op == nil {
		return nil, errors.New("operation constructor returned nil")
	}
	return op, nil
}

// List returns the sorted list of registered operation names.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
