package render

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// ErrUnknownBackend is returned by New for names nobody registered.
var ErrUnknownBackend = errors.New("render: unknown backend")

// Factory creates a backend writing a width×height drawing to w. Backends
// that produce no output ignore w.
type Factory func(w io.Writer, width, height int) Renderer

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// Register makes a backend available by name. It panics if factory is nil
// or the name is taken, so wiring mistakes surface at init time.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("render: Register factory is nil")
	}
	if _, dup := factories[name]; dup {
		panic("render: Register called twice for " + name)
	}
	factories[name] = factory
}

// Unregister removes a backend. Only tests need this.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// New creates a backend by name.
func New(name string, w io.Writer, width, height int) (Renderer, error) {
	registryMu.RLock()
	factory, ok := factories[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w %q (forgotten import?)", ErrUnknownBackend, name)
	}
	return factory(w, width, height), nil
}

// Names returns the registered backend names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register("null", func(io.Writer, int, int) Renderer { return Null{} })
	Register("png", func(w io.Writer, width, height int) Renderer {
		return NewRaster(width, height, w)
	})
}
