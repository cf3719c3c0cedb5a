// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Registry for drivers by name (e.g., "headless").
type Registry struct {
	drivers map[string]Driver

	mtx *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		drivers: make(map[string]Driver),
		mtx:     &sync.Mutex{},
	}
}

// Register adds d under its Name. Names are case-insensitive.
func (r *Registry) Register(d Driver) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.drivers[strings.ToLower(d.Name())] = d
}

func (r *Registry) Get(name string) (Driver, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	d, ok := r.drivers[strings.ToLower(name)]
	return d, ok
}

// Lookup is Get returning ErrUnknownDriver for missing names.
func (r *Registry) Lookup(name string) (Driver, error) {
	d, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %s)", ErrUnknownDriver, name, strings.Join(r.Names(), ", "))
	}
	return d, nil
}

// Names returns the registered driver names in sorted order.
func (r *Registry) Names() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	names := make([]string, 0, len(r.drivers))
	for k := range r.drivers {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
