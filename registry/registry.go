/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/msmygit/n8n-nodes-astradb/config"
	"github.com/msmygit/n8n-nodes-astradb/datastore"
)

// Factory builds an Opener for a backend from the runtime configuration.
type Factory func(cfg *config.Config) (datastore.Opener, error)

var (
	backends = make(map[string]Factory)
	mu       sync.RWMutex
)

// Register associates a backend name with its factory.
// If the name is already registered, it panics to prevent accidental overrides.
func Register(name string, factory Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("backend registry: backend %q already registered", name))
	}
	backends[name] = factory
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()
	f, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("backend registry: no backend registered as %q", name)
	}
	return f, nil
}

// Opener resolves the backend configured in cfg and builds its Opener.
func Opener(cfg *config.Config) (datastore.Opener, error) {
	f, err := Lookup(cfg.Backend)
	if err != nil {
		return nil, err
	}
	return f(cfg)
}

// Names lists the registered backends in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
