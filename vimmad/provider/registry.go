package provider

import (
	"fmt"
	"sync"
)

var adapterMutex sync.RWMutex

var adapters = map[Kind]Adapter{}

// Register installs the adapter for a provider kind, replacing any
// previous one. Called at daemon startup.
func Register(kind Kind, adapter Adapter) {
	adapterMutex.Lock()
	defer adapterMutex.Unlock()
	adapters[kind] = adapter
}

// AdapterFor returns the adapter registered for the kind.
func AdapterFor(kind Kind) (Adapter, error) {
	adapterMutex.RLock()
	defer adapterMutex.RUnlock()

	adapter, ok := adapters[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errNoAdapter, kind)
	}

	return adapter, nil
}
