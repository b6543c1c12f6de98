// Package store is a registry of index store types.
// Each store subpackage registers itself here in an init function
// so that a store can be created from a config map.
package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bobg/watcher"
)

// Factory creates a Store from a config map.
type Factory func(context.Context, map[string]interface{}) (watcher.Store, error)

var registry = make(map[string]Factory)

// Register makes a store type available to Create under the given key.
func Register(key string, f Factory) {
	registry[key] = f
}

// Create creates a store of the type registered under the given key.
func Create(ctx context.Context, key string, conf map[string]interface{}) (watcher.Store, error) {
	f, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("key %s not found in registry (known types: %s)", key, strings.Join(Types(), ", "))
	}
	return f(ctx, conf)
}

// FromConfig creates a store from a config map
// whose "type" parameter names the registered store type.
func FromConfig(ctx context.Context, conf map[string]interface{}) (watcher.Store, error) {
	typ, ok := conf["type"].(string)
	if !ok {
		return nil, fmt.Errorf(`config missing "type" parameter`)
	}
	return Create(ctx, typ, conf)
}

// Types lists the registered store types.
func Types() []string {
	result := make([]string, 0, len(registry))
	for k := range registry {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}
