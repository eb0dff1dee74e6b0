// Package plugin binds named capability objects onto the runtime namespace.
// A name is bound at most once; the first writer wins.
package plugin

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

var (
	ErrInvalidPlugin  = errors.New("invalid plugin object")
	ErrPluginExists   = errors.New("plugin already registered")
	ErrPluginNotFound = errors.New("plugin not found")
)

// maxSuggestDistance bounds how far a name may be from a registered one and
// still be offered as a suggestion.
const maxSuggestDistance = 3

// Registry is the plugin namespace of a runtime.
type Registry struct {
	log *zap.Logger

	mu       sync.RWMutex
	bindings map[string]any
}

func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log, bindings: map[string]any{}}
}

// Register binds capability under name. It fails with ErrPluginExists when
// the name is taken.
func (r *Registry) Register(name string, capability any) error {
	ok, err := r.TryRegister(name, capability)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrPluginExists, name)
	}
	return nil
}

// TryRegister binds capability under name and reports whether it did. An
// existing binding is left untouched.
func (r *Registry) TryRegister(name string, capability any) (bool, error) {
	if !isObject(capability) {
		return false, fmt.Errorf("%w: %T", ErrInvalidPlugin, capability)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.bindings[name]; exists {
		r.log.Debug("plugin name already bound", zap.String("name", name))
		return false, nil
	}
	r.bindings[name] = capability
	r.log.Debug("plugin registered", zap.String("name", name), zap.String("type", fmt.Sprintf("%T", capability)))
	return true, nil
}

// Add is the lenient form of Register: binding an existing name is a silent
// no-op. Only an invalid capability is reported.
func (r *Registry) Add(name string, capability any) error {
	_, err := r.TryRegister(name, capability)
	return err
}

// Remove unbinds name and reports whether a binding existed.
func (r *Registry) Remove(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bindings[name]; !ok {
		return false
	}
	delete(r.bindings, name)
	r.log.Debug("plugin removed", zap.String("name", name))
	return true
}

// Lookup returns the capability bound to name. A miss carries the closest
// registered name when one is near enough.
func (r *Registry) Lookup(name string) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if c, ok := r.bindings[name]; ok {
		return c, nil
	}
	if s := r.suggestLocked(name); s != "" {
		return nil, fmt.Errorf("%w: %s (did you mean %q?)", ErrPluginNotFound, name, s)
	}
	return nil, fmt.Errorf("%w: %s", ErrPluginNotFound, name)
}

// Names lists the bound names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.bindings))
	for n := range r.bindings {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) suggestLocked(name string) string {
	best, bestDist := "", maxSuggestDistance+1
	for n := range r.bindings {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(n))
		if d < bestDist || (d == bestDist && n < best) {
			best, bestDist = n, d
		}
	}
	if bestDist > maxSuggestDistance {
		return ""
	}
	return best
}

// isObject accepts the kinds that can carry behaviour or state: maps,
// structs, slices, arrays and non-nil pointers or interfaces to them.
func isObject(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		return true
	case reflect.Pointer:
		return !rv.IsNil()
	default:
		return false
	}
}
