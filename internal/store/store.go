// Package store holds the process-wide configuration of a runtime: sealed
// constants, the URL table and HTTP error handlers, plus the two tables that
// stay mutable after bootstrap (values and resources).
package store

import (
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrConfig is returned when Bootstrap is called without a configuration.
var ErrConfig = errors.New("app configuration undefined")

// ErrorHandlers are the caller-supplied callbacks for the overridable HTTP
// statuses. 404 and 500 are not part of the table.
type ErrorHandlers struct {
	OnNoContent           func()
	OnBadRequest          func(body any)
	OnUnauthorized        func()
	OnForbidden           func()
	OnUnprocessableEntity func()
}

// HTTPConfig groups the HTTP related bootstrap keys.
type HTTPConfig struct {
	ErrorHandlers ErrorHandlers
}

// Bootstrap is the one-shot configuration document. A nil map or pointer
// means the key is absent.
type Bootstrap struct {
	Constants map[string]any
	Values    map[string]any
	BaseURL   *string
	APIURL    map[string]string
	Resources map[string]string
	HTTP      *HTTPConfig
}

// snapshot is the sealed part of the configuration. It is never mutated once
// published; Bootstrap builds a new one and swaps it in.
type snapshot struct {
	constants map[string]any
	base      string
	apiURL    map[string]string
	handlers  ErrorHandlers
}

// Store is the configuration store of a single runtime.
type Store struct {
	log          *zap.Logger
	documentBase string
	snap         atomic.Pointer[snapshot]

	mu        sync.RWMutex
	values    map[string]any
	resources map[string]string
}

// New returns an empty store. documentBase plays the role of the page's
// declared base href and is used when a bootstrap omits BaseURL.
func New(documentBase string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{
		log:          log,
		documentBase: documentBase,
		values:       map[string]any{},
		resources:    map[string]string{},
	}
	base := withTrailingSlash(documentBase)
	s.snap.Store(&snapshot{
		constants: map[string]any{},
		base:      base,
		apiURL:    map[string]string{"base": base},
	})
	return s
}

// Bootstrap populates the store. It is meant to run once; a second call
// silently replaces the state.
func (s *Store) Bootstrap(cfg *Bootstrap) error {
	if cfg == nil {
		return ErrConfig
	}
	prev := s.snap.Load()
	next := &snapshot{
		constants: prev.constants,
		handlers:  prev.handlers,
	}
	if cfg.Constants != nil {
		next.constants = Clone(cfg.Constants).(map[string]any)
	}
	if cfg.BaseURL != nil {
		next.base = withTrailingSlash(*cfg.BaseURL)
	} else {
		next.base = withTrailingSlash(s.documentBase)
	}
	next.apiURL = map[string]string{"base": next.base}
	for k, v := range cfg.APIURL {
		next.apiURL[k] = v
	}
	if cfg.HTTP != nil {
		next.handlers = cfg.HTTP.ErrorHandlers
	}

	s.mu.Lock()
	if cfg.Values != nil {
		s.values = Clone(cfg.Values).(map[string]any)
	}
	if cfg.Resources != nil {
		s.resources = make(map[string]string, len(cfg.Resources))
		for k, v := range cfg.Resources {
			s.resources[k] = withTrailingSlash(v)
		}
	}
	s.mu.Unlock()

	s.snap.Store(next)
	s.log.Debug("configuration bootstrapped",
		zap.String("base_url", next.base),
		zap.Int("constants", len(next.constants)),
		zap.Int("api_urls", len(next.apiURL)))
	return nil
}

// Constant returns a copy of the named constant, or an empty map when absent.
func (s *Store) Constant(name string) any {
	v, ok := s.snap.Load().constants[name]
	if !ok {
		return map[string]any{}
	}
	return Clone(v)
}

// Value returns a deep copy of the named value, or nil when absent.
func (s *Store) Value(name string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	if !ok {
		return nil
	}
	return Clone(v)
}

// SetValue stores a deep copy of v. A nil v is ignored.
func (s *Store) SetValue(name string, v any) {
	if v == nil {
		return
	}
	c := Clone(v)
	s.mu.Lock()
	s.values[name] = c
	s.mu.Unlock()
}

// Resource resolves a resource path against the base URL.
func (s *Store) Resource(name string) (string, bool) {
	s.mu.RLock()
	p, ok := s.resources[name]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	return s.snap.Load().base + p, true
}

// SetResource registers a resource path. Empty paths are ignored.
func (s *Store) SetResource(name, path string) {
	if path == "" {
		return
	}
	s.mu.Lock()
	s.resources[name] = withTrailingSlash(path)
	s.mu.Unlock()
}

// APIURL returns the named API URL. An empty name reads "base".
func (s *Store) APIURL(name string) string {
	if name == "" {
		name = "base"
	}
	return s.snap.Load().apiURL[name]
}

// BaseURL returns the normalized base URL.
func (s *Store) BaseURL() string {
	return s.snap.Load().base
}

// ErrorHandlers returns the sealed HTTP error handler table.
func (s *Store) ErrorHandlers() ErrorHandlers {
	return s.snap.Load().handlers
}

// withTrailingSlash makes p end in exactly one "/".
func withTrailingSlash(p string) string {
	return strings.TrimRight(p, "/") + "/"
}
