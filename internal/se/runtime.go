// Package se wires the configuration store, plugin registry, overlay engine,
// HTTP error dispatcher and session store into one runtime. Only one runtime
// may be live at a time.
package se

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jask/se/internal/config"
	"github.com/jask/se/internal/database"
	"github.com/jask/se/internal/database/repository"
	"github.com/jask/se/internal/httperr"
	"github.com/jask/se/internal/overlay"
	"github.com/jask/se/internal/plugin"
	"github.com/jask/se/internal/secrets"
	"github.com/jask/se/internal/session"
	"github.com/jask/se/internal/store"
)

// ErrRuntimeActive is returned by New while another runtime is open.
var ErrRuntimeActive = errors.New("a runtime is already active")

var active atomic.Bool

// Options wire a Runtime. Zero values select in-memory or no-op parts.
type Options struct {
	Config config.Config
	// Renderer defaults to an overlay.Document.
	Renderer overlay.Renderer
	Loader   overlay.ResourceLoader
	Logger   *zap.Logger
	// SessionDB is used instead of opening Config.Session.Path.
	SessionDB *sql.DB
	// ResumeSession reuses the last session stored in the database when
	// Config.Session.ID is empty, instead of starting a fresh one.
	ResumeSession bool
}

type Runtime struct {
	cfg      config.Config
	log      *zap.Logger
	store    *store.Store
	plugins  *plugin.Registry
	overlay  *overlay.Engine
	http     *httperr.Dispatcher
	session  *session.Store
	ownedDB  *sql.DB
	closeOne sync.Once
}

// New builds a runtime. The configuration is not bootstrapped; call
// Bootstrap or BootstrapConfig.
func New(opts Options) (*Runtime, error) {
	if !active.CompareAndSwap(false, true) {
		return nil, ErrRuntimeActive
	}
	rt, err := build(opts)
	if err != nil {
		active.Store(false)
		return nil, err
	}
	return rt, nil
}

func build(opts Options) (*Runtime, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	renderer := opts.Renderer
	if renderer == nil {
		renderer = overlay.NewDocument()
	}
	cfg := opts.Config

	rt := &Runtime{cfg: cfg, log: log}
	rt.store = store.New(cfg.Document.BaseHref, log.Named("store"))
	rt.plugins = plugin.NewRegistry(log.Named("plugin"))
	rt.overlay = overlay.New(renderer, overlay.Config{
		Defaults: cfg.OverlayDefaults(),
		Loader:   opts.Loader,
		Logger:   log.Named("overlay"),
	})
	rt.http = httperr.NewDispatcher(rt.store, rt.overlay, cfg.HTTPMessages(), log.Named("http"))

	db := opts.SessionDB
	if db == nil {
		path := cfg.Session.Path
		if path == "" {
			return nil, fmt.Errorf("session path is not configured")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir session dir: %w", err)
		}
		var err error
		db, err = database.OpenMigrated(path)
		if err != nil {
			return nil, fmt.Errorf("open session store: %w", err)
		}
		rt.ownedDB = db
	}
	fail := func(err error) (*Runtime, error) {
		if rt.ownedDB != nil {
			rt.ownedDB.Close()
		}
		return nil, err
	}

	id := cfg.Session.ID
	if id == "" && opts.ResumeSession {
		var err error
		id, err = session.ResumeID(context.Background(), repository.NewSessionMetaRepo(db))
		if err != nil {
			return fail(err)
		}
	}
	rt.session = session.New(repository.NewSessionEntryRepo(db), id, log.Named("session"))
	if cfg.Session.SealToken {
		sl, err := secrets.NewSealer(rt.session.ID())
		if err != nil {
			return fail(fmt.Errorf("token sealer: %w", err))
		}
		rt.session.SealTokens(sl)
	}
	log.Info("runtime started", zap.String("session", rt.session.ID()))
	return rt, nil
}

// Bootstrap populates the configuration store.
func (rt *Runtime) Bootstrap(b *store.Bootstrap) error {
	return rt.store.Bootstrap(b)
}

// BootstrapConfig bootstraps from the loaded configuration file with the
// given HTTP error handlers.
func (rt *Runtime) BootstrapConfig(handlers store.ErrorHandlers) error {
	return rt.store.Bootstrap(rt.cfg.BootstrapDocument(handlers))
}

func (rt *Runtime) Store() *store.Store             { return rt.store }
func (rt *Runtime) Plugins() *plugin.Registry       { return rt.plugins }
func (rt *Runtime) Overlay() *overlay.Engine        { return rt.overlay }
func (rt *Runtime) HTTPErrors() *httperr.Dispatcher { return rt.http }
func (rt *Runtime) Session() *session.Store         { return rt.session }
func (rt *Runtime) Logger() *zap.Logger             { return rt.log }
func (rt *Runtime) Config() config.Config           { return rt.cfg }

// HTTPClient returns a client that carries the session token.
func (rt *Runtime) HTTPClient() *http.Client {
	return &http.Client{Transport: &httperr.TokenTransport{
		Tokens: rt.session,
		Log:    rt.log.Named("http"),
	}}
}

// Close releases the runtime so another may be created.
func (rt *Runtime) Close() error {
	var err error
	rt.closeOne.Do(func() {
		rt.overlay.Reset()
		if rt.ownedDB != nil {
			err = rt.ownedDB.Close()
		}
		_ = rt.log.Sync()
		active.Store(false)
	})
	return err
}
