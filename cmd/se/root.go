package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/se/internal/config"
	"github.com/jask/se/internal/logging"
	"github.com/jask/se/internal/se"
	"github.com/jask/se/internal/store"
)

type rootOptions struct {
	configPath string
	sessionID  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "se",
		Short:         "Application runtime with overlays, configuration and session storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default $SE_CONFIG or ~/.config/se/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.sessionID, "session", "", "session id (default from config, else the last session used)")

	cmd.AddCommand(newConfigCmd(opts), newDemoCmd(opts), newSessionCmd(opts))
	return cmd
}

func (o *rootOptions) load() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load()
}

// openRuntime loads the configuration and starts a bootstrapped runtime.
// Without a session id the last session stored in the database is resumed,
// so separate invocations share their entries.
func (o *rootOptions) openRuntime(quiet bool, extra func(*se.Options)) (*se.Runtime, error) {
	cfg, err := o.load()
	if err != nil {
		return nil, err
	}
	if o.sessionID != "" {
		cfg.Session.ID = o.sessionID
	}
	log := zap.NewNop()
	if !quiet || cfg.Log.File != "" {
		if log, err = logging.New(cfg.Log); err != nil {
			return nil, err
		}
	}
	opts := se.Options{Config: cfg, Logger: log, ResumeSession: true}
	if extra != nil {
		extra(&opts)
	}
	rt, err := se.New(opts)
	if err != nil {
		return nil, err
	}
	if err := rt.BootstrapConfig(store.ErrorHandlers{}); err != nil {
		_ = rt.Close()
		return nil, err
	}
	return rt, nil
}
