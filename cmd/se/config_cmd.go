package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jask/se/internal/config"
	"github.com/jask/se/internal/store"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var savePath string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate the configuration and print the resolved tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			st := store.New(cfg.Document.BaseHref, nil)
			if err := st.Bootstrap(cfg.BootstrapDocument(store.ErrorHandlers{})); err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg, st)
			if savePath != "" {
				if err := config.Save(cfg, savePath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", savePath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&savePath, "save", "", "write the effective configuration to this path")
	return cmd
}

func printConfig(w io.Writer, cfg config.Config, st *store.Store) {
	fmt.Fprintf(w, "base url: %s\n", st.BaseURL())
	for _, name := range sortedKeys(cfg.Bootstrap.APIURL) {
		fmt.Fprintf(w, "api %s: %s\n", name, st.APIURL(name))
	}
	for _, name := range sortedKeys(cfg.Bootstrap.Resources) {
		url, _ := st.Resource(name)
		fmt.Fprintf(w, "resource %s: %s\n", name, url)
	}
	for _, name := range sortedKeys(cfg.Bootstrap.Constants) {
		fmt.Fprintf(w, "constant %s: %v\n", name, st.Constant(name))
	}
	for _, name := range sortedKeys(cfg.Bootstrap.Values) {
		fmt.Fprintf(w, "value %s: %v\n", name, st.Value(name))
	}
	fmt.Fprintf(w, "session store: %s\n", cfg.Session.Path)
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
