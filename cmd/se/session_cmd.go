package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jask/se/internal/se"
	"github.com/jask/se/internal/store"
)

func newSessionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Read and write the session store",
	}

	withSession := func(fn func(cmd *cobra.Command, rt *se.Runtime, args []string) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			rt, err := opts.openRuntime(true, nil)
			if err != nil {
				return err
			}
			defer rt.Close()
			return fn(cmd, rt, args)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get NAME",
			Short: "Print a raw value",
			Args:  cobra.ExactArgs(1),
			RunE: withSession(func(cmd *cobra.Command, rt *se.Runtime, args []string) error {
				v, ok, err := rt.Session().Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%s is not set", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "json NAME",
			Short: "Print a value parsed as JSON (null when missing or malformed)",
			Args:  cobra.ExactArgs(1),
			RunE: withSession(func(cmd *cobra.Command, rt *se.Runtime, args []string) error {
				data, err := json.Marshal(rt.Session().GetJSON(cmd.Context(), args[0]))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "set NAME VALUE",
			Short: "Store a value",
			Args:  cobra.ExactArgs(2),
			RunE: withSession(func(cmd *cobra.Command, rt *se.Runtime, args []string) error {
				return rt.Session().Set(cmd.Context(), args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "import QUERY",
			Short: `Store every pair of "a=1&b=2"`,
			Args:  cobra.ExactArgs(1),
			RunE: withSession(func(cmd *cobra.Command, rt *se.Runtime, args []string) error {
				pairs := store.ParseObject(args[0])
				if err := rt.Session().SetAll(cmd.Context(), pairs); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries\n", len(pairs))
				return nil
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every entry",
			Args:  cobra.NoArgs,
			RunE: withSession(func(cmd *cobra.Command, rt *se.Runtime, args []string) error {
				entries, err := rt.Session().Entries(cmd.Context())
				if err != nil {
					return err
				}
				for _, k := range sortedKeys(entries) {
					fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, entries[k])
				}
				return nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove every entry",
			Args:  cobra.NoArgs,
			RunE: withSession(func(cmd *cobra.Command, rt *se.Runtime, args []string) error {
				return rt.Session().Clear(cmd.Context())
			}),
		},
	)
	return cmd
}
