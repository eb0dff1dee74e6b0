package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/se/internal/overlay"
	"github.com/jask/se/internal/se"
	"github.com/jask/se/internal/tui"
)

func newDemoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Drive the overlay engine from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			host := tui.NewHost()
			var app *tui.App
			loader := overlay.ResourceLoaderFunc(func(ok bool) {
				if app != nil {
					app.OnResourceLoad(ok)
				}
			})
			rt, err := opts.openRuntime(true, func(o *se.Options) {
				o.Renderer = host
				o.Loader = loader
			})
			if err != nil {
				return err
			}
			defer rt.Close()

			app = tui.New(rt.Overlay(), rt.HTTPErrors(), host)
			p := tea.NewProgram(app, tea.WithAltScreen())
			host.Attach(p)
			_, err = p.Run()
			return err
		},
	}
}
