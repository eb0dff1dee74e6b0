package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/se/internal/httperr"
	"github.com/jask/se/internal/overlay"
)

const maxActivity = 8

// demoStatuses are the failures the http error key cycles through.
var demoStatuses = []int{404, 500, 400, 401, 503}

// App drives an overlay engine from the keyboard and draws the mounted
// overlays over an activity log.
type App struct {
	engine *overlay.Engine
	errors *httperr.Dispatcher
	host   *Host
	keys   keyMap
	input  textinput.Model

	dialogID  string
	width     int
	height    int
	activity  []string
	statusIdx int
}

func New(engine *overlay.Engine, errs *httperr.Dispatcher, host *Host) *App {
	in := textinput.New()
	in.Placeholder = "type a reason"
	in.CharLimit = 200
	return &App{
		engine: engine,
		errors: errs,
		host:   host,
		keys:   newKeyMap(),
		input:  in,
		width:  80,
		height: 24,
	}
}

// OnResourceLoad lets the App act as the engine's resource loader.
func (a *App) OnResourceLoad(ok bool) {
	if !ok {
		a.host.post(activityMsg("resources did not load before the block timed out"))
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case activityMsg:
		a.record(string(m))
		return a, nil
	case refreshMsg:
		return a, a.syncDialog()
	case tea.KeyMsg:
		if key.Matches(m, a.keys.Quit) {
			return a, tea.Quit
		}
		if dlg := a.engine.ActiveDialog(); dlg != nil {
			return a.handleDialogKey(dlg, m)
		}
		if a.engine.IsBlocked() {
			if key.Matches(m, a.keys.Unblock) {
				a.engine.Unblock()
				a.record("unblocked")
			}
			return a, nil
		}
		a.handleKey(m)
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) {
	switch {
	case key.Matches(m, a.keys.Block):
		a.engine.Block(overlay.BlockOptions{
			WaitForResources: true,
			Delay:            3 * time.Second,
			OnBlocked:        func() { a.record("blocked") },
		})
	case key.Matches(m, a.keys.Notify):
		a.engine.Notify("Saved", "", overlay.NotifyOptions{})
	case key.Matches(m, a.keys.Sticky):
		a.engine.Notify("Pinned until closed", "info", overlay.NotifyOptions{Sticky: true})
	case key.Matches(m, a.keys.Close):
		if n := a.engine.ActiveNotice(); n != nil {
			n.Close()
		}
	case key.Matches(m, a.keys.Confirm):
		_, err := a.engine.Confirm("Delete the draft?", "Delete",
			func() { a.record("confirmed") },
			func() { a.record("cancelled") })
		a.recordErr(err)
	case key.Matches(m, a.keys.Prompt):
		_, err := a.engine.Prompt("Why is this rejected?", "Reject",
			func(text string) { a.record(fmt.Sprintf("rejected: %s", text)) },
			func() { a.record("cancelled") })
		a.recordErr(err)
	case key.Matches(m, a.keys.HTTPError):
		status := demoStatuses[a.statusIdx%len(demoStatuses)]
		a.statusIdx++
		a.record(fmt.Sprintf("http %d", status))
		a.errors.HandleError(httperr.Response{Status: status})
	}
}

func (a *App) handleDialogKey(dlg *overlay.Dialog, m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Accept):
		err := dlg.OK(a.input.Value())
		if errors.Is(err, overlay.ErrTextRequired) {
			return a, nil
		}
		a.recordErr(err)
		return a, a.syncDialog()
	case key.Matches(m, a.keys.Dismiss):
		a.recordErr(dlg.Cancel())
		return a, a.syncDialog()
	}
	if dlg.RequiresText() {
		var cmd tea.Cmd
		a.input, cmd = a.input.Update(m)
		return a, cmd
	}
	return a, nil
}

// syncDialog resets the text input whenever a different dialog opens.
func (a *App) syncDialog() tea.Cmd {
	dlg := a.engine.ActiveDialog()
	id := ""
	if dlg != nil {
		id = dlg.ID()
	}
	if id == a.dialogID {
		return nil
	}
	a.dialogID = id
	a.input.Reset()
	if dlg != nil && dlg.RequiresText() {
		return a.input.Focus()
	}
	a.input.Blur()
	return nil
}

func (a *App) record(line string) {
	a.activity = append(a.activity, line)
	if len(a.activity) > maxActivity {
		a.activity = a.activity[len(a.activity)-maxActivity:]
	}
}

func (a *App) recordErr(err error) {
	if err != nil {
		a.record("error: " + err.Error())
	}
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("se overlay runtime"))
	b.WriteString("\n\n")
	if len(a.activity) == 0 {
		b.WriteString(mutedStyle.Render("no activity yet"))
		b.WriteString("\n")
	}
	for _, line := range a.activity {
		b.WriteString(mutedStyle.Render("• " + line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(a.help()))

	view := fill(b.String(), a.width, a.height)
	for _, el := range a.host.Elements() {
		box := a.renderElement(el)
		x, y := a.place(el, box)
		view = composite(view, box, x, y, a.width)
	}
	return view
}

func (a *App) help() string {
	k := a.keys
	switch {
	case a.engine.ActiveDialog() != nil:
		return helpLine(k.Accept, k.Dismiss, k.Quit)
	case a.engine.IsBlocked():
		return helpLine(k.Unblock, k.Quit)
	}
	return helpLine(k.Block, k.Notify, k.Sticky, k.Close, k.Confirm, k.Prompt, k.HTTPError, k.Quit)
}

func (a *App) renderElement(el overlay.Element) string {
	switch el.Kind {
	case overlay.KindBlock:
		return blockBoxStyle.BorderForeground(accentFor(el.Style)).Render(el.Message)
	case overlay.KindConfirm:
		parts := []string{dialogTitleStyle.Render(el.Title), "", el.Message}
		if el.Input && el.ID == a.dialogID {
			parts = append(parts, "", a.input.View())
		}
		buttons := lipgloss.JoinHorizontal(lipgloss.Top,
			buttonStyle.Render(el.OKText), "  ", buttonStyle.Render(el.CancelText))
		parts = append(parts, "", buttons)
		return dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
	case overlay.KindNotify:
		return noticeBoxStyle.BorderForeground(accentFor(el.Style)).Render(el.Message + "  ×")
	}
	return ""
}

// place centers blocks and dialogs and pins notices to the top right.
func (a *App) place(el overlay.Element, box string) (int, int) {
	w, h := lipgloss.Width(box), lipgloss.Height(box)
	if el.Kind == overlay.KindNotify {
		return max(0, a.width-w-1), 1
	}
	return max(0, (a.width-w)/2), max(0, (a.height-h)/2)
}
