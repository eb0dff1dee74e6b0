package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/se/internal/httperr"
	"github.com/jask/se/internal/overlay"
	"github.com/jask/se/internal/store"
)

func newTestApp(t *testing.T) (*App, *overlay.Engine, *Host) {
	t.Helper()
	host := NewHost()
	eng := overlay.New(host, overlay.Config{})
	disp := httperr.NewDispatcher(store.New("/", nil), eng, httperr.Messages{}, nil)
	app := New(eng, disp, host)
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	t.Cleanup(func() {
		eng.Unblock()
		if n := eng.ActiveNotice(); n != nil {
			n.Close()
		}
	})
	return app, eng, host
}

func press(app *App, keys string) {
	for _, r := range keys {
		app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestComposite(t *testing.T) {
	got := composite("aaaa\nbbbb", "XY", 1, 1, 4)
	if got != "aaaa\nbXYb" {
		t.Fatalf("composite = %q", got)
	}
	got = composite("aa", "XY", 0, 3, 2)
	if got != "aa" {
		t.Fatalf("out of range layer should be dropped, got %q", got)
	}
}

func TestFill(t *testing.T) {
	got := fill("ab", 3, 2)
	if got != "ab \n   " {
		t.Fatalf("fill = %q", got)
	}
}

func TestNotifyKeyShowsNotice(t *testing.T) {
	app, eng, host := newTestApp(t)
	press(app, "n")
	if eng.ActiveNotice() == nil {
		t.Fatal("expected an active notice")
	}
	if len(host.Elements()) != 1 {
		t.Fatalf("expected 1 element, got %d", len(host.Elements()))
	}
	if !strings.Contains(app.View(), "Saved") {
		t.Error("view should contain the notice message")
	}
	press(app, "x")
	if eng.ActiveNotice() != nil {
		t.Error("close key should remove the notice")
	}
}

func TestConfirmFlow(t *testing.T) {
	app, eng, _ := newTestApp(t)
	press(app, "c")
	if eng.ActiveDialog() == nil {
		t.Fatal("expected an open dialog")
	}
	if !strings.Contains(app.View(), "Delete the draft?") {
		t.Error("view should show the dialog message")
	}
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if eng.ActiveDialog() != nil {
		t.Fatal("dialog should close on enter")
	}
	if got := app.activity[len(app.activity)-1]; got != "confirmed" {
		t.Errorf("last activity = %q, want confirmed", got)
	}
}

func TestPromptRequiresText(t *testing.T) {
	app, eng, host := newTestApp(t)
	press(app, "p")
	app.Update(refreshMsg{})

	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if eng.ActiveDialog() == nil {
		t.Fatal("prompt should stay open without text")
	}
	var sawError bool
	for _, el := range host.Elements() {
		if el.Kind == overlay.KindNotify && el.Style == httperr.StyleError {
			sawError = true
		}
	}
	if !sawError {
		t.Error("expected an error notice for the empty prompt")
	}

	press(app, "late")
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if eng.ActiveDialog() != nil {
		t.Fatal("prompt should close once text is entered")
	}
	if got := app.activity[len(app.activity)-1]; got != "rejected: late" {
		t.Errorf("last activity = %q", got)
	}
}

func TestBlockedSuspendsInput(t *testing.T) {
	app, eng, _ := newTestApp(t)
	press(app, "b")
	if !eng.IsBlocked() {
		t.Fatal("expected blocked")
	}
	press(app, "n")
	if eng.ActiveNotice() != nil {
		t.Error("notify key should be ignored while blocked")
	}
	press(app, "u")
	if eng.IsBlocked() {
		t.Error("unblock key should clear the block")
	}
}

func TestHTTPErrorKeyNotifies(t *testing.T) {
	app, eng, _ := newTestApp(t)
	press(app, "e")
	if eng.ActiveNotice() == nil {
		t.Fatal("404 should produce a notice")
	}
	if !strings.Contains(app.View(), "not found") {
		t.Error("view should show the not found message")
	}
}
