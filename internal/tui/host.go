package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/se/internal/overlay"
)

// refreshMsg asks the program to redraw after the overlay set changed.
type refreshMsg struct{}

// activityMsg appends a line to the activity log from outside Update.
type activityMsg string

// Host is the overlay.Renderer of the terminal. Mount and Unmount only
// record the element and schedule a redraw; they never block.
type Host struct {
	mu       sync.Mutex
	elements []overlay.Element
	send     func(tea.Msg)
}

func NewHost() *Host { return &Host{} }

// Attach routes redraw requests to p.
func (h *Host) Attach(p *tea.Program) {
	h.mu.Lock()
	h.send = p.Send
	h.mu.Unlock()
}

func (h *Host) Mount(el overlay.Element) {
	h.mu.Lock()
	h.elements = append(h.elements, el)
	h.mu.Unlock()
	h.post(refreshMsg{})
}

func (h *Host) Unmount(el overlay.Element) {
	h.mu.Lock()
	for i, cur := range h.elements {
		if cur.ID == el.ID {
			h.elements = append(h.elements[:i], h.elements[i+1:]...)
			break
		}
	}
	h.mu.Unlock()
	h.post(refreshMsg{})
}

// Elements returns the mounted elements, oldest first.
func (h *Host) Elements() []overlay.Element {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]overlay.Element(nil), h.elements...)
}

// post delivers msg without blocking the caller, which may hold the overlay
// engine's lock while the program is busy in Update.
func (h *Host) post(msg tea.Msg) {
	h.mu.Lock()
	send := h.send
	h.mu.Unlock()
	if send != nil {
		go send(msg)
	}
}
