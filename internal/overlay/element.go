package overlay

import (
	"sync"
)

// Kind names an overlay presentation.
type Kind string

const (
	KindNone    Kind = ""
	KindBlock   Kind = "block"
	KindConfirm Kind = "confirm"
	KindNotify  Kind = "notify"
)

// Element classes. At most one element of each class is mounted at a time.
const (
	ClassBlock   = "blockUI-container"
	ClassConfirm = "confirm-container"
	ClassNotify  = "notify-message"
)

// Class returns the element class rendered for k.
func (k Kind) Class() string {
	switch k {
	case KindBlock:
		return ClassBlock
	case KindConfirm:
		return ClassConfirm
	case KindNotify:
		return ClassNotify
	}
	return ""
}

// Element is what the engine asks a renderer to show.
type Element struct {
	ID      string
	Kind    Kind
	Style   string
	Title   string
	Message string

	// Dialog only.
	Input      bool
	OKText     string
	CancelText string
}

// Class returns the element's class.
func (e Element) Class() string { return e.Kind.Class() }

// Renderer mounts and unmounts overlay elements. The engine calls it while
// holding its lock, so implementations must not block or call back into the
// engine.
type Renderer interface {
	Mount(el Element)
	Unmount(el Element)
}

// Document is an in-memory Renderer that keeps mounted elements newest
// first, like content prepended to a page body.
type Document struct {
	mu       sync.Mutex
	elements []Element
}

func NewDocument() *Document { return &Document{} }

func (d *Document) Mount(el Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.elements = append([]Element{el}, d.elements...)
}

func (d *Document) Unmount(el Element) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, cur := range d.elements {
		if cur.ID == el.ID {
			d.elements = append(d.elements[:i], d.elements[i+1:]...)
			return
		}
	}
}

// Count returns how many mounted elements carry class.
func (d *Document) Count(class string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, el := range d.elements {
		if el.Class() == class {
			n++
		}
	}
	return n
}

// Find returns the newest mounted element with class.
func (d *Document) Find(class string) (Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, el := range d.elements {
		if el.Class() == class {
			return el, true
		}
	}
	return Element{}, false
}

// Elements returns a copy of the mounted elements, newest first.
func (d *Document) Elements() []Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Element(nil), d.elements...)
}
