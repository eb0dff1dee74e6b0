// Package overlay presents at most one block, confirm and notify overlay at
// a time and owns the timers that dismiss them.
package overlay

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidArgument = errors.New("invalid dialog properties")
	ErrDialogClosed    = errors.New("dialog is no longer shown")
	ErrTextRequired    = errors.New("dialog requires text")
)

// ResourceLoader is told when a block that waits for resources times out.
type ResourceLoader interface {
	OnResourceLoad(ok bool)
}

// ResourceLoaderFunc adapts a function to ResourceLoader.
type ResourceLoaderFunc func(ok bool)

func (f ResourceLoaderFunc) OnResourceLoad(ok bool) { f(ok) }

// Config wires an Engine.
type Config struct {
	Defaults Defaults
	Loader   ResourceLoader
	Logger   *zap.Logger
}

type mounted struct {
	el     Element
	dialog *Dialog
	notice *Notice
}

type pendingTimer struct {
	t     *time.Timer
	owner string
}

// Engine is the overlay state machine. All state sits behind mu; renderer
// calls are made with mu held and user callbacks after it is released.
type Engine struct {
	renderer Renderer
	loader   ResourceLoader
	defaults Defaults
	log      *zap.Logger

	mu      sync.Mutex
	blocked bool
	shown   map[Kind]*mounted
	order   []Kind
	timer   *pendingTimer
}

func New(r Renderer, cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		renderer: r,
		loader:   cfg.Loader,
		defaults: cfg.Defaults.merge(StandardDefaults()),
		log:      log,
		shown:    map[Kind]*mounted{},
	}
}

// Defaults returns the effective defaults.
func (e *Engine) Defaults() Defaults { return e.defaults }

// IsBlocked reports the blocked flag, independent of what is shown.
func (e *Engine) IsBlocked() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.blocked
}

// Active returns the most recently presented kind that is still shown.
func (e *Engine) Active() Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.order) == 0 {
		return KindNone
	}
	return e.order[len(e.order)-1]
}

// ActiveDialog returns the open confirm or prompt dialog, if any.
func (e *Engine) ActiveDialog() *Dialog {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m := e.shown[KindConfirm]; m != nil {
		return m.dialog
	}
	return nil
}

// ActiveNotice returns the shown notification, if any.
func (e *Engine) ActiveNotice() *Notice {
	e.mu.Lock()
	defer e.mu.Unlock()
	if m := e.shown[KindNotify]; m != nil {
		return m.notice
	}
	return nil
}

// BlockMessage blocks with a message and default options.
func (e *Engine) BlockMessage(msg string) {
	e.Block(BlockOptions{Message: msg})
}

// Block freezes the application. Any confirm or notify overlay is torn down
// first.
func (e *Engine) Block(opts BlockOptions) {
	if opts.Message == "" {
		opts.Message = e.defaults.BlockMessage
	}
	if opts.Style == "" {
		opts.Style = e.defaults.BlockStyle
	}
	if opts.Delay <= 0 {
		opts.Delay = e.defaults.BlockDelay
	}

	e.mu.Lock()
	e.blocked = true
	e.removeLocked(KindNotify)
	e.removeLocked(KindConfirm)
	if opts.WaitForResources || opts.ForceReload {
		e.clearTimerLocked()
	}
	if opts.ForceReload {
		e.removeLocked(KindBlock)
	}
	m := e.shown[KindBlock]
	if m == nil {
		m = &mounted{el: Element{
			ID:      uuid.NewString(),
			Kind:    KindBlock,
			Style:   opts.Style,
			Message: opts.Message,
		}}
		e.mountLocked(m)
	}
	if opts.WaitForResources {
		e.armLocked(m.el.ID, opts.Delay, e.resourceTimeout)
	}
	e.mu.Unlock()

	if opts.OnBlocked != nil {
		opts.OnBlocked()
	}
}

// Unblock clears the blocked flag and removes the block overlay.
func (e *Engine) Unblock() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocked = false
	e.removeLocked(KindBlock)
}

// Reset tears down every overlay and stops the pending timer. An open dialog
// resolves as Dismissed.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.blocked = false
	e.clearTimerLocked()
	e.removeLocked(KindNotify)
	e.removeLocked(KindConfirm)
	e.removeLocked(KindBlock)
}

// Confirm opens a confirmation dialog.
func (e *Engine) Confirm(message, title string, onOK, onCancel func()) (*Dialog, error) {
	if message == "" {
		return nil, ErrInvalidArgument
	}
	opts := DialogOptions{Message: message, Title: title, OnCancel: onCancel}
	if onOK != nil {
		opts.OnOK = func(string) { onOK() }
	}
	return e.openDialog(opts, false)
}

// ConfirmWith opens a confirmation dialog from options.
func (e *Engine) ConfirmWith(opts DialogOptions) (*Dialog, error) {
	if opts.isZero() {
		return nil, ErrInvalidArgument
	}
	return e.openDialog(opts, false)
}

// Prompt opens a dialog that requires text before OK is accepted.
func (e *Engine) Prompt(message, title string, onOK func(text string), onCancel func()) (*Dialog, error) {
	if message == "" {
		return nil, ErrInvalidArgument
	}
	return e.openDialog(DialogOptions{Message: message, Title: title, OnOK: onOK, OnCancel: onCancel}, true)
}

// PromptWith opens a prompt dialog from options.
func (e *Engine) PromptWith(opts DialogOptions) (*Dialog, error) {
	if opts.isZero() {
		return nil, ErrInvalidArgument
	}
	return e.openDialog(opts, true)
}

func (e *Engine) openDialog(opts DialogOptions, requireText bool) (*Dialog, error) {
	d := e.defaults
	if opts.Title == "" {
		opts.Title = d.DialogTitle
	}
	if opts.Message == "" {
		opts.Message = d.DialogMessage
	}
	if opts.ErrorText == "" {
		opts.ErrorText = d.DialogErrorText
	}
	if opts.OKText == "" {
		opts.OKText = d.OKText
	}
	if opts.CancelText == "" {
		opts.CancelText = d.CancelText
	}

	dlg := &Dialog{
		engine:      e,
		opts:        opts,
		requireText: requireText,
		done:        make(chan struct{}),
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.removeLocked(KindNotify)
	e.removeLocked(KindConfirm)
	dlg.id = uuid.NewString()
	e.mountLocked(&mounted{
		el: Element{
			ID:         dlg.id,
			Kind:       KindConfirm,
			Title:      opts.Title,
			Message:    opts.Message,
			Input:      requireText,
			OKText:     opts.OKText,
			CancelText: opts.CancelText,
		},
		dialog: dlg,
	})
	return dlg, nil
}

// Notify shows a transient message. An empty style means "success". Unless
// sticky, any pending timer is cleared and the notification dismisses itself
// after its delay.
func (e *Engine) Notify(message, style string, opts NotifyOptions) *Notice {
	if style == "" {
		style = e.defaults.NotifyStyle
	}
	if opts.Delay <= 0 {
		opts.Delay = e.defaults.NotifyDelay
	}
	n := &Notice{engine: e, id: uuid.NewString(), done: make(chan struct{})}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !opts.Sticky {
		e.clearTimerLocked()
	}
	e.removeLocked(KindNotify)
	e.mountLocked(&mounted{
		el:     Element{ID: n.id, Kind: KindNotify, Style: style, Message: message},
		notice: n,
	})
	if !opts.Sticky {
		e.armLocked(n.id, opts.Delay, e.noticeTimeout)
	}
	return n
}

func (e *Engine) mountLocked(m *mounted) {
	e.shown[m.el.Kind] = m
	e.order = append(e.order, m.el.Kind)
	e.renderer.Mount(m.el)
	e.log.Debug("overlay shown", zap.String("kind", string(m.el.Kind)), zap.String("id", m.el.ID))
}

// removeLocked unmounts kind if shown. A timer armed by the removed element
// is stopped with it.
func (e *Engine) removeLocked(kind Kind) *mounted {
	m := e.shown[kind]
	if m == nil {
		return nil
	}
	delete(e.shown, kind)
	for i, k := range e.order {
		if k == kind {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	if e.timer != nil && e.timer.owner == m.el.ID {
		e.clearTimerLocked()
	}
	e.renderer.Unmount(m.el)
	if m.dialog != nil {
		m.dialog.resolve(DialogResult{Outcome: Dismissed})
	}
	if m.notice != nil {
		m.notice.finish()
	}
	e.log.Debug("overlay removed", zap.String("kind", string(kind)), zap.String("id", m.el.ID))
	return m
}

func (e *Engine) clearTimerLocked() {
	if e.timer == nil {
		return
	}
	e.timer.t.Stop()
	e.timer = nil
}

func (e *Engine) armLocked(owner string, d time.Duration, fire func(*pendingTimer)) {
	e.clearTimerLocked()
	pt := &pendingTimer{owner: owner}
	pt.t = time.AfterFunc(d, func() { fire(pt) })
	e.timer = pt
}

// takeTimerLocked claims pt if it is still the pending timer. A timer that was
// cleared or replaced after it started firing loses.
func (e *Engine) takeTimerLocked(pt *pendingTimer) bool {
	if e.timer != pt {
		return false
	}
	e.timer = nil
	return true
}

func (e *Engine) resourceTimeout(pt *pendingTimer) {
	e.mu.Lock()
	ok := e.takeTimerLocked(pt)
	e.mu.Unlock()
	if !ok {
		return
	}
	e.log.Warn("resources did not load before block timeout", zap.String("id", pt.owner))
	if e.loader != nil {
		e.loader.OnResourceLoad(false)
	}
}

func (e *Engine) noticeTimeout(pt *pendingTimer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.takeTimerLocked(pt) {
		return
	}
	if m := e.shown[KindNotify]; m != nil && m.el.ID == pt.owner {
		e.removeLocked(KindNotify)
	}
}

// Outcome is how a dialog ended.
type Outcome int

const (
	Pending Outcome = iota
	Accepted
	Cancelled
	// Dismissed dialogs were torn down by another presentation.
	Dismissed
)

// DialogResult is the final state of a dialog.
type DialogResult struct {
	Outcome Outcome
	Text    string
}

// Dialog is an open confirm or prompt. OK and Cancel are the button clicks.
type Dialog struct {
	engine      *Engine
	id          string
	opts        DialogOptions
	requireText bool

	once   sync.Once
	result DialogResult
	done   chan struct{}
}

func (d *Dialog) ID() string { return d.id }

// RequiresText reports whether this is a prompt.
func (d *Dialog) RequiresText() bool { return d.requireText }

// OK accepts the dialog. A prompt with empty text shows the error text as a
// notification, stays open and returns ErrTextRequired.
func (d *Dialog) OK(text string) error {
	e := d.engine
	e.mu.Lock()
	if !d.shownLocked() {
		e.mu.Unlock()
		return ErrDialogClosed
	}
	if d.requireText && text == "" {
		e.mu.Unlock()
		e.Notify(d.opts.ErrorText, "error", NotifyOptions{})
		return ErrTextRequired
	}
	if !d.requireText {
		text = ""
	}
	d.resolve(DialogResult{Outcome: Accepted, Text: text})
	e.removeLocked(KindConfirm)
	e.mu.Unlock()

	if d.opts.OnOK != nil {
		d.opts.OnOK(text)
	}
	return nil
}

// Cancel closes the dialog and runs its cancel callback.
func (d *Dialog) Cancel() error {
	e := d.engine
	e.mu.Lock()
	if !d.shownLocked() {
		e.mu.Unlock()
		return ErrDialogClosed
	}
	d.resolve(DialogResult{Outcome: Cancelled})
	e.removeLocked(KindConfirm)
	e.mu.Unlock()

	if d.opts.OnCancel != nil {
		d.opts.OnCancel()
	}
	return nil
}

// Done is closed once the dialog has ended.
func (d *Dialog) Done() <-chan struct{} { return d.done }

// Result returns the outcome; it is Pending until Done is closed.
func (d *Dialog) Result() DialogResult {
	select {
	case <-d.done:
		return d.result
	default:
		return DialogResult{}
	}
}

func (d *Dialog) shownLocked() bool {
	m := d.engine.shown[KindConfirm]
	return m != nil && m.dialog == d
}

func (d *Dialog) resolve(r DialogResult) {
	d.once.Do(func() {
		d.result = r
		close(d.done)
	})
}

// Notice is a shown notification. Close is the close control.
type Notice struct {
	engine *Engine
	id     string
	once   sync.Once
	done   chan struct{}
}

func (n *Notice) ID() string { return n.id }

// Close clears the pending timer and removes the notification. Closing a
// notice that is already gone is a no-op.
func (n *Notice) Close() {
	e := n.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	m := e.shown[KindNotify]
	if m == nil || m.notice != n {
		return
	}
	e.clearTimerLocked()
	e.removeLocked(KindNotify)
}

// Done is closed once the notification is removed.
func (n *Notice) Done() <-chan struct{} { return n.done }

func (n *Notice) finish() {
	n.once.Do(func() { close(n.done) })
}
