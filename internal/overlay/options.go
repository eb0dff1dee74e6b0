package overlay

import "time"

// Defaults are the texts and timings used when an option is left empty.
type Defaults struct {
	BlockMessage string        // "Loading, please wait"
	BlockStyle   string        // "iPhoto"
	BlockDelay   time.Duration // 1.5s; resource wait before reporting a load failure

	DialogTitle     string // "Please confirm"
	DialogMessage   string // "Are you sure?"
	DialogErrorText string // shown when a prompt is accepted with no text
	OKText          string // "OK"
	CancelText      string // "Cancel"

	NotifyStyle string        // "success"
	NotifyDelay time.Duration // 4s
}

// StandardDefaults returns the built-in defaults.
func StandardDefaults() Defaults {
	return Defaults{
		BlockMessage:    "Loading, please wait",
		BlockStyle:      "iPhoto",
		BlockDelay:      1500 * time.Millisecond,
		DialogTitle:     "Please confirm",
		DialogMessage:   "Are you sure?",
		DialogErrorText: "Please enter a note",
		OKText:          "OK",
		CancelText:      "Cancel",
		NotifyStyle:     "success",
		NotifyDelay:     4 * time.Second,
	}
}

// merge fills the empty fields of d from fallback.
func (d Defaults) merge(fallback Defaults) Defaults {
	str := func(v *string, f string) {
		if *v == "" {
			*v = f
		}
	}
	dur := func(v *time.Duration, f time.Duration) {
		if *v <= 0 {
			*v = f
		}
	}
	str(&d.BlockMessage, fallback.BlockMessage)
	str(&d.BlockStyle, fallback.BlockStyle)
	dur(&d.BlockDelay, fallback.BlockDelay)
	str(&d.DialogTitle, fallback.DialogTitle)
	str(&d.DialogMessage, fallback.DialogMessage)
	str(&d.DialogErrorText, fallback.DialogErrorText)
	str(&d.OKText, fallback.OKText)
	str(&d.CancelText, fallback.CancelText)
	str(&d.NotifyStyle, fallback.NotifyStyle)
	dur(&d.NotifyDelay, fallback.NotifyDelay)
	return d
}

// BlockOptions configure Block. Empty fields take the engine defaults.
type BlockOptions struct {
	Message string
	Style   string
	// Delay is how long to wait for resources when WaitForResources is set.
	Delay time.Duration
	// WaitForResources arms a timer that reports a resource load failure to
	// the engine's ResourceLoader when it fires.
	WaitForResources bool
	// ForceReload re-creates the block element even if one is shown.
	ForceReload bool
	// OnBlocked runs after the block is presented.
	OnBlocked func()
}

// DialogOptions configure Confirm and Prompt dialogs.
type DialogOptions struct {
	Title      string
	Message    string
	ErrorText  string
	OKText     string
	CancelText string
	// OnOK receives the entered text; it is empty for confirmations.
	OnOK     func(text string)
	OnCancel func()
}

func (o DialogOptions) isZero() bool {
	return o.Title == "" && o.Message == "" && o.ErrorText == "" &&
		o.OKText == "" && o.CancelText == "" && o.OnOK == nil && o.OnCancel == nil
}

// NotifyOptions configure Notify.
type NotifyOptions struct {
	// Delay before the notification dismisses itself.
	Delay time.Duration
	// Sticky notifications stay until closed.
	Sticky bool
}
