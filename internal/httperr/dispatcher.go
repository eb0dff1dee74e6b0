// Package httperr routes failed HTTP responses to the handlers registered at
// bootstrap, falling back to user-visible notifications. Nothing here
// returns an error to the caller.
package httperr

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/jask/se/internal/overlay"
	"github.com/jask/se/internal/store"
)

// StyleError is the notification style used for failures.
const StyleError = "error"

// Messages are the fixed notifications for statuses without handlers.
type Messages struct {
	NotFound         string
	InternalError    string
	ConnectionFailed string
}

func DefaultMessages() Messages {
	return Messages{
		NotFound:         "The requested data was not found. Please contact your administrator.",
		InternalError:    "An error occurred while processing your request. Please contact your administrator.",
		ConnectionFailed: "Connection to the server failed. The system will try again; please wait or refresh now.",
	}
}

// HandlerSource supplies the current error handler table.
type HandlerSource interface {
	ErrorHandlers() store.ErrorHandlers
}

// Notifier shows notifications.
type Notifier interface {
	Notify(message, style string, opts overlay.NotifyOptions) *overlay.Notice
}

// Response describes a failed response. Body holds the decoded JSON body,
// if any.
type Response struct {
	Status int
	Body   any
}

type Dispatcher struct {
	handlers HandlerSource
	notifier Notifier
	messages Messages
	log      *zap.Logger
}

func NewDispatcher(h HandlerSource, n Notifier, msgs Messages, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	def := DefaultMessages()
	if msgs.NotFound == "" {
		msgs.NotFound = def.NotFound
	}
	if msgs.InternalError == "" {
		msgs.InternalError = def.InternalError
	}
	if msgs.ConnectionFailed == "" {
		msgs.ConnectionFailed = def.ConnectionFailed
	}
	return &Dispatcher{handlers: h, notifier: n, messages: msgs, log: log}
}

// HandleError dispatches r by status. Panics raised by registered handlers
// propagate to the caller.
func (d *Dispatcher) HandleError(r Response) {
	h := d.handlers.ErrorHandlers()
	d.log.Debug("dispatching http error", zap.Int("status", r.Status))
	switch r.Status {
	case http.StatusNoContent:
		if h.OnNoContent != nil {
			h.OnNoContent()
		}
	case http.StatusBadRequest:
		if h.OnBadRequest != nil {
			h.OnBadRequest(r.Body)
		}
	case http.StatusUnauthorized:
		if h.OnUnauthorized != nil {
			h.OnUnauthorized()
		}
	case http.StatusForbidden:
		if h.OnForbidden != nil {
			h.OnForbidden()
		}
	case http.StatusNotFound:
		d.notifier.Notify(d.messages.NotFound, StyleError, overlay.NotifyOptions{})
	case http.StatusUnprocessableEntity:
		if h.OnUnprocessableEntity != nil {
			h.OnUnprocessableEntity()
		}
	case http.StatusInternalServerError:
		d.notifier.Notify(d.messages.InternalError, StyleError, overlay.NotifyOptions{})
	default:
		d.log.Warn("unexpected http status", zap.Int("status", r.Status))
		d.notifier.Notify(d.messages.ConnectionFailed, StyleError, overlay.NotifyOptions{})
	}
}

// Check dispatches resp when it is a failure (204 or any 4xx/5xx) and
// reports whether it did. The body of a dispatched response is consumed.
func (d *Dispatcher) Check(resp *http.Response) bool {
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode < http.StatusBadRequest {
		return false
	}
	d.HandleError(FromHTTP(resp))
	return true
}

// HandleTransportError reports a request that never got a response.
func (d *Dispatcher) HandleTransportError(err error) {
	d.log.Warn("http transport failure", zap.Error(err))
	d.HandleError(Response{})
}

// FromHTTP reads and closes the body of resp and decodes it as JSON. A body
// that is not JSON leaves Body nil.
func FromHTTP(resp *http.Response) Response {
	out := Response{Status: resp.StatusCode}
	if resp.Body == nil {
		return out
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil || len(data) == 0 {
		return out
	}
	var body any
	if err := json.Unmarshal(data, &body); err == nil {
		out.Body = body
	}
	return out
}
