package httperr

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/se/internal/overlay"
	"github.com/jask/se/internal/store"
)

type notification struct {
	message string
	style   string
}

type recordingNotifier struct {
	got []notification
}

func (r *recordingNotifier) Notify(message, style string, _ overlay.NotifyOptions) *overlay.Notice {
	r.got = append(r.got, notification{message, style})
	return nil
}

type staticHandlers store.ErrorHandlers

func (s staticHandlers) ErrorHandlers() store.ErrorHandlers { return store.ErrorHandlers(s) }

func TestNotFoundAlwaysNotifies(t *testing.T) {
	doc := overlay.NewDocument()
	eng := overlay.New(doc, overlay.Config{})
	st := store.New("/", nil)
	called := false
	require.NoError(t, st.Bootstrap(&store.Bootstrap{HTTP: &store.HTTPConfig{
		ErrorHandlers: store.ErrorHandlers{OnNoContent: func() { called = true }},
	}}))

	d := NewDispatcher(st, eng, Messages{}, nil)
	d.HandleError(Response{Status: http.StatusNotFound})

	require.False(t, called)
	el, ok := doc.Find(overlay.ClassNotify)
	require.True(t, ok)
	require.Equal(t, StyleError, el.Style)
	require.Equal(t, DefaultMessages().NotFound, el.Message)
	eng.ActiveNotice().Close()
}

func TestUnregisteredBadRequestIsSilent(t *testing.T) {
	doc := overlay.NewDocument()
	eng := overlay.New(doc, overlay.Config{})
	d := NewDispatcher(store.New("/", nil), eng, Messages{}, nil)
	d.HandleError(Response{Status: http.StatusBadRequest, Body: map[string]any{"field": "name"}})
	require.Empty(t, doc.Elements())
}

func TestStatusTable(t *testing.T) {
	var calls []string
	var badBody any
	h := staticHandlers{
		OnNoContent:           func() { calls = append(calls, "noContent") },
		OnBadRequest:          func(body any) { calls = append(calls, "badRequest"); badBody = body },
		OnUnauthorized:        func() { calls = append(calls, "unauthorized") },
		OnForbidden:           func() { calls = append(calls, "forbidden") },
		OnUnprocessableEntity: func() { calls = append(calls, "unprocessable") },
	}
	n := &recordingNotifier{}
	d := NewDispatcher(h, n, Messages{InternalError: "boom"}, nil)

	for _, status := range []int{204, 400, 401, 403, 422} {
		d.HandleError(Response{Status: status, Body: "payload"})
	}
	require.Equal(t, []string{"noContent", "badRequest", "unauthorized", "forbidden", "unprocessable"}, calls)
	require.Equal(t, "payload", badBody)
	require.Empty(t, n.got)

	d.HandleError(Response{Status: 500})
	d.HandleError(Response{Status: 502})
	d.HandleError(Response{Status: 404})
	require.Equal(t, []notification{
		{"boom", StyleError},
		{DefaultMessages().ConnectionFailed, StyleError},
		{DefaultMessages().NotFound, StyleError},
	}, n.got)
}

func TestHandlerPanicPropagates(t *testing.T) {
	h := staticHandlers{OnForbidden: func() { panic("denied") }}
	d := NewDispatcher(h, &recordingNotifier{}, Messages{}, nil)
	require.PanicsWithValue(t, "denied", func() {
		d.HandleError(Response{Status: http.StatusForbidden})
	})
}

func TestCheckDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bad":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"errors":["name"]}`))
		default:
			_, _ = w.Write([]byte(`ok`))
		}
	}))
	defer srv.Close()

	var body any
	d := NewDispatcher(staticHandlers{OnBadRequest: func(b any) { body = b }}, &recordingNotifier{}, Messages{}, nil)

	resp, err := http.Get(srv.URL + "/bad")
	require.NoError(t, err)
	require.True(t, d.Check(resp))
	require.Equal(t, map[string]any{"errors": []any{"name"}}, body)

	resp, err = http.Get(srv.URL + "/fine")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.False(t, d.Check(resp))
}

func TestTransportErrorNotifies(t *testing.T) {
	n := &recordingNotifier{}
	d := NewDispatcher(staticHandlers{}, n, Messages{}, nil)
	d.HandleTransportError(errors.New("dial tcp: refused"))
	require.Len(t, n.got, 1)
	require.Equal(t, DefaultMessages().ConnectionFailed, n.got[0].message)
}
