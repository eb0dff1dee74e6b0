package httperr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type memTokens struct{ tok string }

func (m *memTokens) Token(context.Context) (string, error)        { return m.tok, nil }
func (m *memTokens) SetToken(_ context.Context, tok string) error { m.tok = tok; return nil }

func TestTokenTransport(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(HeaderAuthorization))
		if r.URL.Path == "/login" {
			w.Header().Set(HeaderAuthorization, "Bearer abc")
		}
	}))
	defer srv.Close()

	tokens := &memTokens{}
	client := &http.Client{Transport: &TokenTransport{Tokens: tokens}}

	resp, err := client.Get(srv.URL + "/login")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "Bearer abc", tokens.tok)

	resp, err = client.Get(srv.URL + "/me")
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, []string{"", "Bearer abc"}, seen)
}
