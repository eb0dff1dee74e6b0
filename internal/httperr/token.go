package httperr

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// HeaderAuthorization carries the session token in both directions.
const HeaderAuthorization = "Authorization"

// TokenStore keeps the session token.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
}

// TokenTransport attaches the stored token to outgoing requests and stores
// any token the server sends back.
type TokenTransport struct {
	Base   http.RoundTripper
	Tokens TokenStore
	Log    *zap.Logger
}

func (t *TokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	log := t.Log
	if log == nil {
		log = zap.NewNop()
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	tok, err := t.Tokens.Token(ctx)
	if err != nil {
		log.Warn("read session token", zap.Error(err))
	}
	if tok != "" {
		req = req.Clone(ctx)
		req.Header.Set(HeaderAuthorization, tok)
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if got := resp.Header.Get(HeaderAuthorization); got != "" {
		if err := t.Tokens.SetToken(ctx, got); err != nil {
			log.Warn("store session token", zap.Error(err))
		}
	}
	return resp, nil
}
