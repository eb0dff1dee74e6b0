package secrets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	s, err := NewSealer("test")
	require.NoError(t, err)

	a, err := s.Seal("Bearer abc")
	require.NoError(t, err)
	b, err := s.Seal("Bearer abc")
	require.NoError(t, err)
	require.NotEqual(t, a, b, "nonce must differ")

	got, err := s.Open(a)
	require.NoError(t, err)
	require.Equal(t, "Bearer abc", got)
}

func TestOpenRejectsForeignValues(t *testing.T) {
	s, err := NewSealer("one")
	require.NoError(t, err)
	other, err := NewSealer("two")
	require.NoError(t, err)

	sealed, err := other.Seal("x")
	require.NoError(t, err)

	for _, in := range []string{"plain token", "", "AAAA", sealed} {
		_, err := s.Open(in)
		require.ErrorIs(t, err, ErrMalformed, in)
	}
}
