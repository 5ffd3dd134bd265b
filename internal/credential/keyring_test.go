package credential

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TokenLifecycle(t *testing.T) {
	s := NewStore(keyring.NewArrayKeyring(nil))

	tok, err := s.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, tok, "missing token is not an error")

	require.NoError(t, s.SaveToken("abc"))
	tok, err = s.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	require.NoError(t, s.ClearToken())
	tok, err = s.LoadToken()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, s.ClearToken(), "clearing twice is fine")
}

func TestStore_OtherKeys(t *testing.T) {
	s := NewStore(keyring.NewArrayKeyring([]keyring.Item{{Key: "k", Data: []byte("v")}}))

	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}
