package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetTokenRoundtrip(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())
	require.NoError(t, s.Set("jwt-abc"))

	got, err := s.Token()
	require.NoError(t, err)
	require.Equal(t, "jwt-abc", got)
	require.True(t, s.LoggedIn())
}

func TestTokenAbsent(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())
	got, err := s.Token()
	require.NoError(t, err)
	require.Empty(t, got)
	require.False(t, s.LoggedIn())
}

func TestClear(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())
	require.NoError(t, s.Set("jwt-abc"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear()) // clearing twice is fine

	got, err := s.Token()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSetReplacesPrevious(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())
	require.NoError(t, s.Set("first"))
	require.NoError(t, s.Set("second"))

	got, err := s.Token()
	require.NoError(t, err)
	require.Equal(t, "second", got)
}

func TestEmptyTokenRejected(t *testing.T) {
	t.Parallel()

	s := NewStore(t.TempDir())
	require.Error(t, s.Set(""))
}

func TestTokenFileIsNotPlainText(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Set("super-secret-token"))

	data, err := os.ReadFile(filepath.Join(dir, fileName))
	require.NoError(t, err)
	require.NotContains(t, string(data), "super-secret-token")
}
