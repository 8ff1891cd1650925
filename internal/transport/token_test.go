package transport

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokenFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func startTokenSource(t *testing.T, path string) *FileTokenSource {
	t.Helper()
	src, err := NewFileTokenSource(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = src.Close() })
	return src
}

func currentToken(t *testing.T, src *FileTokenSource) string {
	t.Helper()
	tok, err := src.Token()
	if err != nil {
		return ""
	}
	return tok.AccessToken
}

func TestFileTokenSource(t *testing.T) {
	src := startTokenSource(t, newTokenFile(t, "secret-1\n"))

	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret-1", tok.AccessToken)
	assert.Equal(t, "Bearer", tok.TokenType)
}

func TestFileTokenSource_ReloadsOnWrite(t *testing.T) {
	path := newTokenFile(t, "secret-1")
	src := startTokenSource(t, path)
	require.NotNil(t, src.watcher)

	require.NoError(t, os.WriteFile(path, []byte("secret-2\n"), 0o600))

	require.Eventually(t, func() bool {
		return currentToken(t, src) == "secret-2"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFileTokenSource_ReloadsOnAtomicReplace(t *testing.T) {
	path := newTokenFile(t, "secret-1")
	src := startTokenSource(t, path)
	require.NotNil(t, src.watcher)

	tmp := filepath.Join(filepath.Dir(path), ".token.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("secret-2"), 0o600))
	require.NoError(t, os.Rename(tmp, path))

	require.Eventually(t, func() bool {
		return currentToken(t, src) == "secret-2"
	}, 5*time.Second, 10*time.Millisecond)

	// The watch is on the directory, so later writes to the new inode count too.
	require.NoError(t, os.WriteFile(path, []byte("secret-3"), 0o600))
	require.Eventually(t, func() bool {
		return currentToken(t, src) == "secret-3"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFileTokenSource_IgnoresSiblingFiles(t *testing.T) {
	path := newTokenFile(t, "secret-1")
	src := startTokenSource(t, path)

	sibling := filepath.Join(filepath.Dir(path), "other")
	require.NoError(t, os.WriteFile(sibling, []byte("not-a-token"), 0o600))

	require.Never(t, func() bool {
		return currentToken(t, src) != "secret-1"
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestFileTokenSource_KeepsTokenWhenEmptied(t *testing.T) {
	path := newTokenFile(t, "secret-1")
	src := startTokenSource(t, path)

	require.NoError(t, os.WriteFile(path, nil, 0o600))
	assert.ErrorIs(t, src.reload(), ErrNoToken)

	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "secret-1", tok.AccessToken)

	require.NoError(t, os.WriteFile(path, []byte("secret-2"), 0o600))
	require.Eventually(t, func() bool {
		return currentToken(t, src) == "secret-2"
	}, 5*time.Second, 10*time.Millisecond)
}

func TestFileTokenSource_KeepsTokenWhenRemoved(t *testing.T) {
	path := newTokenFile(t, "secret-1")
	src := startTokenSource(t, path)

	require.NoError(t, os.Remove(path))
	assert.Error(t, src.reload())
	assert.Equal(t, "secret-1", currentToken(t, src))
}

func TestFileTokenSource_EmptyFile(t *testing.T) {
	_, err := NewFileTokenSource(newTokenFile(t, "  \n"))
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestFileTokenSource_MissingFile(t *testing.T) {
	_, err := NewFileTokenSource(filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFileTokenSource_CloseTwice(t *testing.T) {
	src, err := NewFileTokenSource(newTokenFile(t, "secret-1"))
	require.NoError(t, err)
	assert.NoError(t, src.Close())
	assert.NoError(t, src.Close())
}
