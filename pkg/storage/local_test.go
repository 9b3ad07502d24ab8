package stores

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	return NewLocalStore(t.TempDir(), "/media")
}

func TestLocalStoreWriteRead(t *testing.T) {
	s := newTestStore(t)

	payload := []byte("RIFF....fake wav payload")
	require.NoError(t, s.Write("call_20250101120000_a.wav", bytes.NewReader(payload)))

	rc, size, err := s.Read("call_20250101120000_a.wav")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(len(payload)), size)

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestLocalStoreExists(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.Exists("missing.wav")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write("present.wav", bytes.NewReader([]byte("x"))))
	ok, err = s.Exists("present.wav")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLocalStoreDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Write("gone.wav", bytes.NewReader([]byte("x"))))
	require.NoError(t, s.Delete("gone.wav"))

	ok, err := s.Exists("gone.wav")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s := newTestStore(t)

	err := s.Write("../escape.wav", bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, _, err = s.Read("../../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestLocalStoreAbsPath(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Write("a.wav", bytes.NewReader([]byte("x"))))
	p, err := s.AbsPath("a.wav")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(p))

	_, err = os.Stat(p)
	require.NoError(t, err)
}

func TestLocalStoreList(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Write("one.wav", bytes.NewReader([]byte("1"))))
	require.NoError(t, s.Write("two.wav", bytes.NewReader([]byte("2"))))

	keys, err := s.List()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one.wav", "two.wav"}, keys)
}
