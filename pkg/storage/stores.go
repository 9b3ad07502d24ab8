package stores

import (
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid storage path")

// Store is the audio store: a flat keyspace of uploaded recordings.
// Keys are relative names; the local backend maps them under its root.
type Store interface {
	Read(key string) (io.ReadCloser, int64, error)
	Write(key string, r io.Reader) error
	Delete(key string) error
	Exists(key string) (bool, error)
	// AbsPath resolves a key to a local filesystem path for handing to the
	// transcription service.
	AbsPath(key string) (string, error)
	PublicURL(key string) string
}
