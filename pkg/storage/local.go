package stores

import (
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

type LocalStore struct {
	Root        string
	MediaPrefix string
	NewDirPerm  os.FileMode
}

func NewLocalStore(root, mediaPrefix string) *LocalStore {
	return &LocalStore{
		Root:        root,
		MediaPrefix: mediaPrefix,
		NewDirPerm:  0755,
	}
}

// resolve joins key under the absolute root and rejects path traversal.
func (l *LocalStore) resolve(key string) (string, error) {
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return "", err
	}
	fname := filepath.Clean(filepath.Join(root, key))
	if !strings.HasPrefix(fname, root) {
		return "", ErrInvalidPath
	}
	return fname, nil
}

// AbsPath implements Store.
func (l *LocalStore) AbsPath(key string) (string, error) {
	return l.resolve(key)
}

// Exists implements Store.
func (l *LocalStore) Exists(key string) (bool, error) {
	fname, err := l.resolve(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(fname)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Read implements Store.
func (l *LocalStore) Read(key string) (io.ReadCloser, int64, error) {
	fname, err := l.resolve(key)
	if err != nil {
		return nil, 0, err
	}
	st, err := os.Stat(fname)
	if err != nil {
		return nil, 0, err
	}
	f, err := os.Open(fname)
	if err != nil {
		return nil, 0, err
	}
	return f, st.Size(), nil
}

// Write implements Store. The payload is fully copied before Write returns;
// callers rely on the file being durable before any database mutation.
func (l *LocalStore) Write(key string, r io.Reader) error {
	fname, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(fname), l.NewDirPerm); err != nil {
		return err
	}
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Delete implements Store.
func (l *LocalStore) Delete(key string) error {
	fname, err := l.resolve(key)
	if err != nil {
		return err
	}
	return os.Remove(fname)
}

func (l *LocalStore) PublicURL(key string) string {
	prefix := l.MediaPrefix
	if prefix == "" {
		prefix = "/media"
	}
	return path.Join(prefix, key)
}

// ModTime returns the last-modified time of a stored file.
func (l *LocalStore) ModTime(key string) (time.Time, error) {
	fname, err := l.resolve(key)
	if err != nil {
		return time.Time{}, err
	}
	st, err := os.Stat(fname)
	if err != nil {
		return time.Time{}, err
	}
	return st.ModTime(), nil
}

// List returns all keys currently present in the store.
func (l *LocalStore) List() ([]string, error) {
	root, err := filepath.Abs(l.Root)
	if err != nil {
		return nil, err
	}
	var keys []string
	err = filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		keys = append(keys, filepath.ToSlash(rel))
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return keys, err
}
