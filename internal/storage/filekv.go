package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// kvFile is the on-disk layout of the file backend.
type kvFile struct {
	Version string            `yaml:"version"`
	Items   map[string]string `yaml:"items"`
}

// FileStore implements KeyValueStore with a single YAML document. Every
// operation re-reads the file under a lock so several processes can share it.
type FileStore struct {
	path string
	lock *flock.Flock
}

// NewFileStore creates a FileStore backed by the YAML file at path. The file
// is created lazily on the first write.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("opening file store: path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("opening file store: creating directory: %w", err)
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the location of the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) GetItem(key string) (string, bool, error) {
	if err := s.lock.RLock(); err != nil {
		return "", false, fmt.Errorf("reading %s: acquiring lock: %w", key, err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := s.load()
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	v, ok := data.Items[key]
	return v, ok, nil
}

func (s *FileStore) SetItem(key, value string) error {
	return s.update(func(items map[string]string) {
		items[key] = value
	})
}

func (s *FileStore) RemoveItem(key string) error {
	return s.update(func(items map[string]string) {
		delete(items, key)
	})
}

// Close releases the lock file handle.
func (s *FileStore) Close() error {
	return s.lock.Close()
}

func (s *FileStore) update(mutate func(items map[string]string)) error {
	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("writing store: acquiring lock: %w", err)
	}
	defer func() { _ = s.lock.Unlock() }()

	data, err := s.load()
	if err != nil {
		return fmt.Errorf("writing store: %w", err)
	}
	mutate(data.Items)
	return s.save(data)
}

func (s *FileStore) load() (kvFile, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return kvFile{Version: "1.0", Items: make(map[string]string)}, nil
		}
		return kvFile{}, fmt.Errorf("loading %s: %w", s.path, err)
	}

	var data kvFile
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return kvFile{}, fmt.Errorf("loading %s: parsing YAML: %w", s.path, err)
	}
	if data.Items == nil {
		data.Items = make(map[string]string)
	}
	if data.Version == "" {
		data.Version = "1.0"
	}
	return data, nil
}

func (s *FileStore) save(data kvFile) error {
	out, err := yaml.Marshal(&data)
	if err != nil {
		return fmt.Errorf("saving store: marshaling YAML: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".kv-*.tmp")
	if err != nil {
		return fmt.Errorf("saving store: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: setting permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("saving store: replacing %s: %w", s.path, err)
	}
	return nil
}
