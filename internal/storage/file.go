package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Shivanand-hulikatti/eventhub/internal/model"
)

// FileStore keeps each collection in its own JSON file.
type FileStore struct {
	usersPath  string
	eventsPath string
}

// NewFileStore constructs a FileStore for the two document paths.
func NewFileStore(usersPath, eventsPath string) *FileStore {
	return &FileStore{usersPath: usersPath, eventsPath: eventsPath}
}

// LoadUsers reads the users document. A missing file is an empty collection.
func (s *FileStore) LoadUsers(ctx context.Context) (map[string]*model.User, error) {
	data, err := readDocument(s.usersPath)
	if err != nil {
		return nil, err
	}
	users, err := DecodeUsers(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.usersPath, err)
	}
	return users, nil
}

// SaveUsers rewrites the users document.
func (s *FileStore) SaveUsers(ctx context.Context, users map[string]*model.User) error {
	data, err := EncodeUsers(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	return writeDocument(s.usersPath, data)
}

// LoadEvents reads the events document. A missing file is an empty collection.
func (s *FileStore) LoadEvents(ctx context.Context) (map[string]*model.Event, error) {
	data, err := readDocument(s.eventsPath)
	if err != nil {
		return nil, err
	}
	events, err := DecodeEvents(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.eventsPath, err)
	}
	return events, nil
}

// SaveEvents rewrites the events document.
func (s *FileStore) SaveEvents(ctx context.Context, events map[string]*model.Event) error {
	data, err := EncodeEvents(events)
	if err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	return writeDocument(s.eventsPath, data)
}

func readDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeDocument replaces path via a temp file in the same directory so a
// crash mid-write never leaves a truncated document behind.
func writeDocument(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
