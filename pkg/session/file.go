package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/termmap/pkg/cache"
)

// FileStore keeps sessions in a [cache.FileCache], one expiring entry per
// session id.
type FileStore struct {
	files *cache.FileCache
}

// NewFileStore opens a store in dir. An empty dir selects termmap/sessions
// under the user cache directory.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("locate cache dir: %w", err)
		}
		dir = filepath.Join(base, "termmap", "sessions")
	}
	files, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{files: files}, nil
}

// validID rejects anything but a UUID so ids never reach the filesystem
// unchecked.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	if !validID(id) {
		return nil, nil
	}
	data, ok, err := s.files.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		_ = s.files.Delete(ctx, id)
		return nil, nil
	}
	if sess.IsExpired() {
		_ = s.files.Delete(ctx, id)
		return nil, nil
	}
	return &sess, nil
}

// Set writes sess with a ttl reaching its expiry. An already expired
// session removes any stored copy.
func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	if !validID(sess.ID) {
		return fmt.Errorf("invalid session id %q", sess.ID)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.files.Delete(ctx, sess.ID)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.files.Set(ctx, sess.ID, data, ttl); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	return s.files.Delete(ctx, id)
}

func (s *FileStore) Cleanup(ctx context.Context) error {
	_, err := s.files.Prune(ctx)
	return err
}

func (s *FileStore) Close() error { return nil }
