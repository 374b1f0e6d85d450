package progress

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/abhisek/sqlcoach/internal/logging"
)

// Store reads and writes per-user snapshot files under a single directory.
type Store struct {
	dir string
	log *slog.Logger
}

// NewStore returns a store rooted at dir. The directory is created lazily on
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, log: logging.New("progress")}
}

// Path returns the snapshot file path for a user.
func (s *Store) Path(userID string) string {
	return filepath.Join(s.dir, userID+".json")
}

// Load reads a user's snapshot. A missing file is not an error: it returns
// (nil, nil) so callers can treat the user as new.
func (s *Store) Load(userID string) (*Snapshot, error) {
	data, err := os.ReadFile(s.Path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading progress for %q: %w", userID, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing progress for %q: %w", userID, err)
	}
	return &snap, nil
}

// Save atomically rewrites the user's snapshot file. The snapshot is written
// to a temp file in the same directory and renamed into place, so readers
// never observe a partial file.
func (s *Store) Save(snap *Snapshot) error {
	if snap.UserID == "" {
		return errors.New("progress: snapshot has no user id")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating progress dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding progress for %q: %w", snap.UserID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".progress-*.json")
	if err != nil {
		return fmt.Errorf("creating temp progress file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing progress for %q: %w", snap.UserID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp progress file: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(snap.UserID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing progress for %q: %w", snap.UserID, err)
	}

	s.log.Debug("progress saved",
		"user", snap.UserID,
		"subtopics_completed", snap.SubtopicsCompleted,
		"assessments", len(snap.Assessments))
	return nil
}
