package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"mikune/models"

	log "github.com/sirupsen/logrus"
)

// ErrReadOnlyStore is returned when saving through a read-only store
var ErrReadOnlyStore = errors.New("snapshot store is read-only")

// Snapshot is the whole economy keyed by user id
type Snapshot map[string]*models.Account

// SnapshotStore loads and saves the whole economy at once
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snapshot Snapshot) error
}

// FileSnapshotStore keeps the economy in a single JSON file
type FileSnapshotStore struct {
	path     string
	readOnly bool
}

// NewFileSnapshotStore creates a store backed by path
func NewFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path}
}

// NewReadOnlyFileSnapshotStore opens path for reading only. Load fails
// instead of resetting a missing or malformed file, and nothing is written.
func NewReadOnlyFileSnapshotStore(path string) *FileSnapshotStore {
	return &FileSnapshotStore{path: path, readOnly: true}
}

// QuarantinePath is where records that fail to decode are kept
func (s *FileSnapshotStore) QuarantinePath() string {
	return s.path + ".rejected.json"
}

// Load reads the file. A missing file or one that is not a JSON object is
// replaced with an empty economy. Individual records that cannot be decoded
// are moved to the quarantine file and the rest load normally.
func (s *FileSnapshotStore) Load(ctx context.Context) (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if s.readOnly {
			return nil, fmt.Errorf("economy file %s not found: %w", s.path, err)
		}
		log.WithField("path", s.path).Info("Economy file not found, starting empty")
		return s.reset(ctx, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read economy file: %w", err)
	}

	snapshot, rejected, err := decodeSnapshot(data)
	if err != nil {
		if s.readOnly {
			return nil, fmt.Errorf("failed to parse economy file %s: %w", s.path, err)
		}
		log.WithFields(log.Fields{
			"path":  s.path,
			"error": err,
		}).Warn("Economy file is corrupt, starting empty")
		return s.reset(ctx, data)
	}

	if len(rejected) > 0 && !s.readOnly {
		if err := s.quarantine(rejected); err != nil {
			return nil, err
		}
	}
	return snapshot, nil
}

// reset backs up unreadable contents and writes an empty economy
func (s *FileSnapshotStore) reset(ctx context.Context, previous []byte) (Snapshot, error) {
	if len(previous) > 0 {
		if err := os.WriteFile(s.path+".corrupt", previous, 0o644); err != nil {
			return nil, fmt.Errorf("failed to back up corrupt economy file: %w", err)
		}
	}

	snapshot := Snapshot{}
	if err := s.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// quarantine merges rejected records into the quarantine file
func (s *FileSnapshotStore) quarantine(rejected map[string]json.RawMessage) error {
	existing := map[string]json.RawMessage{}
	if data, err := os.ReadFile(s.QuarantinePath()); err == nil {
		if err := json.Unmarshal(data, &existing); err != nil {
			existing = map[string]json.RawMessage{}
		}
	}
	for userID, raw := range rejected {
		existing[userID] = raw
	}

	data, err := json.MarshalIndent(existing, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal rejected records: %w", err)
	}
	if err := writeFileAtomic(s.QuarantinePath(), data); err != nil {
		return fmt.Errorf("failed to quarantine rejected records: %w", err)
	}

	log.WithFields(log.Fields{
		"path":     s.QuarantinePath(),
		"accounts": len(rejected),
	}).Warn("Quarantined economy records that could not be decoded")
	return nil
}

// Save writes a temp file next to the target and renames it into place
func (s *FileSnapshotStore) Save(_ context.Context, snapshot Snapshot) error {
	if s.readOnly {
		return ErrReadOnlyStore
	}

	data, err := json.MarshalIndent(snapshot, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal economy: %w", err)
	}
	return writeFileAtomic(s.path, data)
}

func writeFileAtomic(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write economy file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace economy file: %w", err)
	}
	return nil
}

// MemorySnapshotStore keeps the encoded economy in memory. Each Load decodes
// a fresh copy so callers never share account pointers.
type MemorySnapshotStore struct {
	mu   sync.Mutex
	data []byte
}

// NewMemorySnapshotStore creates an empty in-memory store
func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{}
}

func (s *MemorySnapshotStore) Load(_ context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data) == 0 {
		return Snapshot{}, nil
	}
	snapshot, _, err := decodeSnapshot(s.data)
	return snapshot, err
}

func (s *MemorySnapshotStore) Save(_ context.Context, snapshot Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal economy: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

// decodeSnapshot decodes each account on its own. Only a document that is
// not a JSON object is an error; records that fail to decode are returned
// in rejected.
func decodeSnapshot(data []byte) (Snapshot, map[string]json.RawMessage, error) {
	records := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, err
	}

	snapshot := make(Snapshot, len(records))
	rejected := map[string]json.RawMessage{}
	for userID, raw := range records {
		var account *models.Account
		if err := json.Unmarshal(raw, &account); err != nil {
			log.WithFields(log.Fields{
				"user_id": userID,
				"error":   err,
			}).Warn("Skipping economy record that could not be decoded")
			rejected[userID] = raw
			continue
		}
		if account == nil {
			continue
		}
		account.UserID = userID
		snapshot[userID] = account
	}
	return snapshot, rejected, nil
}
