package dedupe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"mrsummarizer/internal/logger"
)

type fileRecord struct {
	ProcessedIDs []string  `json:"processed_ids"`
	LastUpdated  time.Time `json:"last_updated"`
}

// FileStore keeps the processed set in memory and rewrites a JSON file on
// Persist. A corrupt or missing file yields an empty set rather than an
// error, matching the store's append-only usage.
type FileStore struct {
	path string
	log  logger.Logger

	mu  sync.RWMutex
	ids map[string]struct{}
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	s := &FileStore{
		path: path,
		log:  log,
		ids:  make(map[string]struct{}),
	}
	s.load()
	return s
}

func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Infow("No existing dedupe state file", "path", s.path)
			return
		}
		s.log.Errorw("Failed to read dedupe state file, starting empty",
			"path", s.path,
			"error", err,
		)
		return
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.log.Errorw("Failed to decode dedupe state file, starting empty",
			"path", s.path,
			"error", err,
		)
		return
	}

	for _, id := range record.ProcessedIDs {
		s.ids[id] = struct{}{}
	}
	s.log.Infow("Loaded dedupe state", "path", s.path, "count", len(s.ids))
}

func (s *FileStore) Add(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
	return nil
}

func (s *FileStore) Contains(_ context.Context, id string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok, nil
}

func (s *FileStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids), nil
}

func (s *FileStore) All(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Persist rewrites the whole file through a temp-and-rename so a crash mid-
// write never truncates existing state.
func (s *FileStore) Persist(_ context.Context) error {
	s.mu.RLock()
	record := fileRecord{
		ProcessedIDs: make([]string, 0, len(s.ids)),
		LastUpdated:  time.Now().UTC(),
	}
	for id := range s.ids {
		record.ProcessedIDs = append(record.ProcessedIDs, id)
	}
	s.mu.RUnlock()

	sort.Strings(record.ProcessedIDs)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode dedupe state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".dedupe-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp dedupe file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write dedupe state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp dedupe file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace dedupe state file: %w", err)
	}

	return nil
}
