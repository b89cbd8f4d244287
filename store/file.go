package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/JohnBaeGH/smio-app/models"
)

// FileRoomStore keeps one JSON file per room under dir. A single mutex
// serializes read-modify-write cycles; two participants ordering at the
// same moment must not overwrite each other.
type FileRoomStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileRoomStore(dir string) (*FileRoomStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileRoomStore{dir: dir}, nil
}

func (s *FileRoomStore) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\.") {
		return "", fmt.Errorf("invalid room id %q", id)
	}
	return filepath.Join(s.dir, id+".json"), nil
}

func (s *FileRoomStore) save(room *models.Room) error {
	path, err := s.path(room.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(room, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *FileRoomStore) load(id string) (*models.Room, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var room models.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	room.ID = id
	return &room, nil
}

func (s *FileRoomStore) Save(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(room)
}

func (s *FileRoomStore) Load(_ context.Context, id string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// Update holds the lock across the whole load-mutate-save cycle.
func (s *FileRoomStore) Update(_ context.Context, id string, fn func(*models.Room) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.load(id)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrNotFound
	}
	if err := fn(room); err != nil {
		return err
	}
	return s.save(room)
}

// FileLogStore keeps one JSON array per month: logs/orders_2006-01.json.
type FileLogStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileLogStore(dir string) (*FileLogStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileLogStore{dir: dir}, nil
}

func (s *FileLogStore) path(month string) string {
	return filepath.Join(s.dir, "orders_"+month+".json")
}

// read tolerates a corrupt or missing file and starts the month over,
// the log is best-effort bookkeeping.
func (s *FileLogStore) read(month string) []models.LogEntry {
	data, err := os.ReadFile(s.path(month))
	if err != nil {
		return nil
	}
	var entries []models.LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	return entries
}

func (s *FileLogStore) write(month string, entries []models.LogEntry) error {
	if entries == nil {
		entries = []models.LogEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(month), data, 0o644)
}

func (s *FileLogStore) Append(_ context.Context, entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	month := MonthKey(entry.Timestamp)
	entries := append(s.read(month), entry)
	return s.write(month, entries)
}

func (s *FileLogStore) Months(_ context.Context) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "orders_*.json"))
	if err != nil {
		return nil, err
	}

	months := make([]string, 0, len(matches))
	for _, match := range matches {
		base := strings.TrimSuffix(filepath.Base(match), ".json")
		months = append(months, strings.TrimPrefix(base, "orders_"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}

func (s *FileLogStore) Load(_ context.Context, month string) ([]models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read(month), nil
}

func (s *FileLogStore) DeleteEntry(_ context.Context, month string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(month)); os.IsNotExist(err) {
		return ErrNotFound
	}

	entries := s.read(month)
	kept := entries[:0]
	for _, entry := range entries {
		if !entry.Timestamp.Equal(ts) {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return ErrNotFound
	}
	return s.write(month, kept)
}

func (s *FileLogStore) DeleteRoom(_ context.Context, month, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path(month)); os.IsNotExist(err) {
		return ErrNotFound
	}

	entries := s.read(month)
	kept := entries[:0]
	for _, entry := range entries {
		if entry.RoomID != roomID {
			kept = append(kept, entry)
		}
	}
	if len(kept) == len(entries) {
		return ErrNotFound
	}
	return s.write(month, kept)
}

func (s *FileLogStore) DeleteMonth(_ context.Context, month string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path(month))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}
