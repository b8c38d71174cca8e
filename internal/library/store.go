// Package library is the single source of truth for favorites, watch
// history, playlists, and playback progress. Every mutation is persisted
// before it is visible to readers.
package library

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/drake/drivecast/internal/domain"
)

// Bucket names, one per persisted category. A corrupt value under one key
// never blocks the others from loading.
var (
	bucketFavorites = []byte("favorites")
	bucketHistory   = []byte("history")
	bucketPlaylists = []byte("playlists")
	bucketProgress  = []byte("progress")
)

// Each bucket keeps its whole category under a single key, mirroring the
// four persistence keys of the storage collaborator.
const categoryKey = "state"

// Store owns the persisted library state.
type Store struct {
	db     *bolt.DB
	logger *slog.Logger

	mu        sync.RWMutex
	favorites map[string]bool
	history   []domain.WatchHistoryEntry
	playlists []domain.Playlist
	progress  map[string]domain.ProgressRecord
}

// Open opens (or creates) the library database and restores all four
// categories. A category whose raw value fails to parse is purged from
// storage and falls back to its empty default; the rest load normally.
// An empty dir runs the store memory-only, for tests.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		logger:    logger,
		favorites: make(map[string]bool),
		progress:  make(map[string]domain.ProgressRecord),
	}

	if dir == "" {
		return s, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, "library.db"), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open library db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketFavorites, bucketHistory, bucketPlaylists, bucketProgress} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	s.restore()
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// restore loads each category independently, purging corrupt values so a
// bad blob cannot fail the same way on every startup.
func (s *Store) restore() {
	var favIDs []string
	if s.loadCategory(bucketFavorites, &favIDs) {
		for _, id := range favIDs {
			s.favorites[id] = true
		}
	}
	s.loadCategory(bucketHistory, &s.history)
	s.loadCategory(bucketPlaylists, &s.playlists)

	var progress map[string]domain.ProgressRecord
	if s.loadCategory(bucketProgress, &progress) && progress != nil {
		s.progress = progress
	}
}

// loadCategory reads one bucket's value into dest. Returns false when the
// value is absent or corrupt; corrupt values are deleted.
func (s *Store) loadCategory(bucket []byte, dest interface{}) bool {
	var raw []byte
	s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucket).Get([]byte(categoryKey)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if raw == nil {
		return false
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("discarding corrupt library state", "category", string(bucket), "error", err)
		s.db.Update(func(tx *bolt.Tx) error {
			return tx.Bucket(bucket).Delete([]byte(categoryKey))
		})
		return false
	}
	return true
}

// persist writes one category's full value. Mutations call this before
// committing to memory so a write failure leaves state untouched.
func (s *Store) persist(bucket []byte, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if s.db == nil {
		return nil // memory-only mode
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(categoryKey), data)
	})
}

// === Favorites ===

// ToggleFavorite flips membership for the given id and returns the new
// membership state.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]bool, len(s.favorites)+1)
	for k := range s.favorites {
		next[k] = true
	}
	member := !next[id]
	if member {
		next[id] = true
	} else {
		delete(next, id)
	}

	ids := make([]string, 0, len(next))
	for k := range next {
		ids = append(ids, k)
	}
	if err := s.persist(bucketFavorites, ids); err != nil {
		return s.favorites[id], err
	}

	s.favorites = next
	return member, nil
}

// IsFavorite reports favorite membership.
func (s *Store) IsFavorite(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites[id]
}

// === Watch history ===

// RecordWatch inserts the file at the front of the history log,
// de-duplicated by id and capped at HistoryCap entries.
func (s *Store) RecordWatch(file domain.MediaFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.WatchHistoryEntry, 0, len(s.history)+1)
	next = append(next, domain.WatchHistoryEntry{File: file, WatchedAt: time.Now()})
	for _, e := range s.history {
		if e.File.ID != file.ID {
			next = append(next, e)
		}
	}
	if len(next) > domain.HistoryCap {
		next = next[:domain.HistoryCap]
	}

	if err := s.persist(bucketHistory, next); err != nil {
		return err
	}
	s.history = next
	return nil
}

// History returns the watch log, newest first.
func (s *Store) History() []domain.WatchHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WatchHistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

// === Playlists ===

// CreatePlaylist creates an empty playlist. Empty or whitespace-only names
// are ignored and no record is created.
func (s *Store) CreatePlaylist(name string) (*domain.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pl := domain.Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		Files:     []domain.MediaFile{},
		CreatedAt: time.Now(),
	}
	next := append(clonePlaylists(s.playlists), pl)

	if err := s.persist(bucketPlaylists, next); err != nil {
		return nil, err
	}
	s.playlists = next
	return &pl, nil
}

// AddToPlaylist appends the file to the playlist. Adding a file that is
// already present returns ErrAlreadyInPlaylist and changes nothing.
func (s *Store) AddToPlaylist(file domain.MediaFile, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clonePlaylists(s.playlists)
	idx := findPlaylist(next, playlistID)
	if idx < 0 {
		return domain.ErrPlaylistNotFound
	}
	if next[idx].Contains(file.ID) {
		return domain.ErrAlreadyInPlaylist
	}
	next[idx].Files = append(next[idx].Files, file)

	if err := s.persist(bucketPlaylists, next); err != nil {
		return err
	}
	s.playlists = next
	return nil
}

// RemoveFromPlaylist removes the file from the playlist; removing an
// absent file is a no-op.
func (s *Store) RemoveFromPlaylist(fileID, playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := clonePlaylists(s.playlists)
	idx := findPlaylist(next, playlistID)
	if idx < 0 {
		return domain.ErrPlaylistNotFound
	}

	kept := next[idx].Files[:0:0]
	for _, f := range next[idx].Files {
		if f.ID != fileID {
			kept = append(kept, f)
		}
	}
	next[idx].Files = kept

	if err := s.persist(bucketPlaylists, next); err != nil {
		return err
	}
	s.playlists = next
	return nil
}

// DeletePlaylist removes the playlist unconditionally.
func (s *Store) DeletePlaylist(playlistID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Playlist, 0, len(s.playlists))
	for _, pl := range s.playlists {
		if pl.ID != playlistID {
			next = append(next, pl)
		}
	}

	if err := s.persist(bucketPlaylists, next); err != nil {
		return err
	}
	s.playlists = next
	return nil
}

// Playlists returns all playlists.
func (s *Store) Playlists() []domain.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePlaylists(s.playlists)
}

// === Progress ===

// UpdateProgress upserts the progress record for one file. Recording the
// watch-history side effect is the caller's responsibility.
func (s *Store) UpdateProgress(id string, elapsed, duration float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]domain.ProgressRecord, len(s.progress)+1)
	for k, v := range s.progress {
		next[k] = v
	}
	next[id] = domain.ProgressRecord{
		Elapsed:   elapsed,
		Duration:  duration,
		UpdatedAt: time.Now(),
	}

	if err := s.persist(bucketProgress, next); err != nil {
		return err
	}
	s.progress = next
	return nil
}

// ProgressFor returns the progress record for one file, zero when absent.
func (s *Store) ProgressFor(id string) domain.ProgressRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress[id]
}

// Snapshot returns a read-only copy of all state for the catalog view.
func (s *Store) Snapshot() domain.LibrarySnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	favs := make(map[string]bool, len(s.favorites))
	for k := range s.favorites {
		favs[k] = true
	}
	hist := make([]domain.WatchHistoryEntry, len(s.history))
	copy(hist, s.history)
	prog := make(map[string]domain.ProgressRecord, len(s.progress))
	for k, v := range s.progress {
		prog[k] = v
	}

	return domain.LibrarySnapshot{Favorites: favs, History: hist, Progress: prog}
}

func clonePlaylists(in []domain.Playlist) []domain.Playlist {
	out := make([]domain.Playlist, len(in))
	copy(out, in)
	for i := range out {
		files := make([]domain.MediaFile, len(out[i].Files))
		copy(files, out[i].Files)
		out[i].Files = files
	}
	return out
}

func findPlaylist(playlists []domain.Playlist, id string) int {
	for i := range playlists {
		if playlists[i].ID == id {
			return i
		}
	}
	return -1
}
