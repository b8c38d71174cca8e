// Package archive expands container archives into virtual, session-scoped
// media entries.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/drake/drivecast/internal/domain"
)

// Expander turns an archive's bytes into playable virtual entries. Entry
// payloads live in a session-scoped blob store keyed by the virtual id;
// re-expanding the same archive reuses identical ids and replaces the old
// payloads.
type Expander struct {
	blobs  *BlobStore
	logger *slog.Logger
}

// NewExpander creates an expander backed by the given blob store.
func NewExpander(blobs *BlobStore, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{blobs: blobs, logger: logger}
}

// Expand yields a MediaFile per video entry in the archive. Corrupt or
// empty archive bytes produce ErrNoVideosFound, never a hard failure.
func (e *Expander) Expand(archive domain.MediaFile, data []byte) ([]domain.MediaFile, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		e.logger.Warn("unreadable archive", "archive", archive.ID, "error", err)
		return nil, domain.ErrNoVideosFound
	}

	// Supersede any payloads from a previous expansion of this archive.
	e.blobs.ReleaseArchive(archive.ID)

	var entries []domain.MediaFile
	for _, zf := range reader.File {
		if zf.FileInfo().IsDir() || !domain.HasVideoSuffix(zf.Name) {
			continue
		}

		payload, err := readEntry(zf)
		if err != nil {
			e.logger.Warn("skipping unreadable archive entry", "archive", archive.ID, "entry", zf.Name, "error", err)
			continue
		}

		file := virtualEntry(archive, zf.Name, int64(len(payload)))
		e.blobs.put(archive.ID, file.ID, payload)
		entries = append(entries, file)
	}

	if len(entries) == 0 {
		return nil, domain.ErrNoVideosFound
	}

	e.logger.Info("expanded archive", "archive", archive.ID, "videos", len(entries))
	return entries, nil
}

// VirtualID derives the deterministic id for an entry inside an archive,
// so repeated expansion within a session reuses identical ids.
func VirtualID(archiveID, entryPath string) string {
	return fmt.Sprintf("zip_%s_%s", archiveID, entryPath)
}

func virtualEntry(archive domain.MediaFile, entryPath string, size int64) domain.MediaFile {
	suffix := strings.ToLower(strings.TrimPrefix(path.Ext(entryPath), "."))
	return domain.MediaFile{
		ID:       VirtualID(archive.ID, entryPath),
		Name:     entryPath,
		MimeType: "video/" + suffix,
		Size:     size,
		Parents:  []string{archive.ID},
		Kind:     domain.KindVideo,
	}
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// BlobStore holds extracted payloads for the current session. Handles are
// the virtual entry ids; payloads have no persistence obligation.
type BlobStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	byArchive map[string][]string
}

// NewBlobStore creates an empty blob store.
func NewBlobStore() *BlobStore {
	return &BlobStore{
		blobs:     make(map[string][]byte),
		byArchive: make(map[string][]string),
	}
}

// Get dereferences a payload handle.
func (s *BlobStore) Get(handle string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[handle]
	return data, ok
}

// ReleaseArchive invalidates every payload extracted from one archive.
func (s *BlobStore) ReleaseArchive(archiveID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, handle := range s.byArchive[archiveID] {
		delete(s.blobs, handle)
	}
	delete(s.byArchive, archiveID)
}

// ReleaseAll drops every payload; session teardown calls this.
func (s *BlobStore) ReleaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = make(map[string][]byte)
	s.byArchive = make(map[string][]string)
}

func (s *BlobStore) put(archiveID, handle string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[handle] = data
	s.byArchive[archiveID] = append(s.byArchive[archiveID], handle)
}
