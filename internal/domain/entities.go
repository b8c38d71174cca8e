package domain

import (
	"fmt"
	"strings"
	"time"
)

// FileKind classifies a discovered remote node.
type FileKind int

const (
	KindOther FileKind = iota
	KindFolder
	KindVideo
	KindArchive
)

// String returns a human-readable representation of the file kind.
func (k FileKind) String() string {
	switch k {
	case KindFolder:
		return "folder"
	case KindVideo:
		return "video"
	case KindArchive:
		return "archive"
	default:
		return "other"
	}
}

// SizeUnknown marks a file whose byte size was not reported by the provider.
const SizeUnknown int64 = -1

const (
	// MimeFolder is the provider's container mime type.
	MimeFolder = "application/vnd.google-apps.folder"

	// MimeZip is the container-archive mime type.
	MimeZip = "application/zip"
)

// videoSuffixes is the fallback suffix set used when the provider reports
// no usable content type.
var videoSuffixes = []string{".mp4", ".avi", ".mov", ".mkv", ".webm", ".m4v"}

// MediaFile represents a node discovered in the remote store. Values are
// immutable once discovered within a session; ID is the join key when a
// re-fetch produces a fresh value for the same node.
type MediaFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"` // SizeUnknown when not reported
	ModifiedAt time.Time `json:"modifiedAt,omitempty"`
	Parents    []string  `json:"parents,omitempty"`
	ViewURL    string    `json:"viewUrl,omitempty"`
	Kind       FileKind  `json:"kind"`
}

// ClassifyKind derives a FileKind from the provider's content type and the
// file name. The content type is authoritative when present; the suffix
// check is the fallback. Matching is case-insensitive.
func ClassifyKind(mimeType, name string) FileKind {
	lower := strings.ToLower(name)
	switch {
	case mimeType == MimeFolder:
		return KindFolder
	case mimeType == MimeZip || strings.HasSuffix(lower, ".zip"):
		return KindArchive
	case strings.HasPrefix(mimeType, "video/") || HasVideoSuffix(name):
		return KindVideo
	default:
		return KindOther
	}
}

// HasVideoSuffix reports whether the name carries one of the recognized
// video suffixes, case-insensitively.
func HasVideoSuffix(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range videoSuffixes {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsPlayable reports whether the file can be handed to a playback surface.
func (f MediaFile) IsPlayable() bool {
	return f.Kind == KindVideo
}

// Subtype returns the content subtype ("mp4" from "video/mp4"), used by the
// type filter inventory. Empty when the mime type has no subtype.
func (f MediaFile) Subtype() string {
	if _, sub, ok := strings.Cut(f.MimeType, "/"); ok {
		return strings.ToLower(sub)
	}
	return ""
}

// FormattedSize returns the byte size in a human-readable form.
func (f MediaFile) FormattedSize() string {
	if f.Size == SizeUnknown {
		return "Unknown size"
	}
	size := float64(f.Size)
	units := []string{"B", "KB", "MB", "GB"}
	idx := 0
	for size >= 1024 && idx < len(units)-1 {
		size /= 1024
		idx++
	}
	return fmt.Sprintf("%.1f %s", size, units[idx])
}

// FormattedModified returns the last-modified date for display.
func (f MediaFile) FormattedModified() string {
	if f.ModifiedAt.IsZero() {
		return "Unknown date"
	}
	return f.ModifiedAt.Format("2006-01-02")
}

// PathSegment is one breadcrumb element.
type PathSegment struct {
	ID   string
	Name string
}

// FolderPath is the breadcrumb from the selected root to the current view.
// Empty means "viewing the root". All operations return a new path; the
// receiver is never mutated.
type FolderPath []PathSegment

// Push returns the path extended with the given folder.
func (p FolderPath) Push(id, name string) FolderPath {
	next := make(FolderPath, len(p), len(p)+1)
	copy(next, p)
	return append(next, PathSegment{ID: id, Name: name})
}

// Pop returns the path with the last segment removed. Popping an empty
// path returns an empty path.
func (p FolderPath) Pop() FolderPath {
	if len(p) == 0 {
		return p
	}
	next := make(FolderPath, len(p)-1)
	copy(next, p[:len(p)-1])
	return next
}

// TruncateTo returns the path cut down to idx+1 segments, for breadcrumb
// jumps.
func (p FolderPath) TruncateTo(idx int) FolderPath {
	if idx < 0 || idx >= len(p) {
		return p
	}
	next := make(FolderPath, idx+1)
	copy(next, p[:idx+1])
	return next
}

// CurrentID returns the id of the deepest segment, or fallback when the
// path is empty.
func (p FolderPath) CurrentID(fallback string) string {
	if len(p) == 0 {
		return fallback
	}
	return p[len(p)-1].ID
}

// String renders the breadcrumb as "a / b / c".
func (p FolderPath) String() string {
	names := make([]string, len(p))
	for i, seg := range p {
		names[i] = seg.Name
	}
	return strings.Join(names, " / ")
}

// HistoryCap bounds the watch history log; older entries are discarded.
const HistoryCap = 50

// RecentWindow is how many history entries feed the recent tab.
const RecentWindow = 20

// WatchHistoryEntry is one entry in the recency-ordered watch log.
type WatchHistoryEntry struct {
	File      MediaFile `json:"file"`
	WatchedAt time.Time `json:"watchedAt"`
}

// Playlist is a named, ordered collection of media file snapshots.
type Playlist struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Files     []MediaFile `json:"files"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Contains reports whether the playlist already holds the given file id.
func (p Playlist) Contains(fileID string) bool {
	for _, f := range p.Files {
		if f.ID == fileID {
			return true
		}
	}
	return false
}

// WatchedThreshold is the progress fraction at which an item counts as
// watched.
const WatchedThreshold = 0.90

// ProgressRecord tracks playback position for one media file.
type ProgressRecord struct {
	Elapsed   float64   `json:"elapsed"`  // seconds
	Duration  float64   `json:"duration"` // seconds, 0 when unknown
	UpdatedAt time.Time `json:"updatedAt"`
}

// Percent returns the rounded progress percentage, 0 when the duration is
// unknown.
func (r ProgressRecord) Percent() int {
	if r.Duration <= 0 {
		return 0
	}
	return int(r.Elapsed/r.Duration*100 + 0.5)
}

// Watched reports whether the record crosses the watched threshold.
func (r ProgressRecord) Watched() bool {
	if r.Duration <= 0 {
		return false
	}
	return r.Elapsed/r.Duration >= WatchedThreshold
}
