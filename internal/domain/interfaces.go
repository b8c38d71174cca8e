package domain

import "context"

// ChildPage is one page of a folder listing.
type ChildPage struct {
	Files         []MediaFile
	NextPageToken string // empty on the last page
}

// RemoteStore is the remote file-store collaborator. Credentials travel
// inside the implementation; callers pass only node identifiers.
type RemoteStore interface {
	// SharedRoots lists the top-level folders shared with the account.
	SharedRoots(ctx context.Context) ([]MediaFile, error)

	// ListChildren returns one page of a folder's children. Callers must
	// keep requesting pages with the returned token until it comes back
	// empty; stopping earlier silently truncates results.
	ListChildren(ctx context.Context, folderID, pageToken string) (ChildPage, error)

	// FetchBytes downloads the raw content of a node.
	FetchBytes(ctx context.Context, fileID string) ([]byte, error)
}

// LibrarySnapshot is a read-only view of persisted library state, consumed
// by the catalog view when deriving filtered listings.
type LibrarySnapshot struct {
	Favorites map[string]bool
	History   []WatchHistoryEntry
	Progress  map[string]ProgressRecord
}

// IsFavorite reports favorite membership for a file id.
func (s LibrarySnapshot) IsFavorite(id string) bool {
	return s.Favorites[id]
}

// ProgressFor returns the progress record for a file id, zero when absent.
func (s LibrarySnapshot) ProgressFor(id string) ProgressRecord {
	return s.Progress[id]
}

// RecentIDs returns the ids of the n most recent history entries, newest
// first.
func (s LibrarySnapshot) RecentIDs(n int) []string {
	if n > len(s.History) {
		n = len(s.History)
	}
	ids := make([]string, 0, n)
	for _, e := range s.History[:n] {
		ids = append(ids, e.File.ID)
	}
	return ids
}
