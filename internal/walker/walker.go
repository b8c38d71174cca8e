// Package walker discovers media in the remote folder hierarchy, either one
// level at a time for browsing or as a full-subtree video scan.
package walker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/drake/drivecast/internal/domain"
)

const defaultFanOut = 4

// Listing is a single-level browse result: subfolders plus the playable or
// expandable files among the immediate children. Other kinds are discarded.
type Listing struct {
	Folders []domain.MediaFile
	Files   []domain.MediaFile // videos and archives
}

// Walker traverses the remote hierarchy.
type Walker struct {
	store  domain.RemoteStore
	fanOut int
	logger *slog.Logger
}

// New creates a walker. fanOut bounds how many sibling branches fetch
// concurrently during a recursive scan.
func New(store domain.RemoteStore, fanOut int, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = slog.Default()
	}
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &Walker{store: store, fanOut: fanOut, logger: logger}
}

// listAll accumulates every page of one node's children. The loop exits
// only when the continuation token comes back empty; exiting on page count
// would silently truncate large folders.
func (w *Walker) listAll(ctx context.Context, folderID string) ([]domain.MediaFile, error) {
	var all []domain.MediaFile
	token := ""
	for {
		page, err := w.store.ListChildren(ctx, folderID, token)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Files...)
		if page.NextPageToken == "" {
			return all, nil
		}
		token = page.NextPageToken
	}
}

// Browse lists the immediate children of one folder. A fetch failure is
// returned as-is; a folder with no folders, videos, or archives at all
// returns ErrEmptyFolder so callers can tell the two apart.
func (w *Walker) Browse(ctx context.Context, folderID string) (Listing, error) {
	children, err := w.listAll(ctx, folderID)
	if err != nil {
		return Listing{}, err
	}

	var listing Listing
	for _, f := range children {
		switch f.Kind {
		case domain.KindFolder:
			listing.Folders = append(listing.Folders, f)
		case domain.KindVideo, domain.KindArchive:
			listing.Files = append(listing.Files, f)
		}
	}

	w.logger.Debug("browsed folder",
		"folder", folderID,
		"folders", len(listing.Folders),
		"files", len(listing.Files),
	)

	if len(listing.Folders) == 0 && len(listing.Files) == 0 {
		return listing, domain.ErrEmptyFolder
	}
	return listing, nil
}

// ScanVideos collects every video-kind file in the subtree rooted at
// folderID, including the root's own direct children. A failure listing the
// root surfaces; a failure on a deeper branch contributes zero files and
// the scan proceeds with its siblings. Each folder id is visited at most
// once per scan.
func (w *Walker) ScanVideos(ctx context.Context, folderID string) ([]domain.MediaFile, error) {
	children, err := w.listAll(ctx, folderID)
	if err != nil {
		return nil, err
	}

	visited := &visitSet{seen: map[string]bool{folderID: true}}
	sem := make(chan struct{}, w.fanOut)

	videos, folders := splitVideosFolders(children)
	videos = append(videos, w.scanBranches(ctx, folders, visited, sem)...)

	w.logger.Info("recursive scan complete", "root", folderID, "videos", len(videos))
	return videos, nil
}

// scanSubtree returns the videos under one folder. Fetch failures here are
// swallowed so partial results stay usable.
func (w *Walker) scanSubtree(ctx context.Context, folderID string, visited *visitSet, sem chan struct{}) []domain.MediaFile {
	sem <- struct{}{}
	children, err := w.listAll(ctx, folderID)
	<-sem
	if err != nil {
		w.logger.Warn("skipping unreadable branch", "folder", folderID, "error", err)
		return nil
	}

	videos, folders := splitVideosFolders(children)
	return append(videos, w.scanBranches(ctx, folders, visited, sem)...)
}

// scanBranches fans out across sibling folders and merges their
// accumulators. Each branch owns its result slice; nothing is shared until
// the merge.
func (w *Walker) scanBranches(ctx context.Context, folders []domain.MediaFile, visited *visitSet, sem chan struct{}) []domain.MediaFile {
	results := make([][]domain.MediaFile, len(folders))
	var wg sync.WaitGroup

	for i, folder := range folders {
		if !visited.tryMark(folder.ID) {
			w.logger.Warn("folder already visited, skipping", "folder", folder.ID)
			continue
		}
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i] = w.scanSubtree(ctx, id, visited, sem)
		}(i, folder.ID)
	}
	wg.Wait()

	var merged []domain.MediaFile
	for _, r := range results {
		merged = append(merged, r...)
	}
	return merged
}

func splitVideosFolders(files []domain.MediaFile) (videos, folders []domain.MediaFile) {
	for _, f := range files {
		switch f.Kind {
		case domain.KindVideo:
			videos = append(videos, f)
		case domain.KindFolder:
			folders = append(folders, f)
		}
	}
	return videos, folders
}

// visitSet guards against re-entering a folder reachable from itself
// through the provider's sharing mechanisms.
type visitSet struct {
	mu   sync.Mutex
	seen map[string]bool
}

// tryMark marks id as visited, reporting false if it already was.
func (v *visitSet) tryMark(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.seen[id] {
		return false
	}
	v.seen[id] = true
	return true
}
