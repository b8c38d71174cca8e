package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/drake/drivecast/internal/adapter/source/drive"
	"github.com/drake/drivecast/internal/archive"
	"github.com/drake/drivecast/internal/catalog"
	"github.com/drake/drivecast/internal/domain"
	"github.com/drake/drivecast/internal/walker"
)

// Browser orchestrates navigation and the flattened video catalog for one
// session. Catalog commits are guarded by a generation counter: starting a
// new scan or changing the root invalidates results still in flight, so a
// slow scan can never overwrite a newer one.
type Browser struct {
	session  *Session
	walker   *walker.Walker
	expander *archive.Expander
	logger   *slog.Logger

	mu      sync.Mutex
	root    domain.MediaFile
	path    domain.FolderPath
	listing walker.Listing
	files   []domain.MediaFile
	gen     uint64
}

// Selection is a validated playable choice with its derived playback URLs.
type Selection struct {
	File      domain.MediaFile
	StreamURL string
	EmbedURL  string

	// BlobHandle is set for archive-extracted entries whose payload lives
	// in the session blob store rather than behind a URL.
	BlobHandle string
}

// NewBrowser creates a browser over the session's remote store.
func NewBrowser(s *Session, fanOut int) *Browser {
	return &Browser{
		session:  s,
		walker:   walker.New(s.store, fanOut, s.logger),
		expander: archive.NewExpander(s.blobs, s.logger),
		logger:   s.logger,
	}
}

// Roots lists the folders shared with the account. With exactly one root
// it is selected automatically and the caller can browse immediately.
func (b *Browser) Roots() ([]domain.MediaFile, error) {
	if err := b.session.alive(); err != nil {
		return nil, err
	}
	roots, err := b.session.store.SharedRoots(b.session.ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shared folders: %w", err)
	}
	if len(roots) == 1 {
		b.SelectRoot(roots[0])
	}
	return roots, nil
}

// SelectRoot switches to a new root, resetting the breadcrumb and
// invalidating any scan in flight.
func (b *Browser) SelectRoot(root domain.MediaFile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.root = root
	b.path = nil
	b.listing = walker.Listing{}
	b.files = nil
	b.gen++
	b.logger.Info("root selected", "root", root.ID, "name", root.Name)
}

// Root returns the currently selected root.
func (b *Browser) Root() domain.MediaFile {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.root
}

// NavigateTo descends into a subfolder of the current view. The breadcrumb
// only grows after the listing succeeds, so a failed fetch leaves the view
// where it was.
func (b *Browser) NavigateTo(folder domain.MediaFile) (walker.Listing, error) {
	if err := b.session.alive(); err != nil {
		return walker.Listing{}, err
	}
	listing, err := b.walker.Browse(b.session.ctx, folder.ID)
	if err != nil {
		return walker.Listing{}, err
	}

	b.mu.Lock()
	b.path = b.path.Push(folder.ID, folder.Name)
	b.listing = listing
	b.mu.Unlock()
	return listing, nil
}

// NavigateBack pops one breadcrumb segment and re-lists the parent. At the
// root it re-lists the root itself.
func (b *Browser) NavigateBack() (walker.Listing, error) {
	b.mu.Lock()
	next := b.path.Pop()
	target := next.CurrentID(b.root.ID)
	b.mu.Unlock()

	listing, err := b.walker.Browse(b.session.ctx, target)
	if err != nil {
		return walker.Listing{}, err
	}

	b.mu.Lock()
	b.path = next
	b.listing = listing
	b.mu.Unlock()
	return listing, nil
}

// JumpTo truncates the breadcrumb to the given segment and re-lists it.
func (b *Browser) JumpTo(idx int) (walker.Listing, error) {
	b.mu.Lock()
	next := b.path.TruncateTo(idx)
	target := next.CurrentID(b.root.ID)
	b.mu.Unlock()

	listing, err := b.walker.Browse(b.session.ctx, target)
	if err != nil {
		return walker.Listing{}, err
	}

	b.mu.Lock()
	b.path = next
	b.listing = listing
	b.mu.Unlock()
	return listing, nil
}

// Breadcrumb returns the path from the root to the current view.
func (b *Browser) Breadcrumb() domain.FolderPath {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// Listing returns the current single-level view.
func (b *Browser) Listing() walker.Listing {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listing
}

// ScanCurrent flattens every video under the current folder into the
// catalog. The scan runs against the generation current at its start; if
// the root changed or a newer scan began meanwhile, the result is
// discarded with ErrStaleResult.
func (b *Browser) ScanCurrent() ([]domain.MediaFile, error) {
	if err := b.session.alive(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	target := b.path.CurrentID(b.root.ID)
	b.gen++
	gen := b.gen
	b.mu.Unlock()

	videos, err := b.walker.ScanVideos(b.session.ctx, target)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.gen != gen {
		b.logger.Warn("discarding stale scan result", "folder", target, "videos", len(videos))
		return nil, domain.ErrStaleResult
	}
	b.files = videos
	return videos, nil
}

// Catalog returns the flattened video set from the last committed scan.
func (b *Browser) Catalog() []domain.MediaFile {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.MediaFile, len(b.files))
	copy(out, b.files)
	return out
}

// View applies a catalog query against the current catalog and library
// state.
func (b *Browser) View(q catalog.Query) []domain.MediaFile {
	return catalog.Apply(b.Catalog(), b.session.lib.Snapshot(), q)
}

// ExtractArchive downloads and expands an archive, splicing its virtual
// video entries into the catalog in place of the archive itself. An
// archive with no readable videos leaves the catalog untouched and
// returns ErrNoVideosFound.
func (b *Browser) ExtractArchive(file domain.MediaFile) ([]domain.MediaFile, error) {
	if err := b.session.alive(); err != nil {
		return nil, err
	}
	if file.Kind != domain.KindArchive {
		return nil, domain.ErrNotPlayable
	}

	data, err := b.session.store.FetchBytes(b.session.ctx, file.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to download archive: %w", err)
	}

	entries, err := b.expander.Expand(file, data)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	next := make([]domain.MediaFile, 0, len(b.files)+len(entries))
	replaced := false
	for _, f := range b.files {
		if f.ID == file.ID {
			next = append(next, entries...)
			replaced = true
			continue
		}
		next = append(next, f)
	}
	if !replaced {
		next = append(next, entries...)
	}
	b.files = next
	return entries, nil
}

// Select validates a playback choice and derives its playback handles.
// Folders and other non-playable kinds fail with ErrNotPlayable.
func (b *Browser) Select(file domain.MediaFile) (Selection, error) {
	if !file.IsPlayable() {
		return Selection{}, domain.ErrNotPlayable
	}

	sel := Selection{File: file}
	if _, ok := b.session.blobs.Get(file.ID); ok {
		sel.BlobHandle = file.ID
		return sel, nil
	}

	sel.StreamURL = drive.StreamURL(file.ID)
	sel.EmbedURL = drive.EmbedURL(file.ID)
	return sel, nil
}
