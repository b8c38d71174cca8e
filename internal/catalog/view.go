// Package catalog derives ordered listings from the live discovered file
// set and a library snapshot. Everything here is a pure function of its
// inputs; nothing is cached or mutated.
package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/drake/drivecast/internal/domain"
)

// Tab narrows the source set before filtering.
type Tab string

const (
	TabAll       Tab = "all"
	TabFavorites Tab = "favorites"
	TabRecent    Tab = "recent"
)

// SortKey selects the comparator.
type SortKey string

const (
	SortName     SortKey = "name"
	SortSize     SortKey = "size"
	SortType     SortKey = "type"
	SortModified SortKey = "modified"
	SortWatched  SortKey = "watched"
	SortProgress SortKey = "progress"

	// SortRecent orders by history recency, used when rendering the
	// dedicated recent tab.
	SortRecent SortKey = "recent"
)

// Query is one view request.
type Query struct {
	Tab        Tab
	Search     string  // case-insensitive substring on display name
	TypeFilter string  // substring of the content type, or "all"
	SortBy     SortKey
	Descending bool
}

// Apply narrows, filters, and sorts the catalog. The sort is stable, so
// equal keys preserve their prior relative order; direction is applied
// uniformly after the comparator.
func Apply(files []domain.MediaFile, snap domain.LibrarySnapshot, q Query) []domain.MediaFile {
	source := narrowByTab(files, snap, q.Tab)

	filtered := make([]domain.MediaFile, 0, len(source))
	search := strings.ToLower(q.Search)
	for _, f := range source {
		if search != "" && !strings.Contains(strings.ToLower(f.Name), search) {
			continue
		}
		if q.TypeFilter != "" && q.TypeFilter != "all" && !strings.Contains(f.MimeType, q.TypeFilter) {
			continue
		}
		filtered = append(filtered, f)
	}

	cmp := comparator(q.SortBy, snap)
	sort.SliceStable(filtered, func(i, j int) bool {
		c := cmp(filtered[i], filtered[j])
		if q.Descending {
			return c > 0
		}
		return c < 0
	})

	return filtered
}

func narrowByTab(files []domain.MediaFile, snap domain.LibrarySnapshot, tab Tab) []domain.MediaFile {
	switch tab {
	case TabFavorites:
		out := make([]domain.MediaFile, 0, len(files))
		for _, f := range files {
			if snap.IsFavorite(f.ID) {
				out = append(out, f)
			}
		}
		return out
	case TabRecent:
		recent := make(map[string]bool)
		for _, id := range snap.RecentIDs(domain.RecentWindow) {
			recent[id] = true
		}
		out := make([]domain.MediaFile, 0, len(files))
		for _, f := range files {
			if recent[f.ID] {
				out = append(out, f)
			}
		}
		return out
	default:
		return files
	}
}

// comparator returns a three-way compare for the sort key.
func comparator(key SortKey, snap domain.LibrarySnapshot) func(a, b domain.MediaFile) int {
	switch key {
	case SortSize:
		return func(a, b domain.MediaFile) int {
			return compareInt64(knownSize(a), knownSize(b))
		}
	case SortType:
		return func(a, b domain.MediaFile) int {
			return strings.Compare(a.MimeType, b.MimeType)
		}
	case SortModified:
		return func(a, b domain.MediaFile) int {
			return compareInt64(knownModified(a), knownModified(b))
		}
	case SortWatched:
		return func(a, b domain.MediaFile) int {
			// Watched sorts before unwatched.
			wa, wb := snap.ProgressFor(a.ID).Watched(), snap.ProgressFor(b.ID).Watched()
			switch {
			case wa == wb:
				return 0
			case wa:
				return -1
			default:
				return 1
			}
		}
	case SortProgress:
		return func(a, b domain.MediaFile) int {
			return snap.ProgressFor(a.ID).Percent() - snap.ProgressFor(b.ID).Percent()
		}
	case SortRecent:
		rank := recencyRank(snap)
		return func(a, b domain.MediaFile) int {
			return rank(a.ID) - rank(b.ID)
		}
	default: // SortName
		return func(a, b domain.MediaFile) int {
			return naturalCompare(a.Name, b.Name)
		}
	}
}

// recencyRank maps ids to their history position; unknown ids sort last.
func recencyRank(snap domain.LibrarySnapshot) func(id string) int {
	ranks := make(map[string]int, len(snap.History))
	for i, e := range snap.History {
		ranks[e.File.ID] = i
	}
	return func(id string) int {
		if r, ok := ranks[id]; ok {
			return r
		}
		return len(ranks)
	}
}

func knownSize(f domain.MediaFile) int64 {
	if f.Size == domain.SizeUnknown {
		return 0
	}
	return f.Size
}

func knownModified(f domain.MediaFile) int64 {
	if f.ModifiedAt.IsZero() {
		return time.Time{}.Unix()
	}
	return f.ModifiedAt.Unix()
}

// compareInt64 is a three-way compare avoiding int overflow on subtraction.
func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Subtypes returns the distinct content subtypes present in the catalog,
// sorted, feeding the type-filter choices.
func Subtypes(files []domain.MediaFile) []string {
	seen := make(map[string]bool)
	for _, f := range files {
		if sub := f.Subtype(); sub != "" {
			seen[sub] = true
		}
	}
	out := make([]string, 0, len(seen))
	for sub := range seen {
		out = append(out, sub)
	}
	sort.Strings(out)
	return out
}

// Watched returns the catalog's watched files under the given query's sort.
func Watched(files []domain.MediaFile, snap domain.LibrarySnapshot, q Query) []domain.MediaFile {
	return partitionWatched(files, snap, q, true)
}

// Unwatched returns the catalog's unwatched files under the given query's
// sort; the player's up-next rail draws from this.
func Unwatched(files []domain.MediaFile, snap domain.LibrarySnapshot, q Query) []domain.MediaFile {
	return partitionWatched(files, snap, q, false)
}

func partitionWatched(files []domain.MediaFile, snap domain.LibrarySnapshot, q Query, watched bool) []domain.MediaFile {
	subset := make([]domain.MediaFile, 0, len(files))
	for _, f := range files {
		if snap.ProgressFor(f.ID).Watched() == watched {
			subset = append(subset, f)
		}
	}
	q.Tab = TabAll
	q.Search = ""
	q.TypeFilter = ""
	return Apply(subset, snap, q)
}

// NextAfter returns the file following currentID in the view, wrapping
// around at the end. Nil when the view is empty.
func NextAfter(view []domain.MediaFile, currentID string) *domain.MediaFile {
	if len(view) == 0 {
		return nil
	}
	idx := indexOf(view, currentID)
	next := view[(idx+1)%len(view)]
	return &next
}

// PreviousBefore returns the file preceding currentID in the view, wrapping
// around at the start. Nil when the view is empty.
func PreviousBefore(view []domain.MediaFile, currentID string) *domain.MediaFile {
	if len(view) == 0 {
		return nil
	}
	idx := indexOf(view, currentID)
	if idx <= 0 {
		prev := view[len(view)-1]
		return &prev
	}
	prev := view[idx-1]
	return &prev
}

func indexOf(view []domain.MediaFile, id string) int {
	for i, f := range view {
		if f.ID == id {
			return i
		}
	}
	return -1
}
