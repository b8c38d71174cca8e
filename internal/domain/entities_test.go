package domain

import "testing"

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		want     FileKind
	}{
		{"folder mime", MimeFolder, "Courses", KindFolder},
		{"zip mime", MimeZip, "bundle", KindArchive},
		{"zip suffix without mime", "application/octet-stream", "Bundle.ZIP", KindArchive},
		{"video mime", "video/mp4", "clip", KindVideo},
		{"video suffix without mime", "application/octet-stream", "clip.MKV", KindVideo},
		{"plain document", "application/pdf", "notes.pdf", KindOther},
		{"no mime no suffix", "", "README", KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyKind(tt.mimeType, tt.fileName); got != tt.want {
				t.Fatalf("ClassifyKind(%q, %q) = %v, want %v", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestFolderPathOperations(t *testing.T) {
	var p FolderPath

	p = p.Push("a", "Alpha").Push("b", "Beta").Push("c", "Gamma")
	if got := p.String(); got != "Alpha / Beta / Gamma" {
		t.Fatalf("String() = %q", got)
	}
	if got := p.CurrentID("root"); got != "c" {
		t.Fatalf("CurrentID = %q, want c", got)
	}

	truncated := p.TruncateTo(0)
	if len(truncated) != 1 || truncated[0].ID != "a" {
		t.Fatalf("TruncateTo(0) = %v", truncated)
	}
	// The original path is untouched.
	if len(p) != 3 {
		t.Fatalf("original path mutated: %v", p)
	}

	popped := p.Pop()
	if got := popped.CurrentID("root"); got != "b" {
		t.Fatalf("after Pop CurrentID = %q, want b", got)
	}

	var empty FolderPath
	if got := empty.Pop(); len(got) != 0 {
		t.Fatalf("Pop on empty path = %v", got)
	}
	if got := empty.CurrentID("root"); got != "root" {
		t.Fatalf("CurrentID fallback = %q", got)
	}
}

func TestProgressRecordWatched(t *testing.T) {
	tests := []struct {
		name    string
		rec     ProgressRecord
		watched bool
		percent int
	}{
		{"exactly at threshold", ProgressRecord{Elapsed: 90, Duration: 100}, true, 90},
		{"just below threshold", ProgressRecord{Elapsed: 89, Duration: 100}, false, 89},
		{"complete", ProgressRecord{Elapsed: 100, Duration: 100}, true, 100},
		{"unknown duration", ProgressRecord{Elapsed: 500, Duration: 0}, false, 0},
		{"zero record", ProgressRecord{}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Watched(); got != tt.watched {
				t.Fatalf("Watched() = %v, want %v", got, tt.watched)
			}
			if got := tt.rec.Percent(); got != tt.percent {
				t.Fatalf("Percent() = %d, want %d", got, tt.percent)
			}
		})
	}
}

func TestFormattedSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{SizeUnknown, "Unknown size"},
		{512, "512.0 B"},
		{2048, "2.0 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}
	for _, tt := range tests {
		f := MediaFile{Size: tt.size}
		if got := f.FormattedSize(); got != tt.want {
			t.Fatalf("FormattedSize(%d) = %q, want %q", tt.size, got, tt.want)
		}
	}
}

func TestSubtype(t *testing.T) {
	if got := (MediaFile{MimeType: "video/MP4"}).Subtype(); got != "mp4" {
		t.Fatalf("Subtype = %q, want mp4", got)
	}
	if got := (MediaFile{MimeType: "unknown"}).Subtype(); got != "" {
		t.Fatalf("Subtype = %q, want empty", got)
	}
}

func TestSnapshotRecentIDs(t *testing.T) {
	snap := LibrarySnapshot{
		History: []WatchHistoryEntry{
			{File: MediaFile{ID: "newest"}},
			{File: MediaFile{ID: "older"}},
			{File: MediaFile{ID: "oldest"}},
		},
	}
	ids := snap.RecentIDs(2)
	if len(ids) != 2 || ids[0] != "newest" || ids[1] != "older" {
		t.Fatalf("RecentIDs(2) = %v", ids)
	}
	if got := snap.RecentIDs(10); len(got) != 3 {
		t.Fatalf("RecentIDs(10) = %v", got)
	}
}
