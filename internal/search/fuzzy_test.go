package search

import (
	"testing"

	"github.com/drake/drivecast/internal/domain"
)

func file(id, name string) domain.MediaFile {
	return domain.MediaFile{ID: id, Name: name, MimeType: "video/mp4", Kind: domain.KindVideo}
}

func TestFindRanksCloserMatchesFirst(t *testing.T) {
	files := []domain.MediaFile{
		file("a", "Advanced Generics Deep Dive.mp4"),
		file("b", "Generics Basics.mp4"),
		file("c", "Unrelated Lecture.mp4"),
	}

	matches := Find("generics", files)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	for _, m := range matches {
		if m.File.ID == "c" {
			t.Fatal("non-matching file ranked")
		}
		if len(m.MatchedIndexes) == 0 {
			t.Fatalf("match %s has no highlight indexes", m.File.ID)
		}
	}
	// The name starting with the query ranks above the mid-name hit.
	if matches[0].File.ID != "b" {
		t.Fatalf("best match = %s, want b", matches[0].File.ID)
	}
}

func TestFindIsCaseFolded(t *testing.T) {
	files := []domain.MediaFile{file("a", "INTRO To Channels.mp4")}
	if got := Find("intro", files); len(got) != 1 {
		t.Fatalf("case-folded search returned %d matches", len(got))
	}
}

func TestFindEmptyQuery(t *testing.T) {
	files := []domain.MediaFile{file("a", "Anything.mp4")}
	if got := Find("   ", files); got != nil {
		t.Fatalf("blank query returned %v", got)
	}
}

func TestFindNoCandidates(t *testing.T) {
	files := []domain.MediaFile{file("a", "Concurrency Patterns.mp4")}
	if got := Find("zzzz", files); got != nil {
		t.Fatalf("impossible query returned %v", got)
	}
}
