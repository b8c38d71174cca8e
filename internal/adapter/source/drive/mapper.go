package drive

import (
	"fmt"
	"strconv"
	"time"

	"github.com/drake/drivecast/internal/domain"
)

// MapFiles converts raw file resources to domain media files, dropping
// entries without a usable identifier.
func MapFiles(resources []fileResource) []domain.MediaFile {
	files := make([]domain.MediaFile, 0, len(resources))
	for _, res := range resources {
		if f := mapFile(res); f != nil {
			files = append(files, *f)
		}
	}
	return files
}

// mapFile validates one resource into the strict MediaFile shape. Missing
// size maps to the unknown sentinel, malformed timestamps to the zero
// time; neither rejects the entry.
func mapFile(res fileResource) *domain.MediaFile {
	if res.ID == "" || res.Name == "" {
		return nil
	}

	size := domain.SizeUnknown
	if res.Size != "" {
		if n, err := strconv.ParseInt(res.Size, 10, 64); err == nil && n >= 0 {
			size = n
		}
	}

	var modified time.Time
	if res.ModifiedTime != "" {
		if t, err := time.Parse(time.RFC3339, res.ModifiedTime); err == nil {
			modified = t
		}
	}

	return &domain.MediaFile{
		ID:         res.ID,
		Name:       res.Name,
		MimeType:   res.MimeType,
		Size:       size,
		ModifiedAt: modified,
		Parents:    res.Parents,
		ViewURL:    res.WebViewLink,
		Kind:       domain.ClassifyKind(res.MimeType, res.Name),
	}
}

// StreamURL returns the direct-download URL used by the native playback
// surface.
func StreamURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/uc?export=download&id=%s", fileID)
}

// EmbedURL returns the provider's embedded-viewer URL, the fallback when
// native playback cannot decode the source.
func EmbedURL(fileID string) string {
	return fmt.Sprintf("https://drive.google.com/file/d/%s/preview", fileID)
}
