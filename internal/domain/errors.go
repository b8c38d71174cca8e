package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrEmptyFolder indicates a folder listing succeeded but returned
	// nothing; distinct from a fetch failure.
	ErrEmptyFolder = errors.New("this folder is empty")

	// ErrNotPlayable indicates the selected item is not a video file.
	ErrNotPlayable = errors.New("selected file is not a video")

	// ErrNoVideosFound indicates a scan or archive expansion produced no
	// playable entries.
	ErrNoVideosFound = errors.New("no video files found")

	// ErrAlreadyInPlaylist indicates an idempotent playlist add hit an
	// existing entry; surfaced as a notice, not a failure.
	ErrAlreadyInPlaylist = errors.New("file is already in playlist")

	// ErrPlaylistNotFound indicates the target playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrServerOffline indicates the remote store is unreachable.
	ErrServerOffline = errors.New("remote store is unreachable")

	// ErrAuthFailed indicates the access token was rejected.
	ErrAuthFailed = errors.New("authentication token is invalid")

	// ErrStaleResult indicates an async result arrived after a newer
	// navigation superseded it; the result must be discarded.
	ErrStaleResult = errors.New("result superseded by a newer navigation")

	// ErrSessionClosed indicates the session was torn down while an
	// operation was in flight.
	ErrSessionClosed = errors.New("session is closed")
)
