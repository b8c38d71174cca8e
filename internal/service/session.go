// Package service wires the adapters and domain components into the two
// long-lived application objects: the authenticated Session and the
// Browser built on top of it.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/drake/drivecast/internal/adapter"
	"github.com/drake/drivecast/internal/adapter/source/drive"
	"github.com/drake/drivecast/internal/archive"
	"github.com/drake/drivecast/internal/domain"
	"github.com/drake/drivecast/internal/library"
	"github.com/drake/drivecast/internal/tracker"
)

// Session owns the authenticated remote connection and everything scoped
// to it: the library store, the extracted-payload blob store, and the
// playback tracker. Its context is the parent of every remote call, so
// closing the session cancels in-flight work.
type Session struct {
	cfg    *adapter.Config
	store  domain.RemoteStore
	lib    *library.Store
	blobs  *archive.BlobStore
	track  *tracker.Tracker
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// Open restores a session from the persisted configuration. A missing
// token fails with ErrAuthFailed; an expired one is additionally purged
// from the config file so the next start prompts fresh.
func Open(cfg *adapter.Config, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !cfg.IsConfigured() {
		return nil, domain.ErrAuthFailed
	}
	if cfg.Server.ExpireAt > 0 && time.Now().Unix() >= cfg.Server.ExpireAt {
		logger.Info("stored credentials expired, clearing")
		if err := adapter.ClearCredentials(); err != nil {
			logger.Warn("failed to clear expired credentials", "error", err)
		}
		return nil, domain.ErrAuthFailed
	}

	lib, err := library.Open(adapter.DataDirPath(), logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		cfg:    cfg,
		store:  drive.NewClient(cfg.Server.URL, cfg.Server.Token, cfg.Scan.PageSize, logger),
		lib:    lib,
		blobs:  archive.NewBlobStore(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	s.track = tracker.New(lib, logger)

	logger.Info("session opened", "server", cfg.Server.URL)
	return s, nil
}

// Context returns the session-scoped context. Remote calls derive from it
// so SignOut and Close cancel them.
func (s *Session) Context() context.Context {
	return s.ctx
}

// alive reports ErrSessionClosed once the session context is cancelled.
func (s *Session) alive() error {
	if s.ctx.Err() != nil {
		return domain.ErrSessionClosed
	}
	return nil
}

// Library returns the session's library store.
func (s *Session) Library() *library.Store {
	return s.lib
}

// Tracker returns the session's playback tracker.
func (s *Session) Tracker() *tracker.Tracker {
	return s.track
}

// SignOut removes the persisted token, releases extracted payloads, and
// tears the session down. Library state survives; it belongs to the user,
// not the session.
func (s *Session) SignOut() error {
	s.logger.Info("signing out")
	if err := adapter.ClearCredentials(); err != nil {
		return err
	}
	return s.Close()
}

// Close cancels in-flight work and releases session-scoped resources.
func (s *Session) Close() error {
	s.cancel()
	s.track.Stop()
	s.blobs.ReleaseAll()
	return s.lib.Close()
}
