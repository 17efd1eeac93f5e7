package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/codex-talon/talonbridge"
	"github.com/codex-talon/talonbridge/apply"
)

// Server polls the request file and applies pending command batches to the
// editor state it owns. All processing is synchronous: one tick reads,
// applies, responds, and deletes before the next tick fires.
type Server struct {
	paths    talonbridge.Paths
	state    *talonbridge.EditorState
	status   *talonbridge.StatusCell
	frontend apply.Frontend
	interval time.Duration

	// guard remembers digests of requests whose post-apply deletion
	// failed, so one request instance is applied at most once even when
	// the unlink races.
	guard *ttlcache.Cache[string, time.Time]
}

// NewServer creates a server around a fresh editor state. The status cell
// is owned by the caller and read on every response.
func NewServer(paths talonbridge.Paths, cfg *talonbridge.Config, status *talonbridge.StatusCell, frontend apply.Frontend) *Server {
	guard := ttlcache.New[string, time.Time](
		ttlcache.WithTTL[string, time.Time](cfg.ReplayGuardTTL()),
		ttlcache.WithDisableTouchOnHit[string, time.Time](),
	)
	go guard.Start()

	state := &talonbridge.EditorState{}
	if wd, err := os.Getwd(); err == nil {
		state.Cwd = &wd
	}
	sid := fmt.Sprintf("talond-%d-%d", os.Getpid(), time.Now().Unix())
	state.SessionID = &sid

	return &Server{
		paths:    paths,
		state:    state,
		status:   status,
		frontend: frontend,
		interval: cfg.PollInterval(),
		guard:    guard,
	}
}

// Close stops the replay guard's expiration loop.
func (s *Server) Close() {
	s.guard.Stop()
}

// Run polls for requests until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick()
		}
	}
}

// Tick performs one processing cycle: read, apply, respond, delete. It
// never fails the daemon; parse failures are reported in the response so
// the sender can detect them, and I/O failures are logged.
func (s *Server) Tick() {
	raw, err := os.ReadFile(s.paths.Request)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Error("failed to read request file", "path", s.paths.Request, "error", err)
		}
		return
	}

	digest := requestDigest(raw)
	if s.guard.Get(digest) != nil {
		// Already applied; a previous cycle could not delete the file.
		return
	}

	req, err := talonbridge.ParseRequest(raw)
	if err != nil {
		slog.Warn("rejected request", "error", err)
		s.respond(nil, err)
		s.finish(digest)
		return
	}
	if req == nil {
		// Blank file counts as no request.
		s.respond(nil, nil)
		s.finish(digest)
		return
	}

	applied := apply.Apply(s.state, req.Commands, s.frontend)
	slog.Debug("applied request", "commands", len(req.Commands), "cursor", s.state.Cursor)
	s.respond(applied, nil)
	s.finish(digest)
}

// respond snapshots the current state and overwrites the response file.
func (s *Server) respond(applied []string, cause error) {
	s.syncStatus()
	resp := talonbridge.NewResponse(*s.state, applied, cause)
	if err := talonbridge.WriteResponse(s.paths.Response, resp); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// finish removes the consumed request. When removal fails the digest is
// remembered so later ticks skip the surviving file.
func (s *Server) finish(digest string) {
	if err := talonbridge.RemoveRequest(s.paths.Request); err != nil {
		slog.Warn("failed to remove request file", "error", err)
		s.guard.Set(digest, time.Now(), ttlcache.DefaultTTL)
	}
}

// syncStatus copies the owned status cell into the snapshot the next
// response will carry.
func (s *Server) syncStatus() {
	if s.status == nil {
		return
	}
	summary := s.status.Summary()
	s.state.TaskSummary = summary
	s.state.IsTaskRunning = summary != nil
}

func requestDigest(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
