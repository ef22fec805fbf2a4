package download

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/logging"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/models"
	"github.com/sandeepchaudhar/Ecourts-Scrapper/pkg/progress"
)

// Session errors returned by the Manager.
var (
	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("download session not found")

	// ErrSessionFinished is returned when cancelling a session that
	// already reached a terminal state.
	ErrSessionFinished = errors.New("download session already finished")
)

// SessionStatus is the lifecycle state of a bulk download session.
type SessionStatus string

const (
	StatusStarting  SessionStatus = "starting"
	StatusRunning   SessionStatus = "running"
	StatusCompleted SessionStatus = "completed"
	StatusError     SessionStatus = "error"
	StatusCancelled SessionStatus = "cancelled"
)

// terminal reports whether a session in this status will never change
// again.
func (s SessionStatus) terminal() bool {
	return s == StatusCompleted || s == StatusError || s == StatusCancelled
}

// SessionView is a point-in-time copy of session state, safe to hand
// out to callers.
type SessionView struct {
	ID           string                     `json:"session_id"`
	Status       SessionStatus              `json:"status"`
	Request      models.BulkDownloadRequest `json:"request"`
	Progress     progress.Snapshot          `json:"progress"`
	Result       *models.BulkDownloadResult `json:"result,omitempty"`
	ErrorMessage string                     `json:"error_message,omitempty"`
	StartedAt    time.Time                  `json:"started_at"`
	FinishedAt   *time.Time                 `json:"finished_at,omitempty"`
}

// session is the Manager's internal mutable session record.
type session struct {
	id         string
	status     SessionStatus
	request    models.BulkDownloadRequest
	progress   progress.Snapshot
	result     *models.BulkDownloadResult
	errMessage string
	startedAt  time.Time
	finishedAt *time.Time
	cancel     context.CancelFunc
}

// BulkDownloader runs a bulk download to completion. Satisfied by
// *Service.
type BulkDownloader interface {
	DownloadBulk(ctx context.Context, req models.BulkDownloadRequest, onProgress progress.Observer) models.BulkDownloadResult
}

// Manager runs bulk downloads as background sessions identified by
// UUID. Start returns immediately; callers poll Status for progress
// and the final result.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*session
	svc      BulkDownloader
	logger   zerolog.Logger
}

// NewManager creates a session manager backed by the given downloader.
func NewManager(svc BulkDownloader) *Manager {
	return &Manager{
		sessions: make(map[string]*session),
		svc:      svc,
		logger:   logging.NewLogger("download-manager"),
	}
}

// Start launches a bulk download in the background and returns its
// session ID without waiting for any download work.
func (m *Manager) Start(req models.BulkDownloadRequest) string {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &session{
		id:        uuid.NewString(),
		status:    StatusStarting,
		request:   req,
		startedAt: time.Now(),
		cancel:    cancel,
	}

	m.mu.Lock()
	m.sessions[sess.id] = sess
	m.mu.Unlock()
	ActiveSessions.Inc()

	m.logger.Info().
		Str("session_id", sess.id).
		Str("complex_code", req.ComplexCode).
		Str("date", req.Date).
		Msg("Bulk download session started")

	go m.run(ctx, sess.id, req)
	return sess.id
}

// run executes one session to its terminal state.
func (m *Manager) run(ctx context.Context, id string, req models.BulkDownloadRequest) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Interface("panic", r).
				Str("session_id", id).
				Msg("Bulk download session panicked")
			m.finish(id, StatusError, nil, "internal error during bulk download")
		}
	}()

	m.setStatus(id, StatusRunning)

	result := m.svc.DownloadBulk(ctx, req, func(snap progress.Snapshot) {
		m.setProgress(id, snap)
	})

	if ctx.Err() != nil {
		// Cancel already moved the session to its terminal state.
		m.logger.Info().Str("session_id", id).Msg("Bulk download session cancelled")
		return
	}

	status := StatusCompleted
	errMsg := ""
	if !result.Success {
		// A run with zero successes completes with a failed result
		// rather than an error status; error is reserved for faults.
		errMsg = result.Message
	}
	m.finish(id, status, &result, errMsg)
}

// Status returns a snapshot of the session.
func (m *Manager) Status(id string) (SessionView, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return SessionView{}, ErrSessionNotFound
	}
	return sess.view(), nil
}

// Cancel requests cooperative cancellation of a running session. The
// session moves to cancelled immediately; in-flight downloads finish
// but no new courts are dispatched.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if sess.status.terminal() {
		return ErrSessionFinished
	}

	sess.cancel()
	sess.status = StatusCancelled
	now := time.Now()
	sess.finishedAt = &now
	ActiveSessions.Dec()

	m.logger.Info().Str("session_id", id).Msg("Cancellation requested")
	return nil
}

// ListActive returns all sessions that have not reached a terminal
// state.
func (m *Manager) ListActive() []SessionView {
	m.mu.RLock()
	defer m.mu.RUnlock()

	active := make([]SessionView, 0)
	for _, sess := range m.sessions {
		if !sess.status.terminal() {
			active = append(active, sess.view())
		}
	}
	return active
}

// Cleanup removes terminal sessions that finished more than maxAge
// ago. Running sessions are never removed. It returns the number of
// sessions dropped.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, sess := range m.sessions {
		if !sess.status.terminal() {
			continue
		}
		finished := sess.startedAt
		if sess.finishedAt != nil {
			finished = *sess.finishedAt
		}
		if finished.Before(cutoff) || maxAge <= 0 {
			delete(m.sessions, id)
			removed++
		}
	}

	if removed > 0 {
		m.logger.Info().Int("removed", removed).Msg("Old sessions cleaned up")
	}
	return removed
}

// setStatus transitions a non-terminal session to status.
func (m *Manager) setStatus(id string, status SessionStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || sess.status.terminal() {
		return
	}
	sess.status = status
}

// setProgress records the latest tracker snapshot.
func (m *Manager) setProgress(id string, snap progress.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[id]; ok {
		sess.progress = snap
	}
}

// finish moves a session to a terminal state. A session that was
// cancelled stays cancelled.
func (m *Manager) finish(id string, status SessionStatus, result *models.BulkDownloadResult, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok || sess.status.terminal() {
		return
	}

	sess.status = status
	sess.result = result
	sess.errMessage = errMsg
	now := time.Now()
	sess.finishedAt = &now
	ActiveSessions.Dec()
}

// view copies session state for external use. Caller holds m.mu.
func (s *session) view() SessionView {
	view := SessionView{
		ID:           s.id,
		Status:       s.status,
		Request:      s.request,
		Progress:     s.progress,
		ErrorMessage: s.errMessage,
		StartedAt:    s.startedAt,
	}
	if s.result != nil {
		result := *s.result
		result.DownloadResults = append([]models.DownloadResult(nil), s.result.DownloadResults...)
		view.Result = &result
	}
	if s.finishedAt != nil {
		finished := *s.finishedAt
		view.FinishedAt = &finished
	}
	return view
}
