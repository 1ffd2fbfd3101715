// Package presence maintains an approximate, abuse-resistant measure of how
// long each user is actively engaged, plus the online flag the directory
// uses. All state lives in the shared stores; the tracker itself is
// stateless and safe to call from any number of concurrent requests.
package presence

import (
	"context"
	"log"
	"time"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/repositories"
	"gorm.io/gorm"
)

const (
	// HeartbeatInterval is the fixed client heartbeat period. A session whose
	// last heartbeat is older than 2x this value should be read as stale.
	HeartbeatInterval = 60 * time.Second

	// debounceWindow caps total-time increments to one per user per window.
	// Below the heartbeat interval so a single well-behaved tab always
	// passes; concurrent tabs within the window are suppressed.
	debounceWindow = 45 * time.Second

	// activeIncrement is the fixed amount credited per accepted heartbeat.
	activeIncrement = int64(HeartbeatInterval / time.Millisecond)
)

// Tracker records session lifecycle and activity time.
type Tracker struct {
	users    repositories.UserPresenceStore
	sessions repositories.SessionRepository
	now      func() time.Time
}

// NewTracker creates a Tracker. now may be nil, in which case time.Now is used.
func NewTracker(users repositories.UserPresenceStore, sessions repositories.SessionRepository, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{users: users, sessions: sessions, now: now}
}

// StartSession opens a new active session for the user, stamps the sign-in
// and activity times, and flips the user online. An unresolvable user is a
// silent no-op: the empty session ID and nil error tell the caller nothing
// was recorded.
func (t *Tracker) StartSession(ctx context.Context, userID uint, device string) (string, error) {
	if _, err := t.users.GetUserByID(userID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", err
	}

	now := t.now()
	session := &models.Session{
		UserID:        userID,
		Device:        device,
		Status:        models.SessionActive,
		StartedAt:     now,
		LastHeartbeat: now,
		DurationMs:    0,
	}
	if err := t.sessions.CreateSession(ctx, session); err != nil {
		return "", err
	}

	if err := t.users.RecordSignIn(userID, now); err != nil {
		return "", err
	}
	return session.ID.Hex(), nil
}

// Heartbeat processes one client heartbeat. The session's last-heartbeat
// time and client-reported duration are always stored (the duration is
// diagnostic, so the client is trusted for it), and the user is always
// stamped active and online. The lifetime total-time counter only grows
// when the previous activity stamp is at least the debounce window old, so
// several tabs heartbeating in the same window credit the user once.
//
// The staleness check reads the user record and then writes it without a
// transaction; two heartbeats landing within the same instant can both pass.
// That narrow race is accepted; the counter is an approximation, not an
// accounting ledger.
func (t *Tracker) Heartbeat(ctx context.Context, userID uint, sessionID string, elapsedMs int64) error {
	now := t.now()

	if err := t.sessions.UpdateHeartbeat(ctx, sessionID, userID, now, elapsedMs); err != nil {
		return err
	}

	user, err := t.users.GetUserByID(userID)
	if err != nil {
		return err
	}

	var increment int64
	if user.LastActiveAt == nil || now.Sub(*user.LastActiveAt) >= debounceWindow {
		increment = activeIncrement
	}
	return t.users.RecordActivity(userID, now, increment)
}

// EndSession completes the session and flips the user offline. Errors are
// logged and swallowed: ending a session must never block a logout flow.
func (t *Tracker) EndSession(ctx context.Context, userID uint, sessionID string) {
	now := t.now()

	if err := t.sessions.CompleteSession(ctx, sessionID, userID, now); err != nil {
		log.Printf("presence: failed to complete session %s for user %d: %v", sessionID, userID, err)
	}
	if err := t.users.RecordSignOff(userID, now); err != nil {
		log.Printf("presence: failed to record sign-off for user %d: %v", userID, err)
	}
}

// RecentSessions returns a user's most recent sessions, newest first. Sessions
// that are stored active but stale are flagged so clients can render them as
// ended without the tracker rewriting stored status.
func (t *Tracker) RecentSessions(ctx context.Context, userID uint, limit int64) ([]models.Session, error) {
	sessions, err := t.sessions.GetSessionsByUserID(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	now := t.now()
	for i := range sessions {
		if IsStale(&sessions[i], now) {
			sessions[i].Stale = true
		}
	}
	return sessions, nil
}

// IsStale reports whether a stored-active session should be treated as
// offline because its last heartbeat is older than twice the heartbeat
// interval. The tracker never rewrites stored status on staleness; readers
// derive it.
func IsStale(session *models.Session, now time.Time) bool {
	if session.Status != models.SessionActive {
		return false
	}
	return now.Sub(session.LastHeartbeat) > 2*HeartbeatInterval
}

// ActiveCutoff returns the oldest activity stamp still considered live.
// The directory uses it to hide users whose client vanished without an
// explicit sign-off.
func ActiveCutoff(now time.Time) time.Time {
	return now.Add(-2 * HeartbeatInterval)
}
