package presence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/famnest/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

type fakeUserStore struct {
	users      map[uint]*models.User
	signIns    int
	signOffs   int
	increments []int64
	failWrites bool
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) GetUserByID(id uint) (*models.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) RecordSignIn(id uint, at time.Time) error {
	if s.failWrites {
		return errors.New("write failed")
	}
	u := s.users[id]
	u.Online = true
	u.LastSignInAt = &at
	u.LastActiveAt = &at
	s.signIns++
	return nil
}

func (s *fakeUserStore) RecordActivity(id uint, at time.Time, incrementMs int64) error {
	if s.failWrites {
		return errors.New("write failed")
	}
	u := s.users[id]
	u.Online = true
	u.LastActiveAt = &at
	u.TotalActiveMs += incrementMs
	s.increments = append(s.increments, incrementMs)
	return nil
}

func (s *fakeUserStore) RecordSignOff(id uint, at time.Time) error {
	if s.failWrites {
		return errors.New("write failed")
	}
	u := s.users[id]
	u.Online = false
	u.LastSignOffAt = &at
	s.signOffs++
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*models.Session)}
}

func (s *fakeSessionStore) CreateSession(_ context.Context, session *models.Session) error {
	session.ID = primitive.NewObjectID()
	cp := *session
	s.sessions[session.ID.Hex()] = &cp
	return nil
}

func (s *fakeSessionStore) GetSessionByID(_ context.Context, id string) (*models.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errors.New("session not found")
	}
	cp := *sess
	return &cp, nil
}

func (s *fakeSessionStore) UpdateHeartbeat(_ context.Context, id string, userID uint, at time.Time, durationMs int64) error {
	sess, ok := s.sessions[id]
	if !ok || sess.UserID != userID || sess.Status != models.SessionActive {
		return errors.New("session not found or not active")
	}
	sess.LastHeartbeat = at
	sess.DurationMs = durationMs
	return nil
}

func (s *fakeSessionStore) CompleteSession(_ context.Context, id string, userID uint, at time.Time) error {
	sess, ok := s.sessions[id]
	if !ok || sess.UserID != userID || sess.Status != models.SessionActive {
		return errors.New("session not found or not active")
	}
	sess.Status = models.SessionCompleted
	sess.EndedAt = &at
	return nil
}

func (s *fakeSessionStore) GetSessionsByUserID(_ context.Context, userID uint, limit int64) ([]models.Session, error) {
	var out []models.Session
	for _, sess := range s.sessions {
		if sess.UserID == userID {
			out = append(out, *sess)
		}
	}
	return out, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(users *fakeUserStore) (*Tracker, *fakeSessionStore, *fakeClock) {
	sessions := newFakeSessionStore()
	clock := &fakeClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewTracker(users, sessions, clock.Now), sessions, clock
}

func TestStartSessionRecordsSignIn(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7, Name: "Maya"})
	tracker, sessions, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	sess, err := sessions.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, sess.Status)
	assert.Equal(t, uint(7), sess.UserID)
	assert.Equal(t, clock.Now(), sess.StartedAt)
	assert.Equal(t, clock.Now(), sess.LastHeartbeat)

	u := users.users[7]
	assert.True(t, u.Online)
	require.NotNil(t, u.LastSignInAt)
	assert.Equal(t, clock.Now(), *u.LastSignInAt)
}

func TestStartSessionUnknownUserIsNoOp(t *testing.T) {
	users := newFakeUserStore()
	tracker, sessions, _ := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 99, "web")
	require.NoError(t, err)
	assert.Empty(t, sessionID)
	assert.Empty(t, sessions.sessions)
}

func TestHeartbeatCreditsFirstBeat(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, _, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	clock.Advance(HeartbeatInterval)
	require.NoError(t, tracker.Heartbeat(context.Background(), 7, sessionID, 60000))

	// Sign-in stamped activity, so the first heartbeat lands a full interval
	// later and passes the debounce window.
	assert.Equal(t, int64(60000), users.users[7].TotalActiveMs)
}

func TestHeartbeatDebouncesWithinWindow(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, _, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	clock.Advance(HeartbeatInterval)
	require.NoError(t, tracker.Heartbeat(context.Background(), 7, sessionID, 60000))

	// A second tab heartbeating one second later stays inside the window.
	clock.Advance(time.Second)
	require.NoError(t, tracker.Heartbeat(context.Background(), 7, sessionID, 61000))

	assert.Equal(t, int64(60000), users.users[7].TotalActiveMs)
	assert.Equal(t, []int64{60000, 0}, users.increments)
}

func TestHeartbeatCreditsAgainPastWindow(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, _, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	clock.Advance(HeartbeatInterval)
	require.NoError(t, tracker.Heartbeat(context.Background(), 7, sessionID, 60000))

	clock.Advance(46 * time.Second)
	require.NoError(t, tracker.Heartbeat(context.Background(), 7, sessionID, 106000))

	assert.Equal(t, int64(120000), users.users[7].TotalActiveMs)
}

func TestHeartbeatCreditsAtExactWindowBoundary(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, _, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	// A gap of exactly the debounce window credits: the window suppresses
	// gaps strictly inside it.
	clock.Advance(debounceWindow)
	require.NoError(t, tracker.Heartbeat(context.Background(), 7, sessionID, 45000))

	assert.Equal(t, activeIncrement, users.users[7].TotalActiveMs)
}

func TestHeartbeatAlwaysStampsActivity(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, _, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	clock.Advance(10 * time.Second)
	require.NoError(t, tracker.Heartbeat(context.Background(), 7, sessionID, 10000))

	// Debounced beat credits nothing but the activity stamp still moves.
	assert.Equal(t, int64(0), users.users[7].TotalActiveMs)
	require.NotNil(t, users.users[7].LastActiveAt)
	assert.Equal(t, clock.Now(), *users.users[7].LastActiveAt)
}

func TestHeartbeatOnCompletedSessionFails(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, _, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	tracker.EndSession(context.Background(), 7, sessionID)

	clock.Advance(HeartbeatInterval)
	err = tracker.Heartbeat(context.Background(), 7, sessionID, 60000)
	assert.Error(t, err)
	assert.Equal(t, int64(0), users.users[7].TotalActiveMs)
}

func TestHeartbeatOnAnotherUsersSessionFails(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7}, &models.User{ID: 8})
	tracker, _, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	clock.Advance(HeartbeatInterval)
	err = tracker.Heartbeat(context.Background(), 8, sessionID, 60000)
	assert.Error(t, err)

	// The session stays the owner's and the caller earns no credit.
	assert.Equal(t, int64(0), users.users[8].TotalActiveMs)
	assert.Equal(t, int64(0), users.users[7].TotalActiveMs)
}

func TestEndSessionScopedToOwner(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7}, &models.User{ID: 8})
	tracker, sessions, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	tracker.EndSession(context.Background(), 8, sessionID)

	// The owner's session and online flag survive another user's end call.
	sess, err := sessions.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, sess.Status)
	assert.True(t, users.users[7].Online)
}

func TestEndSessionIsTerminal(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, sessions, clock := newTestTracker(users)

	sessionID, err := tracker.StartSession(context.Background(), 7, "web")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	tracker.EndSession(context.Background(), 7, sessionID)

	sess, err := sessions.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, sess.Status)
	require.NotNil(t, sess.EndedAt)
	assert.Equal(t, clock.Now(), *sess.EndedAt)
	assert.False(t, users.users[7].Online)

	// Ending again never resurrects the session, and sign-off is recorded
	// each time regardless.
	tracker.EndSession(context.Background(), 7, sessionID)
	sess, err = sessions.GetSessionByID(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionCompleted, sess.Status)
}

func TestEndSessionSwallowsErrors(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7})
	tracker, _, _ := newTestTracker(users)

	// Unknown session and failing user writes must not panic or block.
	users.failWrites = true
	tracker.EndSession(context.Background(), 7, primitive.NewObjectID().Hex())
}

func TestIsStale(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	fresh := &models.Session{Status: models.SessionActive, LastHeartbeat: now.Add(-HeartbeatInterval)}
	assert.False(t, IsStale(fresh, now))

	stale := &models.Session{Status: models.SessionActive, LastHeartbeat: now.Add(-2*HeartbeatInterval - time.Second)}
	assert.True(t, IsStale(stale, now))

	// Completed sessions are never stale, whatever their last heartbeat.
	done := &models.Session{Status: models.SessionCompleted, LastHeartbeat: now.Add(-time.Hour)}
	assert.False(t, IsStale(done, now))
}

func TestRecentSessionsFlagsStale(t *testing.T) {
	users := newFakeUserStore(&models.User{ID: 7, Name: "Maya"})
	tracker, _, clock := newTestTracker(users)

	id, err := tracker.StartSession(context.Background(), 7, "laptop")
	require.NoError(t, err)

	// The client vanishes without an explicit sign-off.
	clock.Advance(2*HeartbeatInterval + time.Second)

	sessions, err := tracker.RecentSessions(context.Background(), 7, 20)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, id, sessions[0].ID.Hex())
	assert.Equal(t, models.SessionActive, sessions[0].Status)
	assert.True(t, sessions[0].Stale)
}

func TestActiveCutoff(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-2*HeartbeatInterval), ActiveCutoff(now))
}
