package notify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	created    []models.Notification
	batches    [][]models.Notification
	failBatch  int // 1-based index of the batch call that fails; 0 means never
	countErr   error
	scanErr    error
	markedRead []uint
	markedAll  []uint
}

func (r *fakeNotificationRepo) CreateNotification(n *models.Notification) error {
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) CreateBatch(notifications []models.Notification) error {
	if r.failBatch > 0 && len(r.batches)+1 == r.failBatch {
		return errors.New("insert failed")
	}
	batch := make([]models.Notification, len(notifications))
	copy(batch, notifications)
	r.batches = append(r.batches, batch)
	return nil
}

func (r *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}

func (r *fakeNotificationRepo) GetGrouped(recipientID uint) ([]models.Notification, []models.Notification, []models.Notification, []models.Notification, error) {
	return nil, nil, nil, nil, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(recipientID uint) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	var count int64
	for _, n := range r.allRows() {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) ScanRecent(recipientID uint, limit int) ([]models.Notification, error) {
	if r.scanErr != nil {
		return nil, r.scanErr
	}
	var out []models.Notification
	for _, n := range r.allRows() {
		if n.RecipientID != recipientID {
			continue
		}
		out = append(out, n)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAsRead(recipientID, notificationID uint) error {
	r.markedRead = append(r.markedRead, notificationID)
	return nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(recipientID uint) error {
	r.markedAll = append(r.markedAll, recipientID)
	for i := range r.created {
		if r.created[i].RecipientID == recipientID {
			r.created[i].IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) allRows() []models.Notification {
	rows := append([]models.Notification{}, r.created...)
	for _, b := range r.batches {
		rows = append(rows, b...)
	}
	return rows
}

type fakeUserRepo struct {
	repositories.UserRepository
	ids []uint
}

func (r *fakeUserRepo) GetUserIDs() ([]uint, error) {
	return r.ids, nil
}

type fakeAuditRepo struct {
	events []models.AuditEvent
	err    error
}

func (r *fakeAuditRepo) Record(_ context.Context, event *models.AuditEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeAuditRepo) GetRecent(_ context.Context, limit int64) ([]models.AuditEvent, error) {
	return r.events, nil
}

func userIDs(n int) []uint {
	ids := make([]uint, n)
	for i := range ids {
		ids[i] = uint(i + 1)
	}
	return ids
}

// The admin's ID sits outside every userIDs range so chunk counts are not
// affected by the actor's own exclusion.
func admin() *models.User {
	return &models.User{ID: 9001, Name: "Root", Role: models.RoleAdmin}
}

func TestNotifySkipsSelfNotification(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	require.NoError(t, f.Notify(5, 5, models.NotificationLike, "post", "p1", "liked", ""))
	assert.Empty(t, notifications.created)
}

func TestNotifySkipsUnresolvedActor(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	require.NoError(t, f.Notify(0, 5, models.NotificationLike, "post", "p1", "liked", ""))
	assert.Empty(t, notifications.created)
}

func TestNotifyWritesOneRow(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	require.NoError(t, f.Notify(2, 5, models.NotificationComment, "post", "p1", "commented", ""))
	require.Len(t, notifications.created, 1)
	assert.Equal(t, uint(2), notifications.created[0].ActorID)
	assert.Equal(t, uint(5), notifications.created[0].RecipientID)
	assert.False(t, notifications.created[0].IsRead)
}

func TestBroadcastChunksUnderBatchLimit(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	audit := &fakeAuditRepo{}
	f := NewFanout(notifications, &fakeUserRepo{ids: userIDs(1203)}, audit)

	count, err := f.Broadcast(context.Background(), admin(), "Maintenance", "Back at noon", "")
	require.NoError(t, err)
	assert.Equal(t, 1203, count)

	require.Len(t, notifications.batches, 3)
	assert.Len(t, notifications.batches[0], 500)
	assert.Len(t, notifications.batches[1], 500)
	assert.Len(t, notifications.batches[2], 203)

	// Every recipient gets exactly one row, all under the same broadcast ID.
	seen := make(map[uint]bool)
	broadcastID := notifications.batches[0][0].TargetID
	for _, batch := range notifications.batches {
		for _, n := range batch {
			assert.False(t, seen[n.RecipientID])
			seen[n.RecipientID] = true
			assert.Equal(t, models.NotificationBroadcast, n.Type)
			assert.Equal(t, broadcastID, n.TargetID)
		}
	}

	require.Len(t, audit.events, 1)
	assert.Equal(t, "notifications.broadcast", audit.events[0].Event)
	assert.Equal(t, 1203, audit.events[0].Details["recipients"])
}

func TestBroadcastExactMultipleOfBatchSize(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{ids: userIDs(1000)}, &fakeAuditRepo{})

	count, err := f.Broadcast(context.Background(), admin(), "Hello", "World", "")
	require.NoError(t, err)
	assert.Equal(t, 1000, count)
	require.Len(t, notifications.batches, 2)
	assert.Len(t, notifications.batches[0], 500)
	assert.Len(t, notifications.batches[1], 500)
}

func TestBroadcastPartialFailureReportsCommitted(t *testing.T) {
	notifications := &fakeNotificationRepo{failBatch: 2}
	f := NewFanout(notifications, &fakeUserRepo{ids: userIDs(1203)}, &fakeAuditRepo{})

	count, err := f.Broadcast(context.Background(), admin(), "Maintenance", "Back at noon", "")
	require.Error(t, err)
	assert.Equal(t, 500, count)
	assert.Contains(t, err.Error(), fmt.Sprintf("broadcast partially delivered (%d of %d)", 500, 1203))

	// The first chunk stays committed, never rolled back.
	require.Len(t, notifications.batches, 1)
	assert.Len(t, notifications.batches[0], 500)
}

func TestBroadcastExcludesActingAdmin(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	audit := &fakeAuditRepo{}
	f := NewFanout(notifications, &fakeUserRepo{ids: userIDs(5)}, audit)

	actor := &models.User{ID: 3, Name: "Root", Role: models.RoleAdmin}
	count, err := f.Broadcast(context.Background(), actor, "Hello", "World", "")
	require.NoError(t, err)

	// The actor never receives their own broadcast, so the count and the
	// audit trail cover the other users only.
	assert.Equal(t, 4, count)
	for _, n := range notifications.allRows() {
		assert.NotEqual(t, actor.ID, n.RecipientID)
	}
	require.Len(t, audit.events, 1)
	assert.Equal(t, 4, audit.events[0].Details["recipients"])
}

func TestBroadcastRequiresAdmin(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{ids: userIDs(10)}, &fakeAuditRepo{})

	member := &models.User{ID: 2, Name: "Maya", Role: models.RoleMember}
	count, err := f.Broadcast(context.Background(), member, "Nope", "Nope", "")
	assert.Equal(t, 0, count)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, notifications.batches)
}

func TestBroadcastSucceedsWhenAuditFails(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{ids: userIDs(3)}, &fakeAuditRepo{err: errors.New("audit store down")})

	count, err := f.Broadcast(context.Background(), admin(), "Hello", "World", "")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUnreadCountUsesQuery(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	require.NoError(t, f.Notify(2, 5, models.NotificationLike, "post", "p1", "liked", ""))
	require.NoError(t, f.Notify(3, 5, models.NotificationComment, "post", "p1", "commented", ""))
	require.NoError(t, f.Notify(2, 6, models.NotificationLike, "post", "p2", "liked", ""))

	assert.Equal(t, int64(2), f.UnreadCount(5))
	assert.Equal(t, int64(1), f.UnreadCount(6))
}

func TestUnreadCountFallsBackToScan(t *testing.T) {
	notifications := &fakeNotificationRepo{countErr: errors.New("missing index")}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	require.NoError(t, f.Notify(2, 5, models.NotificationLike, "post", "p1", "liked", ""))
	require.NoError(t, f.Notify(3, 5, models.NotificationComment, "post", "p1", "commented", ""))

	assert.Equal(t, int64(2), f.UnreadCount(5))
}

func TestUnreadCountNeverErrors(t *testing.T) {
	notifications := &fakeNotificationRepo{
		countErr: errors.New("missing index"),
		scanErr:  errors.New("store down"),
	}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	assert.Equal(t, int64(0), f.UnreadCount(5))
}

func TestMarkAllReadScopedToRecipient(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	require.NoError(t, f.Notify(2, 5, models.NotificationLike, "post", "p1", "liked", ""))
	require.NoError(t, f.Notify(2, 6, models.NotificationLike, "post", "p2", "liked", ""))

	require.NoError(t, f.MarkAllRead(5))

	assert.Equal(t, int64(0), f.UnreadCount(5))
	assert.Equal(t, int64(1), f.UnreadCount(6))
}

func TestMarkReadDelegates(t *testing.T) {
	notifications := &fakeNotificationRepo{}
	f := NewFanout(notifications, &fakeUserRepo{}, &fakeAuditRepo{})

	require.NoError(t, f.MarkRead(5, 42))
	assert.Equal(t, []uint{42}, notifications.markedRead)

	require.NoError(t, f.MarkAllRead(5))
	assert.Equal(t, []uint{5}, notifications.markedAll)
}
