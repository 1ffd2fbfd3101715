// Package notify delivers in-app notifications to one user or to the whole
// user population. Bulk writes are chunked under the datastore's per-batch
// mutation limit; each chunk commits atomically but the overall broadcast
// does not: a failure mid-way leaves earlier chunks committed.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/famnest/backend/internal/models"
	"github.com/famnest/backend/internal/policy"
	"github.com/famnest/backend/internal/repositories"
	"github.com/google/uuid"
)

const (
	// BatchSize bounds each broadcast chunk below the store's per-batch limit.
	BatchSize = 500

	// unreadScanLimit bounds the fallback scan when the unread count query
	// fails. The fallback may undercount past this bound; that trade-off
	// favors availability over exactness.
	unreadScanLimit = 1000
)

// ErrUnauthorized is returned when a policy check denies the operation.
var ErrUnauthorized = fmt.Errorf("unauthorized")

// Fanout writes notification documents and the audit trail for broadcasts.
type Fanout struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	audit         repositories.AuditRepository
}

// NewFanout creates a Fanout.
func NewFanout(notifications repositories.NotificationRepository, users repositories.UserRepository, audit repositories.AuditRepository) *Fanout {
	return &Fanout{notifications: notifications, users: users, audit: audit}
}

// Notify writes a single notification. A user never receives a notification
// generated by their own action, and an unresolved actor produces nothing;
// both cases are silent no-ops. Repeated identical notifications are allowed
// to accumulate; there is no duplicate suppression.
func (f *Fanout) Notify(actorID, recipientID uint, notifType, targetType, targetID, message, previewURL string) error {
	if actorID == 0 || actorID == recipientID {
		return nil
	}
	return f.notifications.CreateNotification(&models.Notification{
		Type:            notifType,
		ActorID:         actorID,
		RecipientID:     recipientID,
		TargetID:        targetID,
		TargetType:      targetType,
		Message:         message,
		PreviewImageURL: previewURL,
	})
}

// Broadcast writes one system_broadcast notification per user, committed in
// chunks of BatchSize; the final partial chunk is always flushed. Admin
// only. The acting admin is excluded, same as every other self-notification,
// so the returned count is the number of users targeted without the actor.
// If a chunk fails after earlier chunks committed, the committed count is
// returned alongside the error; committed work is never rolled back or
// retried.
func (f *Fanout) Broadcast(ctx context.Context, actor *models.User, title, message, link string) (int, error) {
	if d := policy.Authorize(actor, policy.ActionBroadcast); !d.Allowed {
		return 0, fmt.Errorf("%w: %s", ErrUnauthorized, d.Reason)
	}

	all, err := f.users.GetUserIDs()
	if err != nil {
		return 0, err
	}
	ids := make([]uint, 0, len(all))
	for _, id := range all {
		if id != actor.ID {
			ids = append(ids, id)
		}
	}

	broadcastID := uuid.NewString()
	body := title
	if message != "" {
		body = title + ": " + message
	}

	committed := 0
	batch := make([]models.Notification, 0, BatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := f.notifications.CreateBatch(batch); err != nil {
			return err
		}
		committed += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, id := range ids {
		batch = append(batch, models.Notification{
			Type:            models.NotificationBroadcast,
			ActorID:         actor.ID,
			RecipientID:     id,
			TargetID:        broadcastID,
			TargetType:      "broadcast",
			Message:         body,
			PreviewImageURL: link,
		})
		if len(batch) == BatchSize {
			if err := flush(); err != nil {
				return committed, fmt.Errorf("broadcast partially delivered (%d of %d): %w", committed, len(ids), err)
			}
		}
	}
	if err := flush(); err != nil {
		return committed, fmt.Errorf("broadcast partially delivered (%d of %d): %w", committed, len(ids), err)
	}

	f.recordAudit(ctx, actor.ID, "notifications.broadcast", map[string]interface{}{
		"broadcast_id": broadcastID,
		"title":        title,
		"link":         link,
		"recipients":   committed,
	})
	return committed, nil
}

// MarkRead flips the read flag on one notification, scoped to the caller's
// own rows.
func (f *Fanout) MarkRead(recipientID, notificationID uint) error {
	return f.notifications.MarkAsRead(recipientID, notificationID)
}

// MarkAllRead flips the read flag on all of the caller's unread rows.
func (f *Fanout) MarkAllRead(recipientID uint) error {
	return f.notifications.MarkAllAsRead(recipientID)
}

// UnreadCount returns the caller's unread total. If the count query fails
// (e.g. a missing index on the backing store), it falls back to a bounded
// scan of the newest rows counted in memory. It never returns an error, at
// the cost of undercounting when the true total exceeds the scan bound.
func (f *Fanout) UnreadCount(recipientID uint) int64 {
	count, err := f.notifications.GetUnreadCount(recipientID)
	if err == nil {
		return count
	}
	log.Printf("notify: unread count query failed for user %d, using bounded scan: %v", recipientID, err)

	rows, scanErr := f.notifications.ScanRecent(recipientID, unreadScanLimit)
	if scanErr != nil {
		log.Printf("notify: fallback scan failed for user %d: %v", recipientID, scanErr)
		return 0
	}
	var unread int64
	for _, n := range rows {
		if !n.IsRead {
			unread++
		}
	}
	return unread
}

// recordAudit is best-effort: a failed audit write is logged, never returned.
func (f *Fanout) recordAudit(ctx context.Context, actorID uint, event string, details map[string]interface{}) {
	err := f.audit.Record(ctx, &models.AuditEvent{
		Event:   event,
		ActorID: actorID,
		Details: details,
	})
	if err != nil {
		log.Printf("notify: failed to record audit event %q: %v", event, err)
	}
}
