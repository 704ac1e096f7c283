package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// QueueKeyPrefix is the PKV namespace reserved for queued items.
const QueueKeyPrefix = "queue:"

// QueueItem is a buffered local mutation awaiting remote delivery.
type QueueItem struct {
	ID         string          `json:"id"`
	Payload    json.RawMessage `json:"payload"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
}

// QueueKey returns the PKV key for a queue item id.
func QueueKey(id string) string {
	return QueueKeyPrefix + id
}

// QueueIDFromKey strips the queue namespace from a PKV key.
func QueueIDFromKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, QueueKeyPrefix)
	return id, ok && id != ""
}

// Valid reports whether the item can be stored and replayed.
func (q QueueItem) Valid() bool {
	return q.ID != "" && len(q.Payload) > 0 && json.Valid(q.Payload)
}

// CourseCompletionID builds the logical queue id used when a learner completes a course module.
func CourseCompletionID(courseID, moduleID string) string {
	return "course_completion_" + courseID + "_" + moduleID
}

// SyncResult reports the outcome of a flush.
type SyncResult struct {
	// Attempted is false when the flush was a no-op (offline or nothing pending).
	Attempted bool
	// Delivered is the number of items delivered and removed from the queue.
	Delivered int
	// Remaining is the number of items still queued after the flush.
	Remaining int
}
