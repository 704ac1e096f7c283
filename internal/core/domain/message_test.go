package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lantern/internal/core/domain"
)

func TestNewMessage_OmitsEmptyPayload(t *testing.T) {
	msg := domain.NewMessage(domain.KindSkipWaiting, nil)

	assert.Equal(t, domain.KindSkipWaiting, msg.Type)
	assert.Empty(t, msg.Payload)
}

func TestMessage_Decode(t *testing.T) {
	msg := domain.NewMessage(domain.KindDownloadContent, domain.DownloadContentPayload{
		ContentID: "lesson-7",
		URL:       "/api/content/lesson/7",
	})
	assert.JSONEq(t, `{"contentId":"lesson-7","url":"/api/content/lesson/7"}`, string(msg.Payload))

	var got domain.DownloadContentPayload
	require.NoError(t, msg.Decode(&got))
	assert.Equal(t, "lesson-7", got.ContentID)
}

func TestMessage_DecodeInvalid(t *testing.T) {
	var target domain.ConnectivityPayload

	err := domain.Message{Type: domain.KindConnectivity}.Decode(&target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidMessage.Error())

	err = domain.Message{Type: domain.KindConnectivity, Payload: []byte(`"yes"`)}.Decode(&target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrInvalidMessage.Error())
}

func TestSyncCompletePayload_ItemCountOptional(t *testing.T) {
	msg := domain.NewMessage(domain.KindSyncComplete, domain.SyncCompletePayload{Timestamp: 42})
	assert.JSONEq(t, `{"timestamp":42}`, string(msg.Payload))

	n := 3
	msg = domain.NewMessage(domain.KindSyncComplete, domain.SyncCompletePayload{Timestamp: 42, ItemCount: &n})
	assert.JSONEq(t, `{"timestamp":42,"itemCount":3}`, string(msg.Payload))
}

func TestQueueIDFromKey(t *testing.T) {
	id, ok := domain.QueueIDFromKey(domain.QueueKey("course_completion_1_m3"))
	assert.True(t, ok)
	assert.Equal(t, "course_completion_1_m3", id)

	_, ok = domain.QueueIDFromKey("settings:autoSync")
	assert.False(t, ok)

	_, ok = domain.QueueIDFromKey("queue:")
	assert.False(t, ok)

	assert.Equal(t, "course_completion_1_m3", domain.CourseCompletionID("1", "m3"))
}
