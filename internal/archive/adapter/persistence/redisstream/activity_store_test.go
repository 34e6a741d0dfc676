package redisstream

import (
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecentReadArgs_NonBlocking(t *testing.T) {
	args := recentReadArgs("activity:cars", "", 0)

	assert.True(t, args.Block < 0, "history reads must not block on an empty stream")
	assert.Equal(t, []string{"activity:cars", "0"}, args.Streams)
	assert.Equal(t, int64(100), args.Count)
}

func TestRecentReadArgs_ResumesAfterID(t *testing.T) {
	args := recentReadArgs("activity:projects", "1693000000000-5", 25)

	assert.Equal(t, []string{"activity:projects", "1693000000000-5"}, args.Streams)
	assert.Equal(t, int64(25), args.Count)
	assert.True(t, args.Block < 0)
}

func TestParseActivityMessage(t *testing.T) {
	stored := time.Now().UTC().Truncate(time.Millisecond)
	msg := redis.XMessage{
		ID: "1693000000000-0",
		Values: map[string]interface{}{
			"action":     "updated",
			"collection": "cars",
			"entityId":   "64f1a2b3c4d5e6f7a8b9c0d1",
			"actor":      "user-1",
			"data":       `{"field":"price"}`,
			"timestamp":  strconv.FormatInt(stored.UnixNano(), 10),
		},
	}

	event, err := parseActivityMessage(msg)

	require.NoError(t, err)
	assert.Equal(t, "updated", event.Action)
	assert.Equal(t, "cars", event.Collection)
	assert.Equal(t, "user-1", event.Actor)
	assert.Equal(t, "price", event.Data["field"])
	assert.True(t, event.Timestamp.Equal(stored))
}

func TestParseActivityMessage_BadDataPayload(t *testing.T) {
	msg := redis.XMessage{
		ID:     "1693000000001-0",
		Values: map[string]interface{}{"action": "created", "data": "{not json"},
	}

	_, err := parseActivityMessage(msg)
	assert.Error(t, err)
}
