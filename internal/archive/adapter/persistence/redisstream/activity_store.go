package redisstream

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"motive-archive/internal/archive/domain/model"
	"motive-archive/internal/archive/domain/repository"
	"motive-archive/internal/shared/logger"
)

// RedisActivityStore persists the activity feed in Redis Streams, one
// stream per collection (activity:cars, activity:projects, ...). Stream
// message IDs double as resume tokens for feed continuation.
type RedisActivityStore struct {
	client *redis.Client
	logger logger.Logger
	maxLen int64
}

// NewRedisActivityStore creates a new Redis-backed activity store
func NewRedisActivityStore(client *redis.Client, log logger.Logger, maxLen int64) *RedisActivityStore {
	if maxLen <= 0 {
		maxLen = 10000
	}
	return &RedisActivityStore{
		client: client,
		logger: log,
		maxLen: maxLen,
	}
}

// Append stores an activity event and returns its stream ID
func (r *RedisActivityStore) Append(ctx context.Context, event *model.ActivityEvent) (string, error) {
	data, err := json.Marshal(event.Data)
	if err != nil {
		r.logger.Error("Failed to serialize activity data", zap.Error(err))
		return "", err
	}

	streamName := event.StreamKey()

	id, err := r.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamName,
		MaxLen: r.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"action":     event.Action,
			"collection": event.Collection,
			"entityId":   event.EntityID,
			"actor":      event.Actor,
			"data":       data,
			"timestamp":  event.Timestamp.UnixNano(),
		},
	}).Result()

	if err != nil {
		r.logger.Error("Failed to append activity event",
			zap.String("stream", streamName),
			zap.String("action", event.Action),
			zap.Error(err))
		return "", err
	}

	r.logger.Debug("Activity event stored",
		zap.String("stream", streamName),
		zap.String("id", id),
		zap.String("action", event.Action))

	event.ID = id
	return id, nil
}

// recentReadArgs builds the XREAD arguments for a history read. A
// negative Block keeps the call non-blocking, 0 would block forever.
func recentReadArgs(streamName, afterID string, count int64) *redis.XReadArgs {
	lastID := "0"
	if afterID != "" {
		lastID = afterID
	}
	if count <= 0 {
		count = 100
	}
	return &redis.XReadArgs{
		Streams: []string{streamName, lastID},
		Count:   count,
		Block:   -1,
	}
}

// Recent reads events after the given stream ID. An empty afterID reads
// from the beginning of the stream.
func (r *RedisActivityStore) Recent(ctx context.Context, collection string, afterID string, count int64) ([]*model.ActivityEvent, error) {
	streamName := "activity:" + collection

	exists, err := r.client.Exists(ctx, streamName).Result()
	if err != nil {
		r.logger.Error("Failed to check stream existence",
			zap.String("stream", streamName),
			zap.Error(err))
		return nil, err
	}
	if exists == 0 {
		return []*model.ActivityEvent{}, nil
	}

	readCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.client.XRead(readCtx, recentReadArgs(streamName, afterID, count)).Result()
	if err != nil {
		if err == redis.Nil || err == context.DeadlineExceeded {
			return []*model.ActivityEvent{}, nil
		}
		r.logger.Error("Failed to read activity events",
			zap.String("stream", streamName),
			zap.String("afterId", afterID),
			zap.Error(err))
		return nil, err
	}

	var events []*model.ActivityEvent
	for _, streamRes := range res {
		for _, msg := range streamRes.Messages {
			event, err := parseActivityMessage(msg)
			if err != nil {
				r.logger.Warn("Failed to parse activity message",
					zap.String("messageId", msg.ID),
					zap.Error(err))
				continue
			}
			event.ID = msg.ID
			events = append(events, event)
		}
	}

	r.logger.Debug("Retrieved activity events",
		zap.String("stream", streamName),
		zap.Int("eventCount", len(events)))

	if events == nil {
		events = []*model.ActivityEvent{}
	}
	return events, nil
}

func parseActivityMessage(msg redis.XMessage) (*model.ActivityEvent, error) {
	event := &model.ActivityEvent{}

	if v, ok := msg.Values["action"].(string); ok {
		event.Action = v
	}
	if v, ok := msg.Values["collection"].(string); ok {
		event.Collection = v
	}
	if v, ok := msg.Values["entityId"].(string); ok {
		event.EntityID = v
	}
	if v, ok := msg.Values["actor"].(string); ok {
		event.Actor = v
	}
	if v, ok := msg.Values["data"].(string); ok && v != "" && v != "null" {
		if err := json.Unmarshal([]byte(v), &event.Data); err != nil {
			return nil, err
		}
	}
	if v, ok := msg.Values["timestamp"].(string); ok {
		if nanos, err := strconv.ParseInt(v, 10, 64); err == nil {
			event.Timestamp = time.Unix(0, nanos)
		}
	}

	return event, nil
}

var _ repository.ActivityStore = (*RedisActivityStore)(nil)
