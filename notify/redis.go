// Package notify publishes verbiage lifecycle events to external listeners.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ZaguanLabs/verbiage"
	"github.com/redis/go-redis/v9"
)

// DefaultStream is the stream key events are appended to.
const DefaultStream = "verbiage:events"

// Message is the payload stored under the "data" field of each stream entry.
type Message struct {
	Event   verbiage.Event `json:"event"`
	Locales []string       `json:"locales,omitempty"`
	Tag     string         `json:"tag,omitempty"`
	At      int64          `json:"at"` // Unix milliseconds
}

// StreamNotifier appends events to a Redis stream so other processes can
// reload their terms.
type StreamNotifier struct {
	rdb     *redis.Client
	stream  string
	maxLen  int64
	locales verbiage.LocaleSet
	tag     string
	now     func() time.Time
}

// StreamOption configures a StreamNotifier.
type StreamOption func(*StreamNotifier)

// WithStream sets the stream key.
func WithStream(stream string) StreamOption {
	return func(n *StreamNotifier) {
		if stream != "" {
			n.stream = stream
		}
	}
}

// WithMaxLen caps the stream length (approximate trimming). Zero disables
// trimming.
func WithMaxLen(maxLen int64) StreamOption {
	return func(n *StreamNotifier) {
		n.maxLen = maxLen
	}
}

// WithScope attaches the synced locale set and tag to every message.
func WithScope(locales verbiage.LocaleSet, tag string) StreamOption {
	return func(n *StreamNotifier) {
		n.locales = append(verbiage.LocaleSet(nil), locales...)
		n.tag = tag
	}
}

// NewStreamNotifier creates a notifier writing to client.
func NewStreamNotifier(client *redis.Client, opts ...StreamOption) *StreamNotifier {
	n := &StreamNotifier{
		rdb:    client,
		stream: DefaultStream,
		maxLen: 1000,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Stream returns the stream key.
func (n *StreamNotifier) Stream() string {
	return n.stream
}

// Notify appends event to the stream.
func (n *StreamNotifier) Notify(ctx context.Context, event verbiage.Event) error {
	data, err := json.Marshal(Message{
		Event:   event,
		Locales: n.locales,
		Tag:     n.tag,
		At:      n.now().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: n.stream,
		Values: map[string]any{"data": string(data)},
	}
	if n.maxLen > 0 {
		args.MaxLen = n.maxLen
		args.Approx = true
	}

	if err := n.rdb.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", event, err)
	}
	return nil
}

// ReadEvents returns up to count messages appended after lastID ("0" reads
// from the start) together with the ID to resume from. A negative block
// returns immediately; otherwise XREAD blocks for up to block.
func ReadEvents(ctx context.Context, client *redis.Client, stream, lastID string, count int64, block time.Duration) ([]Message, string, error) {
	if stream == "" {
		stream = DefaultStream
	}
	if lastID == "" {
		lastID = "0"
	}

	streams, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{stream, lastID},
		Count:   count,
		Block:   block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil, lastID, nil
	}
	if err != nil {
		return nil, lastID, err
	}

	var msgs []Message
	for _, s := range streams {
		for _, entry := range s.Messages {
			lastID = entry.ID

			raw, ok := entry.Values["data"].(string)
			if !ok {
				continue
			}
			var msg Message
			if err := json.Unmarshal([]byte(raw), &msg); err != nil {
				continue
			}
			msgs = append(msgs, msg)
		}
	}
	return msgs, lastID, nil
}

// Verify StreamNotifier implements verbiage.Notifier
var _ verbiage.Notifier = (*StreamNotifier)(nil)
