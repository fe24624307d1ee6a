// Package events provides a fire-and-forget NATS publisher for
// best-effort notifications that other processes may want to react to
// but that must never block or fail the operation that produced them —
// AIDB source refreshes completing, the shared cache being invalidated.
package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Subject constants for the events this package defines.
const (
	// SubjectAIDBRefreshedPrefix and SubjectAIDBRefreshedSuffix frame the
	// concrete subject ("aidb." + source + ".refreshed") published after a
	// source's atomic index swap completes.
	SubjectAIDBRefreshedPrefix = "aidb."
	SubjectAIDBRefreshedSuffix = ".refreshed"

	// SubjectCacheInvalidated is defined for cache-invalidation notices;
	// no package in this module publishes on it.
	SubjectCacheInvalidated = "streamweave.cache.invalidated"
)

// AIDBRefreshedSubject builds the concrete subject for a source refresh.
func AIDBRefreshedSubject(source string) string {
	return SubjectAIDBRefreshedPrefix + source + SubjectAIDBRefreshedSuffix
}

// Event is the canonical envelope published to every subject here.
type Event struct {
	EventID    string         `json:"event_id"`
	EventName  string         `json:"event_name"`
	OccurredAt time.Time      `json:"occurred_at"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Publisher publishes best-effort notifications to NATS.
// The zero value and a nil pointer are both safe no-op stubs, so
// components can take a *Publisher unconditionally and only services
// that configure NATS actually publish anything.
type Publisher struct {
	conn *nats.Conn
	log  *zap.Logger
}

// New creates a Publisher using an existing NATS connection.
// Pass conn=nil to get a no-op stub (useful in tests and for the AIDB
// running without NATS configured).
func New(conn *nats.Conn, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{conn: conn, log: log}
}

// Publish sends an event asynchronously (fire-and-forget). Failures are
// logged as warnings and never surface to the caller. Safe to call with
// a nil receiver or nil connection.
func (p *Publisher) Publish(subject, eventName string, props map[string]any) {
	if p == nil || p.conn == nil {
		return
	}
	ev := Event{
		EventID:    uuid.NewString(),
		EventName:  eventName,
		OccurredAt: time.Now().UTC(),
		Properties: props,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("events: marshal failed", zap.String("event", eventName), zap.Error(err))
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.log.Warn("events: publish failed", zap.String("subject", subject), zap.Error(err))
	}
}
