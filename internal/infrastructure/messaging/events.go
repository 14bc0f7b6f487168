// Package messaging publishes maintenance lifecycle events.
package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Event types.
const (
	EventCreated         = "created"
	EventStatusChanged   = "status_changed"
	EventDeleted         = "deleted"
	EventReportGenerated = "report_generated"
)

// Event is the JSON payload published for a maintenance.
type Event struct {
	Type          string                 `json:"type"`
	MaintenanceID uint                   `json:"maintenanceId"`
	ActorID       uint                   `json:"actorId"`
	OccurredAt    time.Time              `json:"occurredAt"`
	Data          map[string]interface{} `json:"data,omitempty"`
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close()
}

// Topic returns the topic an event for maintenanceID goes to.
func Topic(prefix string, maintenanceID uint) string {
	return fmt.Sprintf("%s/maintenances/%d/events", prefix, maintenanceID)
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close()                               {}

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Close() {}

// Events returns a copy of what was published so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
