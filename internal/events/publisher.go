package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/campusdesk/swo-feedback/types"
	"github.com/google/uuid"
)

const eventSource = "swo-feedback"

// NewEvent builds a versioned event for the given form with payload encoded as JSON.
func NewEvent(eventType types.EventType, form types.FeedbackForm, userID string, payload interface{}) (types.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return types.Event{}, fmt.Errorf("marshal event payload: %w", err)
	}
	return types.Event{
		BaseEvent: types.BaseEvent{
			ID:        uuid.NewString(),
			Type:      eventType,
			FormID:    form.ID,
			FormType:  form.FormType,
			UserID:    userID,
			Timestamp: time.Now().UTC(),
			Version:   1,
		},
		Metadata: types.EventMetadata{Source: eventSource},
		Payload:  data,
	}, nil
}

// PublishEvent builds and publishes an event in one step.
func PublishEvent(ctx context.Context, publisher types.EventPublisher, eventType types.EventType, form types.FeedbackForm, userID string, payload interface{}) error {
	event, err := NewEvent(eventType, form, userID, payload)
	if err != nil {
		return err
	}
	if err := publisher.Publish(ctx, event); err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

// NoopPublisher discards events. Used when Redis is not configured and in tests.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, types.Event) error { return nil }
