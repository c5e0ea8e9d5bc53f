package types

import (
	"context"
	"encoding/json"
	"time"

	"github.com/campusdesk/swo-feedback/errors"
)

type EventType string

const (
	CategoryForm     = "feedback_form"
	CategoryResponse = "feedback_response"
)

const (
	EventTypeFormCreated       EventType = CategoryForm + ".created"
	EventTypeFormUpdated       EventType = CategoryForm + ".updated"
	EventTypeFormStatusChanged EventType = CategoryForm + ".status_changed"

	EventTypeResponseSubmitted EventType = CategoryResponse + ".submitted"
)

// BaseEvent carries the fields shared by every published event.
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	FormID    string    `json:"formId"`
	FormType  FormType  `json:"formType"`
	UserID    string    `json:"userId,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Version   int       `json:"version"`
}

// EventMetadata for tracking and debugging
type EventMetadata struct {
	CorrelationID string            `json:"correlationId,omitempty"`
	Source        string            `json:"source"`
	Tags          map[string]string `json:"tags,omitempty"`
}

type Event struct {
	BaseEvent
	Metadata EventMetadata   `json:"metadata"`
	Payload  json.RawMessage `json:"payload"`
}

func (e Event) Validate() error {
	if e.ID == "" {
		return errors.ValidationFailed("invalid event", "event ID is required")
	}
	if e.Type == "" {
		return errors.ValidationFailed("invalid event", "event type is required")
	}
	if e.FormID == "" {
		return errors.ValidationFailed("invalid event", "form ID is required")
	}
	if e.Timestamp.IsZero() {
		return errors.ValidationFailed("invalid event", "timestamp is required")
	}
	return nil
}

// EventPublisher broadcasts domain events to interested consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type FormStatusChangedEvent struct {
	OldStatus   FormStatus `json:"oldStatus"`
	NewStatus   FormStatus `json:"newStatus"`
	Deactivated []string   `json:"deactivated,omitempty"`
	ChangedBy   string     `json:"changedBy"`
}

type ResponseSubmittedEvent struct {
	ResponseID     string         `json:"responseId"`
	RespondentType RespondentType `json:"respondentType"`
	FacultyID      *string        `json:"facultyId,omitempty"`
	AnswerCount    int            `json:"answerCount"`
}
