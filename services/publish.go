package services

import (
	"context"
	"strings"
	"time"

	"github.com/campusdesk/swo-feedback/internal/events"
	"github.com/campusdesk/swo-feedback/types"
	"go.uber.org/zap"
)

const inlinePublishTimeout = 5 * time.Second

// publishAsync hands the event to the worker pool. Without a pool, or when the
// queue is full, it publishes inline. Failures are logged; events never fail a request.
func publishAsync(jobs JobSubmitter, publisher types.EventPublisher, log *zap.SugaredLogger,
	eventType types.EventType, form types.FeedbackForm, userID string, payload interface{}) {
	event, err := events.NewEvent(eventType, form, userID, payload)
	if err != nil {
		log.Errorw("Failed to build event", "type", eventType, "error", err)
		return
	}

	publish := func(ctx context.Context) error {
		return publisher.Publish(ctx, event)
	}

	if jobs != nil && jobs.Submit(Job{Name: "publish:" + string(eventType), Execute: publish}) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), inlinePublishTimeout)
	defer cancel()
	if err := publish(ctx); err != nil {
		log.Warnw("Failed to publish event", "type", eventType, "formId", form.ID, "error", err)
	}
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
