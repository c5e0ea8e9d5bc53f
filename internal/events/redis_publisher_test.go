package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/campusdesk/swo-feedback/types"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.IsTest = true
}

func testEvent(t *testing.T) types.Event {
	t.Helper()
	form := types.FeedbackForm{ID: "form-1", FormType: types.FormTypeFacultyFeedback}
	event, err := NewEvent(types.EventTypeFormStatusChanged, form, "admin-1", types.FormStatusChangedEvent{
		OldStatus: types.FormStatusInactive,
		NewStatus: types.FormStatusActive,
		ChangedBy: "admin-1",
	})
	require.NoError(t, err)
	return event
}

func TestNewEvent(t *testing.T) {
	event := testEvent(t)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, types.EventTypeFormStatusChanged, event.Type)
	assert.Equal(t, "form-1", event.FormID)
	assert.Equal(t, types.FormTypeFacultyFeedback, event.FormType)
	assert.Equal(t, 1, event.Version)
	assert.Equal(t, eventSource, event.Metadata.Source)
	assert.JSONEq(t, `{"oldStatus":"Inactive","newStatus":"Active","changedBy":"admin-1"}`, string(event.Payload))
}

func TestRedisPublisher_Publish(t *testing.T) {
	resetMetricsForTesting()
	rdb, mock := redismock.NewClientMock()
	publisher := NewRedisPublisher(rdb, Config{PublishTimeout: time.Second, ChannelPrefix: "swo:feedback"})

	event := testEvent(t)
	data, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectPublish("swo:feedback:faculty_feedback", data).SetVal(1)

	require.NoError(t, publisher.Publish(context.Background(), event))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPublisher_PublishRedisError(t *testing.T) {
	resetMetricsForTesting()
	rdb, mock := redismock.NewClientMock()
	publisher := NewRedisPublisher(rdb)

	event := testEvent(t)
	data, err := json.Marshal(event)
	require.NoError(t, err)

	mock.ExpectPublish("swo:feedback:faculty_feedback", data).SetErr(errors.New("connection refused"))

	err = publisher.Publish(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis publish")
}

func TestRedisPublisher_PublishInvalidEvent(t *testing.T) {
	resetMetricsForTesting()
	rdb, mock := redismock.NewClientMock()
	publisher := NewRedisPublisher(rdb)

	err := publisher.Publish(context.Background(), types.Event{BaseEvent: types.BaseEvent{Type: types.EventTypeFormCreated}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid event")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisPublisher_PublishBatch(t *testing.T) {
	resetMetricsForTesting()
	rdb, mock := redismock.NewClientMock()
	publisher := NewRedisPublisher(rdb)

	first := testEvent(t)
	second, err := NewEvent(types.EventTypeResponseSubmitted,
		types.FeedbackForm{ID: "form-2", FormType: types.FormTypeGraduateExitSurvey}, "student-1",
		types.ResponseSubmittedEvent{ResponseID: "resp-1", RespondentType: types.RespondentGraduate, AnswerCount: 3})
	require.NoError(t, err)

	firstData, _ := json.Marshal(first)
	secondData, _ := json.Marshal(second)
	mock.ExpectPublish("swo:feedback:faculty_feedback", firstData).SetVal(1)
	mock.ExpectPublish("swo:feedback:graduate_exit_survey", secondData).SetVal(0)

	require.NoError(t, publisher.PublishBatch(context.Background(), []types.Event{first, second}))
	assert.NoError(t, mock.ExpectationsWereMet())

	assert.NoError(t, publisher.PublishBatch(context.Background(), nil))
}

func TestRedisPublisher_Channel(t *testing.T) {
	resetMetricsForTesting()
	rdb, _ := redismock.NewClientMock()
	publisher := NewRedisPublisher(rdb, Config{ChannelPrefix: "campus"})

	assert.Equal(t, "campus:institution_feedback", publisher.Channel(types.FormTypeInstitutionFeedback))
}

func TestPublishEvent_Noop(t *testing.T) {
	form := types.FeedbackForm{ID: "form-1", FormType: types.FormTypeInstitutionFeedback}
	assert.NoError(t, PublishEvent(context.Background(), NoopPublisher{}, types.EventTypeFormCreated, form, "admin", map[string]string{"title": "x"}))
}
