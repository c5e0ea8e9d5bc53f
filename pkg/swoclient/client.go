// Package swoclient is a Go client for the feedback API. Client wraps the REST
// endpoints; Session drives one respondent through loading the active form,
// collecting answers and submitting them.
package swoclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/campusdesk/swo-feedback/internal/feedback"
	"github.com/campusdesk/swo-feedback/types"
)

// DefaultBaseURL is used when neither API_BASE_URL nor NEXT_PUBLIC_API_URL is set.
const DefaultBaseURL = "http://localhost:5000/api"

// ErrNoActiveForm is returned when a category has no usable Active form.
var ErrNoActiveForm = errors.New("no active form")

// APIError is a non-2xx reply. Message is the server's message, when it sent one.
type APIError struct {
	StatusCode int
	Message    string
	Type       string
	Code       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// BaseURLFromEnv resolves the API base URL from the environment.
func BaseURLFromEnv() string {
	for _, key := range []string{"API_BASE_URL", "NEXT_PUBLIC_API_URL"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return DefaultBaseURL
}

// New creates a client. An empty baseURL falls back to BaseURLFromEnv.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = BaseURLFromEnv()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListForms lists the forms of filter.FormType. Status, department and
// semester narrow the listing when set.
func (c *Client) ListForms(ctx context.Context, filter types.FormFilter) ([]types.FeedbackForm, error) {
	q := url.Values{}
	if filter.Status != nil {
		q.Set("status", string(*filter.Status))
	}
	if id := feedback.CleanScopeID(filter.DepartmentID); id != nil {
		q.Set("department_id", *id)
	}
	if id := feedback.CleanScopeID(filter.SemesterID); id != nil {
		q.Set("semester_id", *id)
	}
	var forms []types.FeedbackForm
	if err := c.do(ctx, http.MethodGet, categoryPath(filter.FormType, "public"), q, nil, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

// GetFormDetail fetches a form with its areas and questions.
func (c *Client) GetFormDetail(ctx context.Context, formType types.FormType, id string) (*types.FormDetail, error) {
	var detail types.FormDetail
	if err := c.do(ctx, http.MethodGet, categoryPath(formType, "public", id), nil, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// LoadActiveForm finds the Active form of scope and normalizes its schema.
// A scope without department or semester loads the category-wide form. Any
// failure along the way, including an empty schema, is reported as
// ErrNoActiveForm with the cause attached.
func (c *Client) LoadActiveForm(ctx context.Context, scope feedback.Scope) (feedback.Schema, error) {
	scope = scope.Normalize()
	active := types.FormStatusActive
	forms, err := c.ListForms(ctx, types.FormFilter{
		FormType:     scope.FormType,
		Status:       &active,
		DepartmentID: scope.DepartmentID,
		SemesterID:   scope.SemesterID,
	})
	if err != nil {
		return feedback.Schema{}, fmt.Errorf("%w: %w", ErrNoActiveForm, err)
	}
	form, ok := feedback.SelectActive(forms, scope)
	if !ok {
		return feedback.Schema{}, ErrNoActiveForm
	}
	detail, err := c.GetFormDetail(ctx, scope.FormType, form.ID)
	if err != nil {
		return feedback.Schema{}, fmt.Errorf("%w: %w", ErrNoActiveForm, err)
	}
	schema := feedback.Normalize(*detail)
	if schema.IsEmpty() {
		return feedback.Schema{}, ErrNoActiveForm
	}
	return schema, nil
}

// SetStatus toggles a form. Callers re-list afterwards to see siblings that
// were deactivated.
func (c *Client) SetStatus(ctx context.Context, formType types.FormType, id string, status types.FormStatus) (*types.StatusChangeResponse, error) {
	var out types.StatusChangeResponse
	body := types.StatusUpdate{Status: status}
	if err := c.do(ctx, http.MethodPatch, categoryPath(formType, "public", id, "status"), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActiveFaculty returns the faculty dropdown. An empty departmentID uses
// the caller's own department; "all" lists every department.
func (c *Client) ListActiveFaculty(ctx context.Context, departmentID string) ([]types.Faculty, error) {
	q := url.Values{}
	if departmentID != "" {
		q.Set("department_id", departmentID)
	}
	var out []types.Faculty
	if err := c.do(ctx, http.MethodGet, "/faculties/dropdown/active", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Submit posts a finished response.
func (c *Client) Submit(ctx context.Context, formType types.FormType, formID string, req types.SubmitRequest) (*types.FeedbackResponse, error) {
	var out types.FeedbackResponse
	if err := c.do(ctx, http.MethodPost, categoryPath(formType, formID, "submit"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveDraft stores partial answers.
func (c *Client) SaveDraft(ctx context.Context, formType types.FormType, formID string, req types.DraftRequest) (*types.FeedbackResponse, error) {
	var out types.FeedbackResponse
	if err := c.do(ctx, http.MethodPut, categoryPath(formType, formID, "draft"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func categoryPath(formType types.FormType, parts ...string) string {
	segs := []string{"", "academic-swo", formType.Slug()}
	for _, p := range parts {
		segs = append(segs, url.PathEscape(p))
	}
	return strings.Join(segs, "/")
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Type    string          `json:"type"`
	Code    string          `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if decodeErr == nil {
			apiErr.Message = env.Message
			apiErr.Type = env.Type
			apiErr.Code = env.Code
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
