// Package schedapi is the HTTP client for the schedule service: fetching a
// day's schedule, listing dates, adding and deleting tasks and copying a
// schedule between days.
package schedapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/dayplan/dayplan/pkg/schedule"
)

// Client talks to one schedule service instance.
type Client struct {
	base *url.URL
	http *http.Client
	log  logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a client for the service at baseURL.
// Requests carry no timeout of their own; callers bound them through ctx.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{},
		log:  logger.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

func (c *Client) endpoint(segments ...string) string {
	u := *c.base
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u.Path = c.base.Path + "/" + strings.Join(segments, "/")
	u.RawPath = c.base.EscapedPath() + "/" + strings.Join(escaped, "/")
	return u.String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) (*http.Response, []byte, error) {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.log.Debug("%s %s", method, endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, nil, fmt.Errorf("read response: %w", err)
	}
	return resp, data, nil
}

func ok(resp *http.Response) bool {
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// statusError builds the error for a failed reply, preferring the server's
// own error text over the generic status message.
func statusError(resp *http.Response, data []byte, generic string) error {
	var eb errorBody
	if json.Unmarshal(data, &eb) == nil && eb.text() != "" {
		return &StatusError{Code: resp.StatusCode, Message: eb.text()}
	}
	if generic == "" {
		generic = fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
	}
	return &StatusError{Code: resp.StatusCode, Message: generic}
}

// Fetch returns the schedule for date. An empty date or "today" uses the
// current-day endpoint; any other value is passed to the service verbatim.
// Start and end times are normalized before the schedule is returned.
func (c *Client) Fetch(ctx context.Context, date string) (schedule.Schedule, error) {
	if schedule.IsToday(date) {
		return c.Today(ctx)
	}
	return c.ForDate(ctx, date)
}

// Today returns the schedule for the service's current day.
func (c *Client) Today(ctx context.Context) (schedule.Schedule, error) {
	return c.getSchedule(ctx, c.endpoint("schedule"))
}

// ForDate returns the schedule for a specific date.
func (c *Client) ForDate(ctx context.Context, date string) (schedule.Schedule, error) {
	return c.getSchedule(ctx, c.endpoint("schedule", strings.TrimSpace(date)))
}

func (c *Client) getSchedule(ctx context.Context, endpoint string) (schedule.Schedule, error) {
	resp, data, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, statusError(resp, data, "")
	}
	var s schedule.Schedule
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if s == nil {
		s = schedule.Schedule{}
	}
	for _, e := range s.Normalize() {
		c.log.Warning("schedule ingest: %v", e)
	}
	return s, nil
}

// AvailableDates lists the dates the service holds schedules for.
func (c *Client) AvailableDates(ctx context.Context) ([]string, error) {
	resp, data, err := c.do(ctx, http.MethodGet, c.endpoint("schedule", "available_dates"), nil)
	if err != nil {
		return nil, err
	}
	if !ok(resp) {
		return nil, statusError(resp, data, "")
	}
	var body struct {
		Dates []string `json:"dates"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return body.Dates, nil
}

// AddTask submits a new task. Validation is entirely up to the service.
func (c *Client) AddTask(ctx context.Context, task *schedule.NewTaskRequest) error {
	if task.Subtasks == nil {
		task.Subtasks = []string{}
	}
	resp, data, err := c.do(ctx, http.MethodPost, c.endpoint("add_task"), task)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return statusError(resp, data, "Failed to add task")
	}
	return nil
}

// DeleteTask removes the task with the given period key and returns the
// service's confirmation message. The body is parsed even for failed replies
// so the server's error text can be surfaced.
func (c *Client) DeleteTask(ctx context.Context, taskID string) (string, error) {
	resp, data, err := c.do(ctx, http.MethodDelete, c.endpoint("delete_task", taskID), nil)
	if err != nil {
		return "", err
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		c.log.Debug("delete %s: unparseable body: %v", taskID, err)
		return "", ErrInvalidResponse
	}
	if !ok(resp) {
		return "", &StatusError{Code: resp.StatusCode, Message: body.Error}
	}
	return body.Message, nil
}

// CopyRequest names the source and target days of a copy.
type CopyRequest struct {
	SourceDate string `json:"source_date"`
	TargetDate string `json:"target_date"`
}

// CopySchedule asks the service to copy source's tasks into target and
// returns the service's message. Success is decided by the "status" field,
// not by the HTTP status alone.
func (c *Client) CopySchedule(ctx context.Context, source, target string) (string, error) {
	resp, data, err := c.do(ctx, http.MethodPost, c.endpoint("schedule", "copy"), &CopyRequest{
		SourceDate: source,
		TargetDate: target,
	})
	if err != nil {
		return "", err
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return "", ErrInvalidResponse
	}
	if body.Status == "success" {
		return body.Message, nil
	}
	msg := body.text()
	if msg == "" {
		msg = "Failed to copy schedule"
	}
	return "", &StatusError{Code: resp.StatusCode, Message: msg}
}

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) error {
	resp, data, err := c.do(ctx, http.MethodGet, c.endpoint("health"), nil)
	if err != nil {
		return err
	}
	if !ok(resp) {
		return statusError(resp, data, "")
	}
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ErrInvalidResponse
	}
	if body.Status != "" && body.Status != "healthy" && body.Status != "running" {
		return errors.New("service reports status " + body.Status)
	}
	return nil
}
