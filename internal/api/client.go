// Package api talks to the remote progress server. Every call returns a
// Result; transport and server failures are reported as values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// Health is the body of GET /api/health.
type Health struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// ProgressUpdate is sent to POST /api/progress.
type ProgressUpdate struct {
	MilestoneID string                 `json:"milestoneId"`
	Progress    int                    `json:"progress"`
	Status      domain.MilestoneStatus `json:"status"`
}

// Export is the raw payload of GET /api/progress/export.
type Export struct {
	ContentType string
	Body        []byte
}

// Client is the progress server contract the service layer depends on.
type Client interface {
	CheckHealth(ctx context.Context) Result[Health]
	GetUserData(ctx context.Context) Result[domain.User]
	CreateMilestone(ctx context.Context, m domain.Milestone) Result[domain.Milestone]
	SaveProgress(ctx context.Context, u ProgressUpdate) Result[domain.Milestone]
	GetProgressStats(ctx context.Context) Result[domain.ProgressStats]
	GetProgressHistory(ctx context.Context) Result[[]domain.ProgressHistoryEntry]
	GetProgressAnalytics(ctx context.Context) Result[domain.ProgressAnalytics]
	ExportProgress(ctx context.Context) Result[Export]
}

// httpClient implements Client over the server's JSON REST surface.
type httpClient struct {
	cfg      Config
	http     *http.Client
	observer Observer
}

// NewHTTPClient creates a Client for cfg.BaseURL.
func NewHTTPClient(cfg Config, observer Observer) Client {
	if observer == nil {
		observer = NoopObserver{}
	}
	return &httpClient{
		cfg: cfg,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
		observer: observer,
	}
}

// profileUser is the server's user representation.
type profileUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func (p profileUser) toDomain() domain.User {
	role := domain.RoleMember
	if p.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}
	return domain.User{ID: p.ID, Name: p.Username, Email: p.Email, Role: role}
}

func (c *httpClient) CheckHealth(ctx context.Context) Result[Health] {
	var out Health
	if err := c.call(ctx, "check_health", http.MethodGet, "/api/health", nil, decodeJSON("", &out)); err != nil {
		return fail[Health](err)
	}
	return ok(out)
}

func (c *httpClient) GetUserData(ctx context.Context) Result[domain.User] {
	var out profileUser
	if err := c.call(ctx, "get_user_data", http.MethodGet, "/api/auth/profile", nil, decodeJSON("user", &out)); err != nil {
		return fail[domain.User](err)
	}
	return ok(out.toDomain())
}

func (c *httpClient) CreateMilestone(ctx context.Context, m domain.Milestone) Result[domain.Milestone] {
	var out domain.Milestone
	if err := c.call(ctx, "create_milestone", http.MethodPost, "/api/milestones", m, decodeJSON("milestone", &out)); err != nil {
		return fail[domain.Milestone](err)
	}
	return ok(out)
}

func (c *httpClient) SaveProgress(ctx context.Context, u ProgressUpdate) Result[domain.Milestone] {
	var out domain.Milestone
	if err := c.call(ctx, "save_progress", http.MethodPost, "/api/progress", u, decodeJSON("milestone", &out)); err != nil {
		return fail[domain.Milestone](err)
	}
	return ok(out)
}

func (c *httpClient) GetProgressStats(ctx context.Context) Result[domain.ProgressStats] {
	var out domain.ProgressStats
	if err := c.call(ctx, "get_progress_stats", http.MethodGet, "/api/progress/stats", nil, decodeJSON("stats", &out)); err != nil {
		return fail[domain.ProgressStats](err)
	}
	return ok(out)
}

func (c *httpClient) GetProgressHistory(ctx context.Context) Result[[]domain.ProgressHistoryEntry] {
	out := []domain.ProgressHistoryEntry{}
	if err := c.call(ctx, "get_progress_history", http.MethodGet, "/api/progress/history", nil, decodeJSON("history", &out)); err != nil {
		return fail[[]domain.ProgressHistoryEntry](err)
	}
	return ok(out)
}

func (c *httpClient) GetProgressAnalytics(ctx context.Context) Result[domain.ProgressAnalytics] {
	var out domain.ProgressAnalytics
	if err := c.call(ctx, "get_progress_analytics", http.MethodGet, "/api/progress/analytics", nil, decodeJSON("analytics", &out)); err != nil {
		return fail[domain.ProgressAnalytics](err)
	}
	out.Source = domain.AnalyticsSourceRemote
	return ok(out)
}

func (c *httpClient) ExportProgress(ctx context.Context) Result[Export] {
	var out Export
	decode := func(contentType string, body []byte) error {
		out = Export{ContentType: contentType, Body: body}
		return nil
	}
	if err := c.call(ctx, "export_progress", http.MethodGet, "/api/progress/export", nil, decode); err != nil {
		return fail[Export](err)
	}
	return ok(out)
}

type decodeFunc func(contentType string, body []byte) error

// decodeJSON unmarshals the body into dst, or the member named key when
// the server wraps its payload in an envelope object.
func decodeJSON(key string, dst any) decodeFunc {
	return func(_ string, body []byte) error {
		if key == "" {
			return json.Unmarshal(body, dst)
		}
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return err
		}
		raw, found := envelope[key]
		if !found {
			return fmt.Errorf("missing %q in response", key)
		}
		return json.Unmarshal(raw, dst)
	}
}

// call performs one logical request. GETs are retried on connection
// failures and 5xx responses; writes are attempted once.
func (c *httpClient) call(ctx context.Context, op, method, path string, body any, decode decodeFunc) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutMs)*time.Millisecond)
	defer cancel()

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		payload = data
	}

	attempts := 1
	if method == http.MethodGet {
		attempts += c.cfg.MaxRetries
	}

	var (
		lastErr    error
		lastStatus int
		tried      int
	)
	for tried < attempts {
		tried++
		status, err := c.doRequest(ctx, method, path, payload, decode)
		lastStatus = status
		if err == nil {
			c.observer.OnCallComplete(CallEvent{
				Op:        op,
				Status:    status,
				Attempts:  tried,
				LatencyMs: time.Since(start).Milliseconds(),
				Success:   true,
			})
			return nil
		}
		lastErr = err

		// Don't retry on context cancellation/timeout
		if ctx.Err() != nil || !retryable(status, err) {
			break
		}
	}

	err := classify(ctx, lastErr)
	c.observer.OnCallComplete(CallEvent{
		Op:        op,
		Status:    lastStatus,
		Attempts:  tried,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   false,
		ErrorCode: ErrorCode(err),
	})
	return err
}

func (c *httpClient) doRequest(ctx context.Context, method, path string, payload []byte, decode decodeFunc) (int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, statusError(resp.StatusCode, respBody)
	}
	if err := decode(resp.Header.Get("Content-Type"), respBody); err != nil {
		return resp.StatusCode, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return resp.StatusCode, nil
}

// statusError turns a non-2xx response into a sentinel-wrapped error,
// preferring the server's {"error": "..."} message.
func statusError(status int, body []byte) error {
	msg := http.StatusText(status)
	var e struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Error != "" {
			msg = e.Error
		} else if e.Msg != "" {
			msg = e.Msg
		}
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	}
	return fmt.Errorf("%w: status %d: %s", ErrRemote, status, msg)
}

func retryable(status int, err error) bool {
	if status == 0 {
		return isConnectionError(err)
	}
	return status >= 500
}

func classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return ErrTimeout
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrRemote), errors.Is(err, ErrInvalidResponse):
		return err
	case isConnectionError(err):
		return ErrUnavailable
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
