package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenSource yields the current bearer token. Token returns an empty
// string (no error) when the caller is not logged in; unauthenticated
// requests simply omit the Authorization header and let the service
// reject them.
type TokenSource interface {
	Token() (string, error)
}

// maxBodySize caps how much of a response body is read. The service
// returns small JSON documents; anything larger is a misbehaving peer.
const maxBodySize = 4 << 20

// Client talks to the tracking service. Every request re-reads the
// token from the source, attaches it as a bearer header, and tags the
// request with an X-Request-ID for correlation with service logs.
type Client struct {
	baseURL string
	tokens  TokenSource
	httpc   *http.Client
}

// NewClient builds a client for the service at baseURL. httpc may be
// nil, in which case http.DefaultClient is used; timeout policy lives
// on the injected client, not here.
func NewClient(baseURL string, tokens TokenSource, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		httpc:   httpc,
	}
}

// messageBody is the {"message": ...} envelope the service uses for
// acks and errors.
type messageBody struct {
	Message string `json:"message"`
}

// Login exchanges credentials for a bearer token. The caller is
// responsible for storing it in the session.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.do(ctx, "login", http.MethodPost, "/login", creds, &out); err != nil {
		return "", err
	}
	if out.AccessToken == "" {
		return "", &Error{Op: "login", Kind: KindServer, Message: "empty access token"}
	}
	return out.AccessToken, nil
}

// Register creates a new staff account and returns the service's
// acknowledgement message. Duplicate usernames come back as a
// validation failure (409).
func (c *Client) Register(ctx context.Context, creds Credentials) (string, error) {
	var out messageBody
	if err := c.do(ctx, "register", http.MethodPost, "/register", creds, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// ListStudents fetches the full roster.
func (c *Client) ListStudents(ctx context.Context) ([]Student, error) {
	var out []Student
	if err := c.do(ctx, "list students", http.MethodGet, "/students", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateStudent adds a record. The id field is ignored by the service.
func (c *Client) CreateStudent(ctx context.Context, s Student) error {
	return c.do(ctx, "create student", http.MethodPost, "/student", s, nil)
}

// UpdateStudent replaces the mutable fields of an existing record.
func (c *Client) UpdateStudent(ctx context.Context, id int, s Student) error {
	return c.do(ctx, "update student", http.MethodPut, fmt.Sprintf("/student/%d", id), s, nil)
}

// DeleteStudent removes a record and, server-side, its interventions.
func (c *Client) DeleteStudent(ctx context.Context, id int) error {
	return c.do(ctx, "delete student", http.MethodDelete, fmt.Sprintf("/student/%d", id), nil, nil)
}

// Predict asks the model for a fresh verdict on one student.
func (c *Client) Predict(ctx context.Context, studentID int) (Prediction, error) {
	var out Prediction
	if err := c.do(ctx, "predict", http.MethodGet, fmt.Sprintf("/predict/%d", studentID), nil, &out); err != nil {
		return Prediction{}, err
	}
	return out, nil
}

// ListInterventions fetches a student's intervention history. The
// service omits student_id from the rows; it is filled in here so
// downstream code always has the foreign key.
func (c *Client) ListInterventions(ctx context.Context, studentID int) ([]Intervention, error) {
	var out []Intervention
	path := fmt.Sprintf("/student/%d/interventions", studentID)
	if err := c.do(ctx, "list interventions", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].StudentID = studentID
	}
	return out, nil
}

// CreateIntervention logs a new Pending intervention carrying the
// triggering recommendation text.
func (c *Client) CreateIntervention(ctx context.Context, studentID int, recommendation string) error {
	body := struct {
		Recommendation string `json:"recommendation"`
	}{Recommendation: recommendation}
	path := fmt.Sprintf("/student/%d/intervention", studentID)
	return c.do(ctx, "create intervention", http.MethodPost, path, body, nil)
}

// CompleteIntervention transitions an intervention to Completed,
// attaching the staff notes.
func (c *Client) CompleteIntervention(ctx context.Context, interventionID int, notes string) error {
	body := struct {
		Notes  string `json:"notes"`
		Status string `json:"status"`
	}{Notes: notes, Status: StatusCompleted}
	path := fmt.Sprintf("/intervention/%d", interventionID)
	return c.do(ctx, "complete intervention", http.MethodPut, path, body, nil)
}

// DashboardStats fetches the aggregate numbers for the charts pane.
func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	if err := c.do(ctx, "dashboard stats", http.MethodGet, "/dashboard_stats", nil, &out); err != nil {
		return DashboardStats{}, err
	}
	return out, nil
}

// do runs one request/response cycle. body and out may be nil. Every
// failure comes back as *Error; out is only touched on 2xx.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Op: op, Kind: KindNetwork, err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return &Error{Op: op, Kind: KindAuth, err: fmt.Errorf("read token: %w", err)}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return &Error{Op: op, Kind: KindNetwork, err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Op: op, Kind: kindForStatus(resp.StatusCode), Status: resp.StatusCode}
		var msg messageBody
		if json.Unmarshal(data, &msg) == nil {
			apiErr.Message = msg.Message
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Op: op, Kind: KindNetwork, err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}
