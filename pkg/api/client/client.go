package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const sessionCookieName = "token"

// Client provides typed access to the LearnCraft API for scripts and tools.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customises client instantiation.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client pointing at the provided API base URL.
func New(base string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:5000"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	cli := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(cli)
	}
	return cli, nil
}

// FieldError is a single validation issue reported by the API.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError represents an error response from the API.
type APIError struct {
	Status  int
	Message string
	Fields  []FieldError
}

func (e APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return fmt.Sprintf("api request failed (%d): %s", e.Status, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []FieldError    `json:"errors"`
}

// do performs the request and decodes the envelope's data into v. It returns
// the session token if the response set one.
func (c *Client) do(ctx context.Context, method, path string, body any, token string, v any) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	var env envelope
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil && resp.StatusCode < http.StatusBadRequest {
			return "", fmt.Errorf("decode response: %w", err)
		} else if err != nil {
			env.Message = strings.TrimSpace(string(data))
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", APIError{Status: resp.StatusCode, Message: env.Message, Fields: env.Errors}
	}

	if v != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, v); err != nil {
			return "", fmt.Errorf("decode response data: %w", err)
		}
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName && cookie.Value != "" {
			return cookie.Value, nil
		}
	}
	return "", nil
}

// User reflects API user payloads.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Profile reflects the student or teacher profile attached to a user.
type Profile struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	FullName    string `json:"fullName"`
	StudentID   string `json:"studentId,omitempty"`
	Department  string `json:"department,omitempty"`
	Batch       string `json:"batch,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// Session is an authenticated account plus its bearer token.
type Session struct {
	User    User     `json:"user"`
	Profile *Profile `json:"profile"`
	Token   string   `json:"-"`
}

// RegisterInput is the registration payload.
type RegisterInput struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Role        string `json:"role,omitempty"`
	FullName    string `json:"fullName"`
	StudentID   string `json:"studentId,omitempty"`
	Department  string `json:"department,omitempty"`
	Batch       string `json:"batch,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, input RegisterInput) (Session, error) {
	var session Session
	token, err := c.do(ctx, http.MethodPost, "/auth/register", input, "", &session)
	if err != nil {
		return Session{}, err
	}
	session.Token = token
	return session, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	var session Session
	token, err := c.do(ctx, http.MethodPost, "/auth/login", body, "", &session)
	if err != nil {
		return Session{}, err
	}
	session.Token = token
	return session, nil
}

// Logout clears the server-side cookie. Bearer tokens stay valid until expiry.
func (c *Client) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, "", nil)
	return err
}

// Me returns the account behind token.
func (c *Client) Me(ctx context.Context, token string) (Session, error) {
	var session Session
	if _, err := c.do(ctx, http.MethodGet, "/auth/me", nil, token, &session); err != nil {
		return Session{}, err
	}
	session.Token = token
	return session, nil
}

// Course describes a catalogue entry.
type Course struct {
	ID         string    `json:"id"`
	CourseCode string    `json:"courseCode"`
	CourseName string    `json:"courseName"`
	Credit     float64   `json:"credit"`
	Department string    `json:"department"`
	Semester   string    `json:"semester"`
	TeacherID  string    `json:"teacherId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CourseInput captures the payload for course creation and updates. Nil
// fields are left unchanged on update.
type CourseInput struct {
	CourseCode *string  `json:"courseCode,omitempty"`
	CourseName *string  `json:"courseName,omitempty"`
	Credit     *float64 `json:"credit,omitempty"`
	Department *string  `json:"department,omitempty"`
	Semester   *string  `json:"semester,omitempty"`
}

// ListCourses returns courses, optionally filtered by search.
func (c *Client) ListCourses(ctx context.Context, token, search string) ([]Course, error) {
	path := "/courses"
	if strings.TrimSpace(search) != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var resp struct {
		Courses []Course `json:"courses"`
	}
	if _, err := c.do(ctx, http.MethodGet, path, nil, token, &resp); err != nil {
		return nil, err
	}
	return resp.Courses, nil
}

// GetCourse fetches a single course.
func (c *Client) GetCourse(ctx context.Context, token, id string) (Course, error) {
	return c.courseCall(ctx, http.MethodGet, "/courses/"+url.PathEscape(id), nil, token)
}

// CreateCourse adds a course owned by the caller.
func (c *Client) CreateCourse(ctx context.Context, token string, input CourseInput) (Course, error) {
	return c.courseCall(ctx, http.MethodPost, "/courses", input, token)
}

// UpdateCourse patches a course owned by the caller.
func (c *Client) UpdateCourse(ctx context.Context, token, id string, input CourseInput) (Course, error) {
	return c.courseCall(ctx, http.MethodPut, "/courses/"+url.PathEscape(id), input, token)
}

// DeleteCourse removes a course owned by the caller.
func (c *Client) DeleteCourse(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/courses/"+url.PathEscape(id), nil, token, nil)
	return err
}

func (c *Client) courseCall(ctx context.Context, method, path string, body any, token string) (Course, error) {
	var resp struct {
		Course Course `json:"course"`
	}
	if _, err := c.do(ctx, method, path, body, token, &resp); err != nil {
		return Course{}, err
	}
	return resp.Course, nil
}

// Event describes a scheduled campus event.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EventInput captures the payload for event creation and updates. Date
// accepts RFC 3339 timestamps or plain dates.
type EventInput struct {
	Title       *string `json:"title,omitempty"`
	Date        *string `json:"date,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ListEvents returns events, optionally filtered by search.
func (c *Client) ListEvents(ctx context.Context, token, search string) ([]Event, error) {
	path := "/events"
	if strings.TrimSpace(search) != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var resp struct {
		Events []Event `json:"events"`
	}
	if _, err := c.do(ctx, http.MethodGet, path, nil, token, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// CreateEvent schedules an event.
func (c *Client) CreateEvent(ctx context.Context, token string, input EventInput) (Event, error) {
	var resp struct {
		Event Event `json:"event"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/events", input, token, &resp); err != nil {
		return Event{}, err
	}
	return resp.Event, nil
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, token, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, token, nil)
	return err
}
