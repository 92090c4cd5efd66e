package client

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	v "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-resty/resty/v2"

	"github.com/dominik-olsz/insta-cal-scheduler/internal/apperr"
	accountentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/account/entity"
	postentity "github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/entity"
	"github.com/dominik-olsz/insta-cal-scheduler/internal/domain/post/policy"
)

const defaultTimeout = 30 * time.Second

const (
	schedulePostPath  = "/functions/v1/schedule-post"
	instagramAuthPath = "/functions/v1/instagram-auth"
	postsPath         = "/api/v1/posts"
	accountsPath      = "/api/v1/accounts"
	calendarPath      = "/api/v1/calendar"
)

// Client talks to the scheduler backend: the remote functions and the data API
type Client struct {
	http  *resty.Client
	token string
}

type clientOptions struct {
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*clientOptions)

// WithToken sets the bearer token sent with every request
func WithToken(token string) ClientOption {
	return func(o *clientOptions) {
		o.token = strings.TrimSpace(token)
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// New creates a new backend client for baseURL
func New(baseURL string, opts ...ClientOption) *Client {
	o := clientOptions{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	rc := resty.New()
	if o.httpClient != nil {
		rc = resty.NewWithClient(o.httpClient)
	}
	rc.SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "instacal")

	return &Client{http: rc, token: o.token}
}

// CreatePostInput holds the fields of a new post
type CreatePostInput struct {
	Caption      string
	ScheduledFor time.Time
	AccountID    string // optional
	ImageURL     string // optional
}

// Validate checks required fields before anything is sent
func (in CreatePostInput) Validate() error {
	return firstFieldError(v.Errors{
		"caption":      v.Validate(strings.TrimSpace(in.Caption), v.Required, v.RuneLength(0, postentity.MaxCaptionLength)),
		"scheduledFor": v.Validate(in.ScheduledFor, v.Required),
	}, "caption", "scheduledFor")
}

// UpdatePostInput holds the fields to change. Nil fields stay unchanged; an empty
// AccountID detaches the account.
type UpdatePostInput struct {
	Caption      *string
	ImageURL     *string
	ScheduledFor *time.Time
	AccountID    *string
}

type schedulePostRequest struct {
	Caption            string  `json:"caption"`
	ScheduledFor       string  `json:"scheduledFor"`
	InstagramAccountID *string `json:"instagramAccountId,omitempty"`
	ImageURL           string  `json:"imageUrl,omitempty"`
}

type updatePostRequest struct {
	Caption            *string `json:"caption,omitempty"`
	ImageURL           *string `json:"image_url,omitempty"`
	ScheduledFor       *string `json:"scheduled_for,omitempty"`
	InstagramAccountID *string `json:"instagram_account_id,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// ListPosts returns the caller's posts ordered by scheduled time, earliest first
func (c *Client) ListPosts(ctx context.Context) ([]postentity.Post, error) {
	var out struct {
		Posts []postentity.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, postsPath, nil, &out, "list posts"); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// CreatePost creates a scheduled post through the schedule-post function
func (c *Client) CreatePost(ctx context.Context, in CreatePostInput) (*postentity.Post, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	req := schedulePostRequest{
		Caption:      in.Caption,
		ScheduledFor: in.ScheduledFor.UTC().Format(time.RFC3339),
		ImageURL:     in.ImageURL,
	}
	if in.AccountID != "" {
		req.InstagramAccountID = &in.AccountID
	}

	var out struct {
		Success bool            `json:"success"`
		Post    postentity.Post `json:"post"`
	}
	if err := c.do(ctx, http.MethodPost, schedulePostPath, req, &out, "create post"); err != nil {
		return nil, err
	}
	return &out.Post, nil
}

// UpdatePost edits a scheduled post
func (c *Client) UpdatePost(ctx context.Context, id string, in UpdatePostInput) (*postentity.Post, error) {
	if id == "" {
		return nil, &apperr.ValidationError{Field: "id", Reason: "is required"}
	}

	req := updatePostRequest{
		Caption:            in.Caption,
		ImageURL:           in.ImageURL,
		InstagramAccountID: in.AccountID,
	}
	if in.ScheduledFor != nil {
		s := in.ScheduledFor.UTC().Format(time.RFC3339)
		req.ScheduledFor = &s
	}

	var out postentity.Post
	if err := c.do(ctx, http.MethodPut, postsPath+"/"+id, req, &out, "update post"); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost deletes one of the caller's posts
func (c *Client) DeletePost(ctx context.Context, id string) error {
	if id == "" {
		return &apperr.ValidationError{Field: "id", Reason: "is required"}
	}
	return c.do(ctx, http.MethodDelete, postsPath+"/"+id, nil, nil, "delete post")
}

// ListAccounts returns the caller's active accounts through the instagram-auth function
func (c *Client) ListAccounts(ctx context.Context) ([]accountentity.Account, error) {
	var out struct {
		Accounts []accountentity.Account `json:"accounts"`
	}
	if err := c.do(ctx, http.MethodGet, instagramAuthPath, nil, &out, "list accounts"); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// ConnectAccount connects an account through the instagram-auth function
func (c *Client) ConnectAccount(ctx context.Context, username string) (*accountentity.Account, error) {
	username = accountentity.NormalizeUsername(username)
	if err := accountentity.ValidateUsername(username); err != nil {
		return nil, &apperr.ValidationError{Field: "username", Reason: err.Error()}
	}

	var out struct {
		Success bool                  `json:"success"`
		Account accountentity.Account `json:"account"`
	}
	body := map[string]string{"username": username}
	if err := c.do(ctx, http.MethodPost, instagramAuthPath, body, &out, "connect account"); err != nil {
		return nil, err
	}
	return &out.Account, nil
}

// DisconnectAccount deactivates one of the caller's accounts
func (c *Client) DisconnectAccount(ctx context.Context, id string) error {
	if id == "" {
		return &apperr.ValidationError{Field: "id", Reason: "is required"}
	}
	return c.do(ctx, http.MethodDelete, accountsPath+"/"+id, nil, nil, "disconnect account")
}

// MonthlyCalendar returns the server-side month view for year/month
func (c *Client) MonthlyCalendar(ctx context.Context, year int, month time.Month) (*policy.MonthView, error) {
	path := calendarPath + "?year=" + strconv.Itoa(year) + "&month=" + strconv.Itoa(int(month))

	var out policy.MonthView
	if err := c.do(ctx, http.MethodGet, path, nil, &out, "load calendar"); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upcoming returns the caller's next posts
func (c *Client) Upcoming(ctx context.Context) ([]postentity.Post, error) {
	var out struct {
		Posts []postentity.Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, calendarPath+"/upcoming", nil, &out, "load upcoming posts"); err != nil {
		return nil, err
	}
	return out.Posts, nil
}

// do sends one request and maps failures onto the error taxonomy:
// 401 is an AuthError, other non-2xx answers from functions are RemoteErrors and
// from the data API StoreErrors, and a missing response is a RemoteError.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}, op string) error {
	if c.token == "" {
		return &apperr.AuthError{Reason: "no session token"}
	}

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.token).
		SetError(&errorBody{})
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil && (resp == nil || resp.RawResponse == nil) {
		return transportError(err)
	}

	status := resp.StatusCode()
	if err == nil && !resp.IsError() {
		return nil
	}

	message := http.StatusText(status)
	if eb, ok := resp.Error().(*errorBody); ok && eb.Error != "" {
		message = eb.Error
	}
	if err != nil && !resp.IsError() {
		// answered 2xx with a body that does not decode
		message = "invalid response body"
	}

	switch {
	case status == http.StatusUnauthorized:
		return &apperr.AuthError{Reason: message}
	case strings.HasPrefix(path, "/functions/"):
		return &apperr.RemoteError{Status: status, Message: message, Err: err}
	default:
		return &apperr.StoreError{Op: op, Status: status, Message: message, Err: err}
	}
}

func transportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &apperr.RemoteError{Message: "request timed out", Err: err}
	}
	return &apperr.RemoteError{Message: err.Error(), Err: err}
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}

// firstFieldError turns the first failing field of order into a ValidationError
func firstFieldError(errs v.Errors, order ...string) error {
	for _, field := range order {
		if err := errs[field]; err != nil {
			return &apperr.ValidationError{Field: field, Reason: err.Error()}
		}
	}
	return nil
}
