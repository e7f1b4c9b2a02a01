// Package api is an HTTP client for the LoveLetters API used by the CLI.
//
// Transport failures are reported as ErrUnavailable, 401 as ErrUnauthorized
// and 404 as ErrNotFound; any other non-2xx answer becomes an *Error with the
// server's message. All methods honor context cancellation.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/loveletters/internal/common"
	"github.com/dmitrijs2005/loveletters/internal/netx"
)

type Letter struct {
	ID             int64     `json:"id"`
	SenderID       int64     `json:"sender_id"`
	Content        string    `json:"content"`
	Style          string    `json:"style"`
	PaperType      string    `json:"paper_type"`
	Title          *string   `json:"title"`
	RecipientEmail *string   `json:"recipient_email"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type EmailInfo struct {
	Success    bool   `json:"success"`
	MessageID  string `json:"messageId"`
	PreviewURL string `json:"previewUrl"`
	Error      string `json:"error"`
}

type SendResult struct {
	Message   string    `json:"message"`
	Letter    *Letter   `json:"letter"`
	EmailInfo EmailInfo `json:"emailInfo"`
}

type Upload struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the Bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	h := http.Header{}
	if c.token != "" {
		h.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	err := netx.DoJSON(ctx, c.http, method, c.baseURL+path, h, in, out)
	if err == nil {
		return nil
	}

	var se *netx.StatusError
	if !errors.As(err, &se) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal([]byte(se.Body), &body)

	switch se.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, body.Message)
	}
	if body.Message == "" {
		body.Message = se.Status
	}
	return &Error{StatusCode: se.StatusCode, Message: body.Message, Detail: body.Error}
}

func (c *Client) Register(ctx context.Context, username, email string, password []byte) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	in := map[string]string{"username": username, "email": email, "password": string(password)}
	if err := c.do(ctx, http.MethodPost, "/api/register", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Login(ctx context.Context, email string, password []byte) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	in := map[string]string{"email": email, "password": string(password)}
	if err := c.do(ctx, http.MethodPost, "/api/login", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) CreateLetter(ctx context.Context, senderID int64, content, style, paperType string) (*Letter, error) {
	in := map[string]any{
		"sender_id":  senderID,
		"content":    content,
		"style":      style,
		"paper_type": paperType,
	}
	var out Letter
	if err := c.do(ctx, http.MethodPost, "/api/letters", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetLetter(ctx context.Context, id int64) (*Letter, error) {
	var out Letter
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/letters/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListLetters(ctx context.Context, userID int64) ([]Letter, error) {
	var out []Letter
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/users/%d/letters", userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateTitle(ctx context.Context, id int64, title string) (*Letter, error) {
	var out Letter
	in := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/letters/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteLetter(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/letters/%d", id), nil, nil)
}

// SendLetter emails a letter. A mail failure is returned as *Error; the
// server's emailInfo is not surfaced in that case.
func (c *Client) SendLetter(ctx context.Context, id int64, recipientEmail, recipientName string) (*SendResult, error) {
	var out SendResult
	in := map[string]string{"recipientEmail": recipientEmail, "recipientName": recipientName}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/letters/%d/send", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUpload asks the server for a presigned upload URL.
func (c *Client) CreateUpload(ctx context.Context, filename string) (*Upload, error) {
	var out Upload
	in := map[string]string{"filename": filename}
	if err := c.do(ctx, http.MethodPost, "/api/uploads", in, &out); err != nil {
		return nil, err
	}
	if _, err := url.Parse(out.URL); err != nil {
		return nil, fmt.Errorf("bad upload url: %w", err)
	}
	return &out, nil
}

// UploadFile PUTs data to a presigned URL obtained from CreateUpload.
func (c *Client) UploadFile(ctx context.Context, u *Upload, contentType string, data []byte) error {
	return netx.UploadToPresignedURL(ctx, c.http, u.URL, contentType, data)
}

// Ping checks that the server answers its health probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}
