package postservice

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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	// ErrNetwork marks transport failures and non-2xx responses.
	ErrNetwork = errors.New("network failure")
	// ErrMalformedResponse marks responses whose JSON shape is not the expected one.
	ErrMalformedResponse = errors.New("malformed response")
)

// Post is one row of the backing spreadsheet. Timestamp is the identity key.
type Post struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	Timestamp string `json:"timestamp"`
}

// Time parses the ISO-8601 timestamp. Unparseable values sort as the zero time.
func (p Post) Time() time.Time {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(p.Timestamp))
	if err != nil {
		return time.Time{}
	}
	return t
}

type listResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type uploadResponse struct {
	FileID   string `json:"fileId"`
	ImageURL string `json:"imageUrl"`
}

type postRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	Timestamp string `json:"timestamp"`
	Type      string `json:"type,omitempty"`
}

type deleteRequest struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
}

type Client struct {
	serviceURL string
	imageHost  string
	http       *http.Client
	log        zerolog.Logger
}

func NewClient(serviceURL, imageHost string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		imageHost:  imageHost,
		http:       httpClient,
		log:        log,
	}
}

func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	q := make(url.Values)
	q.Set("type", "json")

	body, err := c.do(ctx, http.MethodGet, q, nil, "list posts")
	if err != nil {
		return nil, err
	}

	var resp listResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode posts response: %w: %v", ErrMalformedResponse, err)
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("list posts: %w: %s", ErrMalformedResponse, messageOr(resp.Message, "status "+resp.Status))
	}
	var posts []Post
	if err := json.Unmarshal(resp.Data, &posts); err != nil || posts == nil {
		return nil, fmt.Errorf("list posts: %w: data is not an array", ErrMalformedResponse)
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, post Post) error {
	return c.write(ctx, postRequest{
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Timestamp: post.Timestamp,
	}, "create post")
}

func (c *Client) UpdatePost(ctx context.Context, post Post) error {
	return c.write(ctx, postRequest{
		Title:     post.Title,
		Content:   post.Content,
		ImageURL:  post.ImageURL,
		Timestamp: post.Timestamp,
		Type:      "update",
	}, "update post")
}

func (c *Client) DeletePost(ctx context.Context, timestamp string) error {
	return c.write(ctx, deleteRequest{Type: "delete", Timestamp: timestamp}, "delete post")
}

// UploadImage stores data on the image host and returns the reference to embed.
// The endpoint expects the bytes as a JSON array of signed 8-bit values.
func (c *Client) UploadImage(ctx context.Context, filename, mimeType string, data []byte) (string, error) {
	q := make(url.Values)
	q.Set("filename", filename)
	q.Set("mimeType", mimeType)

	signed := make([]int8, len(data))
	for i, b := range data {
		signed[i] = int8(b)
	}
	payload, err := json.Marshal(signed)
	if err != nil {
		return "", fmt.Errorf("encode image payload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, q, payload, "upload image")
	if err != nil {
		return "", err
	}

	var resp uploadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode upload response: %w: %v", ErrMalformedResponse, err)
	}
	switch {
	case resp.FileID != "":
		return ThumbnailURL(c.imageHost, resp.FileID), nil
	case resp.ImageURL != "":
		return resp.ImageURL, nil
	default:
		return "", fmt.Errorf("upload image: %w: no fileId or imageUrl", ErrMalformedResponse)
	}
}

func (c *Client) write(ctx context.Context, req any, op string) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", op, err)
	}

	body, err := c.do(ctx, http.MethodPost, nil, payload, op)
	if err != nil {
		return err
	}

	var resp statusResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w: %v", op, ErrMalformedResponse, err)
	}
	if resp.Status != "success" {
		return fmt.Errorf("%s rejected: %s", op, messageOr(resp.Message, "status "+resp.Status))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method string, query url.Values, payload []byte, op string) ([]byte, error) {
	req, err := c.newRequest(ctx, method, query, payload)
	if err != nil {
		return nil, err
	}
	requestID := req.Header.Get("X-Request-Id")
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("op", op).Str("request_id", requestID).Msg("request failed")
		return nil, fmt.Errorf("%s request failed: %w: %v", op, ErrNetwork, err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("op", op).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s failed with status %d: %w: %s", op, resp.StatusCode, ErrNetwork, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w: %v", op, ErrNetwork, err)
	}
	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method string, query url.Values, payload []byte) (*http.Request, error) {
	fullURL := c.serviceURL
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	// The endpoint only accepts JSON bodies labelled text/plain.
	if payload != nil {
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	return req, nil
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}
