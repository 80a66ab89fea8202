package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/matzehuels/mindgraft/pkg/errors"
	"github.com/matzehuels/mindgraft/pkg/observability"
	"github.com/matzehuels/mindgraft/pkg/tree"
)

const (
	// DefaultURL is the endpoint of a locally running analysis service.
	DefaultURL = "http://127.0.0.1:8000/generate_mindmap/"

	// DefaultTimeout bounds one analysis request. Processing a long PDF with
	// a language model takes minutes, not seconds.
	DefaultTimeout = 10 * time.Minute

	// fileField is the multipart form field carrying the document.
	fileField = "file"

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Generator produces a tree document from an uploaded file.
type Generator interface {
	Generate(ctx context.Context, filename string, r io.Reader) (*tree.Node, error)
}

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Detail     string // "detail" field of the JSON body, if any
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend status %d", e.StatusCode)
}

// UserMessage returns the service's detail text, or a generic message
// naming the status code when the body had none.
func (e *StatusError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// Client talks to the analysis service.
type Client struct {
	url  string
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// NewClient creates a client for the service at endpoint.
// An empty endpoint selects [DefaultURL].
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultURL
	}
	c := &Client{
		url:  endpoint,
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the configured endpoint.
func (c *Client) URL() string { return c.url }

// Generate uploads the file read from r and decodes the returned tree.
// The tree is validated before it is returned.
func (c *Client) Generate(ctx context.Context, filename string, r io.Reader) (*tree.Node, error) {
	body, contentType, err := encodeUpload(filename, r)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid backend url %q", c.url)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	host, path := hostPath(c.url)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, http.MethodPost, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, http.MethodPost, host, path, err)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "backend request failed")
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, http.MethodPost, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	t, err := tree.ReadJSON(resp.Body)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func encodeUpload(filename string, r io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, fileField, filepath.Base(filename)))
	h.Set("Content-Type", ContentType(filename))
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "create multipart part")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", filename)
	}
	if err := mw.Close(); err != nil {
		return nil, "", errors.Wrap(errors.ErrCodeInternal, err, "close multipart body")
	}
	return &buf, mw.FormDataContentType(), nil
}

// ContentType returns the media type sent for filename, derived from its
// extension. Unknown extensions are sent as application/octet-stream.
func ContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".pdf" {
		return "application/pdf"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	serr := &StatusError{StatusCode: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
		if json.Unmarshal(data, &body) == nil {
			serr.Detail = body.Detail
		}
	}
	return errors.Wrap(errors.ErrCodeBackend, serr, "backend rejected document")
}

func hostPath(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	return u.Host, u.Path
}

var _ Generator = (*Client)(nil)
