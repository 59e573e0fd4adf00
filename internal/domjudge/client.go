package domjudge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/encoding/htmlindex"

	"contestdump/internal/config"
	"contestdump/internal/logging"
	"contestdump/internal/services"
)

// APIDir is the mirror location of API payloads, relative to an export root.
const APIDir = "domjudge/api"

// ErrReplayOnly is returned for network-only operations on a replay client.
var ErrReplayOnly = errors.New("operation unavailable in replay mode")

// Fetcher is the subset of Client used by the export stages.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint, filename string, query url.Values) ([]byte, error)
	FetchBinary(ctx context.Context, endpoint string) ([]byte, error)
	FetchMedia(ctx context.Context, href string) ([]byte, error)
	Replay() bool
}

// Client provides access to a live or replayed contest API.
type Client struct {
	baseURL    string
	apiVersion string
	cid        string
	user       string
	password   string
	hasAuth    bool
	userAgent  string
	replayDir  string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger attaches a logger for charset and decode diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client from the source section of cfg. A configured
// base_file_path selects replay mode.
func New(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "client", "new", "config required", nil)
	}
	src := cfg.Source
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(src.BaseURL), "/"),
		apiVersion: strings.Trim(src.APIVersion, "/"),
		cid:        strings.TrimSpace(src.CID),
		userAgent:  src.UserAgent,
		replayDir:  strings.TrimSpace(src.BaseFilePath),
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		logger:     logging.NewNop(),
	}
	if src.UserPwd != "" {
		client.user, client.password, _ = strings.Cut(src.UserPwd, ":")
		client.hasAuth = true
	}
	if client.replayDir == "" {
		if client.baseURL == "" {
			return nil, services.Wrap(services.ErrConfiguration, "client", "new", "base url required", nil)
		}
		if client.cid == "" {
			return nil, services.Wrap(services.ErrConfiguration, "client", "new", "contest id required", nil)
		}
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = logging.NewComponentLogger(client.logger, "domjudge")
	return client, nil
}

// Replay reports whether the client reads a prior export.
func (c *Client) Replay() bool {
	return c.replayDir != ""
}

// ContestURL returns the live URL of a contest-scoped endpoint. An empty
// endpoint addresses the contest object itself.
func (c *Client) ContestURL(endpoint string) string {
	return joinURL(c.baseURL, "api", c.apiVersion, "contests", c.cid, endpoint)
}

// MediaURL resolves an API href. Absolute hrefs are returned unchanged.
func (c *Client) MediaURL(href string) string {
	if parsed, err := url.Parse(href); err == nil && parsed.IsAbs() {
		return href
	}
	return joinURL(c.baseURL, "api", c.apiVersion, href)
}

// Fetch returns the payload of a text endpoint. Live clients decode the
// body from its declared charset; replay clients read
// `{base_file_path}/domjudge/api/{filename}`.
func (c *Client) Fetch(ctx context.Context, endpoint, filename string, query url.Values) ([]byte, error) {
	if c.Replay() {
		return c.readReplay(filename)
	}
	body, contentType, err := c.get(ctx, c.ContestURL(endpoint), query)
	if err != nil {
		return nil, err
	}
	return c.decodeCharset(endpoint, contentType, body), nil
}

// FetchBinary returns the raw body of a contest-scoped endpoint.
func (c *Client) FetchBinary(ctx context.Context, endpoint string) ([]byte, error) {
	if c.Replay() {
		return nil, services.Wrap(services.ErrConfiguration, "fetch", endpoint, "", ErrReplayOnly)
	}
	body, _, err := c.get(ctx, c.ContestURL(endpoint), nil)
	return body, err
}

// FetchMedia downloads an image referenced by an API href.
func (c *Client) FetchMedia(ctx context.Context, href string) ([]byte, error) {
	if c.Replay() {
		return nil, services.Wrap(services.ErrConfiguration, "fetch", href, "", ErrReplayOnly)
	}
	body, _, err := c.get(ctx, c.MediaURL(href), nil)
	return body, err
}

func (c *Client) readReplay(filename string) ([]byte, error) {
	path := filepath.Join(c.replayDir, filepath.FromSlash(APIDir), filepath.FromSlash(filename))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "replay", filename, "read mirrored payload", err)
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, target string, query url.Values) ([]byte, string, error) {
	ctx, span := otel.Tracer("contestdump/domjudge").Start(ctx, "domjudge.get")
	defer span.End()

	endpoint, err := url.Parse(target)
	if err != nil {
		return nil, "", services.Wrap(services.ErrTransport, "fetch", target, "parse url", err)
	}
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	span.SetAttributes(attribute.String("http.url", endpoint.Redacted()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, "", services.Wrap(services.ErrTransport, "fetch", target, "build request", err)
	}
	req.Close = true
	req.Header.Set("Connection", "close")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.hasAuth {
		req.SetBasicAuth(c.user, c.password)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, "", services.Wrap(services.ErrTransport, "fetch", endpoint.Path, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return nil, "", services.Wrap(services.ErrTransport, "fetch", endpoint.Path, fmt.Sprintf("returned %d (latency=%v)", resp.StatusCode, latency), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", services.Wrap(services.ErrTransport, "fetch", endpoint.Path, "read body", err)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// decodeCharset transcodes body to UTF-8 using the Content-Type charset.
// Unknown charsets and decode failures leave the body untouched.
func (c *Client) decodeCharset(endpoint, contentType string, body []byte) []byte {
	charset := charsetOf(contentType)
	if charset == "" || strings.EqualFold(charset, "utf-8") || strings.EqualFold(charset, "utf8") {
		return body
	}
	enc, err := htmlindex.Get(charset)
	if err != nil {
		c.logger.Warn("unknown response charset, keeping raw bytes",
			logging.String("endpoint", endpoint),
			logging.String("charset", charset),
			logging.Error(err),
		)
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		c.logger.Warn("charset decode failed, keeping raw bytes",
			logging.String("endpoint", endpoint),
			logging.String("charset", charset),
			logging.Error(err),
		)
		return body
	}
	return decoded
}

func charsetOf(contentType string) string {
	if strings.TrimSpace(contentType) == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}

func joinURL(parts ...string) string {
	segments := make([]string, 0, len(parts))
	for i, part := range parts {
		if i == 0 {
			part = strings.TrimRight(part, "/")
		} else {
			part = strings.Trim(part, "/")
		}
		if part == "" {
			continue
		}
		segments = append(segments, part)
	}
	return strings.Join(segments, "/")
}
