package btclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"

	"btc/internal/logging"
)

const (
	guiPath       = "gui/"
	tokenPath     = "gui/token.html"
	proxyPath     = "proxy"
	requestHeader = "X-Request-ID"
	maxErrorBody  = 4096
)

var tokenPattern = regexp.MustCompile(`<div[^>]*id=['"]token['"][^>]*>([^<]*)</div>`)

// Options describes how to reach the daemon.
type Options struct {
	BaseURL  string
	Username string
	Password string
	// HTTPClient overrides the transport. A cookie jar is attached when the
	// supplied client has none.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues WebUI requests. It is safe for sequential use by one command;
// the token is cached for the lifetime of the client.
type Client struct {
	baseURL  *url.URL
	username string
	password string
	http     *http.Client
	logger   *slog.Logger

	mu    sync.Mutex
	token string
}

// New validates opts and builds a Client. No request is made until the first
// operation.
func New(opts Options) (*Client, error) {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		return nil, errors.New("btclient: base url is required")
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("btclient: parse base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("btclient: base url %q must include scheme and host", base)
	}
	if !strings.HasSuffix(baseURL.Path, "/") {
		baseURL.Path += "/"
	}

	var httpClient http.Client
	if opts.HTTPClient != nil {
		httpClient = *opts.HTTPClient
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("btclient: cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &Client{
		baseURL:  baseURL,
		username: opts.Username,
		password: opts.Password,
		http:     &httpClient,
		logger:   logging.NewComponentLogger(opts.Logger, "btclient"),
	}, nil
}

func (c *Client) endpoint(path string, params url.Values) *url.URL {
	u := c.baseURL.JoinPath(path)
	if strings.HasSuffix(path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method string, u *url.URL, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set(requestHeader, uuid.NewString())
	return req, nil
}

func (c *Client) send(req *http.Request, operation string) (*http.Response, error) {
	c.logger.Debug("daemon request",
		logging.String("operation", operation),
		logging.String("method", req.Method),
		logging.URL(logging.FieldURL, req.URL),
		logging.String(logging.FieldRequestID, req.Header.Get(requestHeader)),
	)
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, wrap(ErrUnavailable, operation, c.baseURL.Host, err)
	}
	c.logger.Debug("daemon response",
		logging.String("operation", operation),
		logging.Int("status", resp.StatusCode),
		logging.String(logging.FieldRequestID, req.Header.Get(requestHeader)),
	)
	return resp, nil
}

// fetchToken returns the cached token, requesting one when absent.
func (c *Client) fetchToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" {
		return c.token, nil
	}
	req, err := c.newRequest(ctx, http.MethodGet, c.endpoint(tokenPath, nil), nil)
	if err != nil {
		return "", fmt.Errorf("btclient: build token request: %w", err)
	}
	resp, err := c.send(req, "token")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", wrap(ErrUnavailable, "token", "read response", err)
	}
	if err := statusError("token", resp, body); err != nil {
		return "", err
	}
	match := tokenPattern.FindSubmatch(body)
	if match == nil || len(bytes.TrimSpace(match[1])) == 0 {
		return "", wrap(ErrProtocol, "token", "token element missing", nil)
	}
	c.token = string(bytes.TrimSpace(match[1]))
	return c.token, nil
}

func (c *Client) dropToken(stale string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == stale {
		c.token = ""
	}
}

// payload is a request body that can be replayed after a token refresh.
type payload struct {
	contentType string
	data        []byte
}

// call performs one /gui/ request and returns the raw response body. A token
// rejection (400 or 401) triggers a single refresh and retry.
func (c *Client) call(ctx context.Context, operation string, params url.Values, body *payload) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		token, err := c.fetchToken(ctx)
		if err != nil {
			return nil, err
		}
		query := url.Values{}
		for key, values := range params {
			query[key] = append([]string(nil), values...)
		}
		query.Set("token", token)

		method := http.MethodGet
		var reader io.Reader
		if body != nil {
			method = http.MethodPost
			reader = bytes.NewReader(body.data)
		}
		req, err := c.newRequest(ctx, method, c.endpoint(guiPath, query), reader)
		if err != nil {
			return nil, fmt.Errorf("btclient: build %s request: %w", operation, err)
		}
		if body != nil {
			req.Header.Set("Content-Type", body.contentType)
		}

		resp, err := c.send(req, operation)
		if err != nil {
			return nil, err
		}
		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, wrap(ErrUnavailable, operation, "read response", readErr)
		}
		if attempt == 0 && (resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized) {
			c.logger.Debug("token rejected, refreshing", logging.String("operation", operation))
			c.dropToken(token)
			continue
		}
		if err := statusError(operation, resp, data); err != nil {
			return nil, err
		}
		return data, nil
	}
}

func statusError(operation string, resp *http.Response, body []byte) error {
	if resp.StatusCode < 300 {
		return nil
	}
	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200]
	}
	message := resp.Status
	if detail != "" {
		message += ": " + detail
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return wrap(ErrUnauthorized, operation, message, nil)
	}
	return wrap(ErrRejected, operation, message, nil)
}

// guiResponse is the envelope every /gui/ request answers with.
type guiResponse struct {
	Build    json.Number       `json:"build"`
	Error    string            `json:"error"`
	Torrents [][]any           `json:"torrents"`
	Files    []json.RawMessage `json:"files"`
}

func decodeResponse(operation string, data []byte) (guiResponse, error) {
	var out guiResponse
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return guiResponse{}, wrap(ErrProtocol, operation, "decode response", err)
	}
	if out.Error != "" {
		return guiResponse{}, wrap(ErrRejected, operation, out.Error, nil)
	}
	return out, nil
}
