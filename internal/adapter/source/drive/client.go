package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/drake/drivecast/internal/domain"
)

const (
	defaultTimeout  = 60 * time.Second
	defaultPageSize = 1000
	maxRetries      = 3
	baseRetryDelay  = 500 * time.Millisecond

	listFields = "files(id,name,mimeType,size,modifiedTime,parents,webViewLink),nextPageToken"
)

// Client implements domain.RemoteStore against a Drive-style REST API.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new remote store client. The token is held here and
// attached to every request; callers never see it.
func NewClient(baseURL, token string, pageSize int, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		token:    token,
		pageSize: pageSize,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// doRequest performs an authenticated request with retry and exponential
// backoff on 5xx responses.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(1<<(attempt-1)) // 500ms, 1s, 2s
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Error("remote request failed", "error", err, "path", path)
			return nil, domain.ErrServerOffline
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, domain.ErrAuthFailed
		}

		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
			c.logger.Warn("remote server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			return nil, statusError(resp.StatusCode, body)
		}

		return body, nil
	}

	c.logger.Error("remote request failed after retries", "error", lastErr, "path", path)
	return nil, lastErr
}

// statusError builds a user-surfaceable error carrying the remote status.
func statusError(code int, body []byte) error {
	var envelope errorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("remote request failed: %d %s: %s", code, http.StatusText(code), envelope.Error.Message)
	}
	return fmt.Errorf("remote request failed: %d %s", code, http.StatusText(code))
}

// SharedRoots lists the folders shared with the account.
func (c *Client) SharedRoots(ctx context.Context) ([]domain.MediaFile, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("mimeType='%s' and sharedWithMe=true", domain.MimeFolder))
	query.Set("fields", listFields)
	query.Set("pageSize", strconv.Itoa(c.pageSize))

	body, err := c.doRequest(ctx, "/files", query)
	if err != nil {
		return nil, err
	}

	var resp fileListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return MapFiles(resp.Files), nil
}

// ListChildren returns one page of a folder's children. The continuation
// token must be threaded back in until it comes back empty.
func (c *Client) ListChildren(ctx context.Context, folderID, pageToken string) (domain.ChildPage, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("'%s' in parents", folderID))
	query.Set("fields", listFields)
	query.Set("pageSize", strconv.Itoa(c.pageSize))
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}

	body, err := c.doRequest(ctx, "/files", query)
	if err != nil {
		return domain.ChildPage{}, err
	}

	var resp fileListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.ChildPage{}, fmt.Errorf("failed to parse response: %w", err)
	}

	return domain.ChildPage{
		Files:         MapFiles(resp.Files),
		NextPageToken: resp.NextPageToken,
	}, nil
}

// FetchBytes downloads the raw content of a node.
func (c *Client) FetchBytes(ctx context.Context, fileID string) ([]byte, error) {
	query := url.Values{}
	query.Set("alt", "media")
	return c.doRequest(ctx, "/files/"+url.PathEscape(fileID), query)
}
