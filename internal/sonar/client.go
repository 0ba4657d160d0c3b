// Package sonar fetches open issues from a SonarQube server
package sonar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/tildaslashalef/sonarshift/internal/config"
	"github.com/tildaslashalef/sonarshift/internal/loggy"
	"golang.org/x/time/rate"
)

// MaxPageSize is the largest page the search endpoint serves
const MaxPageSize = 500

// Client is the SonarQube issues client for one project
type Client struct {
	config     config.SonarConfig
	projectKey string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *loggy.Logger
}

// NewClient creates a client for projectKey on the server described by cfg
func NewClient(cfg config.SonarConfig, projectKey string, logger *loggy.Logger) *Client {
	if cfg.PageSize <= 0 || cfg.PageSize > MaxPageSize {
		cfg.PageSize = MaxPageSize
	}

	return &Client{
		config:     cfg,
		projectKey: projectKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    newLimiter(cfg.RequestsPerMinute, cfg.BurstLimit),
		logger:     logger,
	}
}

// newLimiter paces requests; rpm <= 0 disables pacing
func newLimiter(rpm, burst int) *rate.Limiter {
	if burst <= 0 {
		burst = 1
	}
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, burst)
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// SearchIssues fetches one page (1-based) of unresolved issues
func (c *Client) SearchIssues(ctx context.Context, page int) (*SearchResponse, error) {
	query := url.Values{}
	query.Set("componentKeys", c.projectKey)
	query.Set("resolved", "false")
	query.Set("ps", strconv.Itoa(c.config.PageSize))
	query.Set("p", strconv.Itoa(page))

	var resp SearchResponse
	if err := c.makeRequest(ctx, "/api/issues/search", query, &resp); err != nil {
		return nil, fmt.Errorf("searching issues page %d: %w", page, err)
	}
	return &resp, nil
}

// FetchAllIssues walks the search pages in order until a page comes back empty or short.
// Any failed page aborts the whole fetch and nothing is returned.
func (c *Client) FetchAllIssues(ctx context.Context) ([]Issue, error) {
	var all []Issue

	for page := 1; ; page++ {
		resp, err := c.SearchIssues(ctx, page)
		if err != nil {
			return nil, err
		}

		c.logger.Debug("Fetched issues page", "project", c.projectKey, "page", page, "count", len(resp.Issues))

		if len(resp.Issues) == 0 {
			break
		}
		all = append(all, resp.Issues...)

		if len(resp.Issues) < c.config.PageSize {
			break
		}
	}

	c.logger.Info("Fetched issues", "project", c.projectKey, "total", len(all))
	return all, nil
}

func (c *Client) makeRequest(ctx context.Context, path string, query url.Values, respBody interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}

	endpoint := strings.TrimRight(c.config.URL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	ctx = loggy.WithRequestID(loggy.WithLogger(ctx, c.logger), loggy.NewRequestID())
	logger := loggy.FromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	// Tokens are sent as the basic auth user with an empty password
	req.SetBasicAuth(c.config.Token, "")
	req.Header.Set("Accept", "application/json")

	logger.Debug("Sending sonar request", "path", path, "page", query.Get("p"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Warn("Sonar request failed", "path", path, "status", resp.StatusCode)
		return &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	if err := json.Unmarshal(bodyBytes, respBody); err != nil {
		return fmt.Errorf("unmarshaling response: %w", err)
	}

	return nil
}
