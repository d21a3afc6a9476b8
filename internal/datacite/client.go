package datacite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phenomics-au/doimint/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://api.test.datacite.org/dois"
	defaultUserAgent = "doimint/0.3 (mailto:doi-admin@phenomics.org.au)"
	defaultRateLimit = 5.0
	defaultTimeout   = 15 * time.Second
	contentType      = "application/vnd.api+json"

	// Pagination guard when walking links.next.
	maxListPages = 50
)

// Client issues requests against a DataCite repository with Basic auth.
//
// In dry-run mode mutating calls (create, update, patch, delete) never
// touch the network; read-only calls still go through.
type Client struct {
	baseURL    string
	repoID     string
	password   string
	userAgent  string
	dryRun     bool
	httpClient *http.Client
	limiter    *rate.Limiter
}

// ClientOpts contains configuration options for creating a Client.
type ClientOpts struct {
	BaseURL    string
	RepoID     string
	Password   string
	UserAgent  string
	DryRun     bool
	Timeout    time.Duration
	RateLimit  float64 // requests per second
	HTTPClient *http.Client
}

// NewClient creates a DataCite API client. Zero-valued options fall back
// to the test endpoint, the default user agent and a conservative rate
// limit.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		repoID:     opts.RepoID,
		password:   opts.Password,
		userAgent:  opts.UserAgent,
		dryRun:     opts.DryRun,
		httpClient: opts.HTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), 1),
	}
}

// DryRun reports whether the client simulates mutating calls.
func (c *Client) DryRun() bool { return c.dryRun }

// RegisterResult is the outcome of a create or update call.
type RegisterResult struct {
	DOI       string
	Simulated bool
	Status    int
}

// Create registers a new DOI via POST /dois and returns the resulting
// identifier. When attrs carries no DOI the server mints a suffix under
// attrs.Prefix; in dry-run mode a synthetic suffix is minted locally.
func (c *Client) Create(ctx context.Context, attrs Attributes) (*RegisterResult, error) {
	if c.dryRun {
		doi := attrs.DOI
		if doi == "" {
			doi = attrs.Prefix + "/" + shared.GenerateSuffix()
		}
		return &RegisterResult{DOI: doi, Simulated: true}, nil
	}

	var resp Payload
	status, err := c.do(ctx, http.MethodPost, c.baseURL, NewPayload("", attrs), &resp)
	if err != nil {
		return nil, err
	}

	doi := resp.DOI()
	if doi == "" {
		doi = attrs.DOI
	}
	return &RegisterResult{DOI: doi, Status: status}, nil
}

// Update transitions an existing DOI via PUT /dois/{doi}.
func (c *Client) Update(ctx context.Context, doi string, attrs Attributes) (*RegisterResult, error) {
	if c.dryRun {
		return &RegisterResult{DOI: doi, Simulated: true}, nil
	}

	var resp Payload
	status, err := c.do(ctx, http.MethodPut, c.baseURL+"/"+doi, NewPayload(doi, attrs), &resp)
	if err != nil {
		return nil, err
	}

	result := &RegisterResult{DOI: resp.DOI(), Status: status}
	if result.DOI == "" {
		result.DOI = doi
	}
	return result, nil
}

// Patch issues a partial update via PATCH /dois/{doi}, sending only the
// attributes set on attrs.
func (c *Client) Patch(ctx context.Context, doi string, attrs Attributes) error {
	if c.dryRun {
		return nil
	}

	_, err := c.do(ctx, http.MethodPatch, c.baseURL+"/"+doi, NewPayload(doi, attrs), nil)
	return err
}

// PatchURL issues the corrective PATCH that updates only the landing
// page URL, used after server-side minting.
func (c *Client) PatchURL(ctx context.Context, doi, url string) error {
	return c.Patch(ctx, doi, Attributes{URL: url})
}

// Get fetches the current metadata for a DOI.
func (c *Client) Get(ctx context.Context, doi string) (*Resource, error) {
	var resp Payload
	if _, err := c.do(ctx, http.MethodGet, c.baseURL+"/"+doi, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// Delete removes a DOI. The API only permits this for drafts; callers
// are expected to check the state first.
func (c *Client) Delete(ctx context.Context, doi string) error {
	if c.dryRun {
		return nil
	}
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+"/"+doi, nil, nil)
	return err
}

// List walks the repository's DOIs, following links.next for pagination.
func (c *Client) List(ctx context.Context) ([]Resource, error) {
	var all []Resource

	url := c.baseURL
	seen := make(map[string]bool)
	for page := 0; url != "" && page < maxListPages; page++ {
		if seen[url] {
			break
		}
		seen[url] = true

		var doc listDocument
		if _, err := c.do(ctx, http.MethodGet, url, nil, &doc); err != nil {
			return all, err
		}
		all = append(all, doc.Data...)
		url = doc.Links.Next
	}

	return all, nil
}

// Preflight performs the read-only authentication check: GET
// {root}/clients/{repo_id} with Basic auth. It never creates or touches
// a DOI.
func (c *Client) Preflight(ctx context.Context) error {
	url := c.rootURL() + "/clients/" + c.repoID
	_, err := c.do(ctx, http.MethodGet, url, nil, nil)
	return err
}

// rootURL derives the API root by stripping the trailing /dois segment.
func (c *Client) rootURL() string {
	return strings.TrimSuffix(c.baseURL, "/dois")
}

func (c *Client) do(ctx context.Context, method, url string, payload, out any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrRequest, err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.repoID, c.password)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", contentType)
	if payload != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", shared.ErrRequest, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, fmt.Errorf("%w: status %d: %s", shared.ErrAPI, resp.StatusCode, errorTitles(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// errorTitles flattens a JSON:API error document into a readable string,
// falling back to the raw body.
func errorTitles(body []byte) string {
	var doc errorDocument
	if err := json.Unmarshal(body, &doc); err == nil && len(doc.Errors) > 0 {
		titles := make([]string, 0, len(doc.Errors))
		for _, e := range doc.Errors {
			if e.Title != "" {
				titles = append(titles, e.Title)
			}
		}
		if len(titles) > 0 {
			return strings.Join(titles, "; ")
		}
	}

	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
