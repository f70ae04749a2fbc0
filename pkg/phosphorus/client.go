// Package phosphorus provides a typed client for the Phosphorus detection
// engine API. Each call is a fresh request with a bounded timeout; responses
// are decoded into explicit schema types and validated before use, so a
// malformed payload is indistinguishable from missing data to callers.
package phosphorus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"plagiarism-review/pkg/metrics"
	"plagiarism-review/pkg/models"
)

const defaultTimeout = 10 * time.Second

// Classified client errors. Callers aggregate over several calls and must
// treat each failure in isolation: any of these means "no data from this
// call", never a fatal condition.
var (
	// ErrUnavailable indicates a transport-level failure (connection,
	// timeout, cancelled context).
	ErrUnavailable = errors.New("detection engine unavailable")
	// ErrBadPayload indicates the engine responded with a body that failed
	// to decode or failed schema validation.
	ErrBadPayload = errors.New("malformed detection engine payload")
	// ErrStatus indicates a non-success HTTP status.
	ErrStatus = errors.New("unexpected detection engine status")
)

// Client is a typed accessor over the detection engine API.
// Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	validate   *validator.Validate
	metrics    *metrics.Metrics
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithMetrics enables Prometheus instrumentation of engine calls.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a detection engine client for the given base URL.
// The base URL is injected here; nothing in this package reads global state.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		validate:   validator.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// envelope is the engine's uniform `{"data": ...}` response wrapper.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// Contests fetches the list of contests with plagiarism data.
// On any failure the returned error classifies the cause and the slice is nil.
func (c *Client) Contests(ctx context.Context) ([]models.ContestSummary, error) {
	var contests []models.ContestSummary
	if err := c.getJSON(ctx, "contests", "/api/v1/contests/plagiarism", &contests); err != nil {
		return nil, err
	}
	for i := range contests {
		if err := c.validate.Struct(&contests[i]); err != nil {
			return nil, fmt.Errorf("%w: contest %d: %v", ErrBadPayload, i, err)
		}
	}
	return contests, nil
}

// Problems fetches the problems of a contest.
func (c *Client) Problems(ctx context.Context, contestID string) ([]models.ProblemSummary, error) {
	var problems []models.ProblemSummary
	path := fmt.Sprintf("/api/v1/contest/%s/problems", contestID)
	if err := c.getJSON(ctx, "problems", path, &problems); err != nil {
		return nil, err
	}
	return problems, nil
}

// PlagiarismResult fetches the detection result for one problem.
// Returns (nil, nil) when the engine reports no result for the problem; a
// non-nil error means the call itself failed.
func (c *Client) PlagiarismResult(ctx context.Context, contestID string, problemID int64) (*models.PlagiarismResult, error) {
	var result *models.PlagiarismResult
	path := fmt.Sprintf("/api/v1/contest/%s/problem/%d/plagiarism", contestID, problemID)
	err := c.getJSON(ctx, "plagiarism_result", path, &result)
	if errors.Is(err, ErrStatus) && errorStatus(err) == http.StatusNotFound {
		// No result yet for this problem; absence, not failure.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	for i := range result.Pairs {
		if err := c.validate.Struct(&result.Pairs[i]); err != nil {
			return nil, fmt.Errorf("%w: pair %d: %v", ErrBadPayload, i, err)
		}
		if len(result.Pairs[i].Similarities) > 0 {
			if _, ok := result.Pairs[i].Similarities[models.AvgMetric]; !ok {
				return nil, fmt.Errorf("%w: pair %d has scores but no %s metric", ErrBadPayload, i, models.AvgMetric)
			}
		}
	}
	return result, nil
}

// LanguageStats fetches the per-language submission breakdown for one problem.
func (c *Client) LanguageStats(ctx context.Context, contestID string, problemID int64) ([]models.LanguageStat, error) {
	var stats []models.LanguageStat
	path := fmt.Sprintf("/api/v1/contest/%s/problem/%d/languages", contestID, problemID)
	if err := c.getJSON(ctx, "language_stats", path, &stats); err != nil {
		return nil, err
	}
	for i := range stats {
		if err := c.validate.Struct(&stats[i]); err != nil {
			return nil, fmt.Errorf("%w: language stat %d: %v", ErrBadPayload, i, err)
		}
	}
	return stats, nil
}

// checkRequest is the wire form of a check submission to the engine.
type checkRequest struct {
	ProblemID int64  `json:"problem_id,omitempty"`
	Language  string `json:"language,omitempty"`
}

// SubmitCheck asks the engine to run a plagiarism check for a contest,
// optionally narrowed to one problem or language. Unlike the fetch calls,
// submission failures matter to the caller and are returned as-is.
func (c *Client) SubmitCheck(ctx context.Context, req models.CheckTaskRequest) error {
	body, err := json.Marshal(checkRequest{ProblemID: req.ProblemID, Language: req.Language})
	if err != nil {
		return fmt.Errorf("failed to marshal check request: %w", err)
	}

	path := fmt.Sprintf("/api/v1/contest/%s/check", req.ContestID)
	return c.postJSON(ctx, "submit_check", path, body)
}

// getJSON performs one GET against the engine, unwraps the data envelope, and
// decodes it into out. All failure modes collapse into the classified errors.
func (c *Client) getJSON(ctx context.Context, endpoint, path string, out interface{}) error {
	start := time.Now()
	outcome, err := c.doGet(ctx, path, out)
	if c.metrics != nil {
		c.metrics.RecordEngineCall(endpoint, outcome, time.Since(start))
	}
	return err
}

func (c *Client) doGet(ctx context.Context, path string, out interface{}) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return metrics.OutcomeUnavailable, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return metrics.OutcomeUnavailable, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return metrics.OutcomeBadStatus, &statusError{code: resp.StatusCode, path: path}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return metrics.OutcomeBadPayload, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if env.Data == nil {
		// `{"data": null}` is a valid absent payload; leave out at its
		// zero value.
		return metrics.OutcomeOK, nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return metrics.OutcomeBadPayload, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	return metrics.OutcomeOK, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint, path string, body []byte) error {
	start := time.Now()
	outcome := metrics.OutcomeOK

	defer func() {
		if c.metrics != nil {
			c.metrics.RecordEngineCall(endpoint, outcome, time.Since(start))
		}
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		outcome = metrics.OutcomeUnavailable
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = metrics.OutcomeUnavailable
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = metrics.OutcomeBadStatus
		return &statusError{code: resp.StatusCode, path: path}
	}
	return nil
}

// statusError carries the HTTP status of a non-success response while still
// matching ErrStatus under errors.Is.
type statusError struct {
	code int
	path string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected detection engine status %d for %s", e.code, e.path)
}

func (e *statusError) Is(target error) bool {
	return target == ErrStatus
}

// errorStatus extracts the HTTP status from a classified error, or 0.
func errorStatus(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.code
	}
	return 0
}
