package judge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/programme-lv/vjudge/api"
)

const DefaultBaseURL = "https://vjudge.net"

// HTTPClient is the vjudge.net implementation of Client. It keeps the login
// session in a cookie jar, so one instance serves one user.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the client
type Option func(*HTTPClient)

// WithHTTPClient sets a custom HTTP client. Its cookie jar carries the session.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTPClient) {
		c.httpClient = client
	}
}

// WithTimeout sets the client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// NewHTTPClient creates a new judge client rooted at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Jar:       jar,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Login authenticates the session. The judge answers 200 with the literal
// "success" on success and a human readable reason otherwise.
func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.doForm(ctx, "/user/login", form)
	if err != nil {
		return err
	}

	body := strings.TrimSpace(string(resp.Body))
	if body != "success" {
		if body == "" {
			body = "empty response"
		}
		return fmt.Errorf("login rejected: %s", body)
	}
	return nil
}

// ListMyContests returns the contests of the logged in user, most recent first.
func (c *HTTPClient) ListMyContests(ctx context.Context) ([]api.Contest, error) {
	q := url.Values{}
	q.Set("draw", "1")
	q.Set("start", "0")
	q.Set("length", "100")
	q.Set("sortDir", "desc")
	q.Set("sortCol", "0")
	q.Set("category", "mine")
	q.Set("running", "0")
	q.Set("title", "")
	q.Set("owner", "")

	resp, err := c.doRequest(ctx, http.MethodGet, "/contest/data?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}

	var result struct {
		Data [][]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contest list: %w", err)
	}

	contests := make([]api.Contest, 0, len(result.Data))
	for i, row := range result.Data {
		contest, err := parseContestRow(row)
		if err != nil {
			return nil, fmt.Errorf("contest row %d: %w", i, err)
		}
		contests = append(contests, contest)
	}
	return contests, nil
}

var dataJsonRe = regexp.MustCompile(`(?s)<textarea[^>]*name="dataJson"[^>]*>(.*?)</textarea>`)

// GetContestDetail scrapes the contest page for its embedded JSON payload.
func (c *HTTPClient) GetContestDetail(ctx context.Context, contestID int) (*api.ContestDetail, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/contest/%d", contestID), nil, "")
	if err != nil {
		return nil, err
	}

	m := dataJsonRe.FindSubmatch(resp.Body)
	if m == nil {
		return nil, fmt.Errorf("contest %d: page carries no contest data", contestID)
	}

	var data struct {
		Problems []struct {
			Num               string         `json:"num"`
			Title             string         `json:"title"`
			OJ                string         `json:"oj"`
			ProbNum           string         `json:"probNum"`
			PublicDescID      int            `json:"publicDescId"`
			PublicDescVersion int            `json:"publicDescVersion"`
			Properties        []api.Property `json:"properties"`
		} `json:"problems"`
	}
	if err := json.Unmarshal([]byte(html.UnescapeString(string(m[1]))), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contest %d data: %w", contestID, err)
	}

	detail := &api.ContestDetail{Problems: make([]api.Problem, 0, len(data.Problems))}
	for _, p := range data.Problems {
		detail.Problems = append(detail.Problems, api.Problem{
			Num:                p.Num,
			Title:              p.Title,
			OJ:                 p.OJ,
			ProbNum:            p.ProbNum,
			DescriptionID:      p.PublicDescID,
			DescriptionVersion: p.PublicDescVersion,
			Properties:         p.Properties,
		})
	}
	return detail, nil
}

func (c *HTTPClient) GetProblemDescription(ctx context.Context, id, version int) (string, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/problem/description/%d?%d", id, version), nil, "")
	if err != nil {
		return "", err
	}
	return string(resp.Body), nil
}

// SubmitCode submits source code and returns the run id. A 200 answer without
// a run id (an error object, or a challenge page) is reported as a 400
// *HTTPError with the raw body, so captcha detection works the same for all
// shapes.
func (c *HTTPClient) SubmitCode(ctx context.Context, req SubmitReq) (int, error) {
	form := url.Values{}
	form.Set("method", "0")
	form.Set("language", req.Language)
	form.Set("open", "1")
	form.Set("source", base64.StdEncoding.EncodeToString([]byte(encodeURIComponent(req.Code))))
	form.Set("captcha", req.Captcha)
	form.Set("password", "")
	form.Set("problemNum", req.ProblemNum)

	resp, err := c.doForm(ctx, fmt.Sprintf("/contest/submit/%d", req.ContestID), form)
	if err != nil {
		return 0, err
	}

	var result struct {
		RunID   int    `json:"runId"`
		Error   string `json:"error"`
		Captcha bool   `json:"captcha"`
	}
	err = json.Unmarshal(resp.Body, &result)
	if err != nil || result.Error != "" || result.Captcha || result.RunID == 0 {
		return 0, &HTTPError{
			StatusCode:  http.StatusBadRequest,
			ContentType: resp.ContentType,
			Body:        resp.Body,
		}
	}
	return result.RunID, nil
}

func (c *HTTPClient) FetchSolution(ctx context.Context, runID int) (*api.Solution, error) {
	resp, err := c.doForm(ctx, fmt.Sprintf("/solution/data/%d", runID), url.Values{})
	if err != nil {
		return nil, err
	}

	var solution api.Solution
	if err := json.Unmarshal(resp.Body, &solution); err != nil {
		return nil, fmt.Errorf("failed to unmarshal solution %d: %w", runID, err)
	}
	if solution.RunID == 0 {
		solution.RunID = runID
	}
	return &solution, nil
}

// FetchSubmissions returns the contest's submission rows in server order.
func (c *HTTPClient) FetchSubmissions(ctx context.Context, contestID int) ([]api.Submission, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/contest/rank/single/%d", contestID), nil, "")
	if err != nil {
		return nil, err
	}

	var result struct {
		Submissions [][]int64 `json:"submissions"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal submissions of contest %d: %w", contestID, err)
	}

	subs := make([]api.Submission, 0, len(result.Submissions))
	for _, row := range result.Submissions {
		if len(row) < 3 {
			continue
		}
		sub := api.Submission{
			SubmitterID:  int(row[0]),
			ProblemIndex: int(row[1]),
			Accepted:     int(row[2]),
		}
		if len(row) > 3 {
			sub.Time = row[3]
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// Get fetches an absolute URL, or a path relative to the base URL, with the
// session cookies attached.
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*RawResponse, error) {
	return c.doRequest(ctx, http.MethodGet, rawURL, nil, "")
}

func (c *HTTPClient) doForm(ctx context.Context, path string, form url.Values) (*RawResponse, error) {
	return c.doRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// doRequest performs an HTTP request
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*RawResponse, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &HTTPError{
			StatusCode:  resp.StatusCode,
			ContentType: resp.Header.Get("Content-Type"),
			Body:        respBody,
		}
	}

	return &RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// parseContestRow decodes [id, title, begin, end, openness, managerId, managerName, ...].
func parseContestRow(row []json.RawMessage) (api.Contest, error) {
	if len(row) < 7 {
		return api.Contest{}, fmt.Errorf("expected at least 7 columns, got %d", len(row))
	}

	var (
		contest      api.Contest
		begin, end   int64
		openness     json.Number
		decodeTarget = []struct {
			idx int
			dst any
		}{
			{0, &contest.ID},
			{1, &contest.Title},
			{2, &begin},
			{3, &end},
			{6, &contest.ManagerName},
		}
	)
	for _, t := range decodeTarget {
		if err := json.Unmarshal(row[t.idx], t.dst); err != nil {
			return api.Contest{}, fmt.Errorf("column %d: %w", t.idx, err)
		}
	}

	// openness is sometimes sent as a string
	if err := json.Unmarshal(row[4], &openness); err == nil {
		if n, err := strconv.Atoi(openness.String()); err == nil {
			contest.Openness = n
		}
	}

	contest.Begin = time.UnixMilli(begin)
	contest.End = time.UnixMilli(end)
	return contest, nil
}

// encodeURIComponent mirrors the browser function the judge expects the
// source to be escaped with before base64.
func encodeURIComponent(s string) string {
	const unreserved = "-_.!~*'()"
	var b strings.Builder
	for _, c := range []byte(s) {
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') ||
			strings.IndexByte(unreserved, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}
