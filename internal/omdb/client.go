package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BaGreal2/movieweb/internal/model"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://www.omdbapi.com/"
	defaultTimeout = 10 * time.Second
)

// ErrNotFound is returned when the API answers but knows no movie with that title.
var ErrNotFound = errors.New("omdb: movie not found")

// HTTPStatusError means the API answered with a non-200 status.
type HTTPStatusError struct {
	Title      string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("omdb: HTTP %d looking up %q", e.StatusCode, e.Title)
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

type Option func(*Client)

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRateLimit caps outgoing lookups per second. Zero or negative disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

func NewClient(apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type movieResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Director   string `json:"Director"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
}

// FetchMovie looks a movie up by title.
func (c *Client) FetchMovie(ctx context.Context, title string) (model.MovieInfo, error) {
	if c.apiKey == "" {
		return model.MovieInfo{}, errors.New("omdb: API key not set")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return model.MovieInfo{}, fmt.Errorf("omdb: waiting for rate limiter: %w", err)
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return model.MovieInfo{}, fmt.Errorf("omdb: invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("t", title)
	q.Set("apikey", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.MovieInfo{}, fmt.Errorf("omdb: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.MovieInfo{}, fmt.Errorf("omdb: failed to make request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", slog.Any("error", err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return model.MovieInfo{}, &HTTPStatusError{Title: title, StatusCode: resp.StatusCode}
	}

	var body movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return model.MovieInfo{}, fmt.Errorf("omdb: failed to decode response: %w", err)
	}
	if body.Response == "False" {
		c.logger.Debug("movie not found", slog.String("title", title), slog.String("reason", body.Error))
		return model.MovieInfo{}, ErrNotFound
	}

	return model.MovieInfo{
		Name:     body.Title,
		Director: body.Director,
		Year:     parseYear(body.Year),
		Rating:   parseRating(body.ImdbRating),
		Poster:   body.Poster,
	}, nil
}

var yearRE = regexp.MustCompile(`^\d{4}`)

// parseYear takes the first year of values like "2010" or "2008–2013".
func parseYear(s string) int {
	m := yearRE.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0
	}
	y, _ := strconv.Atoi(m)
	return y
}

// parseRating reads "8.8"; "N/A" and anything unparsable become 0.
func parseRating(s string) float64 {
	r, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return r
}
