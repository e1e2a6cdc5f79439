// Package metadata talks to the TMDB API for series search and detail
// lookups.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL      = "https://api.themoviedb.org/3"
	defaultImageBaseURL = "https://image.tmdb.org/t/p"
)

// ErrNoResults reports a search or lookup that came back empty.
var ErrNoResults = errors.New("metadata: no results")

type Config struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
}

type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	http         *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("metadata: api key is empty")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	img := strings.TrimRight(cfg.ImageBaseURL, "/")
	if img == "" {
		img = defaultImageBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      base,
		imageBaseURL: img,
		http:         &http.Client{Timeout: timeout},
	}, nil
}

// Candidate is one row of a search result page.
type Candidate struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	FirstAirDate string `json:"first_air_date"`
}

// FirstAirYear returns the four-digit year, or "N/A" when absent.
func (c Candidate) FirstAirYear() string { return yearOf(c.FirstAirDate) }

// SearchPage is one page of series candidates.
type SearchPage struct {
	Page         int         `json:"page"`
	Results      []Candidate `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Season struct {
	SeasonNumber int `json:"season_number"`
	EpisodeCount int `json:"episode_count"`
}

// Series is the full detail snapshot used to compose a post.
type Series struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Overview        string   `json:"overview"`
	FirstAirDate    string   `json:"first_air_date"`
	Genres          []Genre  `json:"genres"`
	NumberOfSeasons int      `json:"number_of_seasons"`
	EpisodeRunTime  []int    `json:"episode_run_time"`
	Seasons         []Season `json:"seasons"`
	BackdropPath    string   `json:"backdrop_path"`
	PosterPath      string   `json:"poster_path"`
}

func (s *Series) FirstAirYear() string { return yearOf(s.FirstAirDate) }

func yearOf(date string) string {
	if len(date) < 4 {
		return "N/A"
	}
	if _, err := strconv.Atoi(date[:4]); err != nil {
		return "N/A"
	}
	return date[:4]
}

// Search looks up TV series by name. Page is 1-based.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("query", query)
	q.Set("include_adult", "false")
	q.Set("language", "en-US")
	q.Set("page", strconv.Itoa(page))

	var out SearchPage
	if err := c.get(ctx, "/search/tv", q, &out); err != nil {
		return nil, err
	}
	if len(out.Results) == 0 {
		return nil, ErrNoResults
	}
	return &out, nil
}

// Detail fetches the full series record.
func (c *Client) Detail(ctx context.Context, id int64) (*Series, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("language", "en-US")

	var out Series
	if err := c.get(ctx, "/tv/"+strconv.FormatInt(id, 10), q, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, ErrNoResults
	}
	return &out, nil
}

// ImageURL picks the best cover image: original-size backdrop first,
// then a w500 poster. Empty when the series has neither.
func (c *Client) ImageURL(s *Series) string {
	if s == nil {
		return ""
	}
	if s.BackdropPath != "" {
		return c.imageBaseURL + "/original" + s.BackdropPath
	}
	if s.PosterPath != "" {
		return c.imageBaseURL + "/w500" + s.PosterPath
	}
	return ""
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little for connection reuse; the body is not useful.
		_, _ = io.CopyN(io.Discard, resp.Body, 512)
		return fmt.Errorf("metadata: %s returned %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
