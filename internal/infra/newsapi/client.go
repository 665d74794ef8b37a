package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Dutaco/wingoo-clean/internal/infra/httpclient"
	newssvc "github.com/Dutaco/wingoo-clean/internal/services/news"
)

const defaultBaseURL = "https://newsapi.org/v2"

// categoryByInterest maps interest tags to the provider's headline
// categories; anything unmapped falls back to general news.
var categoryByInterest = map[string]string{
	"technology": "technology",
	"sports":     "sports",
	"ecology":    "science",
	"science":    "science",
	"music":      "entertainment",
	"cinema":     "entertainment",
}

type Config struct {
	BaseURL  string
	APIKey   string
	PageSize int
	Language string
	Timeout  time.Duration
}

// Client fetches top headlines from NewsAPI. It implements the news
// service's HeadlineProvider interface.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "en"
	}

	return &Client{
		cfg:  cfg,
		http: httpclient.New(cfg.Timeout),
	}
}

type headlinesResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
	} `json:"articles"`
}

func (c *Client) TopHeadlines(ctx context.Context, interest string) ([]newssvc.Article, error) {
	if strings.TrimSpace(c.cfg.APIKey) == "" {
		return nil, fmt.Errorf("news api key is not configured")
	}

	category, ok := categoryByInterest[strings.ToLower(strings.TrimSpace(interest))]
	if !ok {
		category = "general"
	}

	endpoint, err := url.Parse(c.cfg.BaseURL + "/top-headlines")
	if err != nil {
		return nil, fmt.Errorf("parse news endpoint: %w", err)
	}

	query := endpoint.Query()
	query.Set("apiKey", c.cfg.APIKey)
	query.Set("category", category)
	query.Set("language", c.cfg.Language)
	query.Set("pageSize", strconv.Itoa(c.cfg.PageSize))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch top headlines: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news provider returned status %d", resp.StatusCode)
	}

	var payload headlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode headlines response: %w", err)
	}

	articles := make([]newssvc.Article, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		articles = append(articles, newssvc.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Interest:    interest,
		})
	}

	return articles, nil
}
