// Package scrape extracts structured data from the broadcaster's website:
// podcast categories, show pages and audio stream descriptors. The site
// markup is not under our control, so every target is matched through an
// ordered list of selector strategies with graceful degradation: the first
// strategy with a usable match wins, and a full miss yields an empty
// result annotated with a bounded HTML sample instead of an error.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/config"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service/vo"
)

type Scraper struct {
	client *http.Client
	cfg    config.Config
	logger *zap.Logger
}

// NewScraper builds a scraper for the configured site. A nil client falls
// back to http.DefaultClient, a nil logger to zap.NewNop.
func NewScraper(cfg config.Config, client *http.Client, logger *zap.Logger) *Scraper {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{client: client, cfg: cfg, logger: logger}
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*html.Node, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to download HTML: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("HTTP request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, body, nil
}

// categoryStrategy is one pure selector function tried against the
// podcasts page. Strategies are declarative so new ones can be appended
// without touching the control flow.
type categoryStrategy struct {
	name string
	find func(doc *html.Node) []vo.Category
}

var categoryStrategies = []categoryStrategy{
	{
		name: "category-blocks",
		find: func(doc *html.Node) []vo.Category {
			var categories []vo.Category
			for _, block := range findNodesByClass(doc, "category") {
				for _, a := range findNodesByTag(block, "a") {
					categories = appendCategory(categories, textContent(a), attr(a, "href"))
				}
			}
			return categories
		},
	},
	{
		name: "podcast-path-links",
		find: func(doc *html.Node) []vo.Category {
			var categories []vo.Category
			for _, a := range findNodesByTag(doc, "a") {
				href := attr(a, "href")
				if !strings.HasPrefix(href, "/podcasts/") || href == "/podcasts/" {
					continue
				}
				categories = appendCategory(categories, textContent(a), href)
			}
			return categories
		},
	},
	{
		name: "nav-links",
		find: func(doc *html.Node) []vo.Category {
			var categories []vo.Category
			for _, nav := range findNodesByTag(doc, "nav") {
				for _, a := range findNodesByTag(nav, "a") {
					categories = appendCategory(categories, textContent(a), attr(a, "href"))
				}
			}
			return categories
		},
	},
}

// appendCategory keeps only structurally valid matches: a display text and
// a link are both required.
func appendCategory(categories []vo.Category, name, href string) []vo.Category {
	if name == "" || href == "" {
		return categories
	}
	return append(categories, vo.Category{Name: name, URL: href})
}

// PodcastCategories scrapes the podcast category list from the podcasts
// page. When no strategy matches, the empty result carries a debug block
// with a bounded HTML sample — a degraded but successful outcome.
func (s *Scraper) PodcastCategories(ctx context.Context) (vo.CategoryList, error) {
	doc, body, err := s.fetch(ctx, s.cfg.PodcastsPageURL)
	if err != nil {
		return vo.CategoryList{}, err
	}
	return s.extractCategories(doc, body), nil
}

func (s *Scraper) extractCategories(doc *html.Node, body []byte) vo.CategoryList {
	for _, strategy := range categoryStrategies {
		found := strategy.find(doc)
		if len(found) == 0 {
			continue
		}
		seen := make(map[string]bool, len(found))
		categories := make([]vo.Category, 0, len(found))
		for _, c := range found {
			c.URL = absolutize(s.cfg.WebsiteBaseURL, c.URL)
			if seen[c.URL] {
				continue
			}
			seen[c.URL] = true
			categories = append(categories, c)
		}
		return vo.CategoryList{Categories: categories}
	}

	s.logger.Debug("no category strategy matched",
		zap.Int("bodyBytes", len(body)),
		zap.Int("strategies", len(categoryStrategies)),
	)
	return vo.CategoryList{
		Categories: []vo.Category{},
		Debug: &vo.ScrapeDebug{
			Message:    "no category selectors matched the page structure",
			Strategies: categoryStrategyNames(),
			SampleHTML: sampleHTML(body),
		},
	}
}

func categoryStrategyNames() []string {
	names := make([]string, len(categoryStrategies))
	for i, s := range categoryStrategies {
		names[i] = s.name
	}
	return names
}

// PodcastDetail scrapes one show page: title, markdown description, author
// and episode links. Missing pieces degrade to empty values.
func (s *Scraper) PodcastDetail(ctx context.Context, pageURL string) (vo.PodcastDetail, error) {
	doc, _, err := s.fetch(ctx, pageURL)
	if err != nil {
		return vo.PodcastDetail{}, err
	}

	detail := vo.PodcastDetail{
		Title:       extractPageTitle(doc),
		Description: s.extractDescription(doc),
		Author:      extractAuthor(doc),
		URL:         pageURL,
		Episodes:    []vo.EpisodeRef{},
	}

	for _, strategy := range episodeStrategies {
		found := strategy.find(doc)
		if len(found) == 0 {
			continue
		}
		for _, e := range found {
			e.URL = absolutize(s.cfg.WebsiteBaseURL, e.URL)
			detail.Episodes = append(detail.Episodes, e)
		}
		break
	}
	return detail, nil
}

// extractPageTitle prefers the page's h1, then og:title, then <title>.
func extractPageTitle(doc *html.Node) string {
	for _, h1 := range findNodesByTag(doc, "h1") {
		if t := textContent(h1); t != "" {
			return t
		}
	}
	if t := extractMeta(doc, "property", "og:title"); t != "" {
		return t
	}
	return extractTitle(doc)
}

// extractDescription converts the page's description block to markdown;
// the meta description is the fallback.
func (s *Scraper) extractDescription(doc *html.Node) string {
	for _, block := range findNodesByClass(doc, "description") {
		if textContent(block) == "" {
			continue
		}
		markdown, err := htmltomarkdown.ConvertNode(block)
		if err == nil && len(bytes.TrimSpace(markdown)) > 0 {
			return strings.TrimSpace(string(markdown))
		}
	}
	return extractMeta(doc, "name", "description")
}

func extractAuthor(doc *html.Node) string {
	if a := extractMeta(doc, "name", "author"); a != "" {
		return a
	}
	for _, n := range findNodesByClass(doc, "author") {
		if t := textContent(n); t != "" {
			return t
		}
	}
	return ""
}

type episodeStrategy struct {
	name string
	find func(doc *html.Node) []vo.EpisodeRef
}

var episodeStrategies = []episodeStrategy{
	{
		name: "episode-blocks",
		find: func(doc *html.Node) []vo.EpisodeRef {
			var episodes []vo.EpisodeRef
			for _, block := range findNodesByClass(doc, "episode") {
				for _, a := range findNodesByTag(block, "a") {
					episodes = appendEpisode(episodes, textContent(a), attr(a, "href"))
				}
			}
			return episodes
		},
	},
	{
		name: "article-links",
		find: func(doc *html.Node) []vo.EpisodeRef {
			var episodes []vo.EpisodeRef
			for _, article := range findNodesByTag(doc, "article") {
				for _, a := range findNodesByTag(article, "a") {
					episodes = appendEpisode(episodes, textContent(a), attr(a, "href"))
					break
				}
			}
			return episodes
		},
	},
}

func appendEpisode(episodes []vo.EpisodeRef, title, href string) []vo.EpisodeRef {
	if title == "" || href == "" {
		return episodes
	}
	return append(episodes, vo.EpisodeRef{Title: title, URL: href})
}
