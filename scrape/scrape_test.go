package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/config"
)

func testScraper(pageURL string) *Scraper {
	return NewScraper(config.Config{
		WebsiteBaseURL:  "https://www.radiofrance.fr",
		PodcastsPageURL: pageURL,
		UserAgent:       "test-agent",
	}, nil, nil)
}

func parseDoc(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

const categoriesPage = `<html><body>
<div class="category-grid">
  <a href="/podcasts/histoire">Histoire</a>
  <a href="/podcasts/politique">Politique</a>
  <a href="https://www.radiofrance.fr/podcasts/musique">Musique</a>
</div>
</body></html>`

func TestExtractCategories(t *testing.T) {
	s := testScraper("")
	result := s.extractCategories(parseDoc(t, categoriesPage), []byte(categoriesPage))

	require.Nil(t, result.Debug)
	require.Len(t, result.Categories, 3)
	require.Equal(t, "Histoire", result.Categories[0].Name)
	// Relative links are rewritten against the site base; absolute ones
	// pass through.
	require.Equal(t, "https://www.radiofrance.fr/podcasts/histoire", result.Categories[0].URL)
	require.Equal(t, "https://www.radiofrance.fr/podcasts/musique", result.Categories[2].URL)
}

func TestExtractCategoriesSecondStrategy(t *testing.T) {
	// No "category" class anywhere, so the /podcasts/ path strategy wins.
	page := `<html><body>
	<a href="/podcasts/sciences">Sciences</a>
	<a href="/podcasts/">All</a>
	<a href="/autre/page">Other</a>
	</body></html>`

	s := testScraper("")
	result := s.extractCategories(parseDoc(t, page), []byte(page))
	require.Len(t, result.Categories, 1)
	require.Equal(t, "Sciences", result.Categories[0].Name)
}

func TestExtractCategoriesMissYieldsDebug(t *testing.T) {
	page := "<html><body><p>" + strings.Repeat("x", 2000) + "</p></body></html>"

	s := testScraper("")
	result := s.extractCategories(parseDoc(t, page), []byte(page))

	require.NotNil(t, result.Categories)
	require.Empty(t, result.Categories)
	require.NotNil(t, result.Debug)
	require.LessOrEqual(t, len(result.Debug.SampleHTML), 1000)
	require.Equal(t, []string{"category-blocks", "podcast-path-links", "nav-links"}, result.Debug.Strategies)
}

func TestExtractCategoriesIdempotent(t *testing.T) {
	s := testScraper("")
	doc := parseDoc(t, categoriesPage)

	first := s.extractCategories(doc, []byte(categoriesPage))
	second := s.extractCategories(doc, []byte(categoriesPage))
	require.Equal(t, first, second)
}

func TestAbsolutizeIdempotent(t *testing.T) {
	base := "https://www.radiofrance.fr"
	for _, u := range []string{
		"/podcasts/histoire",
		"https://www.radiofrance.fr/podcasts/histoire",
		"podcasts/histoire",
		"",
	} {
		once := absolutize(base, u)
		require.Equal(t, once, absolutize(base, once), u)
	}
}

func TestPodcastCategoriesOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(categoriesPage))
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	result, err := s.PodcastCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Categories, 3)
}

func TestPodcastCategoriesFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := testScraper(srv.URL)
	_, err := s.PodcastCategories(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestPodcastDetail(t *testing.T) {
	page := `<html><head>
	<title>Fallback title</title>
	<meta name="author" content="Radio France">
	</head><body>
	<h1>Le Cours de l'histoire</h1>
	<div class="podcast-description"><p>Une <strong>émission</strong> quotidienne.</p></div>
	<div class="episode-list">
	  <a href="/podcasts/le-cours-de-l-histoire/ep-1">Épisode 1</a>
	  <a href="/podcasts/le-cours-de-l-histoire/ep-2">Épisode 2</a>
	</div>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	s := testScraper("")
	detail, err := s.PodcastDetail(context.Background(), srv.URL)
	require.NoError(t, err)

	require.Equal(t, "Le Cours de l'histoire", detail.Title)
	require.Equal(t, "Radio France", detail.Author)
	require.Equal(t, srv.URL, detail.URL)
	// The description block is converted to markdown.
	require.Contains(t, detail.Description, "**émission**")
	require.Len(t, detail.Episodes, 2)
	require.Equal(t, "https://www.radiofrance.fr/podcasts/le-cours-de-l-histoire/ep-1", detail.Episodes[0].URL)
}

func TestPodcastDetailDegradesToMetaDescription(t *testing.T) {
	page := `<html><head>
	<meta name="description" content="Une émission quotidienne.">
	<meta property="og:title" content="Le Cours de l'histoire">
	</head><body></body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	s := testScraper("")
	detail, err := s.PodcastDetail(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Le Cours de l'histoire", detail.Title)
	require.Equal(t, "Une émission quotidienne.", detail.Description)
	require.NotNil(t, detail.Episodes)
	require.Empty(t, detail.Episodes)
}
