// Package vo holds the value objects exchanged between the gateway, the
// scraper and the tool surface. Every entity is built fresh per request
// and never mutated afterwards; string fields default to "" and slices to
// empty rather than null.
package vo

// Taxonomy is a category/tag from the metadata API.
type Taxonomy struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Diffusion is a single aired/published item. TaxonomyTitle and
// TaxonomyType are set only on diffusions produced by a keyword search,
// tagging each item with the taxonomy it was discovered through.
type Diffusion struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	Description   string `json:"description"`
	DiffusionDate string `json:"diffusionDate"`
	PodcastURL    string `json:"podcastUrl"`
	BrandTitle    string `json:"brandTitle"`
	StationName   string `json:"stationName"`
	TaxonomyTitle string `json:"taxonomyTitle,omitempty"`
	TaxonomyType  string `json:"taxonomyType,omitempty"`
}

// TaxonomyDiffusions pairs a taxonomy with its diffusions.
type TaxonomyDiffusions struct {
	TaxonomyID    string      `json:"taxonomyId"`
	TaxonomyTitle string      `json:"taxonomyTitle"`
	Diffusions    []Diffusion `json:"diffusions"`
}

// Brand is a show/program identity.
type Brand struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	URL              string      `json:"url"`
	StationName      string      `json:"stationName"`
	Concepts         []Taxonomy  `json:"concepts"`
	LatestDiffusions []Diffusion `json:"latestDiffusions"`
}

// Program is a grid step merged with its diffusion. Steps without a
// diffusion are never emitted.
type Program struct {
	StartTime   float64 `json:"startTime"`
	EndTime     float64 `json:"endTime"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	BrandTitle  string  `json:"brandTitle"`
}

// StationGrid is one station's scheduled programs.
type StationGrid struct {
	StationName string    `json:"stationName"`
	StationID   string    `json:"stationId"`
	Programs    []Program `json:"programs"`
}

// StationPrograms is the station-oriented answer shape: the first grid
// program is current, the next five are upcoming.
type StationPrograms struct {
	StationName      string    `json:"stationName"`
	CurrentProgram   *Program  `json:"currentProgram"`
	UpcomingPrograms []Program `json:"upcomingPrograms"`
}

// Category is a scraped podcast category; URL is always absolute.
type Category struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// EpisodeRef is an episode link scraped from a show page.
type EpisodeRef struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// PodcastDetail is a scraped show page. Description is markdown.
type PodcastDetail struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Author      string       `json:"author"`
	URL         string       `json:"url"`
	Episodes    []EpisodeRef `json:"episodes"`
}

// AudioDescriptor is the playable-content metadata extracted from a page.
// AudioURL may be empty when no strategy found one; StreamFormat is
// derived from the URL extension and falls back to "Unknown".
type AudioDescriptor struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Duration     string       `json:"duration"`
	PageURL      string       `json:"pageUrl"`
	AudioURL     string       `json:"audioUrl,omitempty"`
	StreamFormat string       `json:"streamFormat"`
	Debug        *ScrapeDebug `json:"debug,omitempty"`
}

// ScrapeDebug annotates a degraded extraction so an operator can
// recalibrate selectors. SampleHTML is capped at 1000 bytes.
type ScrapeDebug struct {
	Message    string   `json:"message"`
	Strategies []string `json:"strategies"`
	SampleHTML string   `json:"sampleHtml"`
}

// CategoryList is the scrape_podcast_categories answer shape.
type CategoryList struct {
	Categories []Category   `json:"categories"`
	Debug      *ScrapeDebug `json:"debug,omitempty"`
}

// Show is the nested brand/station pair on an episode record.
type Show struct {
	Title   string `json:"title"`
	Station string `json:"station"`
}

// Episode is the episode-oriented reshaping of a searched diffusion.
type Episode struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	URL           string `json:"url"`
	Date          string `json:"date"`
	PodcastURL    string `json:"podcastUrl"`
	TaxonomyTitle string `json:"taxonomyTitle,omitempty"`
	Show          Show   `json:"show"`
}

// Query types of a composed search answer.
const (
	QueryTypeStation    = "station"
	QueryTypeEpisodes   = "episodes"
	QueryTypeTaxonomies = "taxonomies"
	QueryTypeGeneral    = "general"
)

// SearchResult is the composed answer to a natural-language query.
// QueryType fixes the concrete shape of Results.
type SearchResult struct {
	QueryType  string      `json:"queryType"`
	SearchTerm string      `json:"searchTerm"`
	Results    interface{} `json:"results"`
	Message    string      `json:"message,omitempty"`
}
