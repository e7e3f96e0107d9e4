// Package mcp registers the podcast-explorer tools on an MCP server.
// Every tool answers with a JSON object; any internal failure is carried
// as {"error": "..."} in the payload, never as a protocol-level fault.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/scrape"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service/vo"
)

const Version = "0.1.0"

type GetTaxonomiesRequest struct {
	Keyword string `json:"keyword,omitempty"` // Optional keyword filter
	Limit   int    `json:"limit,omitempty"`   // Maximum number of results, default 10
}

type GetDiffusionsRequest struct {
	TaxonomyID string `json:"taxonomyId"`
	Limit      int    `json:"limit,omitempty"`
}

type GetBrandRequest struct {
	BrandID string `json:"brandId"`
}

type GetStationGridRequest struct {
	StationCode string `json:"stationCode"`
}

type PodcastDetailsRequest struct {
	PodcastURL string `json:"podcastUrl"`
}

type AudioContentRequest struct {
	URL string `json:"url"`
}

type SearchPodcastsRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type SearchPodcastsResponse struct {
	Query   string         `json:"query"`
	Results []vo.Diffusion `json:"results"`
}

type SearchEpisodesRequest struct {
	Topic string `json:"topic"`
	Limit int    `json:"limit,omitempty"`
}

type StationProgramsRequest struct {
	StationName string `json:"stationName"`
}

type NaturalLanguageSearchRequest struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// errorResult serializes a failure into the uniform {"error": ...} object.
func errorResult(msg string) *mcp.CallToolResult {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return mcp.NewToolResultText(string(data))
}

func jsonResult(v interface{}) *mcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to marshal response: %v", err))
	}
	return mcp.NewToolResultText(string(data))
}

// NewServer creates the MCP server with the full tool surface: the
// API-backed lookups, the scraping tools and the composed searches.
func NewServer(logger *zap.Logger, svc service.Service, scraper *scrape.Scraper) *server.MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := server.NewMCPServer(
		"Radio France Podcast Explorer MCP",
		Version,
		server.WithToolCapabilities(false),
	)

	s.AddTool(mcp.NewTool("get_taxonomies",
		mcp.WithDescription("Get taxonomies (categories/tags) from the Radio France API"),
		mcp.WithString("keyword",
			mcp.Description("Optional keyword to filter taxonomies"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	), mcp.NewTypedToolHandler(getTaxonomiesHandler(svc)))

	s.AddTool(mcp.NewTool("get_diffusions",
		mcp.WithDescription("Get diffusions (aired items) for a taxonomy"),
		mcp.WithString("taxonomyId",
			mcp.Required(),
			mcp.Description("The taxonomy ID to fetch diffusions for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	), mcp.NewTypedToolHandler(getDiffusionsHandler(svc)))

	s.AddTool(mcp.NewTool("get_brand",
		mcp.WithDescription("Get a show/program identity with its concepts and latest diffusions"),
		mcp.WithString("brandId",
			mcp.Required(),
			mcp.Description("The brand ID to look up"),
		),
	), mcp.NewTypedToolHandler(getBrandHandler(svc)))

	s.AddTool(mcp.NewTool("get_station_grid",
		mcp.WithDescription("Get the scheduled program grid for a station code"),
		mcp.WithString("stationCode",
			mcp.Required(),
			mcp.Description("The station code (e.g. 'franceculture', 'fip')"),
		),
	), mcp.NewTypedToolHandler(getStationGridHandler(svc)))

	s.AddTool(mcp.NewTool("scrape_podcast_categories",
		mcp.WithDescription("Scrape the list of podcast categories from the Radio France website"),
	), mcp.NewTypedToolHandler(scrapeCategoriesHandler(scraper)))

	s.AddTool(mcp.NewTool("scrape_podcast_details",
		mcp.WithDescription("Scrape a podcast show page: title, description, author and episodes"),
		mcp.WithString("podcastUrl",
			mcp.Required(),
			mcp.Description("The URL of the podcast page to scrape"),
		),
	), mcp.NewTypedToolHandler(scrapeDetailsHandler(scraper)))

	s.AddTool(mcp.NewTool("get_audio_content_info",
		mcp.WithDescription("Extract playable audio metadata (stream URL, format) from a page"),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the page containing audio content"),
		),
	), mcp.NewTypedToolHandler(audioContentHandler(scraper)))

	s.AddTool(mcp.NewTool("search_podcasts",
		mcp.WithDescription("Search podcasts by keyword across matching taxonomies"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The search keyword"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	), mcp.NewTypedToolHandler(searchPodcastsHandler(svc)))

	s.AddTool(mcp.NewTool("search_episodes",
		mcp.WithDescription("Search episodes about a topic"),
		mcp.WithString("topic",
			mcp.Required(),
			mcp.Description("The topic to search episodes for"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	), mcp.NewTypedToolHandler(searchEpisodesHandler(svc)))

	s.AddTool(mcp.NewTool("get_station_programs",
		mcp.WithDescription("Get the current and upcoming programs for a station name"),
		mcp.WithString("stationName",
			mcp.Required(),
			mcp.Description("The station name (e.g. 'France Culture')"),
		),
	), mcp.NewTypedToolHandler(stationProgramsHandler(svc)))

	s.AddTool(mcp.NewTool("natural_language_search",
		mcp.WithDescription("Answer a free-form query about stations, episodes or topics"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The natural-language query"),
		),
		mcp.WithNumber("maxResults",
			mcp.Description("Maximum number of results to return (default: 10)"),
		),
	), mcp.NewTypedToolHandler(naturalLanguageSearchHandler(svc)))

	logger.Info("MCP server initialized",
		zap.String("version", Version),
		zap.Int("tools", 11),
	)

	return s
}

func getTaxonomiesHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetTaxonomiesRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetTaxonomiesRequest) (*mcp.CallToolResult, error) {
		taxonomies, err := svc.GetTaxonomies(ctx, args.Keyword, args.Limit)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(taxonomies), nil
	}
}

func getDiffusionsHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetDiffusionsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetDiffusionsRequest) (*mcp.CallToolResult, error) {
		if args.TaxonomyID == "" {
			return errorResult("taxonomyId is required"), nil
		}
		result, err := svc.GetDiffusions(ctx, args.TaxonomyID, args.Limit)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(result), nil
	}
}

func getBrandHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetBrandRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetBrandRequest) (*mcp.CallToolResult, error) {
		if args.BrandID == "" {
			return errorResult("brandId is required"), nil
		}
		brand, err := svc.GetBrand(ctx, args.BrandID)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(brand), nil
	}
}

func getStationGridHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args GetStationGridRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args GetStationGridRequest) (*mcp.CallToolResult, error) {
		if args.StationCode == "" {
			return errorResult("stationCode is required"), nil
		}
		grid, err := svc.GetStationGrid(ctx, args.StationCode)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(grid), nil
	}
}

func scrapeCategoriesHandler(scraper *scrape.Scraper) func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args struct{}) (*mcp.CallToolResult, error) {
		categories, err := scraper.PodcastCategories(ctx)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to scrape categories: %v", err)), nil
		}
		return jsonResult(categories), nil
	}
}

func scrapeDetailsHandler(scraper *scrape.Scraper) func(ctx context.Context, request mcp.CallToolRequest, args PodcastDetailsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args PodcastDetailsRequest) (*mcp.CallToolResult, error) {
		if args.PodcastURL == "" {
			return errorResult("podcastUrl is required"), nil
		}
		detail, err := scraper.PodcastDetail(ctx, args.PodcastURL)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to scrape podcast details: %v", err)), nil
		}
		return jsonResult(detail), nil
	}
}

func audioContentHandler(scraper *scrape.Scraper) func(ctx context.Context, request mcp.CallToolRequest, args AudioContentRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args AudioContentRequest) (*mcp.CallToolResult, error) {
		if args.URL == "" {
			return errorResult("url is required"), nil
		}
		descriptor, err := scraper.AudioContent(ctx, args.URL)
		if err != nil {
			return errorResult(fmt.Sprintf("failed to extract audio content: %v", err)), nil
		}
		return jsonResult(descriptor), nil
	}
}

func searchPodcastsHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args SearchPodcastsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchPodcastsRequest) (*mcp.CallToolResult, error) {
		if args.Query == "" {
			return errorResult("query is required"), nil
		}
		results, err := svc.SearchPodcasts(ctx, args.Query, args.Limit)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(SearchPodcastsResponse{Query: args.Query, Results: results}), nil
	}
}

func searchEpisodesHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args SearchEpisodesRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args SearchEpisodesRequest) (*mcp.CallToolResult, error) {
		if args.Topic == "" {
			return errorResult("topic is required"), nil
		}
		episodes, err := svc.SearchEpisodes(ctx, args.Topic, args.Limit)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(episodes), nil
	}
}

func stationProgramsHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args StationProgramsRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args StationProgramsRequest) (*mcp.CallToolResult, error) {
		if args.StationName == "" {
			return errorResult("stationName is required"), nil
		}
		programs, err := svc.GetStationPrograms(ctx, args.StationName)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(programs), nil
	}
}

func naturalLanguageSearchHandler(svc service.Service) func(ctx context.Context, request mcp.CallToolRequest, args NaturalLanguageSearchRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args NaturalLanguageSearchRequest) (*mcp.CallToolResult, error) {
		if args.Query == "" {
			return errorResult("query is required"), nil
		}
		result, err := svc.NaturalLanguageSearch(ctx, args.Query, args.MaxResults)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(result), nil
	}
}
