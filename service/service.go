// Package service composes gateway lookups into the answers the tool
// surface exposes: keyword search across taxonomies, episode reshaping,
// station grids and the natural-language waterfall.
package service

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/gql"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service/vo"
)

const (
	defaultLimit     = 10
	maxSearchBuckets = 5
	upcomingCount    = 5
)

type Service interface {
	GetTaxonomies(ctx context.Context, keyword string, limit int) ([]vo.Taxonomy, error)
	GetDiffusions(ctx context.Context, taxonomyID string, limit int) (vo.TaxonomyDiffusions, error)
	GetBrand(ctx context.Context, brandID string) (vo.Brand, error)
	GetStationGrid(ctx context.Context, stationCode string) (vo.StationGrid, error)
	SearchPodcasts(ctx context.Context, query string, limit int) ([]vo.Diffusion, error)
	SearchEpisodes(ctx context.Context, topic string, limit int) ([]vo.Episode, error)
	GetStationPrograms(ctx context.Context, stationName string) (vo.StationPrograms, error)
	NaturalLanguageSearch(ctx context.Context, query string, maxResults int) (vo.SearchResult, error)
}

type service struct {
	executor gql.Executor
	logger   *zap.Logger
}

// NewService builds the composition layer on top of a query gateway. A nil
// logger falls back to zap.NewNop.
func NewService(executor gql.Executor, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{executor: executor, logger: logger}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return limit
}

func (s *service) GetTaxonomies(ctx context.Context, keyword string, limit int) ([]vo.Taxonomy, error) {
	vars := map[string]interface{}{"limit": clampLimit(limit)}
	if keyword != "" {
		vars["keyword"] = keyword
	}
	raw, err := s.executor.Execute(ctx, gql.QueryTaxonomies, vars)
	if err != nil {
		return nil, err
	}
	taxonomies, found := normalizeTaxonomies(raw)
	if !found {
		return []vo.Taxonomy{}, nil
	}
	return taxonomies, nil
}

func (s *service) GetDiffusions(ctx context.Context, taxonomyID string, limit int) (vo.TaxonomyDiffusions, error) {
	raw, err := s.executor.Execute(ctx, gql.QueryTaxonomyDiffusions, map[string]interface{}{
		"taxonomyId": taxonomyID,
		"limit":      clampLimit(limit),
	})
	if err != nil {
		return vo.TaxonomyDiffusions{}, err
	}
	result, found := normalizeTaxonomyDiffusions(raw)
	if !found {
		return vo.TaxonomyDiffusions{TaxonomyID: taxonomyID, Diffusions: []vo.Diffusion{}}, nil
	}
	return result, nil
}

func (s *service) GetBrand(ctx context.Context, brandID string) (vo.Brand, error) {
	raw, err := s.executor.Execute(ctx, gql.QueryBrand, map[string]interface{}{"brandId": brandID})
	if err != nil {
		return vo.Brand{}, err
	}
	brand, found := normalizeBrand(raw)
	if !found {
		return vo.Brand{Concepts: []vo.Taxonomy{}, LatestDiffusions: []vo.Diffusion{}}, nil
	}
	return brand, nil
}

func (s *service) GetStationGrid(ctx context.Context, stationCode string) (vo.StationGrid, error) {
	raw, err := s.executor.Execute(ctx, gql.QueryStationGrid, map[string]interface{}{"stationCode": stationCode})
	if err != nil {
		return vo.StationGrid{}, err
	}
	grid, found := normalizeStationGrid(raw)
	if !found {
		return vo.StationGrid{Programs: []vo.Program{}}, nil
	}
	return grid, nil
}

// SearchPodcasts resolves up to five taxonomies matching the query, fetches
// a proportional share of diffusions per taxonomy, tags each diffusion with
// its source taxonomy, then sorts by brand title and truncates. The
// per-taxonomy fetches run concurrently; the first gateway failure cancels
// the rest. The share deliberately overshoots (limit/count + 1) to tolerate
// taxonomies that yield less than their quota; the final slice enforces the
// requested limit.
func (s *service) SearchPodcasts(ctx context.Context, query string, limit int) ([]vo.Diffusion, error) {
	limit = clampLimit(limit)
	taxonomies, err := s.GetTaxonomies(ctx, query, maxSearchBuckets)
	if err != nil {
		return nil, err
	}
	if len(taxonomies) == 0 {
		return []vo.Diffusion{}, nil
	}

	share := limit/len(taxonomies) + 1
	buckets := make([][]vo.Diffusion, len(taxonomies))

	g, gctx := errgroup.WithContext(ctx)
	for i, taxonomy := range taxonomies {
		i, taxonomy := i, taxonomy
		g.Go(func() error {
			result, err := s.GetDiffusions(gctx, taxonomy.ID, share)
			if err != nil {
				return err
			}
			tagged := make([]vo.Diffusion, 0, len(result.Diffusions))
			for _, d := range result.Diffusions {
				d.TaxonomyTitle = taxonomy.Title
				d.TaxonomyType = taxonomy.Type
				tagged = append(tagged, d)
			}
			buckets[i] = tagged
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Concatenate in taxonomy discovery order so the stable sort keeps
	// equal brand titles in that order.
	merged := make([]vo.Diffusion, 0, limit)
	for _, bucket := range buckets {
		merged = append(merged, bucket...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].BrandTitle < merged[j].BrandTitle
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

// SearchEpisodes delegates to SearchPodcasts and reshapes each diffusion
// into an episode record with a nested show.
func (s *service) SearchEpisodes(ctx context.Context, topic string, limit int) ([]vo.Episode, error) {
	diffusions, err := s.SearchPodcasts(ctx, topic, limit)
	if err != nil {
		return nil, err
	}
	episodes := make([]vo.Episode, 0, len(diffusions))
	for _, d := range diffusions {
		episodes = append(episodes, vo.Episode{
			ID:            d.ID,
			Title:         d.Title,
			Description:   d.Description,
			URL:           d.URL,
			Date:          d.DiffusionDate,
			PodcastURL:    d.PodcastURL,
			TaxonomyTitle: d.TaxonomyTitle,
			Show: vo.Show{
				Title:   d.BrandTitle,
				Station: d.StationName,
			},
		})
	}
	return episodes, nil
}

// GetStationPrograms resolves the station name to a code and splits the
// grid into the current program and up to five upcoming ones.
func (s *service) GetStationPrograms(ctx context.Context, stationName string) (vo.StationPrograms, error) {
	match := resolveStation(stationName)
	s.logger.Debug("resolved station",
		zap.String("name", stationName),
		zap.String("code", match.Code),
		zap.String("confidence", string(match.Confidence)),
	)

	grid, err := s.GetStationGrid(ctx, match.Code)
	if err != nil {
		return vo.StationPrograms{}, err
	}

	result := vo.StationPrograms{
		StationName:      grid.StationName,
		UpcomingPrograms: []vo.Program{},
	}
	if result.StationName == "" {
		result.StationName = match.Name
	}
	if len(grid.Programs) > 0 {
		current := grid.Programs[0]
		result.CurrentProgram = &current
		upcoming := grid.Programs[1:]
		if len(upcoming) > upcomingCount {
			upcoming = upcoming[:upcomingCount]
		}
		result.UpcomingPrograms = append(result.UpcomingPrograms, upcoming...)
	}
	return result, nil
}

// NaturalLanguageSearch routes a free-form query through a strict
// waterfall: a recognized station name wins outright, then episode search,
// then taxonomy search, then a general answer with no data. A stage only
// runs when the previous one yielded zero results; a gateway error at any
// stage propagates immediately, since an error is not evidence of "no
// data".
func (s *service) NaturalLanguageSearch(ctx context.Context, query string, maxResults int) (vo.SearchResult, error) {
	maxResults = clampLimit(maxResults)

	if stationName, ok := findStationInQuery(query); ok {
		programs, err := s.GetStationPrograms(ctx, stationName)
		if err != nil {
			return vo.SearchResult{}, err
		}
		return vo.SearchResult{
			QueryType:  vo.QueryTypeStation,
			SearchTerm: stationName,
			Results:    programs,
		}, nil
	}

	episodes, err := s.SearchEpisodes(ctx, query, maxResults)
	if err != nil {
		return vo.SearchResult{}, err
	}
	if len(episodes) > 0 {
		return vo.SearchResult{
			QueryType:  vo.QueryTypeEpisodes,
			SearchTerm: query,
			Results:    episodes,
		}, nil
	}

	taxonomies, err := s.GetTaxonomies(ctx, query, maxResults)
	if err != nil {
		return vo.SearchResult{}, err
	}
	if len(taxonomies) > 0 {
		return vo.SearchResult{
			QueryType:  vo.QueryTypeTaxonomies,
			SearchTerm: query,
			Results:    taxonomies,
		}, nil
	}

	return vo.SearchResult{
		QueryType:  vo.QueryTypeGeneral,
		SearchTerm: query,
		Results:    []interface{}{},
		Message:    "No results found. Try a station name, a podcast topic, or a program title.",
	}, nil
}
