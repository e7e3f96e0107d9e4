package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/gql"
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service/vo"
)

// mockExecutor routes query documents to canned responses and counts
// calls. It is mutex-protected because the search fan-out executes
// concurrently.
type mockExecutor struct {
	mu      sync.Mutex
	calls   int
	history []string
	handle  func(document string, vars map[string]interface{}) (map[string]interface{}, error)
}

func (m *mockExecutor) Execute(ctx context.Context, document string, vars map[string]interface{}) (map[string]interface{}, error) {
	m.mu.Lock()
	m.calls++
	m.history = append(m.history, document)
	m.mu.Unlock()
	return m.handle(document, vars)
}

func (m *mockExecutor) sawDocument(document string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.history {
		if d == document {
			return true
		}
	}
	return false
}

func tree(t *testing.T, payload string) map[string]interface{} {
	t.Helper()
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(payload), &v))
	return v
}

func TestGetTaxonomiesReturnsRecordsUntouched(t *testing.T) {
	exec := &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		require.Equal(t, gql.QueryTaxonomies, document)
		require.Equal(t, 2, vars["limit"])
		require.Equal(t, "histoire", vars["keyword"])
		return tree(t, `{"taxonomies":[
			{"id":"t1","title":"Histoire","type":"theme","url":"/histoire","description":"d1"},
			{"id":"t2","title":"Histoire de France","type":"tag","url":"/hdf","description":"d2"}
		]}`), nil
	}}
	svc := NewService(exec, nil)

	taxonomies, err := svc.GetTaxonomies(context.Background(), "histoire", 2)
	require.NoError(t, err)
	require.Equal(t, []vo.Taxonomy{
		{ID: "t1", Title: "Histoire", Type: "theme", URL: "/histoire", Description: "d1"},
		{ID: "t2", Title: "Histoire de France", Type: "tag", URL: "/hdf", Description: "d2"},
	}, taxonomies)
}

func TestGetDiffusionsNotFoundIsEmpty(t *testing.T) {
	exec := &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		return tree(t, `{"taxonomy":null}`), nil
	}}
	svc := NewService(exec, nil)

	result, err := svc.GetDiffusions(context.Background(), "missing", 10)
	require.NoError(t, err)
	require.Equal(t, "missing", result.TaxonomyID)
	require.NotNil(t, result.Diffusions)
	require.Empty(t, result.Diffusions)
}

// searchFixture answers the taxonomy lookup with two taxonomies and hands
// out diffusions whose brand titles arrive as B, A (taxonomy one) and B
// (taxonomy two), so discovery order is ["B","A","B"].
func searchFixture(t *testing.T) *mockExecutor {
	return &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		switch document {
		case gql.QueryTaxonomies:
			return tree(t, `{"taxonomies":[
				{"id":"t1","title":"Histoire","type":"theme"},
				{"id":"t2","title":"Politique","type":"theme"}
			]}`), nil
		case gql.QueryTaxonomyDiffusions:
			if vars["taxonomyId"] == "t1" {
				return tree(t, `{"taxonomy":{"id":"t1","title":"Histoire","diffusions":[
					{"id":"b-first","title":"ep1","brand":{"title":"B","station":{"name":"France Culture"}}},
					{"id":"a-only","title":"ep2","brand":{"title":"A","station":{"name":"France Inter"}}}
				]}}`), nil
			}
			return tree(t, `{"taxonomy":{"id":"t2","title":"Politique","diffusions":[
				{"id":"b-second","title":"ep3","brand":{"title":"B","station":{"name":"FIP"}}}
			]}}`), nil
		default:
			t.Fatalf("unexpected document: %s", document)
			return nil, nil
		}
	}}
}

func TestSearchPodcastsStableSortByBrandTitle(t *testing.T) {
	svc := NewService(searchFixture(t), nil)

	results, err := svc.SearchPodcasts(context.Background(), "x", 10)
	require.NoError(t, err)
	require.Len(t, results, 3, spew.Sdump(results))

	// Ascending by brand title; the two "B" entries keep their discovery
	// order (stable sort).
	require.Equal(t, "a-only", results[0].ID)
	require.Equal(t, "b-first", results[1].ID)
	require.Equal(t, "b-second", results[2].ID)
}

func TestSearchPodcastsTagsAndTruncates(t *testing.T) {
	svc := NewService(searchFixture(t), nil)

	results, err := svc.SearchPodcasts(context.Background(), "x", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// Diffusions carry the taxonomy they were discovered through.
	require.Equal(t, "Histoire", results[0].TaxonomyTitle)
	require.Equal(t, "theme", results[0].TaxonomyType)
}

func TestSearchPodcastsShareOvershootsThenLimits(t *testing.T) {
	var sharesSeen []int
	var mu sync.Mutex
	exec := &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		if document == gql.QueryTaxonomies {
			return map[string]interface{}{"taxonomies": []interface{}{
				map[string]interface{}{"id": "t1", "title": "One"},
				map[string]interface{}{"id": "t2", "title": "Two"},
				map[string]interface{}{"id": "t3", "title": "Three"},
			}}, nil
		}
		mu.Lock()
		sharesSeen = append(sharesSeen, vars["limit"].(int))
		mu.Unlock()
		return map[string]interface{}{"taxonomy": map[string]interface{}{"diffusions": []interface{}{}}}, nil
	}}
	svc := NewService(exec, nil)

	_, err := svc.SearchPodcasts(context.Background(), "x", 10)
	require.NoError(t, err)
	// 10/3 + 1
	require.Equal(t, []int{4, 4, 4}, sharesSeen)
}

func TestSearchPodcastsPropagatesGatewayError(t *testing.T) {
	exec := &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		if document == gql.QueryTaxonomies {
			return map[string]interface{}{"taxonomies": []interface{}{
				map[string]interface{}{"id": "t1", "title": "One"},
			}}, nil
		}
		return nil, &gql.Error{Kind: gql.KindTransport, Message: "connection refused"}
	}}
	svc := NewService(exec, nil)

	_, err := svc.SearchPodcasts(context.Background(), "x", 10)
	require.Error(t, err)

	var gqlErr *gql.Error
	require.ErrorAs(t, err, &gqlErr)
	require.Equal(t, gql.KindTransport, gqlErr.Kind)
}

func TestSearchEpisodesReshapesDiffusions(t *testing.T) {
	svc := NewService(searchFixture(t), nil)

	episodes, err := svc.SearchEpisodes(context.Background(), "x", 10)
	require.NoError(t, err)
	require.Len(t, episodes, 3)
	require.Equal(t, vo.Show{Title: "A", Station: "France Inter"}, episodes[0].Show)
	require.Equal(t, "Histoire", episodes[0].TaxonomyTitle)
}

func gridFixture(t *testing.T) *mockExecutor {
	return &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		require.Equal(t, gql.QueryStationGrid, document)
		require.Equal(t, "franceculture", vars["stationCode"])
		return tree(t, `{"grid":{
			"station":{"id":"5","name":"France Culture"},
			"steps":[
				{"startTime":0,"endTime":1,"diffusion":null},
				{"startTime":1,"endTime":2,"diffusion":{"id":"p1","title":"One"}},
				{"startTime":2,"endTime":3,"diffusion":{"id":"p2","title":"Two"}},
				{"startTime":3,"endTime":4,"diffusion":{"id":"p3","title":"Three"}},
				{"startTime":4,"endTime":5,"diffusion":{"id":"p4","title":"Four"}},
				{"startTime":5,"endTime":6,"diffusion":{"id":"p5","title":"Five"}},
				{"startTime":6,"endTime":7,"diffusion":{"id":"p6","title":"Six"}},
				{"startTime":7,"endTime":8,"diffusion":{"id":"p7","title":"Seven"}}
			]
		}}`), nil
	}}
}

func TestGetStationGridExcludesEmptySteps(t *testing.T) {
	svc := NewService(gridFixture(t), nil)

	grid, err := svc.GetStationGrid(context.Background(), "franceculture")
	require.NoError(t, err)
	require.Len(t, grid.Programs, 7)
	require.Equal(t, "p1", grid.Programs[0].ID)
}

func TestGetStationProgramsCurrentAndUpcoming(t *testing.T) {
	svc := NewService(gridFixture(t), nil)

	programs, err := svc.GetStationPrograms(context.Background(), "France Culture")
	require.NoError(t, err)
	require.Equal(t, "France Culture", programs.StationName)
	require.NotNil(t, programs.CurrentProgram)
	require.Equal(t, "p1", programs.CurrentProgram.ID)
	require.Len(t, programs.UpcomingPrograms, 5)
	require.Equal(t, "p2", programs.UpcomingPrograms[0].ID)
	require.Equal(t, "p6", programs.UpcomingPrograms[4].ID)
}

func TestNaturalLanguageSearchStationWinsOverEverything(t *testing.T) {
	exec := gridFixture(t)
	svc := NewService(exec, nil)

	result, err := svc.NaturalLanguageSearch(context.Background(), "what is on France Culture right now", 10)
	require.NoError(t, err)
	require.Equal(t, vo.QueryTypeStation, result.QueryType)
	require.Equal(t, "France Culture", result.SearchTerm)

	// The waterfall stopped at the station stage: no search query ran.
	require.False(t, exec.sawDocument(gql.QueryTaxonomies))
	require.False(t, exec.sawDocument(gql.QueryTaxonomyDiffusions))
}

func TestNaturalLanguageSearchFallsThroughToTaxonomies(t *testing.T) {
	// Taxonomies exist, but none of them yields diffusions, so the
	// episode stage comes up empty and the taxonomy stage answers.
	exec := &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		switch document {
		case gql.QueryTaxonomies:
			return map[string]interface{}{"taxonomies": []interface{}{
				map[string]interface{}{"id": "t1", "title": "Histoire"},
			}}, nil
		case gql.QueryTaxonomyDiffusions:
			return map[string]interface{}{"taxonomy": map[string]interface{}{"diffusions": []interface{}{}}}, nil
		default:
			return map[string]interface{}{}, nil
		}
	}}
	svc := NewService(exec, nil)

	result, err := svc.NaturalLanguageSearch(context.Background(), "histoire romaine", 10)
	require.NoError(t, err)
	require.Equal(t, vo.QueryTypeTaxonomies, result.QueryType)
}

func TestNaturalLanguageSearchEpisodesBeforeTaxonomies(t *testing.T) {
	svc := NewService(searchFixture(t), nil)

	result, err := svc.NaturalLanguageSearch(context.Background(), "histoire romaine", 10)
	require.NoError(t, err)
	require.Equal(t, vo.QueryTypeEpisodes, result.QueryType)

	episodes, ok := result.Results.([]vo.Episode)
	require.True(t, ok)
	require.Len(t, episodes, 3)
}

func TestNaturalLanguageSearchGeneralFallback(t *testing.T) {
	exec := &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{"taxonomies": []interface{}{}}, nil
	}}
	svc := NewService(exec, nil)

	result, err := svc.NaturalLanguageSearch(context.Background(), "zzz nothing matches", 10)
	require.NoError(t, err)
	require.Equal(t, vo.QueryTypeGeneral, result.QueryType)
	require.NotEmpty(t, result.Message)
}

func TestNaturalLanguageSearchPropagatesErrors(t *testing.T) {
	// An error is not evidence of "no data": the waterfall must stop
	// rather than fall through to the next stage.
	exec := &mockExecutor{handle: func(document string, vars map[string]interface{}) (map[string]interface{}, error) {
		return nil, &gql.Error{Kind: gql.KindRemote, Message: "server exploded"}
	}}
	svc := NewService(exec, nil)

	_, err := svc.NaturalLanguageSearch(context.Background(), "histoire", 10)
	require.Error(t, err)
	require.Equal(t, 1, exec.calls)
}
