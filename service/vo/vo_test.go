package vo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// The tool contract hinges on which fields are omitted when empty: a
// diffusion outside a search carries no taxonomy tags, and a clean
// category list carries no debug block.
func TestDiffusionOmitsTaxonomyTagsWhenUnset(t *testing.T) {
	data, err := json.Marshal(Diffusion{ID: "d1", Title: "t"})
	require.NoError(t, err)
	require.NotContains(t, string(data), "taxonomyTitle")
	require.NotContains(t, string(data), "taxonomyType")

	data, err = json.Marshal(Diffusion{ID: "d1", TaxonomyTitle: "Histoire", TaxonomyType: "theme"})
	require.NoError(t, err)
	require.Contains(t, string(data), `"taxonomyTitle":"Histoire"`)
}

func TestCategoryListDebugOnlyOnMiss(t *testing.T) {
	clean, err := json.Marshal(CategoryList{Categories: []Category{{Name: "Histoire", URL: "https://www.radiofrance.fr/podcasts/histoire"}}})
	require.NoError(t, err)
	require.False(t, strings.Contains(string(clean), "debug"))

	degraded, err := json.Marshal(CategoryList{
		Categories: []Category{},
		Debug:      &ScrapeDebug{Message: "no selectors matched", SampleHTML: "<html>"},
	})
	require.NoError(t, err)
	require.Contains(t, string(degraded), `"categories":[]`)
	require.Contains(t, string(degraded), `"sampleHtml"`)
}
