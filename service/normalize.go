package service

import (
	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service/vo"
)

// The normalizers map one raw response tree per query document into a
// fully-populated value object. Every field read follows the same policy:
// missing scalar defaults to "", missing nested object defaults all of its
// dependent fields, missing collection defaults to an empty sequence. Only
// total absence of the expected root key yields found=false; partial data
// never does.

func stringAt(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func floatAt(m map[string]interface{}, key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

func mapAt(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

func listAt(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key].([]interface{}); ok {
		return v
	}
	return nil
}

func normalizeTaxonomy(m map[string]interface{}) vo.Taxonomy {
	return vo.Taxonomy{
		ID:          stringAt(m, "id"),
		Title:       stringAt(m, "title"),
		Type:        stringAt(m, "type"),
		URL:         stringAt(m, "url"),
		Description: stringAt(m, "description"),
	}
}

func normalizeTaxonomies(raw map[string]interface{}) ([]vo.Taxonomy, bool) {
	list, ok := raw["taxonomies"].([]interface{})
	if !ok {
		return nil, false
	}
	taxonomies := make([]vo.Taxonomy, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		taxonomies = append(taxonomies, normalizeTaxonomy(m))
	}
	return taxonomies, true
}

// normalizeDiffusion reads the diffusion shape shared by the taxonomy,
// brand and grid queries. The short description travels as "standFirst",
// the downloadable URL under "podcastEpisode".
func normalizeDiffusion(m map[string]interface{}) vo.Diffusion {
	d := vo.Diffusion{
		ID:            stringAt(m, "id"),
		Title:         stringAt(m, "title"),
		URL:           stringAt(m, "url"),
		Description:   stringAt(m, "standFirst"),
		DiffusionDate: stringAt(m, "diffusionDate"),
	}
	if brand := mapAt(m, "brand"); brand != nil {
		d.BrandTitle = stringAt(brand, "title")
		if station := mapAt(brand, "station"); station != nil {
			d.StationName = stringAt(station, "name")
		}
	}
	if episode := mapAt(m, "podcastEpisode"); episode != nil {
		d.PodcastURL = stringAt(episode, "url")
	}
	return d
}

func normalizeDiffusionList(list []interface{}) []vo.Diffusion {
	diffusions := make([]vo.Diffusion, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		diffusions = append(diffusions, normalizeDiffusion(m))
	}
	return diffusions
}

func normalizeTaxonomyDiffusions(raw map[string]interface{}) (vo.TaxonomyDiffusions, bool) {
	taxonomy := mapAt(raw, "taxonomy")
	if taxonomy == nil {
		return vo.TaxonomyDiffusions{}, false
	}
	return vo.TaxonomyDiffusions{
		TaxonomyID:    stringAt(taxonomy, "id"),
		TaxonomyTitle: stringAt(taxonomy, "title"),
		Diffusions:    normalizeDiffusionList(listAt(taxonomy, "diffusions")),
	}, true
}

func normalizeBrand(raw map[string]interface{}) (vo.Brand, bool) {
	brand := mapAt(raw, "brand")
	if brand == nil {
		return vo.Brand{}, false
	}
	b := vo.Brand{
		ID:               stringAt(brand, "id"),
		Title:            stringAt(brand, "title"),
		Description:      stringAt(brand, "description"),
		URL:              stringAt(brand, "url"),
		Concepts:         []vo.Taxonomy{},
		LatestDiffusions: normalizeDiffusionList(listAt(brand, "diffusions")),
	}
	if station := mapAt(brand, "station"); station != nil {
		b.StationName = stringAt(station, "name")
	}
	for _, item := range listAt(brand, "concepts") {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		b.Concepts = append(b.Concepts, normalizeTaxonomy(m))
	}
	return b, true
}

// normalizeStationGrid flattens grid steps into programs. A step without a
// diffusion carries nothing playable and is dropped.
func normalizeStationGrid(raw map[string]interface{}) (vo.StationGrid, bool) {
	grid := mapAt(raw, "grid")
	if grid == nil {
		return vo.StationGrid{}, false
	}
	g := vo.StationGrid{Programs: []vo.Program{}}
	if station := mapAt(grid, "station"); station != nil {
		g.StationID = stringAt(station, "id")
		g.StationName = stringAt(station, "name")
	}
	for _, item := range listAt(grid, "steps") {
		step, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		diffusion := mapAt(step, "diffusion")
		if diffusion == nil {
			continue
		}
		program := vo.Program{
			StartTime:   floatAt(step, "startTime"),
			EndTime:     floatAt(step, "endTime"),
			ID:          stringAt(diffusion, "id"),
			Title:       stringAt(diffusion, "title"),
			Description: stringAt(diffusion, "standFirst"),
			URL:         stringAt(diffusion, "url"),
		}
		if brand := mapAt(diffusion, "brand"); brand != nil {
			program.BrandTitle = stringAt(brand, "title")
		}
		g.Programs = append(g.Programs, program)
	}
	return g, true
}
