package gql

// The query documents are fixed; variables are the only per-call input.
// Field spellings follow the Radio France open API schema (standFirst is
// the short description, podcastEpisode carries the downloadable URL).

// QueryTaxonomies looks up categories/tags by keyword.
const QueryTaxonomies = `
query GetTaxonomies($limit: Int!, $keyword: String) {
  taxonomies(limit: $limit, keyword: $keyword) {
    id
    title
    type
    url
    description
  }
}
`

// QueryTaxonomyDiffusions fetches the diffusions attached to one taxonomy.
const QueryTaxonomyDiffusions = `
query GetDiffusions($taxonomyId: ID!, $limit: Int!) {
  taxonomy(id: $taxonomyId) {
    id
    title
    diffusions(limit: $limit) {
      id
      title
      url
      standFirst
      brand {
        title
        station {
          name
        }
      }
      diffusionDate
      podcastEpisode {
        url
      }
    }
  }
}
`

// QueryBrand fetches one show identity with its concepts and latest
// diffusions.
const QueryBrand = `
query GetBrand($brandId: ID!) {
  brand(id: $brandId) {
    id
    title
    description
    url
    station {
      name
    }
    concepts {
      id
      title
      type
      url
      description
    }
    diffusions(limit: 5) {
      id
      title
      url
      standFirst
      diffusionDate
      podcastEpisode {
        url
      }
    }
  }
}
`

// QueryStationGrid fetches the scheduled grid for one station code.
const QueryStationGrid = `
query GetStationGrid($stationCode: String!) {
  grid(station: $stationCode) {
    station {
      id
      name
    }
    steps {
      startTime
      endTime
      diffusion {
        id
        title
        standFirst
        url
        brand {
          title
        }
      }
    }
  }
}
`
