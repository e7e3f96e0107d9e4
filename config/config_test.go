package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("RADIOFRANCE_API_KEY", "")
	t.Setenv("RADIOFRANCE_API_ENDPOINT", "")

	cfg := FromEnv()
	require.False(t, cfg.HasAPIKey())
	require.Equal(t, "https://openapi.radiofrance.fr/v1/graphql", cfg.APIEndpoint)
	require.Equal(t, "https://www.radiofrance.fr", cfg.WebsiteBaseURL)
	require.Equal(t, "https://www.radiofrance.fr/podcasts", cfg.PodcastsPageURL)
	require.Equal(t, "RadioFranceMCPClient/1.0", cfg.UserAgent)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RADIOFRANCE_API_KEY", "  secret  ")
	t.Setenv("RADIOFRANCE_API_ENDPOINT", "http://localhost:9999/graphql")

	cfg := FromEnv()
	require.True(t, cfg.HasAPIKey())
	require.Equal(t, "secret", cfg.APIKey)
	require.Equal(t, "http://localhost:9999/graphql", cfg.APIEndpoint)
}
