// Package config loads the immutable process configuration from the
// environment. The resulting value is built once in main and passed
// explicitly; nothing mutates it afterwards.
package config

import (
	"os"
	"strings"
)

const (
	defaultAPIEndpoint     = "https://openapi.radiofrance.fr/v1/graphql"
	defaultWebsiteBaseURL  = "https://www.radiofrance.fr"
	defaultPodcastsPageURL = "https://www.radiofrance.fr/podcasts"
	defaultUserAgent       = "RadioFranceMCPClient/1.0"
)

// Config holds the credential and endpoints shared by every component.
type Config struct {
	APIKey          string
	APIEndpoint     string
	WebsiteBaseURL  string
	PodcastsPageURL string
	UserAgent       string
}

// FromEnv builds a Config from environment variables, falling back to the
// public Radio France endpoints. RADIOFRANCE_API_KEY may be empty: the
// scraping tools work without it, the API-backed tools report a
// configuration error.
func FromEnv() Config {
	return Config{
		APIKey:          strings.TrimSpace(os.Getenv("RADIOFRANCE_API_KEY")),
		APIEndpoint:     envOr("RADIOFRANCE_API_ENDPOINT", defaultAPIEndpoint),
		WebsiteBaseURL:  envOr("RADIOFRANCE_BASE_URL", defaultWebsiteBaseURL),
		PodcastsPageURL: envOr("RADIOFRANCE_PODCASTS_URL", defaultPodcastsPageURL),
		UserAgent:       envOr("RADIOFRANCE_USER_AGENT", defaultUserAgent),
	}
}

// HasAPIKey reports whether a credential is configured.
func (c Config) HasAPIKey() bool {
	return c.APIKey != ""
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
