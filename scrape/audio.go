package scrape

import (
	"context"
	"encoding/json"
	"net/url"
	"path"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/infinitimeless/radiofrance-podcast-explorer-mcp/service/vo"
)

// audioStrategy resolves a playable URL from a parsed document. Strategies
// are tried in order; the first non-empty result wins.
type audioStrategy struct {
	name string
	find func(doc *html.Node) string
}

var audioStrategies = []audioStrategy{
	{name: "player-attributes", find: findPlayerAudioURL},
	{name: "json-ld", find: findJSONLDAudioURL},
	{name: "script-scan", find: scanScriptsForAudioURL},
}

// AudioContent extracts playable-content metadata from a page. A page
// where no strategy finds an audio URL still yields a descriptor, with a
// debug block attached so selectors can be recalibrated.
func (s *Scraper) AudioContent(ctx context.Context, pageURL string) (vo.AudioDescriptor, error) {
	doc, body, err := s.fetch(ctx, pageURL)
	if err != nil {
		return vo.AudioDescriptor{}, err
	}

	descriptor := vo.AudioDescriptor{
		Title:       extractPageTitle(doc),
		Description: extractMeta(doc, "name", "description"),
		Duration:    extractDuration(doc),
		PageURL:     pageURL,
	}
	for _, strategy := range audioStrategies {
		if found := strategy.find(doc); found != "" {
			descriptor.AudioURL = absolutize(s.cfg.WebsiteBaseURL, found)
			break
		}
	}
	descriptor.StreamFormat = streamFormatFromURL(descriptor.AudioURL)

	if descriptor.AudioURL == "" {
		s.logger.Debug("no audio strategy matched",
			zap.String("page", pageURL),
			zap.Int("bodyBytes", len(body)),
		)
		descriptor.Debug = &vo.ScrapeDebug{
			Message:    "no audio URL found on the page",
			Strategies: audioStrategyNames(),
			SampleHTML: sampleHTML(body),
		}
	}
	return descriptor, nil
}

func audioStrategyNames() []string {
	names := make([]string, len(audioStrategies))
	for i, s := range audioStrategies {
		names[i] = s.name
	}
	return names
}

func extractDuration(doc *html.Node) string {
	if d := extractMeta(doc, "property", "music:duration"); d != "" {
		return d
	}
	for _, n := range findNodesByClass(doc, "duration") {
		if t := textContent(n); t != "" {
			return t
		}
	}
	return ""
}

// findPlayerAudioURL reads explicit media attributes off player elements:
// audio/source src attributes first, then data attributes on any element.
func findPlayerAudioURL(doc *html.Node) string {
	for _, tag := range []string{"audio", "source"} {
		for _, n := range findNodesByTag(doc, tag) {
			if src := attr(n, "src"); src != "" {
				return src
			}
		}
	}
	for _, key := range []string{"data-url", "data-audio-url", "data-asset-source"} {
		nodes := findNodes(doc, func(n *html.Node) bool {
			return attr(n, key) != ""
		})
		if len(nodes) > 0 {
			return attr(nodes[0], key)
		}
	}
	return ""
}

// findJSONLDAudioURL parses embedded structured metadata blocks and walks
// them for a contentUrl.
func findJSONLDAudioURL(doc *html.Node) string {
	for _, script := range findNodesByTag(doc, "script") {
		if attr(script, "type") != "application/ld+json" {
			continue
		}
		if script.FirstChild == nil || script.FirstChild.Type != html.TextNode {
			continue
		}
		var block interface{}
		if err := json.Unmarshal([]byte(script.FirstChild.Data), &block); err != nil {
			continue
		}
		if found := findContentURL(block); found != "" {
			return found
		}
	}
	return ""
}

func findContentURL(v interface{}) string {
	switch value := v.(type) {
	case map[string]interface{}:
		for _, key := range []string{"contentUrl", "embedUrl"} {
			if s, ok := value[key].(string); ok && s != "" {
				return s
			}
		}
		for _, nested := range value {
			if found := findContentURL(nested); found != "" {
				return found
			}
		}
	case []interface{}:
		for _, item := range value {
			if found := findContentURL(item); found != "" {
				return found
			}
		}
	}
	return ""
}

// The inline-script scan is best-effort: it looks for a quoted URL near
// recognizable tokens in script text. It is heuristic by nature and not
// guaranteed correct, so it runs last, and it is capped so a pathological
// document cannot make it arbitrarily slow.
const (
	maxScriptsScanned  = 25
	maxScriptScanBytes = 64 * 1024
	scanWindow         = 400
)

var audioURLTokens = []string{"audioURL", "audioUrl", "mp3"}

var quotedURLPattern = regexp.MustCompile(`https?://[^"'\\\s]+`)

func scanScriptsForAudioURL(doc *html.Node) string {
	scanned := 0
	budget := maxScriptScanBytes
	for _, script := range findNodesByTag(doc, "script") {
		if scanned >= maxScriptsScanned || budget <= 0 {
			break
		}
		if script.FirstChild == nil || script.FirstChild.Type != html.TextNode {
			continue
		}
		scanned++
		text := script.FirstChild.Data
		if len(text) > budget {
			text = text[:budget]
		}
		budget -= len(text)

		for _, token := range audioURLTokens {
			idx := strings.Index(text, token)
			if idx < 0 {
				continue
			}
			start := idx - scanWindow
			if start < 0 {
				start = 0
			}
			end := idx + scanWindow
			if end > len(text) {
				end = len(text)
			}
			if found := quotedURLPattern.FindString(text[start:end]); found != "" {
				return found
			}
		}
	}
	return ""
}

// streamFormatFromURL derives a stream format label from the URL's file
// extension; "Unknown" when it cannot be determined.
func streamFormatFromURL(audioURL string) string {
	if audioURL == "" {
		return "Unknown"
	}
	u, err := url.Parse(audioURL)
	if err != nil {
		return "Unknown"
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".mp3":
		return "MP3"
	case ".aac", ".m4a":
		return "AAC"
	case ".ogg", ".oga":
		return "OGG"
	case ".wav":
		return "WAV"
	case ".flac":
		return "FLAC"
	case ".m3u8":
		return "HLS"
	default:
		return "Unknown"
	}
}
