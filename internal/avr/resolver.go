package avr

import (
	"encoding/json"
	"regexp"
	"strings"
)

// portSuffixPattern matches a physical port sub-address on a multi-port
// source URI, e.g. "extInput:hdmi?port=2". The pattern is case-sensitive.
var portSuffixPattern = regexp.MustCompile(`^(.+)\?port=\d+`)

// exInputTypoPattern matches the "exInput:" scheme some firmware revisions
// report instead of "extInput:"
var exInputTypoPattern = regexp.MustCompile(`^exInput:(.*)`)

// rewriteRule is one step of the ordered URI rewrite chain applied when a
// title is resolved to a URI. Rules are checked in order; the first match
// wins and no further rules apply.
type rewriteRule struct {
	name    string
	matches func(title, uri string) bool
	rewrite func(uri string) string
}

var uriRewriteRules = []rewriteRule{
	{
		// The API always reports the bare URI for the physical audio
		// input even though it is a multi-port source; only port 1 is
		// reachable through this path.
		name: "audio-in-port",
		matches: func(title, uri string) bool {
			return strings.EqualFold(title, "audio in")
		},
		rewrite: func(uri string) string {
			return uri + "?port=1"
		},
	},
	{
		// Fix a firmware typo: "exInput:" is missing the "t"
		name: "ex-input-typo",
		matches: func(title, uri string) bool {
			return exInputTypoPattern.MatchString(uri)
		},
		rewrite: func(uri string) string {
			return "extInput:" + exInputTypoPattern.FindStringSubmatch(uri)[1]
		},
	},
}

// NormalizeSourceURI applies the ordered rewrite rules for a resolved
// source. title is the input title the caller asked for; uri is the raw
// URI the device reported for it.
func NormalizeSourceURI(title, uri string) string {
	for _, rule := range uriRewriteRules {
		if rule.matches(title, uri) {
			return rule.rewrite(uri)
		}
	}
	return uri
}

// SourceResolver translates between the URI space the device speaks and
// the input names a caller uses. It holds no state beyond the client:
// every lookup re-queries the device, so results always reflect the
// latest device response.
type SourceResolver struct {
	client *AvrClient
}

// NewSourceResolver creates a resolver backed by the given client
func NewSourceResolver(client *AvrClient) *SourceResolver {
	return &SourceResolver{client: client}
}

// SchemeList returns the scheme namespaces the device groups its sources by
func (r *SourceResolver) SchemeList() ([]string, error) {
	raw, err := r.client.Call(AVContentEndpoint, GetSchemeList, V10, nil)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	// The scheme list arrives wrapped in a single-element result list
	var result [][]struct {
		Scheme string `json:"scheme"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}

	schemes := make([]string, 0, len(result[0]))
	for _, entry := range result[0] {
		schemes = append(schemes, entry.Scheme)
	}
	return schemes, nil
}

// SourceList returns the sources belonging to a single scheme
func (r *SourceResolver) SourceList(scheme string) ([]Source, error) {
	params := []interface{}{
		map[string]string{"scheme": scheme},
	}
	raw, err := r.client.Call(AVContentEndpoint, GetSourceList, V12, params)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var result [][]Source
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

// AllSources concatenates the sources of every scheme, preserving scheme
// enumeration order and within-scheme order. Duplicates are kept; first
// occurrence wins during resolution, which keeps lookups deterministic.
func (r *SourceResolver) AllSources() ([]Source, error) {
	schemes, err := r.SchemeList()
	if err != nil {
		return nil, err
	}

	var sources []Source
	for _, scheme := range schemes {
		schemeSources, err := r.SourceList(scheme)
		if err != nil {
			return nil, err
		}
		sources = append(sources, schemeSources...)
	}
	return sources, nil
}

// ResolveTitle converts a source URI to its human-readable title. An
// optional "?port=N" suffix is stripped before matching, and URIs compare
// case-insensitively. The second return value is false when no source
// matches; callers should fall back to displaying the raw URI.
func (r *SourceResolver) ResolveTitle(uri string) (string, bool, error) {
	if match := portSuffixPattern.FindStringSubmatch(uri); match != nil {
		uri = match[1]
	}

	sources, err := r.AllSources()
	if err != nil {
		return "", false, err
	}

	for _, source := range sources {
		if strings.EqualFold(uri, source.URI) {
			return source.Title, true, nil
		}
	}
	return "", false, nil
}

// ResolveURI converts a human-readable input title to the URI the device
// expects, applying the rewrite rules to the raw stored URI. Titles
// compare case-insensitively. The second return value is false when no
// source matches; callers must not attempt to switch input in that case.
func (r *SourceResolver) ResolveURI(title string) (string, bool, error) {
	sources, err := r.AllSources()
	if err != nil {
		return "", false, err
	}

	for _, source := range sources {
		if strings.EqualFold(title, source.Title) {
			return NormalizeSourceURI(title, source.URI), true, nil
		}
	}
	return "", false, nil
}
