package restmodel

import (
	"fmt"
	"sort"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Common media types with built-in renderers.
const (
	MediaTypeJSON = "application/json"
	MediaTypeYAML = "application/x-yaml"
	MediaTypeText = "text/plain"
)

// RenderFunc serializes a marshaled payload into a response body. Status and
// headers are informational; renderers that vary on them may close over
// additional state.
type RenderFunc func(data any, status int, headers map[string]string) ([]byte, error)

// Representations is the ordered media-type registry used for content
// negotiation. Registration order is the tie-break order between otherwise
// equal matches. Build it once at startup; concurrent Negotiate calls are
// safe as long as no one registers concurrently.
type Representations struct {
	order       []string
	m           map[string]RenderFunc
	defaultType string
}

// NewRepresentations returns an empty registry.
func NewRepresentations() *Representations {
	return &Representations{m: map[string]RenderFunc{}}
}

// DefaultRepresentations returns a registry with application/json registered
// and designated default.
func DefaultRepresentations() *Representations {
	r := NewRepresentations()
	r.Register(MediaTypeJSON, JSONRenderer)
	r.SetDefault(MediaTypeJSON)
	return r
}

// Register adds or replaces a renderer. Re-registering a media type keeps its
// original position.
func (r *Representations) Register(mediaType string, fn RenderFunc) *Representations {
	if _, ok := r.m[mediaType]; !ok {
		r.order = append(r.order, mediaType)
	}
	r.m[mediaType] = fn
	return r
}

// SetDefault designates the media type served when no Accept header is
// supplied. Exactly one may be default; the empty string clears it.
func (r *Representations) SetDefault(mediaType string) *Representations {
	r.defaultType = mediaType
	return r
}

// DefaultMediaType returns the designated default, empty when unset.
func (r *Representations) DefaultMediaType() string { return r.defaultType }

// MediaTypes returns the registered media types in registration order.
func (r *Representations) MediaTypes() []string {
	return append([]string(nil), r.order...)
}

// Renderer returns the renderer registered for a media type.
func (r *Representations) Renderer(mediaType string) (RenderFunc, bool) {
	fn, ok := r.m[mediaType]
	return fn, ok
}

// Negotiate selects the representation for a client Accept header.
//
// An absent header serves the default media type when one is configured
// (a configured-but-unregistered default is a server fault), else the
// first-registered representation. A present header is matched entry by
// entry, ranked by quality then specificity then original header order; a
// q=0 entry vetoes its range even against wildcard matches. When several
// registered types satisfy the winning entry, the earliest registered wins.
// A present header that matches nothing is ErrNotAcceptable even when a
// default is configured: an explicit client preference is never overridden.
func (r *Representations) Negotiate(acceptHeader string) (string, error) {
	if len(r.order) == 0 {
		return "", ErrNotAcceptable
	}
	header := strings.TrimSpace(acceptHeader)
	if header == "" {
		if r.defaultType != "" {
			if _, ok := r.m[r.defaultType]; !ok {
				return "", &RepresentationMisconfiguredError{MediaType: r.defaultType}
			}
			return r.defaultType, nil
		}
		return r.order[0], nil
	}

	entries := ParseAccept(header)
	sorted := make([]AcceptEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Quality != sorted[j].Quality {
			return sorted[i].Quality > sorted[j].Quality
		}
		return sorted[i].Specificity > sorted[j].Specificity
	})

	for _, e := range sorted {
		if e.Quality == 0 {
			continue
		}
		for _, mt := range r.order {
			if e.Matches(mt) && !vetoed(mt, entries) {
				return mt, nil
			}
		}
	}
	return "", ErrNotAcceptable
}

// vetoed reports whether the most specific entry covering mt carries q=0.
func vetoed(mt string, entries []AcceptEntry) bool {
	best := -1
	for i, e := range entries {
		if !e.Matches(mt) {
			continue
		}
		if best == -1 || e.Specificity > entries[best].Specificity {
			best = i
		}
	}
	return best >= 0 && entries[best].Quality == 0
}

// JSONRenderer serializes payloads as compact JSON with a trailing newline.
func JSONRenderer(data any, status int, headers map[string]string) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// PrettyJSONRenderer serializes payloads as indented JSON, for debug setups.
func PrettyJSONRenderer(data any, status int, headers map[string]string) ([]byte, error) {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// YAMLRenderer serializes payloads as a YAML document.
func YAMLRenderer(data any, status int, headers map[string]string) ([]byte, error) {
	return yaml.Marshal(data)
}

// TextRenderer serializes payloads with their natural string form.
func TextRenderer(data any, status int, headers map[string]string) ([]byte, error) {
	return []byte(fmt.Sprint(data)), nil
}
