package table

import (
	"strings"

	"propscope/domain/core"
)

// Resolve matches a logical column name against the literal headers of a
// loaded table. Both sides are compared after trimming whitespace and
// lower-casing. Exact matches win; failing that, the first header whose
// normalized form contains the normalized logical name is returned.
// Headers are scanned in original order in both phases, so the first
// occurrence wins when several headers normalize identically.
//
// Punctuation is not bridged: "zip_code" does not resolve to
// "zipcode_full". That is a known limitation of substring fallback, kept
// deliberately so resolution stays predictable.
func Resolve(headers []string, wanted string) (string, bool) {
	want := normalize(wanted)
	for _, h := range headers {
		if normalize(h) == want {
			return h, true
		}
	}
	for _, h := range headers {
		if strings.Contains(normalize(h), want) {
			return h, true
		}
	}
	return "", false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Mapping records how logical column names resolved against a header
// set. It is built once at load time and never changes for the life of
// the frame. Absent entries mean the feature depending on that column is
// unavailable for this table, never that the run should abort.
type Mapping map[string]string

// NewMapping resolves every logical name against the header set.
// Unresolved names are simply absent from the mapping.
func NewMapping(headers []string, logical []string) Mapping {
	m := make(Mapping, len(logical))
	for _, want := range logical {
		if actual, ok := Resolve(headers, want); ok {
			m[want] = actual
		}
	}
	return m
}

// Lookup returns the actual header for a logical name.
func (m Mapping) Lookup(logical string) (string, bool) {
	actual, ok := m[logical]
	return actual, ok
}

// Require returns the actual header or a column-not-found error.
func (m Mapping) Require(logical string) (string, error) {
	actual, ok := m[logical]
	if !ok {
		return "", core.NewColumnNotFoundError(logical)
	}
	return actual, nil
}

// Has reports whether every given logical name resolved.
func (m Mapping) Has(logical ...string) bool {
	for _, name := range logical {
		if _, ok := m[name]; !ok {
			return false
		}
	}
	return true
}
