package language

import (
	"sort"

	"golang.org/x/text/collate"
	xlanguage "golang.org/x/text/language"
)

// Registry answers whether a language code is known to the system.
type Registry interface {
	IsRecognized(code string) bool
}

type registry struct {
	extra map[string]struct{}
}

var defaultRegistry = &registry{}

// Default returns the registry backed by the static language table.
func Default() Registry {
	return defaultRegistry
}

// NewRegistry returns a registry that recognizes the static table plus the
// supplied extra codes. Extra codes match case-insensitively.
func NewRegistry(extra ...string) Registry {
	if len(extra) == 0 {
		return defaultRegistry
	}
	r := &registry{extra: make(map[string]struct{}, len(extra))}
	for _, code := range extra {
		code = normalizeCode(code)
		if code == "" {
			continue
		}
		r.extra[code] = struct{}{}
	}
	return r
}

// IsRecognized reports whether code names a known language. Regional and
// script tags are recognized when their base language is.
func (r *registry) IsRecognized(code string) bool {
	code = normalizeCode(code)
	if code == "" {
		return false
	}
	if r.known(code) {
		return true
	}
	base := baseCode(code)
	if base == "" || base == code {
		return false
	}
	return r.known(base)
}

func (r *registry) known(code string) bool {
	if lookup(code) != nil {
		return true
	}
	_, ok := r.extra[code]
	return ok
}

// RegistryFunc adapts a plain function to the Registry interface.
type RegistryFunc func(code string) bool

// IsRecognized calls f(code).
func (f RegistryFunc) IsRecognized(code string) bool { return f(code) }

// SortByDisplayName orders codes by their English display name using CLDR
// collation. Codes with equal names keep their input order.
func SortByDisplayName(codes []string) {
	c := collate.New(xlanguage.English, collate.IgnoreCase)
	sort.SliceStable(codes, func(i, j int) bool {
		return c.CompareString(DisplayName(codes[i]), DisplayName(codes[j])) < 0
	})
}
