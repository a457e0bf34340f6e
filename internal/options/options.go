// Package options provides the resolved option set shared by all redphone
// commands and the declarative validation rules applied to it.
package options

import "maps"

// Option identifies a single command option. Config file keys, environment
// variables, and CLI flags all normalize to these names before merging.
type Option string

// Options recognized by the incident commands.
const (
	Client      Option = "client"
	ClientURL   Option = "client_url"
	ServiceKey  Option = "service_key"
	Subdomain   Option = "subdomain"
	IncidentKey Option = "incident_key"
	Details     Option = "details"
	Description Option = "description"
)

// Known returns every option name the incident commands understand.
func Known() []Option {
	return []Option{
		Client,
		ClientURL,
		ServiceKey,
		Subdomain,
		IncidentKey,
		Details,
		Description,
	}
}

// Set maps option names to their resolved values. Values are strings for
// scalar options and map[string]any for structured ones (details). An absent
// key means the option was never supplied by any source.
type Set map[Option]any

// Get returns the raw value for an option.
func (s Set) Get(opt Option) (any, bool) {
	v, ok := s[opt]

	return v, ok
}

// String returns the value for an option as a string. The second return is
// false when the option is absent or not a string.
func (s Set) String(opt Option) (string, bool) {
	v, ok := s[opt]
	if !ok {
		return "", false
	}

	str, ok := v.(string)

	return str, ok
}

// Map returns the value for an option as a structured map. The second return
// is false when the option is absent or not a map.
func (s Set) Map(opt Option) (map[string]any, bool) {
	v, ok := s[opt]
	if !ok {
		return nil, false
	}

	m, ok := v.(map[string]any)

	return m, ok
}

// Has reports whether the option is present with a non-nil value.
func (s Set) Has(opt Option) bool {
	v, ok := s[opt]

	return ok && v != nil
}

// Merge returns a new Set containing s overlaid with overlay. Overlay values
// win on key conflicts; nil overlay values are ignored so an unset source
// never erases a lower-precedence value.
func (s Set) Merge(overlay Set) Set {
	merged := make(Set, len(s)+len(overlay))
	maps.Copy(merged, s)

	for opt, v := range overlay {
		if v == nil {
			continue
		}

		merged[opt] = v
	}

	return merged
}

// Clone returns a shallow copy of the set.
func (s Set) Clone() Set {
	return maps.Clone(s)
}
