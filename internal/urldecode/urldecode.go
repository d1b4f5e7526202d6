package urldecode

import (
	"net/url"
	"strings"
)

// Query maps a query parameter name to its value. Repeated keys keep the
// last value seen.
type Query map[string]string

// Get returns the value for key, or "" when the key is absent.
func (q Query) Get(key string) string {
	return q[key]
}

// Has reports whether key was present in the query string, even without a value.
func (q Query) Has(key string) bool {
	_, ok := q[key]
	return ok
}

// Decode splits target at the first '?' and decodes both halves.
func Decode(target string) (string, Query) {
	rawPath, rawQuery, _ := strings.Cut(target, "?")
	return decodePath(target, rawPath), ParseQuery(rawQuery)
}

// ParseQuery parses "a=1&b=2" into a Query. Each '&'-separated segment is
// split at its first '='; segments whose key or value cannot be unescaped
// are skipped.
func ParseQuery(rawQuery string) Query {
	query := Query{}

	for _, segment := range strings.Split(rawQuery, "&") {
		if segment == "" {
			continue
		}

		rawKey, rawValue, _ := strings.Cut(segment, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			continue
		}

		query[key] = value
	}

	return query
}

func decodePath(target, rawPath string) string {
	if u, err := url.ParseRequestURI(target); err == nil && u.Opaque == "" {
		if u.Path != "" {
			return u.Path
		}
		if u.Host == "" {
			return rawPath
		}
		return "/"
	}

	if p, err := url.PathUnescape(rawPath); err == nil {
		return p
	}

	return rawPath
}
