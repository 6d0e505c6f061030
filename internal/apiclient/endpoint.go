package apiclient

import (
	"net/url"
	"strings"

	"github.com/iliyamo/cinema-booking-web/internal/cache"
)

// Params are path template values, e.g. {"id": "5"} for "/movies/{id}".
type Params map[string]string

// Endpoint declares one backend operation.  Provides lists the tags a
// successful GET is cached under; Invalidates lists the tags a successful
// call drops.  NoCache disables caching for real-time reads such as seat
// availability.  Shared endpoints are cached once for all callers;
// otherwise the cache key includes the caller's token.
type Endpoint struct {
	Name        string
	Method      string
	Path        string
	Provides    func(Params) []cache.Tag
	Invalidates func(Params) []cache.Tag
	NoCache     bool
	Shared      bool
}

// Call carries the inputs and output of one invocation.  RawQuery, when
// set, is sent as-is and takes precedence over Query.
type Call struct {
	Params   Params
	Query    url.Values
	RawQuery string
	Body     any
	Out      any
}

// expand substitutes {name} placeholders with escaped param values.
func expand(path string, p Params) string {
	if !strings.Contains(path, "{") {
		return path
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(path, '{')
		if i < 0 {
			b.WriteString(path)
			break
		}
		j := strings.IndexByte(path[i:], '}')
		if j < 0 {
			b.WriteString(path)
			break
		}
		b.WriteString(path[:i])
		b.WriteString(url.PathEscape(p[path[i+1:i+j]]))
		path = path[i+j+1:]
	}
	return b.String()
}

func tags(fn func(Params) []cache.Tag, p Params) []cache.Tag {
	if fn == nil {
		return nil
	}
	return fn(p)
}

// Tag helpers used by the endpoint tables.

func listOf(resource string) func(Params) []cache.Tag {
	return func(Params) []cache.Tag { return []cache.Tag{cache.ListTag(resource)} }
}

func itemOf(resource string) func(Params) []cache.Tag {
	return func(p Params) []cache.Tag { return []cache.Tag{cache.IDTag(resource, p["id"])} }
}

func mutationOf(resource string) func(Params) []cache.Tag {
	return func(p Params) []cache.Tag { return cache.MutationTags(resource, p["id"]) }
}

func union(fns ...func(Params) []cache.Tag) func(Params) []cache.Tag {
	return func(p Params) []cache.Tag {
		var out []cache.Tag
		for _, fn := range fns {
			out = append(out, fn(p)...)
		}
		return out
	}
}
