package apiclient

import (
	"maps"
	"net/http"
)

// Request describes one outbound API call.
type Request struct {
	Method string
	// Path is joined to the client's base URL unless URI is set.
	Path string
	// URI is an absolute endpoint that overrides BaseURL+Path.
	URI     string
	Query   map[string]any
	Body    map[string]any
	Headers map[string]string
}

// TransportRequest is the fully resolved request handed to a Transport.
// Body is nil when the caller supplied no body fields.
type TransportRequest struct {
	Method string
	URL    string
	Header http.Header
	Query  map[string]any
	Body   map[string]any
}

// clone copies the query and body maps so pagination can mutate them per page.
func (r Request) clone() Request {
	out := r
	out.Query = maps.Clone(r.Query)
	out.Body = maps.Clone(r.Body)

	if out.Query == nil {
		out.Query = map[string]any{}
	}

	if out.Body == nil {
		out.Body = map[string]any{}
	}

	return out
}
