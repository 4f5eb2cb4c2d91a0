// Package datasource resolves a source reference (URL or local path) to
// something that can be opened for reading.
package datasource

import (
	"context"
	"io"
	"strings"

	"banketl/internal/datasource/file"
	"banketl/internal/datasource/httpds"
)

// Source yields the raw bytes of one input document.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// IsURL reports whether ref is fetched over HTTP rather than read from disk.
func IsURL(ref string) bool {
	r := strings.ToLower(strings.TrimSpace(ref))
	return strings.HasPrefix(r, "http://") || strings.HasPrefix(r, "https://")
}

// For returns an HTTP source for http(s) references and a local file source
// for everything else.
func For(ref string, client *httpds.Client) Source {
	if IsURL(ref) {
		return httpds.Source{Client: client, URL: strings.TrimSpace(ref)}
	}
	return file.NewLocal(ref)
}
