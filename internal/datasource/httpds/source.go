package httpds

import (
	"bytes"
	"context"
	"io"
)

// Source adapts a URL to datasource.Source.
type Source struct {
	Client *Client
	URL    string
}

// Open fetches the whole body and returns it as a reader.
func (s Source) Open(ctx context.Context) (io.ReadCloser, error) {
	b, err := s.Client.Fetch(ctx, s.URL)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
